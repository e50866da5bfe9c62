package bidding

import (
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/ootpx/auctioneer/budget"
	"github.com/ootpx/auctioneer/core"
	"github.com/ootpx/auctioneer/valuation"
)

// neverHesitate makes every hesitation roll pass.
type neverHesitate struct{}

func (neverHesitate) Intn(n int) int { return n - 1 }

// alwaysHesitate makes every hesitation roll fail.
type alwaysHesitate struct{}

func (alwaysHesitate) Intn(int) int { return 0 }

func testLedger(t *testing.T, budgetPerTeam float64) *budget.Ledger {
	t.Helper()
	ledger, err := budget.NewLedger(budget.DefaultConfig([]string{"NYY", "BOS"}, budgetPerTeam))
	assert.NoError(t, err)
	return ledger
}

func testPlayers() []core.Player {
	return []core.Player{
		{Name: "Ace Starter", Position: "SP", Age: 27, Score: 70},
		{Name: "Elite Shortstop", Position: "SS", Age: 25, Score: 80},
		{Name: "Fringe Reliever", Position: "RP", Age: 31, Score: 30},
	}
}

func testValuations() map[string]valuation.Valuation {
	return valuation.ValueAll(testPlayers(), 100.0)
}

func TestShouldBid_QualityThreshold(t *testing.T) {
	// A bidder with quality threshold 55 never bids on a score-30 player,
	// regardless of current price.
	ledger := testLedger(t, 100.0)
	strategy := Strategy{Name: "picky", MaxValuationPct: 1.0, QualityThreshold: 55}
	agent := NewAgent("NYY", strategy, ledger, testValuations(), neverHesitate{})

	fringe := testPlayers()[2]
	for _, price := range []float64{0.5, 1.0, 0.01} {
		check.False(t, agent.ShouldBid(fringe, price))
	}
}

func TestShouldBid_NoValuation(t *testing.T) {
	ledger := testLedger(t, 100.0)
	agent := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})

	unknown := core.Player{Name: "Unlisted Guy", Position: "SP", Age: 26, Score: 90}
	check.False(t, agent.ShouldBid(unknown, 1.0))
	check.Equal(t, 0.0, agent.CalculateMaxBid(unknown))
}

func TestShouldBid_Hesitation(t *testing.T) {
	ledger := testLedger(t, 100.0)
	ace := testPlayers()[0]

	eager := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})
	check.True(t, eager.ShouldBid(ace, 5.0))

	hesitant := NewAgent("BOS", Balanced, ledger, testValuations(), alwaysHesitate{})
	check.False(t, hesitant.ShouldBid(ace, 5.0))
}

func TestShouldBid_PriceAboveCeiling(t *testing.T) {
	ledger := testLedger(t, 100.0)
	agent := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})
	ace := testPlayers()[0]

	maxBid := agent.CalculateMaxBid(ace)
	check.True(t, agent.ShouldBid(ace, maxBid-1.0))
	check.False(t, agent.ShouldBid(ace, maxBid)) // next bid would top the ceiling
}

func TestShouldBid_ExhaustedNeedRequiresBargain(t *testing.T) {
	ledger := testLedger(t, 100.0)
	agent := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})
	ace := testPlayers()[0] // suggested price 15.12

	agent.positionNeeds["SP"] = 0

	// Deep bargain (under half of suggested): still bids.
	check.True(t, agent.ShouldBid(ace, 5.0))
	// Past the bargain cutoff: passes.
	check.False(t, agent.ShouldBid(ace, 8.0))
}

func TestCalculateMaxBid_NeedMultiplier(t *testing.T) {
	ledger := testLedger(t, 100.0)
	strategy := Strategy{Name: "flat", MaxValuationPct: 1.0, QualityThreshold: 0}
	agent := NewAgent("NYY", strategy, ledger, testValuations(), neverHesitate{})
	ace := testPlayers()[0] // suggested 15.12, SP need 5

	// Need 5 caps the multiplier at 1.25.
	check.Equal(t, 18.9, agent.CalculateMaxBid(ace)) // 15.12 * 1.25

	agent.positionNeeds["SP"] = 2
	check.Equal(t, 16.63, agent.CalculateMaxBid(ace)) // 15.12 * 1.10

	agent.positionNeeds["SP"] = 0
	check.Equal(t, 15.12, agent.CalculateMaxBid(ace))
}

func TestCalculateMaxBid_EliteBoost(t *testing.T) {
	ledger := testLedger(t, 100.0)
	elite := testPlayers()[1] // score 80, above the elite cutoff

	aggressive := NewAgent("NYY", Aggressive, ledger, testValuations(), neverHesitate{})
	balanced := NewAgent("BOS", Balanced, ledger, testValuations(), neverHesitate{})

	val := testValuations()[elite.Name]
	// 1.25 need multiplier applies to both (SS need 1 -> 1.05).
	aggressiveBase := core.MulPrice(core.MulPrice(val.SuggestedPrice, Aggressive.MaxValuationPct), 1.05)
	expected := core.MulPrice(aggressiveBase, 1.1)
	check.Equal(t, expected, aggressive.CalculateMaxBid(elite))

	balancedExpected := core.MulPrice(core.MulPrice(val.SuggestedPrice, Balanced.MaxValuationPct), 1.05)
	check.Equal(t, balancedExpected, balanced.CalculateMaxBid(elite))
}

func TestCalculateMaxBid_BudgetShareCap(t *testing.T) {
	// No single bid exceeds 40% of the agent's remaining budget.
	ledger := testLedger(t, 20.0)
	agent := NewAgent("NYY", Aggressive, ledger, testValuations(), neverHesitate{})
	elite := testPlayers()[1]

	check.Equal(t, 8.0, agent.CalculateMaxBid(elite)) // 20.0 * 0.4
}

func TestNextBid(t *testing.T) {
	ledger := testLedger(t, 100.0)
	agent := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})
	ace := testPlayers()[0]

	amount, ok := agent.NextBid(ace, 5.0)
	assert.True(t, ok)
	check.Equal(t, 5.5, amount) // current price + minimum increment

	_, ok = agent.NextBid(ace, 100.0)
	check.False(t, ok)
}

func TestRecordAcquisition(t *testing.T) {
	ledger := testLedger(t, 100.0)
	agent := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})
	ace := testPlayers()[0]

	check.Equal(t, 5, agent.PositionNeed("SP"))

	agent.RecordAcquisition(ace, 10.0)

	check.Equal(t, 4, agent.PositionNeed("SP"))
	check.Equal(t, 90.0, ledger.RemainingBudget("NYY"))
	check.Equal(t, 1, ledger.RosterSize("NYY"))
}

func TestRecordAcquisition_ClosersCountAsRelievers(t *testing.T) {
	ledger := testLedger(t, 100.0)
	agent := NewAgent("NYY", Balanced, ledger, testValuations(), neverHesitate{})

	closer := core.Player{Name: "Closer", Position: "CL", Age: 29, Score: 60}
	before := agent.PositionNeed("RP")
	agent.RecordAcquisition(closer, 4.0)

	check.Equal(t, before-1, agent.PositionNeed("RP"))
	check.Equal(t, before-1, agent.PositionNeed("CL"))
}

func TestStrategyByName(t *testing.T) {
	check.Equal(t, Aggressive, StrategyByName("aggressive"))
	check.Equal(t, Balanced, StrategyByName("balanced"))
	check.Equal(t, Conservative, StrategyByName("conservative"))
	check.Equal(t, Balanced, StrategyByName("")) // unknown falls back
}
