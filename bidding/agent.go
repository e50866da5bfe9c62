package bidding

import (
	"strings"

	"github.com/ootpx/auctioneer/budget"
	"github.com/ootpx/auctioneer/core"
	"github.com/ootpx/auctioneer/valuation"
)

const (
	// eliteScoreCutoff marks players whose score earns the elite ceiling
	// boost for strategies that carry one.
	eliteScoreCutoff = 75.0
	eliteBoostFactor = 1.1

	// needStepPct grows the bid ceiling per unfilled slot at a position,
	// capped at needCapPct.
	needStepPct = 0.05
	needCapPct  = 1.25

	// bargainFraction of the suggested price is the most an agent pays for
	// a position it no longer needs.
	bargainFraction = 0.5

	// maxBudgetShare caps any single bid at this fraction of the agent's
	// remaining budget.
	maxBudgetShare = 0.4

	// hesitationPct is the chance (out of 100) that an agent sits out a
	// round it would otherwise bid in, so automated pools don't move in
	// lockstep.
	hesitationPct = 10
)

// defaultPositionNeeds is the target roster shape a fresh agent tries to
// fill. Closers count against the relief pitching need.
func defaultPositionNeeds() map[string]int {
	return map[string]int{
		"SP": 5,
		"RP": 7,
		"C":  2,
		"1B": 1,
		"2B": 1,
		"3B": 1,
		"SS": 1,
		"LF": 1,
		"CF": 1,
		"RF": 1,
		"DH": 1,
	}
}

// Agent is one automated bidder: a team, a strategy, and a running count of
// which positions it still needs. It reads valuations and consults the
// ledger for affordability; it mutates the ledger only through
// RecordAcquisition.
type Agent struct {
	team          string
	strategy      Strategy
	ledger        *budget.Ledger
	valuations    map[string]valuation.Valuation
	positionNeeds map[string]int
	rand          core.RandSource
	minIncrement  float64
}

// NewAgent creates an automated bidder. A nil rand falls back to the
// crypto-backed default; tests inject a seeded source for determinism.
func NewAgent(team string, strategy Strategy, ledger *budget.Ledger, valuations map[string]valuation.Valuation, rand core.RandSource) *Agent {
	if rand == nil {
		rand = core.DefaultRandSource
	}
	return &Agent{
		team:          team,
		strategy:      strategy,
		ledger:        ledger,
		valuations:    valuations,
		positionNeeds: defaultPositionNeeds(),
		rand:          rand,
		minIncrement:  core.DefaultMinIncrement,
	}
}

// Team returns the team this agent bids for.
func (a *Agent) Team() string { return a.team }

// Strategy returns the agent's strategy table.
func (a *Agent) Strategy() Strategy { return a.strategy }

// PositionNeed returns how many more players the agent wants at a position.
func (a *Agent) PositionNeed(position string) int {
	return a.positionNeeds[normalizePosition(position)]
}

// ShouldBid decides whether the agent wants to top the current price for a
// player. It declines when no valuation exists, when the player is below the
// strategy's quality bar, when the position need is filled and the price is
// no longer a deep bargain, or occasionally at random.
func (a *Agent) ShouldBid(player core.Player, currentPrice float64) bool {
	val, ok := a.valuations[player.Name]
	if !ok {
		return false
	}

	if val.Score < a.strategy.QualityThreshold {
		return false
	}

	if a.PositionNeed(player.Position) <= 0 {
		bargainCeiling := core.MulPrice(val.SuggestedPrice, bargainFraction)
		if !core.PriceMeets(bargainCeiling, currentPrice) {
			return false
		}
	}

	nextBid := core.AddPrice(currentPrice, a.minIncrement)
	if !core.PriceMeets(a.CalculateMaxBid(player), nextBid) {
		return false
	}

	if rej := a.ledger.ValidateBid(a.team, nextBid); rej != nil {
		return false
	}

	// Hesitation: sometimes pass even when all conditions are met.
	if a.rand.Intn(100) < hesitationPct {
		return false
	}

	return true
}

// CalculateMaxBid returns the most the agent would pay for a player:
// suggested price scaled by the strategy ceiling, the position-need
// multiplier, and the elite boost, capped at a fixed share of the agent's
// remaining budget. Returns 0 when the player has no valuation.
func (a *Agent) CalculateMaxBid(player core.Player) float64 {
	val, ok := a.valuations[player.Name]
	if !ok {
		return 0
	}

	maxBid := core.MulPrice(val.SuggestedPrice, a.strategy.MaxValuationPct)

	if need := a.PositionNeed(player.Position); need > 0 {
		multiplier := 1.0 + float64(need)*needStepPct
		if multiplier > needCapPct {
			multiplier = needCapPct
		}
		maxBid = core.MulPrice(maxBid, multiplier)
	}

	if a.strategy.EliteBoost && val.Score >= eliteScoreCutoff {
		maxBid = core.MulPrice(maxBid, eliteBoostFactor)
	}

	budgetCap := core.MulPrice(a.ledger.RemainingBudget(a.team), maxBudgetShare)
	return core.MinPrice(maxBid, budgetCap)
}

// NextBid returns the agent's counter-offer (current price plus the minimum
// increment) and true, or 0 and false when the agent declines.
func (a *Agent) NextBid(player core.Player, currentPrice float64) (float64, bool) {
	if !a.ShouldBid(player, currentPrice) {
		return 0, false
	}

	nextBid := core.AddPrice(currentPrice, a.minIncrement)
	if !core.PriceMeets(a.CalculateMaxBid(player), nextBid) {
		return 0, false
	}
	if rej := a.ledger.ValidateBid(a.team, nextBid); rej != nil {
		return 0, false
	}

	return nextBid, true
}

// RecordAcquisition marks a won player: the matching position need shrinks
// and the sale is forwarded to the ledger. The engine calls this exactly
// once per automated sale in place of recording on the ledger directly.
func (a *Agent) RecordAcquisition(player core.Player, price float64) {
	pos := normalizePosition(player.Position)
	if need, ok := a.positionNeeds[pos]; ok && need > 0 {
		a.positionNeeds[pos] = need - 1
	}
	a.ledger.RecordAcquisition(a.team, player, price)
}

// needs copies the agent's position-need counters (for session snapshots).
func (a *Agent) needs() map[string]int {
	needs := make(map[string]int, len(a.positionNeeds))
	for pos, n := range a.positionNeeds {
		needs[pos] = n
	}
	return needs
}

// restoreNeeds replaces the agent's position-need counters.
func (a *Agent) restoreNeeds(needs map[string]int) {
	a.positionNeeds = defaultPositionNeeds()
	for pos, n := range needs {
		a.positionNeeds[normalizePosition(pos)] = n
	}
}

func normalizePosition(position string) string {
	pos := strings.ToUpper(strings.TrimSpace(position))
	if pos == "CL" {
		pos = "RP"
	}
	return pos
}
