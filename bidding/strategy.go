// Package bidding implements the automated bidders that compete with human
// teams during an auction session.
package bidding

// Strategy is a closed parameter table describing how an automated bidder
// behaves. It is plain data, not behavior: the agent interprets it.
type Strategy struct {
	// Name identifies the strategy in logs and summaries.
	Name string `json:"name"`

	// MaxValuationPct scales the suggested price into the agent's bid
	// ceiling (1.10 = willing to pay 10% over valuation).
	MaxValuationPct float64 `json:"max_valuation_pct"`

	// QualityThreshold is the minimum skill score the agent bids on at all.
	QualityThreshold float64 `json:"quality_threshold"`

	// EliteBoost extends the bid ceiling for elite players (score at or
	// above the elite cutoff).
	EliteBoost bool `json:"elite_boost"`
}

// The three stock strategies. Aggressive chases stars past valuation,
// balanced tracks valuation closely, conservative hunts discounts.
var (
	Aggressive   = Strategy{Name: "aggressive", MaxValuationPct: 1.10, QualityThreshold: 60, EliteBoost: true}
	Balanced     = Strategy{Name: "balanced", MaxValuationPct: 0.95, QualityThreshold: 45, EliteBoost: false}
	Conservative = Strategy{Name: "conservative", MaxValuationPct: 0.85, QualityThreshold: 40, EliteBoost: false}
)

// StrategyByName resolves a stock strategy from its name.
// Unknown names fall back to Balanced.
func StrategyByName(name string) Strategy {
	switch name {
	case Aggressive.Name:
		return Aggressive
	case Conservative.Name:
		return Conservative
	default:
		return Balanced
	}
}
