// Package valuation prices free agents for auction. Valuations are pure
// functions of player attributes and the reference budget: recomputing is
// idempotent and nothing is persisted.
package valuation

import (
	"strings"

	"github.com/ootpx/auctioneer/core"
)

const (
	// DefaultReferenceBudget is the budget ($M) valuations are scaled
	// against when the caller has no league-specific figure.
	DefaultReferenceBudget = 100.0

	// budgetShareAtTopScore maps a perfect skill score onto this fraction
	// of the reference budget.
	budgetShareAtTopScore = 0.20

	// suggestedPriceFloor is the minimum suggested price ($M) so every
	// player has a nonzero ask.
	suggestedPriceFloor = 0.5

	// overbidFactor bounds what a rational aggressive bidder would pay
	// above the suggested price.
	overbidFactor = 1.2

	// startingPriceFraction of the suggested price opens the bidding.
	startingPriceFraction = 0.35
)

// positionScarcity holds per-position demand multipliers. Premium up-the-middle
// positions and starting pitching run above 1.0; corner and relief roles below.
var positionScarcity = map[string]float64{
	"C":  1.15,
	"SS": 1.12,
	"CF": 1.10,
	"SP": 1.08,
	"2B": 1.05,
	"3B": 1.05,
	"RP": 0.95,
	"CL": 0.95, // closers priced as relievers
	"LF": 0.95,
	"RF": 0.95,
	"1B": 0.90,
	"DH": 0.85,
}

// Valuation is the priced view of one player. All amounts are in millions.
type Valuation struct {
	BaseValue          float64 `json:"base_value"`
	PositionAdjusted   float64 `json:"position_adjusted"`
	AgeAdjusted        float64 `json:"age_adjusted"`
	SuggestedPrice     float64 `json:"suggested_price"`
	MaxPrice           float64 `json:"max_price"`
	Score              float64 `json:"score"`
	PositionMultiplier float64 `json:"position_multiplier"`
	AgeMultiplier      float64 `json:"age_multiplier"`
}

// PositionScarcity returns the demand multiplier for a position.
// Unknown or missing positions fall back to a neutral 1.0.
func PositionScarcity(position string) float64 {
	pos := strings.ToUpper(strings.TrimSpace(position))
	if m, ok := positionScarcity[pos]; ok {
		return m
	}
	return 1.0
}

// AgeMultiplier returns the bucketed age multiplier: higher for younger
// players, tapering below 1.0 past the early thirties. Non-positive ages
// (missing data) fall back to the neutral prime bucket.
func AgeMultiplier(age int) float64 {
	switch {
	case age <= 0:
		return 1.0
	case age <= 23:
		return 1.3
	case age <= 25:
		return 1.15
	case age <= 27:
		return 1.0
	case age <= 29:
		return 0.85
	case age <= 32:
		return 0.6
	default:
		return 0.4
	}
}

// Value computes the full valuation for a player against a reference budget.
// A non-positive referenceBudget falls back to DefaultReferenceBudget.
//
// Steps, in order: score maps linearly onto a fixed fraction of the budget,
// then position-scarcity and age multipliers apply, then the suggested price
// is floored and the max price derived from it.
func Value(player core.Player, referenceBudget float64) Valuation {
	if referenceBudget <= 0 {
		referenceBudget = DefaultReferenceBudget
	}

	score := clampScore(player.Score)

	baseValue := core.MulPrice(referenceBudget*budgetShareAtTopScore, score/100.0)

	posMultiplier := PositionScarcity(player.Position)
	positionAdjusted := core.MulPrice(baseValue, posMultiplier)

	ageMultiplier := AgeMultiplier(player.Age)
	ageAdjusted := core.MulPrice(positionAdjusted, ageMultiplier)

	suggested := ageAdjusted
	if !core.PriceMeets(suggested, suggestedPriceFloor) {
		suggested = suggestedPriceFloor
	}

	return Valuation{
		BaseValue:          baseValue,
		PositionAdjusted:   positionAdjusted,
		AgeAdjusted:        ageAdjusted,
		SuggestedPrice:     suggested,
		MaxPrice:           core.MulPrice(suggested, overbidFactor),
		Score:              score,
		PositionMultiplier: posMultiplier,
		AgeMultiplier:      ageMultiplier,
	}
}

// ValueAll computes valuations for every named player, keyed by player name.
// Players without a name are skipped.
func ValueAll(players []core.Player, referenceBudget float64) map[string]Valuation {
	valuations := make(map[string]Valuation, len(players))
	for _, p := range players {
		if p.Name == "" {
			continue
		}
		valuations[p.Name] = Value(p, referenceBudget)
	}
	return valuations
}

// StartingPrice derives the opening ask from a valuation, typically about a
// third of the suggested price, never below the suggested-price floor.
func StartingPrice(v Valuation) float64 {
	start := core.MulPrice(v.SuggestedPrice, startingPriceFraction)
	if !core.PriceMeets(start, suggestedPriceFloor) {
		return suggestedPriceFloor
	}
	return start
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
