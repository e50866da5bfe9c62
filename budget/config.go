// Package budget tracks per-team auction finances: starting budgets, spend,
// roster counts, and the affordability rules that gate bidding.
package budget

import (
	"encoding/json"
	"fmt"
	"os"
)

// Default league rules applied by DefaultConfig.
const (
	DefaultMinSpendPct   = 0.75
	DefaultMinRosterSize = 18
	DefaultMaxRosterSize = 25
)

// Config holds team budgets and league-wide rules. It is immutable once an
// auction session starts; the ledger takes its own view of it at creation.
type Config struct {
	// TeamBudgets maps team name to starting budget in millions.
	TeamBudgets map[string]float64 `json:"team_budgets"`

	// MinSpendPct is the fraction of its budget a team must spend by the
	// end of the auction. Compliance is reported, not enforced mid-session.
	MinSpendPct float64 `json:"min_spend_percentage"`

	MinRosterSize int `json:"min_roster_size"`
	MaxRosterSize int `json:"max_roster_size"`
}

// DefaultConfig builds a config with the same budget for every team and the
// default league rules.
func DefaultConfig(teams []string, budgetPerTeam float64) Config {
	teamBudgets := make(map[string]float64, len(teams))
	for _, team := range teams {
		teamBudgets[team] = budgetPerTeam
	}
	return Config{
		TeamBudgets:   teamBudgets,
		MinSpendPct:   DefaultMinSpendPct,
		MinRosterSize: DefaultMinRosterSize,
		MaxRosterSize: DefaultMaxRosterSize,
	}
}

// Validate checks the configuration eagerly, before any session starts.
// Malformed configurations are configuration errors, not domain rejections.
func (c Config) Validate() error {
	if len(c.TeamBudgets) == 0 {
		return fmt.Errorf("budget config has no teams")
	}
	for team, amount := range c.TeamBudgets {
		if team == "" {
			return fmt.Errorf("budget config has an unnamed team")
		}
		if amount <= 0 {
			return fmt.Errorf("team %s has non-positive budget %.2f", team, amount)
		}
	}
	if c.MinSpendPct < 0 || c.MinSpendPct > 1 {
		return fmt.Errorf("min spend percentage %.2f outside [0, 1]", c.MinSpendPct)
	}
	if c.MinRosterSize < 1 {
		return fmt.Errorf("min roster size %d must be at least 1", c.MinRosterSize)
	}
	if c.MaxRosterSize < c.MinRosterSize {
		return fmt.Errorf("max roster size %d below min roster size %d", c.MaxRosterSize, c.MinRosterSize)
	}
	return nil
}

// LoadConfig reads and validates a budget configuration from a JSON file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read budget config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse budget config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid budget config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to a JSON file.
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal budget config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write budget config: %w", err)
	}
	return nil
}
