package budget

import (
	"fmt"
	"sort"

	"github.com/ootpx/auctioneer/core"
)

// DefaultReservePerSlot is the budget ($M) a team must keep unspent for
// each roster spot it still has to fill beyond the one being bid on.
const DefaultReservePerSlot = 1.0

// Acquisition records one confirmed purchase.
type Acquisition struct {
	Player core.Player `json:"player"`
	Price  float64     `json:"price"`
}

// TeamSummary is a read-only snapshot of one team's auction standing.
type TeamSummary struct {
	Team                 string        `json:"team"`
	StartingBudget       float64       `json:"starting_budget"`
	Spent                float64       `json:"spent"`
	Remaining            float64       `json:"remaining"`
	RosterSize           int           `json:"roster_size"`
	RosterSpotsRemaining int           `json:"roster_spots_remaining"`
	MeetsMinSpend        bool          `json:"meets_min_spend"`
	MeetsMinRoster       bool          `json:"meets_min_roster"`
	Acquisitions         []Acquisition `json:"acquisitions"`
}

// Ledger tracks per-team budget state for one auction session. All mutation
// is confined to RecordAcquisition; every other method is a pure read.
type Ledger struct {
	config         Config
	reservePerSlot float64
	spent          map[string]float64
	rosterSizes    map[string]int
	acquired       map[string][]Acquisition
}

// NewLedger validates the configuration and creates a fresh ledger with no
// spend and empty rosters.
func NewLedger(cfg Config) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	l := &Ledger{
		config:         cfg,
		reservePerSlot: DefaultReservePerSlot,
		spent:          make(map[string]float64, len(cfg.TeamBudgets)),
		rosterSizes:    make(map[string]int, len(cfg.TeamBudgets)),
		acquired:       make(map[string][]Acquisition, len(cfg.TeamBudgets)),
	}
	for team := range cfg.TeamBudgets {
		l.spent[team] = 0
		l.rosterSizes[team] = 0
		l.acquired[team] = nil
	}
	return l, nil
}

// Config returns the configuration the ledger was created with.
func (l *Ledger) Config() Config { return l.config }

// Teams returns the configured team names in sorted order.
func (l *Ledger) Teams() []string {
	teams := make([]string, 0, len(l.config.TeamBudgets))
	for team := range l.config.TeamBudgets {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	return teams
}

// HasTeam reports whether a team is part of the budget configuration.
func (l *Ledger) HasTeam(team string) bool {
	_, ok := l.config.TeamBudgets[team]
	return ok
}

// RemainingBudget returns startingBudget - spent for a team, or 0 for an
// unknown team.
func (l *Ledger) RemainingBudget(team string) float64 {
	return core.SubPrice(l.config.TeamBudgets[team], l.spent[team])
}

// RosterSize returns the number of players a team has acquired this session.
func (l *Ledger) RosterSize(team string) int {
	return l.rosterSizes[team]
}

// RosterSpotsRemaining returns how many more players a team may acquire.
func (l *Ledger) RosterSpotsRemaining(team string) int {
	return l.config.MaxRosterSize - l.rosterSizes[team]
}

// reserve is the budget a team must keep unspent so it can still fill its
// minimum roster after winning the current player.
func (l *Ledger) reserve(team string) float64 {
	slotsOwed := l.config.MinRosterSize - l.rosterSizes[team] - 1
	if slotsOwed < 0 {
		slotsOwed = 0
	}
	return core.MulPrice(l.reservePerSlot, float64(slotsOwed))
}

// CanAffordBid reports whether a bid fits within the team's remaining budget
// after holding back the minimum-roster reserve.
func (l *Ledger) CanAffordBid(team string, amount float64) bool {
	headroom := core.SubPrice(l.RemainingBudget(team), l.reserve(team))
	return core.PriceMeets(headroom, amount)
}

// CanAddPlayer reports whether a team has an open roster spot.
func (l *Ledger) CanAddPlayer(team string) bool {
	return l.rosterSizes[team] < l.config.MaxRosterSize
}

// ValidateBid checks whether a team may bid the given amount. A nil return
// means the bid is allowed; otherwise the rejection explains why, in terms
// a human bidder can act on.
func (l *Ledger) ValidateBid(team string, amount float64) *core.Rejection {
	if !l.HasTeam(team) {
		return &core.Rejection{
			Reason:  core.RejectUnknownTeam,
			Message: fmt.Sprintf("team %s not found in budget configuration", team),
		}
	}

	if !l.CanAddPlayer(team) {
		return &core.Rejection{
			Reason:  core.RejectRosterFull,
			Message: fmt.Sprintf("team %s has reached maximum roster size (%d)", team, l.config.MaxRosterSize),
		}
	}

	if !l.CanAffordBid(team, amount) {
		slotsOwed := l.config.MinRosterSize - l.rosterSizes[team]
		return &core.Rejection{
			Reason: core.RejectInsufficientBudget,
			Message: fmt.Sprintf("team %s cannot afford $%.1fM ($%.1fM available, must reserve for %d more players)",
				team, amount, l.RemainingBudget(team), slotsOwed),
		}
	}

	return nil
}

// RecordAcquisition books a confirmed sale: spend and roster size increase
// and the acquisition is appended. Call exactly once per sale, after the
// auction engine has resolved a winner; never speculatively.
func (l *Ledger) RecordAcquisition(team string, player core.Player, price float64) {
	l.spent[team] = core.AddPrice(l.spent[team], price)
	l.rosterSizes[team]++
	l.acquired[team] = append(l.acquired[team], Acquisition{Player: player, Price: price})
}

// MeetsMinimumSpend reports whether a team has spent its required fraction
// of budget. A post-hoc compliance check for end-of-auction reporting; it
// does not block bidding during the session.
func (l *Ledger) MeetsMinimumSpend(team string) bool {
	required := core.MulPrice(l.config.TeamBudgets[team], l.config.MinSpendPct)
	return core.PriceMeets(l.spent[team], required)
}

// MeetsMinimumRoster reports whether a team has filled its minimum roster.
func (l *Ledger) MeetsMinimumRoster(team string) bool {
	return l.rosterSizes[team] >= l.config.MinRosterSize
}

// Summary returns a read-only snapshot of one team's standing.
func (l *Ledger) Summary(team string) TeamSummary {
	acquisitions := make([]Acquisition, len(l.acquired[team]))
	copy(acquisitions, l.acquired[team])

	return TeamSummary{
		Team:                 team,
		StartingBudget:       l.config.TeamBudgets[team],
		Spent:                l.spent[team],
		Remaining:            l.RemainingBudget(team),
		RosterSize:           l.rosterSizes[team],
		RosterSpotsRemaining: l.RosterSpotsRemaining(team),
		MeetsMinSpend:        l.MeetsMinimumSpend(team),
		MeetsMinRoster:       l.MeetsMinimumRoster(team),
		Acquisitions:         acquisitions,
	}
}

// AllSummaries returns snapshots for every configured team, sorted by name.
func (l *Ledger) AllSummaries() []TeamSummary {
	teams := l.Teams()
	summaries := make([]TeamSummary, 0, len(teams))
	for _, team := range teams {
		summaries = append(summaries, l.Summary(team))
	}
	return summaries
}

// State is the mutable portion of a ledger, exported for session snapshots.
type State struct {
	Spent       map[string]float64       `cbor:"spent" json:"spent"`
	RosterSizes map[string]int           `cbor:"roster_sizes" json:"roster_sizes"`
	Acquired    map[string][]Acquisition `cbor:"acquired" json:"acquired"`
}

// State copies out the ledger's mutable state.
func (l *Ledger) State() State {
	s := State{
		Spent:       make(map[string]float64, len(l.spent)),
		RosterSizes: make(map[string]int, len(l.rosterSizes)),
		Acquired:    make(map[string][]Acquisition, len(l.acquired)),
	}
	for team, v := range l.spent {
		s.Spent[team] = v
	}
	for team, v := range l.rosterSizes {
		s.RosterSizes[team] = v
	}
	for team, v := range l.acquired {
		acquisitions := make([]Acquisition, len(v))
		copy(acquisitions, v)
		s.Acquired[team] = acquisitions
	}
	return s
}

// Restore replaces the ledger's mutable state from a snapshot. Teams not
// present in the snapshot keep zero state.
func (l *Ledger) Restore(s State) {
	for team := range l.config.TeamBudgets {
		l.spent[team] = s.Spent[team]
		l.rosterSizes[team] = s.RosterSizes[team]
		acquisitions := make([]Acquisition, len(s.Acquired[team]))
		copy(acquisitions, s.Acquired[team])
		l.acquired[team] = acquisitions
	}
}
