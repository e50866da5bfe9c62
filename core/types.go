package core

import "time"

// Player is a read-only reference to a free agent up for auction.
// Player records are produced by the data-ingestion layer; the auction
// subsystem never mutates them. Score is a pre-computed composite skill
// rating on a 0-100 scale.
type Player struct {
	ID       string  `json:"id,omitempty"`
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Age      int     `json:"age"`
	Score    float64 `json:"score"`
}

// BidOrigin identifies whether a bid came from a human or an automated bidder.
type BidOrigin string

const (
	OriginHuman     BidOrigin = "human"
	OriginAutomated BidOrigin = "automated"
)

// Bid is a single accepted bid for the in-progress player.
// Bids are immutable once recorded.
type Bid struct {
	ID       string    `json:"id"`
	Team     string    `json:"team"`
	Amount   float64   `json:"amount"`
	Origin   BidOrigin `json:"origin"`
	PlacedAt time.Time `json:"placed_at"`
}

// AuctionResult is the terminal record for one sold player. It is created
// exactly once, at sale, and never mutated afterward. Sequence is a
// monotonically increasing number assigned in sale order, used for
// chronological export.
type AuctionResult struct {
	ID            string  `json:"id"`
	Sequence      int     `json:"sequence"`
	Player        Player  `json:"player"`
	WinningTeam   string  `json:"winning_team"`
	WinningTeamID string  `json:"winning_team_id,omitempty"`
	FinalPrice    float64 `json:"final_price"`
	StartingPrice float64 `json:"starting_price"`
	BidHistory    []Bid   `json:"bid_history"`
}

// NumBids returns the number of bids recorded for this result.
func (r AuctionResult) NumBids() int { return len(r.BidHistory) }

// RejectReason is a machine-readable code for a rejected domain operation.
type RejectReason string

const (
	RejectUnknownTeam        RejectReason = "unknown_team"
	RejectRosterFull         RejectReason = "roster_full"
	RejectInsufficientBudget RejectReason = "insufficient_budget"
	RejectBelowMinIncrement  RejectReason = "below_min_increment"
	RejectNotInProgress      RejectReason = "not_in_progress"
	RejectNoActivePlayer     RejectReason = "no_active_player"
)

// Rejection explains why a domain operation was refused. Rejections are
// returned as values, never raised as faults, because the UI must be able to
// surface the message to a human bidder. A nil *Rejection means the
// operation was accepted.
type Rejection struct {
	Reason  RejectReason `json:"reason"`
	Message string       `json:"message"`
}

func (r *Rejection) String() string {
	if r == nil {
		return "ok"
	}
	return r.Message
}
