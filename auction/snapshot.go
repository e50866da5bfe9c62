package auction

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/ootpx/auctioneer/budget"
	"github.com/ootpx/auctioneer/core"
)

// Snapshot is a point-in-time capture of one session, including the budget
// ledger and agent position needs, encodable to CBOR. Snapshots let a driver
// park a paused session and pick it up later in the same process lifecycle;
// they carry no durability guarantee beyond what the caller does with the
// bytes.
type Snapshot struct {
	TakenAt        time.Time                 `cbor:"taken_at"`
	State          State                     `cbor:"state"`
	Players        []core.Player             `cbor:"players"`
	StartingPrices map[string]float64        `cbor:"starting_prices"`
	CurrentIndex   int                       `cbor:"current_index"`
	CurrentPrice   float64                   `cbor:"current_price"`
	HighBidder     string                    `cbor:"high_bidder"`
	HighBidOrigin  core.BidOrigin            `cbor:"high_bid_origin"`
	BidHistory     []core.Bid                `cbor:"bid_history"`
	Results        []core.AuctionResult      `cbor:"results"`
	Unsold         []core.Player             `cbor:"unsold"`
	MinIncrement   float64                   `cbor:"min_increment"`
	TimerEnabled   bool                      `cbor:"timer_enabled"`
	TimerDuration  time.Duration             `cbor:"timer_duration"`
	TimerRemaining time.Duration             `cbor:"timer_remaining"`
	Ledger         budget.State              `cbor:"ledger"`
	PositionNeeds  map[string]map[string]int `cbor:"position_needs"`
}

// Snapshot captures the session's current state.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		TakenAt:        e.now(),
		State:          e.state,
		Players:        append([]core.Player(nil), e.players...),
		StartingPrices: make(map[string]float64, len(e.startingPrices)),
		CurrentIndex:   e.currentIndex,
		CurrentPrice:   e.currentPrice,
		HighBidder:     e.highBidder,
		HighBidOrigin:  e.highBidOrigin,
		BidHistory:     append([]core.Bid(nil), e.bidHistory...),
		Results:        append([]core.AuctionResult(nil), e.results...),
		Unsold:         append([]core.Player(nil), e.unsold...),
		MinIncrement:   e.minIncrement,
		TimerEnabled:   e.timerEnabled,
		TimerDuration:  e.timerDuration,
		Ledger:         e.ledger.State(),
	}
	for name, price := range e.startingPrices {
		snap.StartingPrices[name] = price
	}
	if e.timer != nil {
		snap.TimerRemaining = e.timer.Remaining()
	}
	if e.pool != nil {
		snap.PositionNeeds = e.pool.Needs()
	}
	return snap
}

// Encode serializes the snapshot to CBOR.
func (s Snapshot) Encode() ([]byte, error) {
	data, err := cbor.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a CBOR-encoded snapshot.
func DecodeSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := cbor.Unmarshal(data, &s); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return s, nil
}

// Restore loads a snapshot into a fresh engine (SETUP only). A session that
// was IN_PROGRESS when captured comes back PAUSED with the captured timer
// remaining, so the driver resumes it explicitly.
func (e *Engine) Restore(snap Snapshot) error {
	if e.state != StateSetup {
		return fmt.Errorf("restore in state %s: %w", e.state, ErrInvalidState)
	}

	e.players = append([]core.Player(nil), snap.Players...)
	e.startingPrices = make(map[string]float64, len(snap.StartingPrices))
	for name, price := range snap.StartingPrices {
		e.startingPrices[name] = price
	}
	e.currentIndex = snap.CurrentIndex
	e.currentPrice = snap.CurrentPrice
	e.highBidder = snap.HighBidder
	e.highBidOrigin = snap.HighBidOrigin
	e.bidHistory = append([]core.Bid(nil), snap.BidHistory...)
	e.results = append([]core.AuctionResult(nil), snap.Results...)
	e.unsold = append([]core.Player(nil), snap.Unsold...)
	if snap.MinIncrement > 0 {
		e.minIncrement = snap.MinIncrement
	}

	e.state = snap.State
	if snap.State == StateInProgress {
		e.state = StatePaused
	}

	e.current = nil
	if (e.state == StatePaused || e.state == StateInProgress) && e.currentIndex < len(e.players) {
		player := e.players[e.currentIndex]
		e.current = &player
	}

	e.timerEnabled = snap.TimerEnabled
	if snap.TimerEnabled {
		e.timer = NewTimer(snap.TimerDuration)
		e.timerDuration = e.timer.Duration()
		if e.current != nil {
			e.timer.remaining = snap.TimerRemaining
			e.timer.status = TimerPaused
		}
	}

	e.ledger.Restore(snap.Ledger)
	if e.pool != nil && snap.PositionNeeds != nil {
		e.pool.RestoreNeeds(snap.PositionNeeds)
	}
	return nil
}
