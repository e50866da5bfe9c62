package auction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ootpx/auctioneer/bidding"
	"github.com/ootpx/auctioneer/budget"
	"github.com/ootpx/auctioneer/core"
)

// DefaultStartingPrice ($M) is the fallback floor when a player has no entry
// in the starting-price table. This is a deliberate fallback, not an
// expectation: drivers that price every player never hit it.
const DefaultStartingPrice = 1.0

// ErrInvalidState reports an operation invoked outside its valid session
// state. This is a programming error in the driver, not a domain rejection.
var ErrInvalidState = errors.New("invalid auction state")

// State is the session state tag.
type State int

const (
	StateSetup State = iota
	StateInProgress
	StatePaused
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StateInProgress:
		return "in_progress"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// Progress summarizes how far the session has advanced.
type Progress struct {
	State            State `json:"state"`
	CurrentIndex     int   `json:"current_index"`
	TotalPlayers     int   `json:"total_players"`
	PlayersSold      int   `json:"players_sold"`
	PlayersUnsold    int   `json:"players_unsold"`
	PlayersRemaining int   `json:"players_remaining"`
}

// ResultsSummary aggregates the session's outcomes.
type ResultsSummary struct {
	TotalPlayersSold   int                  `json:"total_players_sold"`
	TotalPlayersUnsold int                  `json:"total_players_unsold"`
	TotalAmountSpent   float64              `json:"total_amount_spent"`
	AveragePrice       float64              `json:"average_price"`
	Results            []core.AuctionResult `json:"results"`
	Unsold             []core.Player        `json:"unsold"`
}

// Engine is the auction state machine. It owns exactly one session's mutable
// state, delegates bid validation to the budget ledger, automated
// counter-offers to the agent pool, and pacing to the timer. It is driven
// synchronously by one external caller; no operation blocks.
//
// UI callbacks are plain function fields on the engine, set before Start.
type Engine struct {
	ledger  *budget.Ledger
	pool    *bidding.Pool
	teamIDs map[string]string

	state          State
	players        []core.Player
	startingPrices map[string]float64
	currentIndex   int
	current        *core.Player
	currentPrice   float64
	highBidder     string
	highBidOrigin  core.BidOrigin
	bidHistory     []core.Bid

	results []core.AuctionResult
	unsold  []core.Player

	minIncrement float64

	timerEnabled  bool
	timerDuration time.Duration
	timer         *Timer

	// Callbacks for UI updates. Nil callbacks are skipped.
	OnBid        func(core.Bid, core.Player)
	OnPlayerSold func(core.AuctionResult)
	OnComplete   func()

	now func() time.Time
}

// NewEngine creates a session in SETUP. teamIDs is an optional lookup from
// team display name to a stable identifier used only to annotate results;
// a nil map (or missing team) degrades to an empty identifier.
func NewEngine(ledger *budget.Ledger, pool *bidding.Pool, teamIDs map[string]string) *Engine {
	return &Engine{
		ledger:        ledger,
		pool:          pool,
		teamIDs:       teamIDs,
		state:         StateSetup,
		minIncrement:  core.DefaultMinIncrement,
		timerDuration: DefaultTimerDuration,
		now:           time.Now,
	}
}

// Initialize stores the ordered player queue and per-player starting prices
// and clears any prior results. Valid only in SETUP.
func (e *Engine) Initialize(players []core.Player, startingPrices map[string]float64) error {
	if e.state != StateSetup {
		return fmt.Errorf("initialize in state %s: %w", e.state, ErrInvalidState)
	}

	e.players = make([]core.Player, len(players))
	copy(e.players, players)

	e.startingPrices = make(map[string]float64, len(startingPrices))
	for name, price := range startingPrices {
		e.startingPrices[name] = price
	}

	e.currentIndex = 0
	e.current = nil
	e.results = nil
	e.unsold = nil
	e.bidHistory = nil
	return nil
}

// Start transitions SETUP -> IN_PROGRESS and advances to the first player.
func (e *Engine) Start() error {
	if e.state != StateSetup {
		return fmt.Errorf("start in state %s: %w", e.state, ErrInvalidState)
	}
	if len(e.players) == 0 {
		return fmt.Errorf("start with no players: %w", ErrInvalidState)
	}

	e.state = StateInProgress
	e.advance()
	return nil
}

// SetMinIncrement overrides the minimum bid increment. Valid only in SETUP.
func (e *Engine) SetMinIncrement(amount float64) error {
	if e.state != StateSetup {
		return fmt.Errorf("set min increment in state %s: %w", e.state, ErrInvalidState)
	}
	if amount <= 0 {
		return fmt.Errorf("min increment must be positive, got %.2f", amount)
	}
	e.minIncrement = amount
	return nil
}

// MinIncrement returns the configured minimum bid increment.
func (e *Engine) MinIncrement() float64 { return e.minIncrement }

// EnableTimer turns on the per-player countdown. Durations outside the
// allowed bounds fall back to the default. If a player is already up for
// auction the countdown arms immediately.
func (e *Engine) EnableTimer(duration time.Duration) {
	e.timerEnabled = true
	e.timer = NewTimer(duration)
	e.timerDuration = e.timer.Duration()
	if e.state == StateInProgress && e.current != nil {
		e.timer.Start()
	}
}

// DisableTimer turns off the countdown.
func (e *Engine) DisableTimer() {
	e.timerEnabled = false
	if e.timer != nil {
		e.timer.Stop()
	}
}

// TimerEnabled reports whether the per-player countdown is on.
func (e *Engine) TimerEnabled() bool { return e.timerEnabled }

// TimerRemaining returns the time left for the current player, or 0 when the
// timer is disabled or not running.
func (e *Engine) TimerRemaining() time.Duration {
	if !e.timerEnabled || e.timer == nil {
		return 0
	}
	return e.timer.Remaining()
}

// TimerExpired reports whether the countdown has run out. Only actionable
// while IN_PROGRESS: the driver responds by calling SellCurrentPlayer.
// Expiry never fires while the session is paused.
func (e *Engine) TimerExpired() bool {
	if !e.timerEnabled || e.timer == nil || e.state != StateInProgress {
		return false
	}
	return e.timer.Expired()
}

// State returns the session state tag.
func (e *Engine) State() State { return e.state }

// CurrentPlayer returns the player up for auction, if any.
func (e *Engine) CurrentPlayer() (core.Player, bool) {
	if e.current == nil {
		return core.Player{}, false
	}
	return *e.current, true
}

// CurrentPrice returns the standing price for the in-progress player.
func (e *Engine) CurrentPrice() float64 { return e.currentPrice }

// HighBidder returns the team holding the highest accepted bid, its origin,
// and whether any bid stands.
func (e *Engine) HighBidder() (team string, origin core.BidOrigin, ok bool) {
	if e.highBidder == "" {
		return "", "", false
	}
	return e.highBidder, e.highBidOrigin, true
}

// BidHistory returns a copy of the accepted bids for the in-progress player.
func (e *Engine) BidHistory() []core.Bid {
	history := make([]core.Bid, len(e.bidHistory))
	copy(history, e.bidHistory)
	return history
}

// PlaceBid validates and records a bid for the current player. Domain
// failures come back as a rejection value; the session and the current
// player are unaffected by a rejected bid.
func (e *Engine) PlaceBid(team string, amount float64, origin core.BidOrigin) (core.Bid, *core.Rejection) {
	if e.state != StateInProgress {
		return core.Bid{}, &core.Rejection{
			Reason:  core.RejectNotInProgress,
			Message: "auction is not in progress",
		}
	}
	if e.current == nil {
		return core.Bid{}, &core.Rejection{
			Reason:  core.RejectNoActivePlayer,
			Message: "no player is up for auction",
		}
	}

	minNextBid := core.AddPrice(e.currentPrice, e.minIncrement)
	if !core.PriceMeets(amount, minNextBid) {
		return core.Bid{}, &core.Rejection{
			Reason:  core.RejectBelowMinIncrement,
			Message: fmt.Sprintf("bid must be at least $%.2fM", minNextBid),
		}
	}

	if rej := e.ledger.ValidateBid(team, amount); rej != nil {
		return core.Bid{}, rej
	}

	bid := core.Bid{
		ID:       uuid.NewString(),
		Team:     team,
		Amount:   core.RoundPrice(amount),
		Origin:   origin,
		PlacedAt: e.now(),
	}
	e.bidHistory = append(e.bidHistory, bid)
	e.currentPrice = bid.Amount
	e.highBidder = team
	e.highBidOrigin = origin

	if e.OnBid != nil {
		e.OnBid(bid, *e.current)
	}
	return bid, nil
}

// ProcessAutomatedRound asks the agent pool for its best counter-offer and
// places it as one real bid. A no-op returning false when no agent wishes to
// bid or the session is not accepting bids.
func (e *Engine) ProcessAutomatedRound() (core.Bid, bool) {
	if e.state != StateInProgress || e.current == nil || e.pool == nil {
		return core.Bid{}, false
	}

	team, amount, ok := e.pool.BestOffer(*e.current, e.currentPrice)
	if !ok {
		return core.Bid{}, false
	}

	bid, rej := e.PlaceBid(team, amount, core.OriginAutomated)
	if rej != nil {
		return core.Bid{}, false
	}
	return bid, true
}

// SellCurrentPlayer resolves the current player and advances the queue.
// With a standing high bid the sale is recorded — once — against the winner
// (through the winning agent when one exists, so its position needs update)
// and an AuctionResult is appended. With no bids the player goes to the
// unsold list and the returned result is nil. Advancing past the last player
// completes the session.
func (e *Engine) SellCurrentPlayer() (*core.AuctionResult, error) {
	if e.state != StateInProgress {
		return nil, fmt.Errorf("sell in state %s: %w", e.state, ErrInvalidState)
	}
	if e.current == nil {
		return nil, fmt.Errorf("sell with no active player: %w", ErrInvalidState)
	}

	var result *core.AuctionResult
	if e.highBidder != "" {
		player := *e.current
		history := make([]core.Bid, len(e.bidHistory))
		copy(history, e.bidHistory)

		res := core.AuctionResult{
			ID:            uuid.NewString(),
			Sequence:      len(e.results) + 1,
			Player:        player,
			WinningTeam:   e.highBidder,
			WinningTeamID: e.teamIDs[e.highBidder],
			FinalPrice:    e.currentPrice,
			StartingPrice: e.startingPrice(player),
			BidHistory:    history,
		}

		if agent := e.winningAgent(); agent != nil {
			agent.RecordAcquisition(player, e.currentPrice)
		} else {
			e.ledger.RecordAcquisition(e.highBidder, player, e.currentPrice)
		}

		e.results = append(e.results, res)
		result = &res

		if e.OnPlayerSold != nil {
			e.OnPlayerSold(res)
		}
	} else {
		e.unsold = append(e.unsold, *e.current)
	}

	e.currentIndex++
	e.advance()
	return result, nil
}

// PassOnPlayer forces the current player to the unsold list regardless of
// standing bids, then advances. Used for manual skips.
func (e *Engine) PassOnPlayer() error {
	if e.state != StateInProgress {
		return fmt.Errorf("pass in state %s: %w", e.state, ErrInvalidState)
	}
	if e.current != nil {
		e.unsold = append(e.unsold, *e.current)
	}
	e.currentIndex++
	e.advance()
	return nil
}

// Pause freezes the session and the timer. A no-op unless IN_PROGRESS.
func (e *Engine) Pause() {
	if e.state != StateInProgress {
		return
	}
	e.state = StatePaused
	if e.timer != nil {
		e.timer.Pause()
	}
}

// Resume re-anchors the timer and returns to IN_PROGRESS. A no-op unless
// PAUSED.
func (e *Engine) Resume() {
	if e.state != StatePaused {
		return
	}
	e.state = StateInProgress
	if e.timer != nil {
		e.timer.Resume()
	}
}

// Results returns a copy of the sold-player results in sequence order.
func (e *Engine) Results() []core.AuctionResult {
	results := make([]core.AuctionResult, len(e.results))
	copy(results, e.results)
	return results
}

// Unsold returns a copy of the players that ended the session unsold.
func (e *Engine) Unsold() []core.Player {
	unsold := make([]core.Player, len(e.unsold))
	copy(unsold, e.unsold)
	return unsold
}

// Progress reports how far the session has advanced.
func (e *Engine) Progress() Progress {
	return Progress{
		State:            e.state,
		CurrentIndex:     e.currentIndex,
		TotalPlayers:     len(e.players),
		PlayersSold:      len(e.results),
		PlayersUnsold:    len(e.unsold),
		PlayersRemaining: len(e.players) - e.currentIndex,
	}
}

// Summary aggregates the session's outcomes for reporting.
func (e *Engine) Summary() ResultsSummary {
	var totalSpent float64
	for _, r := range e.results {
		totalSpent = core.AddPrice(totalSpent, r.FinalPrice)
	}
	var avg float64
	if len(e.results) > 0 {
		avg = core.RoundPrice(totalSpent / float64(len(e.results)))
	}
	return ResultsSummary{
		TotalPlayersSold:   len(e.results),
		TotalPlayersUnsold: len(e.unsold),
		TotalAmountSpent:   totalSpent,
		AveragePrice:       avg,
		Results:            e.Results(),
		Unsold:             e.Unsold(),
	}
}

// advance moves the session to the next queued player, resetting price and
// bid history and rearming the timer, or completes the session past the
// last player.
func (e *Engine) advance() {
	if e.currentIndex >= len(e.players) {
		e.state = StateCompleted
		e.current = nil
		e.highBidder = ""
		e.highBidOrigin = ""
		e.bidHistory = nil
		if e.timer != nil {
			e.timer.Stop()
		}
		if e.OnComplete != nil {
			e.OnComplete()
		}
		return
	}

	player := e.players[e.currentIndex]
	e.current = &player
	e.currentPrice = e.startingPrice(player)
	e.highBidder = ""
	e.highBidOrigin = ""
	e.bidHistory = nil

	if e.timerEnabled && e.timer != nil {
		e.timer.Start()
	}
}

func (e *Engine) startingPrice(player core.Player) float64 {
	if price, ok := e.startingPrices[player.Name]; ok {
		return price
	}
	return DefaultStartingPrice
}

func (e *Engine) winningAgent() *bidding.Agent {
	if e.pool == nil {
		return nil
	}
	return e.pool.Agent(e.highBidder)
}
