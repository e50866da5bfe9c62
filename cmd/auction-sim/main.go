package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ootpx/auctioneer/auction"
	"github.com/ootpx/auctioneer/bidding"
	"github.com/ootpx/auctioneer/budget"
	"github.com/ootpx/auctioneer/core"
	"github.com/ootpx/auctioneer/draftcsv"
	"github.com/ootpx/auctioneer/valuation"
)

// plainTextHandler is a simple slog handler that writes plain text to stdout
// without timestamps or log levels - appropriate for CLI output
type plainTextHandler struct{}

func (*plainTextHandler) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (*plainTextHandler) Handle(_ context.Context, r slog.Record) error {
	_, err := fmt.Fprintln(os.Stdout, r.Message)
	return err
}

func (h *plainTextHandler) WithAttrs(_ []slog.Attr) slog.Handler {
	return h
}

func (h *plainTextHandler) WithGroup(_ string) slog.Handler {
	return h
}

var logger = slog.New(&plainTextHandler{})

// envDefaults are fallbacks read from the environment before flag parsing.
type envDefaults struct {
	PlayersCSV      string  `env:"AUCTION_PLAYERS_CSV"`
	BudgetConfig    string  `env:"AUCTION_BUDGET_CONFIG"`
	TeamIDsCSV      string  `env:"AUCTION_TEAM_IDS_CSV"`
	ReferenceBudget float64 `env:"AUCTION_REFERENCE_BUDGET" envDefault:"100"`
	Seed            int64   `env:"AUCTION_SEED" envDefault:"0"`
}

func main() {
	var defaults envDefaults
	if err := env.Parse(&defaults); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(2)
	}

	var (
		playersPath   = flag.String("players", defaults.PlayersCSV, "Path to free-agent CSV export (required)")
		budgetPath    = flag.String("budget-config", defaults.BudgetConfig, "Path to budget config JSON (optional)")
		teamIDsPath   = flag.String("team-ids", defaults.TeamIDsCSV, "Path to draft CSV with team IDs (optional)")
		teamsSpec     = flag.String("teams", "", "Comma-separated team[:strategy] list when no budget config is given")
		budgetPerTeam = flag.Float64("budget-per-team", valuation.DefaultReferenceBudget, "Starting budget per team in $M (with --teams)")
		refBudget     = flag.Float64("reference-budget", defaults.ReferenceBudget, "Reference budget for valuations in $M")
		timerSeconds  = flag.Int("timer", 0, "Per-player timer in seconds (0 disables)")
		seed          = flag.Int64("seed", defaults.Seed, "Random seed for automated bidders (0 = nondeterministic)")
		maxRounds     = flag.Int("max-rounds", 200, "Bidding-round cap per player")
		draftOut      = flag.String("draft-out", "", "Write draft-order CSV to this path")
		contractsOut  = flag.String("contracts-out", "", "Write contracts CSV to this path")
		detailedOut   = flag.String("detailed-out", "", "Write detailed results CSV to this path")
		help          = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help || *playersPath == "" {
		showUsage()
		if *playersPath == "" {
			os.Exit(1)
		}
		os.Exit(0)
	}

	players, err := loadPlayers(*playersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading players: %v\n", err)
		os.Exit(2)
	}

	cfg, err := loadBudgetConfig(*budgetPath, *teamsSpec, *budgetPerTeam)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading budget config: %v\n", err)
		os.Exit(2)
	}

	ledger, err := budget.NewLedger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating ledger: %v\n", err)
		os.Exit(2)
	}

	var teamIDs map[string]string
	if *teamIDsPath != "" {
		teamIDs, err = loadTeamIDs(*teamIDsPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading team IDs: %v\n", err)
			os.Exit(2)
		}
	}

	var randSource core.RandSource
	if *seed != 0 {
		randSource = rand.New(rand.NewSource(*seed))
	}

	valuations := valuation.ValueAll(players, *refBudget)
	startingPrices := make(map[string]float64, len(valuations))
	for name, val := range valuations {
		startingPrices[name] = valuation.StartingPrice(val)
	}

	pool := buildPool(ledger, *teamsSpec, valuations, randSource)

	engine := auction.NewEngine(ledger, pool, teamIDs)
	engine.OnPlayerSold = func(r core.AuctionResult) {
		logger.Info(fmt.Sprintf("  SOLD #%d %s (%s) to %s for $%.2fM after %d bids",
			r.Sequence, r.Player.Name, r.Player.Position, r.WinningTeam, r.FinalPrice, r.NumBids()))
	}

	if err := engine.Initialize(players, startingPrices); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing auction: %v\n", err)
		os.Exit(2)
	}
	if *timerSeconds > 0 {
		engine.EnableTimer(time.Duration(*timerSeconds) * time.Second)
	}
	if err := engine.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting auction: %v\n", err)
		os.Exit(2)
	}

	logger.Info(fmt.Sprintf("Auctioning %d players to %d teams (%d automated)",
		len(players), len(ledger.Teams()), pool.Size()))

	runSession(engine, *maxRounds)

	reportSummary(engine, ledger)

	if err := writeExports(engine, *draftOut, *contractsOut, *detailedOut); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing exports: %v\n", err)
		os.Exit(2)
	}
	os.Exit(0)
}

// runSession drives the whole auction synchronously: automated bidding rounds
// until no agent counters, then the hammer falls.
func runSession(engine *auction.Engine, maxRounds int) {
	for engine.State() == auction.StateInProgress {
		player, ok := engine.CurrentPlayer()
		if !ok {
			break
		}
		logger.Info(fmt.Sprintf("Up for auction: %s (%s, age %d, score %.0f) at $%.2fM",
			player.Name, player.Position, player.Age, player.Score, engine.CurrentPrice()))

		for round := 0; round < maxRounds; round++ {
			if _, placed := engine.ProcessAutomatedRound(); !placed {
				break
			}
		}

		if _, err := engine.SellCurrentPlayer(); err != nil {
			fmt.Fprintf(os.Stderr, "Error selling player: %v\n", err)
			os.Exit(2)
		}
	}
}

func reportSummary(engine *auction.Engine, ledger *budget.Ledger) {
	summary := engine.Summary()
	logger.Info("")
	logger.Info("Auction complete")
	logger.Info("================")
	logger.Info(fmt.Sprintf("Players sold:   %d", summary.TotalPlayersSold))
	logger.Info(fmt.Sprintf("Players unsold: %d", summary.TotalPlayersUnsold))
	logger.Info(fmt.Sprintf("Total spent:    $%.2fM", summary.TotalAmountSpent))
	logger.Info(fmt.Sprintf("Average price:  $%.2fM", summary.AveragePrice))
	logger.Info("")
	logger.Info("Team standings")
	logger.Info("--------------")

	for _, team := range ledger.AllSummaries() {
		logger.Info(fmt.Sprintf("  %-20s spent $%.2fM of $%.2fM, roster %d (%d spots left)",
			team.Team, team.Spent, team.StartingBudget, team.RosterSize, team.RosterSpotsRemaining))
		if !team.MeetsMinSpend {
			logger.Info(fmt.Sprintf("    WARNING: %s below minimum spend", team.Team))
		}
		if !team.MeetsMinRoster {
			logger.Info(fmt.Sprintf("    WARNING: %s below minimum roster size", team.Team))
		}
	}
}

func writeExports(engine *auction.Engine, draftOut, contractsOut, detailedOut string) error {
	results := engine.Results()

	exports := []struct {
		path  string
		write func(f *os.File) error
	}{
		{draftOut, func(f *os.File) error { return draftcsv.ExportDraftOrder(f, results) }},
		{contractsOut, func(f *os.File) error { return draftcsv.ExportContracts(f, results) }},
		{detailedOut, func(f *os.File) error { return draftcsv.ExportDetailed(f, results) }},
	}

	for _, export := range exports {
		if export.path == "" {
			continue
		}
		f, err := os.Create(export.path)
		if err != nil {
			return err
		}
		if err := export.write(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		logger.Info(fmt.Sprintf("Wrote %s", export.path))
	}
	return nil
}

// loadPlayers reads the free-agent export and queues players best-first.
func loadPlayers(path string) ([]core.Player, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	players, err := draftcsv.ImportFreeAgents(f)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(players, func(i, j int) bool {
		return players[i].Score > players[j].Score
	})
	return players, nil
}

func loadBudgetConfig(path, teamsSpec string, budgetPerTeam float64) (budget.Config, error) {
	if path != "" {
		return budget.LoadConfig(path)
	}
	teams := teamNames(teamsSpec)
	if len(teams) == 0 {
		return budget.Config{}, fmt.Errorf("either --budget-config or --teams is required")
	}
	return budget.DefaultConfig(teams, budgetPerTeam), nil
}

func loadTeamIDs(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return draftcsv.ImportTeamIDs(f)
}

// buildPool creates one automated bidder per team from a
// "team[:strategy]" spec. Teams tagged "human" get no agent; untagged teams
// default to the balanced strategy.
func buildPool(ledger *budget.Ledger, teamsSpec string, valuations map[string]valuation.Valuation, randSource core.RandSource) *bidding.Pool {
	strategies := parseStrategies(teamsSpec)

	pool := bidding.NewPool()
	for _, team := range ledger.Teams() {
		name, specified := strategies[team]
		if specified && name == "human" {
			continue
		}
		pool.AddAgent(bidding.NewAgent(team, bidding.StrategyByName(name), ledger, valuations, randSource))
	}
	return pool
}

func teamNames(teamsSpec string) []string {
	var teams []string
	for _, entry := range strings.Split(teamsSpec, ",") {
		team, _, _ := strings.Cut(strings.TrimSpace(entry), ":")
		if team != "" {
			teams = append(teams, team)
		}
	}
	return teams
}

func parseStrategies(teamsSpec string) map[string]string {
	strategies := make(map[string]string)
	for _, entry := range strings.Split(teamsSpec, ",") {
		team, strategy, _ := strings.Cut(strings.TrimSpace(entry), ":")
		if team != "" {
			strategies[team] = strategy
		}
	}
	return strategies
}

func showUsage() {
	logger.Info("OOTP Free-Agent Auction Simulator")
	logger.Info("")
	logger.Info("Runs a live-bidding auction assigning free agents to franchises")
	logger.Info("under budget constraints, with automated bidders.")
	logger.Info("")
	logger.Info("Usage:")
	logger.Info("  auction-sim --players <csv> [options]")
	logger.Info("")
	logger.Info("Required Flags:")
	logger.Info("  --players <path>            Free-agent CSV export (Name, POS, Age, Score/OVR)")
	logger.Info("")
	logger.Info("Optional Flags:")
	logger.Info("  --budget-config <path>      Budget config JSON")
	logger.Info("  --teams <list>              team[:strategy] pairs, e.g. NYY:aggressive,BOS,CHC:human")
	logger.Info("  --budget-per-team <n>       Budget per team in $M with --teams (default: 100)")
	logger.Info("  --reference-budget <n>      Valuation reference budget in $M (default: 100)")
	logger.Info("  --team-ids <path>           Draft CSV mapping team names to IDs")
	logger.Info("  --timer <seconds>           Per-player countdown (0 disables)")
	logger.Info("  --seed <n>                  Seed automated bidders for reproducible runs")
	logger.Info("  --draft-out <path>          Write draft-order CSV")
	logger.Info("  --contracts-out <path>      Write contracts CSV")
	logger.Info("  --detailed-out <path>       Write detailed results CSV")
	logger.Info("  --help                      Show this help message")
	logger.Info("")
	logger.Info("Environment:")
	logger.Info("  AUCTION_PLAYERS_CSV, AUCTION_BUDGET_CONFIG, AUCTION_TEAM_IDS_CSV,")
	logger.Info("  AUCTION_REFERENCE_BUDGET, AUCTION_SEED provide flag defaults.")
	logger.Info("")
	logger.Info("Exit Codes:")
	logger.Info("  0 - Auction completed")
	logger.Info("  1 - Missing required input")
	logger.Info("  2 - Invalid input or runtime error")
}
