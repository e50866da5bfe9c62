// Package draftcsv reads and writes the CSV formats the auction exchanges
// with the game: free-agent exports in, draft-order and contract results out.
package draftcsv

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/ootpx/auctioneer/core"
)

// PicksPerRound is the fixed block size the draft re-import format groups
// picks into.
const PicksPerRound = 12

// defaultAge substitutes for an unparseable age column.
const defaultAge = 25

// ExportDraftOrder writes results in the draft re-import format:
// Round,Supplemental,Pick,Team Name,Team ID,Player ID. Picks number
// chronologically by result sequence; rounds are blocks of PicksPerRound.
// A missing team ID degrades to an empty column, never a skipped row.
func ExportDraftOrder(w io.Writer, results []core.AuctionResult) error {
	ordered := sortedBySequence(results)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Round", "Supplemental", "Pick", "Team Name", "Team ID", "Player ID"}); err != nil {
		return fmt.Errorf("failed to write draft header: %w", err)
	}

	for i, result := range ordered {
		pick := i + 1
		round := (pick-1)/PicksPerRound + 1
		row := []string{
			strconv.Itoa(round),
			"0",
			strconv.Itoa(pick),
			result.WinningTeam,
			result.WinningTeamID,
			result.Player.ID,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write draft row %d: %w", pick, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportContracts writes results in the OOTP contract format:
// Name,Team,Years,AAV. The auction price is the annual average value;
// contract length scales with youth and price.
func ExportContracts(w io.Writer, results []core.AuctionResult) error {
	ordered := sortedBySequence(results)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Name", "Team", "Years", "AAV"}); err != nil {
		return fmt.Errorf("failed to write contract header: %w", err)
	}

	for _, result := range ordered {
		row := []string{
			result.Player.Name,
			result.WinningTeam,
			strconv.Itoa(ContractYears(result.Player.Age, result.FinalPrice)),
			fmt.Sprintf("$%.2fM", result.FinalPrice),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write contract row for %s: %w", result.Player.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportDetailed writes the full per-sale record for human review.
func ExportDetailed(w io.Writer, results []core.AuctionResult) error {
	ordered := sortedBySequence(results)

	cw := csv.NewWriter(w)
	header := []string{"Sequence", "Name", "Position", "Age", "Score", "Winning Team", "Team ID", "Starting Price", "Final Price", "Bids"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write detailed header: %w", err)
	}

	for _, result := range ordered {
		row := []string{
			strconv.Itoa(result.Sequence),
			result.Player.Name,
			result.Player.Position,
			strconv.Itoa(result.Player.Age),
			strconv.FormatFloat(result.Player.Score, 'f', 1, 64),
			result.WinningTeam,
			result.WinningTeamID,
			fmt.Sprintf("$%.2fM", result.StartingPrice),
			fmt.Sprintf("$%.2fM", result.FinalPrice),
			strconv.Itoa(result.NumBids()),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write detailed row for %s: %w", result.Player.Name, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// ContractYears derives contract length from age and price: younger and
// pricier players sign longer deals.
func ContractYears(age int, price float64) int {
	switch {
	case age <= 26:
		switch {
		case price >= 20:
			return 7
		case price >= 10:
			return 6
		default:
			return 5
		}
	case age <= 29:
		switch {
		case price >= 20:
			return 6
		case price >= 10:
			return 5
		default:
			return 4
		}
	case age <= 32:
		switch {
		case price >= 15:
			return 4
		case price >= 8:
			return 3
		default:
			return 2
		}
	case age <= 35:
		if price >= 10 {
			return 2
		}
		return 1
	default:
		return 1
	}
}

// ImportFreeAgents reads an OOTP free-agent export. Name, POS, and Age
// headers are required; the skill score is read from a "Score" column,
// falling back to "OVR", with a trailing "Stars" suffix tolerated. A
// "Player ID" (or "ID") column is carried through when present. Rows
// without a name are skipped.
func ImportFreeAgents(r io.Reader) ([]core.Player, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	for _, required := range []string{"Name", "POS", "Age"} {
		if _, ok := header[required]; !ok {
			return nil, fmt.Errorf("free agent CSV missing required field %q", required)
		}
	}

	scoreCol, hasScore := header["Score"]
	if !hasScore {
		scoreCol, hasScore = header["OVR"]
	}
	idCol, hasID := header["Player ID"]
	if !hasID {
		idCol, hasID = header["ID"]
	}

	players := make([]core.Player, 0, len(records))
	for _, record := range records {
		name := field(record, header["Name"])
		if name == "" {
			continue
		}
		p := core.Player{
			Name:     name,
			Position: strings.ToUpper(field(record, header["POS"])),
			Age:      parseAge(field(record, header["Age"])),
		}
		if hasScore {
			p.Score = parseScore(field(record, scoreCol))
		}
		if hasID {
			p.ID = field(record, idCol)
		}
		players = append(players, p)
	}
	return players, nil
}

// ImportTeamIDs reads a draft export mapping team display names to stable
// team identifiers. "Team Name" and "Team ID" headers are required.
func ImportTeamIDs(r io.Reader) (map[string]string, error) {
	records, header, err := readAll(r)
	if err != nil {
		return nil, err
	}

	nameCol, ok := header["Team Name"]
	if !ok {
		return nil, fmt.Errorf("draft CSV missing required field %q", "Team Name")
	}
	idCol, ok := header["Team ID"]
	if !ok {
		return nil, fmt.Errorf("draft CSV missing required field %q", "Team ID")
	}

	teamIDs := make(map[string]string)
	for _, record := range records {
		name := field(record, nameCol)
		if name == "" {
			continue
		}
		teamIDs[name] = field(record, idCol)
	}
	return teamIDs, nil
}

// readAll parses a CSV into records plus a trimmed-header index map.
func readAll(r io.Reader) ([][]string, map[string]int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("CSV has no header row")
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		header[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	return rows[1:], header, nil
}

func field(record []string, col int) string {
	if col < 0 || col >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[col])
}

func parseAge(value string) int {
	// Tolerate formats like "25", "25.5", "25 years".
	tokens := strings.Fields(value)
	if len(tokens) == 0 {
		return defaultAge
	}
	age, err := strconv.ParseFloat(tokens[0], 64)
	if err != nil {
		return defaultAge
	}
	return int(age)
}

func parseScore(value string) float64 {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "Stars"))
	if cleaned == "" || cleaned == "-" {
		return 0
	}
	score, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return score
}

func sortedBySequence(results []core.AuctionResult) []core.AuctionResult {
	ordered := make([]core.AuctionResult, len(results))
	copy(ordered, results)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Sequence < ordered[j].Sequence
	})
	return ordered
}
