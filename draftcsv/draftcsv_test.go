package draftcsv

import (
	"strings"
	"testing"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/ootpx/auctioneer/core"
)

func saleResult(seq int, name, pos string, age int, team, teamID, playerID string, price float64) core.AuctionResult {
	return core.AuctionResult{
		Sequence:      seq,
		Player:        core.Player{ID: playerID, Name: name, Position: pos, Age: age},
		WinningTeam:   team,
		WinningTeamID: teamID,
		FinalPrice:    price,
		StartingPrice: 1.0,
	}
}

func TestExportDraftOrder(t *testing.T) {
	results := []core.AuctionResult{
		saleResult(2, "Second Guy", "SS", 25, "BOS", "22", "1002", 8.0),
		saleResult(1, "First Guy", "SP", 27, "NYY", "21", "1001", 6.0),
	}

	var buf strings.Builder
	assert.NoError(t, ExportDraftOrder(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	check.Equal(t, "Round,Supplemental,Pick,Team Name,Team ID,Player ID", lines[0])
	// Picks run in sale order regardless of slice order.
	check.Equal(t, "1,0,1,NYY,21,1001", lines[1])
	check.Equal(t, "1,0,2,BOS,22,1002", lines[2])
}

func TestExportDraftOrder_RoundRollover(t *testing.T) {
	results := make([]core.AuctionResult, 13)
	for i := range results {
		results[i] = saleResult(i+1, "Player", "SP", 27, "NYY", "21", "1", 1.0)
	}

	var buf strings.Builder
	assert.NoError(t, ExportDraftOrder(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 14, len(lines))
	// Pick 12 closes round 1; pick 13 opens round 2.
	check.True(t, strings.HasPrefix(lines[12], "1,0,12,"))
	check.True(t, strings.HasPrefix(lines[13], "2,0,13,"))
}

func TestExportDraftOrder_MissingTeamID(t *testing.T) {
	results := []core.AuctionResult{
		saleResult(1, "First Guy", "SP", 27, "NYY", "", "1001", 6.0),
	}

	var buf strings.Builder
	assert.NoError(t, ExportDraftOrder(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 2, len(lines))
	check.Equal(t, "1,0,1,NYY,,1001", lines[1])
}

func TestExportContracts(t *testing.T) {
	results := []core.AuctionResult{
		saleResult(1, "Young Star", "SS", 24, "NYY", "21", "1001", 22.5),
		saleResult(2, "Old Vet", "1B", 36, "BOS", "22", "1002", 3.0),
	}

	var buf strings.Builder
	assert.NoError(t, ExportContracts(&buf, results))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 3, len(lines))
	check.Equal(t, "Name,Team,Years,AAV", lines[0])
	check.Equal(t, "Young Star,NYY,7,$22.50M", lines[1])
	check.Equal(t, "Old Vet,BOS,1,$3.00M", lines[2])
}

func TestExportDetailed(t *testing.T) {
	result := saleResult(1, "First Guy", "SP", 27, "NYY", "21", "1001", 6.0)
	result.Player.Score = 70
	result.StartingPrice = 5.0
	result.BidHistory = []core.Bid{{Team: "NYY", Amount: 5.5}, {Team: "NYY", Amount: 6.0}}

	var buf strings.Builder
	assert.NoError(t, ExportDetailed(&buf, []core.AuctionResult{result}))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, 2, len(lines))
	check.Equal(t, "1,First Guy,SP,27,70.0,NYY,21,$5.00M,$6.00M,2", lines[1])
}

func TestContractYears(t *testing.T) {
	tests := []struct {
		age   int
		price float64
		want  int
	}{
		{24, 25.0, 7},
		{26, 12.0, 6},
		{23, 4.0, 5},
		{28, 21.0, 6},
		{29, 15.0, 5},
		{27, 6.0, 4},
		{31, 16.0, 4},
		{32, 9.0, 3},
		{30, 5.0, 2},
		{34, 12.0, 2},
		{35, 8.0, 1},
		{38, 30.0, 1},
	}
	for _, tt := range tests {
		check.Equal(t, tt.want, ContractYears(tt.age, tt.price))
	}
}

func TestImportFreeAgents(t *testing.T) {
	csvData := strings.Join([]string{
		"Name,POS,Age,Score,Player ID",
		"Ace Starter,sp,27,70,1001",
		"Elite Shortstop,SS,25.5,80,1002",
		",C,30,50,1003",
	}, "\n")

	players, err := ImportFreeAgents(strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(players)) // the nameless row is dropped

	check.Equal(t, "Ace Starter", players[0].Name)
	check.Equal(t, "SP", players[0].Position) // normalized to upper case
	check.Equal(t, 27, players[0].Age)
	check.Equal(t, 70.0, players[0].Score)
	check.Equal(t, "1001", players[0].ID)

	check.Equal(t, 25, players[1].Age) // fractional ages truncate
}

func TestImportFreeAgents_OVRStars(t *testing.T) {
	csvData := strings.Join([]string{
		"Name,POS,Age,OVR",
		"Ace Starter,SP,27,60 Stars",
		"Mystery Man,RP,abc,-",
	}, "\n")

	players, err := ImportFreeAgents(strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(players))
	check.Equal(t, 60.0, players[0].Score)
	check.Equal(t, 25, players[1].Age) // unparseable age falls back
	check.Equal(t, 0.0, players[1].Score)
}

func TestImportFreeAgents_MissingHeader(t *testing.T) {
	_, err := ImportFreeAgents(strings.NewReader("Name,Age\nSomeone,27"))
	assert.Error(t, err)
	check.True(t, strings.Contains(err.Error(), "POS"))
}

func TestImportFreeAgents_BOMHeader(t *testing.T) {
	csvData := "\ufeffName,POS,Age\nAce Starter,SP,27"
	players, err := ImportFreeAgents(strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(players))
	check.Equal(t, "Ace Starter", players[0].Name)
}

func TestImportTeamIDs(t *testing.T) {
	csvData := strings.Join([]string{
		"Round,Supplemental,Pick,Team Name,Team ID,Player ID",
		"1,0,1,NYY,21,1001",
		"1,0,2,BOS,22,1002",
		"1,0,3,NYY,21,1003",
	}, "\n")

	teamIDs, err := ImportTeamIDs(strings.NewReader(csvData))
	assert.NoError(t, err)
	assert.Equal(t, 2, len(teamIDs))
	check.Equal(t, "21", teamIDs["NYY"])
	check.Equal(t, "22", teamIDs["BOS"])
}

func TestImportTeamIDs_MissingHeader(t *testing.T) {
	_, err := ImportTeamIDs(strings.NewReader("Team Name\nNYY"))
	assert.Error(t, err)
	check.True(t, strings.Contains(err.Error(), "Team ID"))
}
