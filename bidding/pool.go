package bidding

import (
	"sort"

	"github.com/ootpx/auctioneer/core"
)

// Pool coordinates the automated bidders for one session. On each round only
// the single best proposal across all agents is surfaced, modeling a live
// outcry auction where competitors react to the best visible offer rather
// than each other's private intents.
type Pool struct {
	agents map[string]*Agent
	order  []string
}

// NewPool creates an empty agent pool.
func NewPool() *Pool {
	return &Pool{agents: make(map[string]*Agent)}
}

// AddAgent registers an agent for a team, replacing any existing one.
func (p *Pool) AddAgent(agent *Agent) {
	if _, exists := p.agents[agent.Team()]; !exists {
		p.order = append(p.order, agent.Team())
	}
	p.agents[agent.Team()] = agent
}

// Agent returns the agent bidding for a team, or nil if the team is human.
func (p *Pool) Agent(team string) *Agent {
	return p.agents[team]
}

// Teams returns the automated teams in registration order.
func (p *Pool) Teams() []string {
	teams := make([]string, len(p.order))
	copy(teams, p.order)
	return teams
}

// Size returns the number of registered agents.
func (p *Pool) Size() int { return len(p.agents) }

// InterestedTeams lists the teams whose agents would bid on the player at
// the current price. Note this consults each agent's hesitation roll, so two
// calls may disagree.
func (p *Pool) InterestedTeams(player core.Player, currentPrice float64) []string {
	var interested []string
	for _, team := range p.order {
		if p.agents[team].ShouldBid(player, currentPrice) {
			interested = append(interested, team)
		}
	}
	return interested
}

// NextBids collects a proposed counter-offer from every willing agent.
func (p *Pool) NextBids(player core.Player, currentPrice float64) map[string]float64 {
	bids := make(map[string]float64)
	for _, team := range p.order {
		if amount, ok := p.agents[team].NextBid(player, currentPrice); ok {
			bids[team] = amount
		}
	}
	return bids
}

// BestOffer returns the single highest proposed bid across all agents, the
// only one the pool places per round. Ties go to the earliest-registered
// agent so rounds are reproducible under an injected random source.
func (p *Pool) BestOffer(player core.Player, currentPrice float64) (team string, amount float64, ok bool) {
	for _, t := range p.order {
		proposed, wants := p.agents[t].NextBid(player, currentPrice)
		if !wants {
			continue
		}
		if !ok || proposed > amount {
			team, amount, ok = t, proposed, true
		}
	}
	return team, amount, ok
}

// Needs copies every agent's position-need counters, keyed by team
// (for session snapshots).
func (p *Pool) Needs() map[string]map[string]int {
	needs := make(map[string]map[string]int, len(p.agents))
	for team, agent := range p.agents {
		needs[team] = agent.needs()
	}
	return needs
}

// RestoreNeeds replaces position-need counters for every team present in
// the snapshot. Unknown teams are ignored.
func (p *Pool) RestoreNeeds(needs map[string]map[string]int) {
	teams := make([]string, 0, len(needs))
	for team := range needs {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		if agent, ok := p.agents[team]; ok {
			agent.restoreNeeds(needs[team])
		}
	}
}
