package bench

import (
	"fmt"

	"github.com/IlikeChooros/go-uttt/pkg/config"
	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// Player of the arena, an agent profile with its search limits
type Agent struct {
	ID      string
	Profile *config.Profile
	Limits  *mcts.Limits
}

// Create an agent from the profile of given id (or the default one), with
// given seconds budget per move
func NewAgent(profiles config.Profiles, id string, seconds float64) Agent {
	profile := profiles.Lookup(id)
	return Agent{
		ID:      id,
		Profile: &profile,
		Limits:  mcts.DefaultLimits().SetSeconds(seconds),
	}
}

// Search for the agent's move in the current position, the game is left unchanged
func (a *Agent) NextMove(g *uttt.Game) (mcts.Result, error) {
	limits := *a.Limits
	result, err := mcts.Search(g, &limits, a.Profile.Params())
	if err != nil {
		return result, fmt.Errorf("agent %q: %w", a.ID, err)
	}
	return result, nil
}
