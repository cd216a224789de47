package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedProfiles(t *testing.T) {
	profiles := Default()
	require.ElementsMatch(t, []string{"default", "mcts", "rollout", "cautious"}, profiles.IDs())

	// The default table mirrors the package defaults
	require.Equal(t, BuiltinProfile(), profiles.Lookup(DefaultID))

	m := profiles.Lookup("mcts")
	require.Equal(t, mcts.StrategyMCTS, m.Search.Strategy)
	require.Equal(t, mcts.DefaultParams().OpponentNodeLimit, m.Search.OpponentNodeLimit)

	c := profiles.Lookup("cautious")
	require.Equal(t, 4, c.Search.RolloutDepth)
	require.Equal(t, 0.5, c.Score.DefensiveWeight)
	require.Equal(t, uttt.DefaultWeights().GlobalWeight, c.Score.GlobalWeight)
}

func TestLookupFallback(t *testing.T) {
	profiles := Default()
	require.Equal(t, profiles.Lookup(DefaultID), profiles.Lookup("no-such-agent"))

	empty := Profiles{}
	require.Equal(t, BuiltinProfile(), empty.Lookup("anything"))
}

func TestParseOverrides(t *testing.T) {
	data := []byte(`
[default.search]
exploration = 2.0

[fast.search]
strategy = "rollout"
few_moves = [0.2, 0.1, 0.05]

[fast.score]
cap = 0.8
`)

	profiles, err := Parse(data)
	require.NoError(t, err)

	def := profiles.Lookup(DefaultID)
	require.Equal(t, 2.0, def.Search.Exploration)
	require.Equal(t, mcts.DefaultParams().StableChecksLow, def.Search.StableChecksLow)

	// New agents inherit from the merged default profile
	fast := profiles.Lookup("fast")
	require.Equal(t, 2.0, fast.Search.Exploration)
	require.Equal(t, mcts.StrategyRollout, fast.Search.Strategy)
	require.Equal(t, mcts.Tiers{0.2, 0.1, 0.05}, fast.Search.FewMoves)
	require.Equal(t, 0.8, fast.Score.Cap)

	// Embedded agents are kept
	require.Equal(t, mcts.StrategyMCTS, profiles.Lookup("mcts").Search.Strategy)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte(`[bad.search]
strategy = "random"`))
	require.ErrorIs(t, err, ErrUnknownStrategy)

	_, err = Parse([]byte(`[bad.score]
cap = 1.5`))
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = Parse([]byte(`not toml at all [`))
	require.ErrorIs(t, err, ErrInvalidProfile)

	_, err = Parse([]byte(`[bad.search]
exploration = "high"`))
	require.ErrorIs(t, err, ErrInvalidProfile)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.toml")
	require.NoError(t, os.WriteFile(path, []byte("[custom.search]\nrollout_depth = 2\n"), 0o644))

	profiles, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, profiles.Lookup("custom").Search.RolloutDepth)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestProfileParams(t *testing.T) {
	profile := Default().Lookup("cautious")
	params := profile.Params()

	require.NotNil(t, params.Weights)
	require.Equal(t, profile.Score, *params.Weights)
	require.Equal(t, profile.Search.RolloutDepth, params.RolloutDepth)

	// Params are usable by the search right away
	g := uttt.NewGame()
	result, err := mcts.Search(g, mcts.DefaultLimits().SetNodes(10), params)
	require.NoError(t, err)
	require.True(t, result.BestMove.Valid())
}
