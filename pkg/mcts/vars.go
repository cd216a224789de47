package mcts

import (
	"errors"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// How the opponent's reply is simulated when a new child is created
type Strategy string

const (
	// Opponent plays the move maximizing its own heuristic score
	StrategyGreedy Strategy = "greedy"

	// Opponent runs its own small search, with the time slice
	// depending on the depth of the expanded node
	StrategyMCTS Strategy = "mcts"

	// Greedy reply, then the child is scored after both sides
	// play greedily until the end of the game
	StrategyRollout Strategy = "rollout"
)

var ErrNoLegalMoves = errors.New("no legal moves")

// Wheter the strategy name is recognized
func (s Strategy) Valid() bool {
	switch s {
	case StrategyGreedy, StrategyMCTS, StrategyRollout:
		return true
	}
	return false
}

// Time slices (in seconds) of the nested opponent search, indexed by
// the depth of the expanded node: <= 1, 2-4, > 4
type Tiers [3]float64

// Select the time slice for a node at given depth
func (t Tiers) Slice(depth int) float64 {
	switch {
	case depth <= 1:
		return t[0]
	case depth <= 4:
		return t[1]
	}
	return t[2]
}

// Search parameters, loaded once per agent and never modified during the search
type Params struct {
	// Base exploration constant 'C' of the UCB1 formula
	Exploration float64 `toml:"exploration" json:"exploration"`
	// Dynamic exploration constant never exceeds Exploration * MaxExplorationFactor
	MaxExplorationFactor float64 `toml:"max_exploration_factor" json:"max_exploration_factor"`

	// Early stop
	ConfidenceHigh       float64 `toml:"confidence_high" json:"confidence_high"`
	ConfidenceModerate   float64 `toml:"confidence_moderate" json:"confidence_moderate"`
	ScoreDiffNormalizer  float64 `toml:"score_diff_normalizer" json:"score_diff_normalizer"`
	StableChecksHigh     int     `toml:"stable_checks_high" json:"stable_checks_high"`
	StableChecksModerate int     `toml:"stable_checks_moderate" json:"stable_checks_moderate"`
	StableChecksLow      int     `toml:"stable_checks_low" json:"stable_checks_low"`
	MinTimeRatio         float64 `toml:"min_time_ratio" json:"min_time_ratio"`
	MinTimeCap           float64 `toml:"min_time_cap" json:"min_time_cap"`       // seconds
	CheckInterval        float64 `toml:"check_interval" json:"check_interval"` // seconds

	// Opponent model
	ManyMoves                Tiers    `toml:"many_moves" json:"many_moves"`
	MediumMoves              Tiers    `toml:"medium_moves" json:"medium_moves"`
	FewMoves                 Tiers    `toml:"few_moves" json:"few_moves"`
	GreedyTimeThreshold      float64  `toml:"greedy_time_threshold" json:"greedy_time_threshold"` // seconds
	MediumTimeThreshold      float64  `toml:"medium_time_threshold" json:"medium_time_threshold"` // seconds
	ComplexPositionThreshold int      `toml:"complex_position_threshold" json:"complex_position_threshold"`
	MediumPositionThreshold  int      `toml:"medium_position_threshold" json:"medium_position_threshold"`
	OpponentNodeLimit        uint32   `toml:"opponent_node_limit" json:"opponent_node_limit"`
	RolloutDepth             int      `toml:"rollout_depth" json:"rollout_depth"`
	Strategy                 Strategy `toml:"strategy" json:"strategy"`

	// Evaluator weights, package defaults if nil
	Weights *uttt.Weights `toml:"-" json:"-"`
}

func DefaultParams() Params {
	return Params{
		Exploration:              1.0,
		MaxExplorationFactor:     4,
		ConfidenceHigh:           0.8,
		ConfidenceModerate:       0.6,
		ScoreDiffNormalizer:      0.5,
		StableChecksHigh:         3,
		StableChecksModerate:     5,
		StableChecksLow:          8,
		MinTimeRatio:             0.2,
		MinTimeCap:               3,
		CheckInterval:            0.5,
		ManyMoves:                Tiers{0.1, 0.05, 0.05},
		MediumMoves:              Tiers{0.5, 0.1, 0.05},
		FewMoves:                 Tiers{1.0, 0.5, 0.1},
		GreedyTimeThreshold:      5,
		MediumTimeThreshold:      10,
		ComplexPositionThreshold: 9,
		MediumPositionThreshold:  5,
		OpponentNodeLimit:        75,
		RolloutDepth:             0,
		Strategy:                 StrategyGreedy,
	}
}
