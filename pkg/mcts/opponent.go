package mcts

import (
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

// Maximum length of a game, used as the 'until the end' rollout length
const maxGameLength = 81

// Simulate the opponent's reply in the current position, 'depth' is the depth
// of the node being expanded. Returns uttt.MoveNone if there is no move to make.
func (mcts *MCTS) opponentReply(depth int) uttt.Move {
	if mcts.strategy != StrategyMCTS {
		m, _ := mcts.game.GreedyNextMove(mcts.weights)
		return m
	}

	// Nested search runs to completion with a smaller budget,
	// and it simulates the replies greedily
	params := *mcts.params
	params.Strategy = StrategyGreedy
	params.Weights = mcts.weights
	limits := DefaultLimits().
		SetSeconds(mcts.tiers.Slice(depth)).
		SetNodes(mcts.params.OpponentNodeLimit)

	result, err := Search(mcts.game, limits, &params)
	if err != nil {
		log.Debug().Err(err).Msg("nested search found no reply")
		return uttt.MoveNone
	}
	return result.BestMove
}

// Score the current position for 'player', with the optional greedy rollout
func (mcts *MCTS) evaluate(player uttt.Mark) float64 {
	plies := 0
	switch {
	case mcts.strategy == StrategyRollout:
		plies = maxGameLength
	case mcts.params.RolloutDepth > 0:
		plies = mcts.params.RolloutDepth
	}

	made := 0
	if plies > 0 {
		made = mcts.game.RunGreedyMoves(plies, mcts.weights)
	}
	score := mcts.game.Board().Score(player, mcts.weights)
	mcts.game.UndoN(made)
	return score
}
