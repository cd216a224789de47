package mcts

import (
	"fmt"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
)

// Ranked root move, with its average score
type MoveScore struct {
	Move  uttt.Move `json:"move"`
	Score float64   `json:"score"`
	Plays int       `json:"plays"`
}

// Outcome of a search, BestMove is uttt.MoveNone if there were no legal moves
type Result struct {
	BestMove     uttt.Move     `json:"best_move"`
	Score        float64       `json:"score"`
	Plays        int           `json:"num_gamestates"`
	Depth        int           `json:"depth_explored"`
	Nodes        int           `json:"nodes"`
	Moves        []MoveScore   `json:"moves"`
	Pv           []uttt.Move   `json:"predicted_line"`
	ThinkingTime time.Duration `json:"thinking_time"`
	EarlyStop    bool          `json:"early_stop"`
	StopReason   StopReason    `json:"stop_reason"`
	Confidence   float64       `json:"confidence"`
	Cps          uint32        `json:"cps"`
	Strategy     Strategy      `json:"strategy"`
}

// Single decision search tree, owns the tree exclusively and walks
// the shared game with make/undo, leaving it unchanged after each iteration
type MCTS struct {
	listener *StatsListener
	Limiter  LimiterLike
	Root     *Node

	game     *uttt.Game
	params   *Params
	weights  *uttt.Weights
	strategy Strategy
	tiers    Tiers
	path     []*Node

	size   int
	cycles int
	cps    uint32

	// early stop tracking
	lastBest   *Node
	stable     int
	confidence float64
}

// Create new tree, rooted at the current position of 'g', the side to move
// is the searching player. 'g' must not be modified by anyone else while
// the tree is searching.
func NewMCTS(g *uttt.Game, params *Params) *MCTS {
	if params == nil {
		defaults := DefaultParams()
		params = &defaults
	}

	weights := params.Weights
	if weights == nil {
		defaults := uttt.DefaultWeights()
		weights = &defaults
	}

	return &MCTS{
		listener: &StatsListener{nCycles: 1},
		Limiter:  LimiterLike(NewLimiter()),
		Root:     newRootNode(g),
		game:     g,
		params:   params,
		weights:  weights,
		strategy: params.Strategy,
		tiers:    params.MediumMoves,
		size:     1,
	}
}

func (mcts *MCTS) ResetListener() {
	mcts.listener.OnCycle(nil).OnDepth(nil).OnCheck(nil).OnStop(nil)
}

func (mcts *MCTS) StatsListener() *StatsListener {
	return mcts.listener
}

func (mcts *MCTS) SetListener(listener StatsListener) {
	*mcts.listener = listener
}

// Stop the search after the current iteration
func (mcts *MCTS) Stop() {
	mcts.Limiter.SetStop(true)
}

// Maxiumum depth reached during the search, each level is a pair of moves
func (mcts *MCTS) MaxDepth() int {
	return mcts.Root.DepthSeen
}

// Total number of iterations ran during the search
func (mcts *MCTS) Cycles() int {
	return mcts.cycles
}

// Get cycles per second statistic
func (mcts *MCTS) Cps() uint32 {
	return mcts.cps
}

// Get the size of the tree
func (mcts *MCTS) Size() int {
	return mcts.size
}

// Get the reason why the search was stopped, valid after search ends
func (mcts *MCTS) StopReason() StopReason {
	return mcts.Limiter.StopReason()
}

// Opponent strategy actually used by the last search
func (mcts *MCTS) Strategy() Strategy {
	return mcts.strategy
}

func (mcts *MCTS) SetLimits(limits *Limits) {
	mcts.Limiter.SetLimits(limits)
}

func (mcts *MCTS) Limits() *Limits {
	return mcts.Limiter.Limits()
}

func (mcts *MCTS) String() string {
	return fmt.Sprintf("MCTS={Size=%d, Stats:{maxdepth=%d, cps=%d, cycles=%d, plays=%d}, Strategy=%s}",
		mcts.Size(), mcts.MaxDepth(), mcts.Cps(), mcts.Cycles(), mcts.Root.Plays, mcts.strategy)
}

// 'the best move' in the position, by average score
func (mcts *MCTS) RootMove() uttt.Move {
	if child := bestChild(mcts.Root); child != nil {
		return child.Move
	}
	return uttt.MoveNone
}

// Get the predicted line starting at 'root' (included), following the
// best average score, the opponent replies are part of the line.
// Returns wheter the line reaches the end of the game.
func (mcts *MCTS) Pv(root *Node) ([]uttt.Move, bool) {
	if root == nil {
		return nil, false
	}

	pv := make([]uttt.Move, 0, 2*(root.DepthSeen+1))
	for node := root; node != nil; node = bestChild(node) {
		if node.Move.Valid() {
			pv = append(pv, node.Move)
		}
		if node.Reply.Valid() {
			pv = append(pv, node.Reply)
		}
		if node.Terminal() {
			return pv, node != mcts.Root
		}
	}
	return pv, false
}

// Collect the search result, valid after the search ends
func (mcts *MCTS) Result() Result {
	ranked := rankChildren(mcts.Root)
	moves := make([]MoveScore, len(ranked))
	for i, child := range ranked {
		moves[i] = MoveScore{Move: child.Move, Score: child.AvgScore(), Plays: child.Plays}
	}

	result := Result{
		BestMove:     uttt.MoveNone,
		Plays:        mcts.Root.Plays,
		Depth:        mcts.Root.DepthSeen,
		Nodes:        mcts.size,
		Moves:        moves,
		ThinkingTime: mcts.Limiter.ElapsedTime(),
		StopReason:   mcts.Limiter.StopReason(),
		Confidence:   mcts.confidence,
		Cps:          mcts.cps,
		Strategy:     mcts.strategy,
	}
	result.EarlyStop = result.StopReason&StopConfident == StopConfident

	if len(ranked) > 0 {
		result.BestMove = ranked[0].Move
		result.Score = ranked[0].AvgScore()
		result.Pv, _ = mcts.Pv(ranked[0])
	}
	return result
}
