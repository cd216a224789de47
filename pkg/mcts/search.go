package mcts

import (
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

// Search for the best move in the current position of 'g', for the side to move.
// The game is restored to its original state before returning.
// If there are no legal moves, returns a result with uttt.MoveNone and ErrNoLegalMoves.
func Search(g *uttt.Game, limits *Limits, params *Params) (Result, error) {
	tree := NewMCTS(g, params)
	if limits != nil {
		tree.SetLimits(limits)
	}
	return tree.Search()
}

// Pick the opponent strategy and the nested search time slices,
// based on the time budget and the number of legal moves
func (mcts *MCTS) setupSearch() {
	mcts.Limiter.Reset()
	mcts.cps = 0
	mcts.cycles = 0
	mcts.stable = 0
	mcts.confidence = 0
	mcts.lastBest = nil

	p := mcts.params
	limits := mcts.Limiter.Limits()
	seconds := limits.Seconds()
	legal := mcts.Root.Unseen() + len(mcts.Root.Children)

	mcts.strategy = p.Strategy
	if limits.Strategy != "" {
		mcts.strategy = limits.Strategy
	}
	if !mcts.strategy.Valid() {
		log.Warn().Str("strategy", string(mcts.strategy)).Msg("unknown opponent strategy, using greedy")
		mcts.strategy = StrategyGreedy
	}

	switch {
	case seconds <= p.GreedyTimeThreshold:
		mcts.strategy = StrategyGreedy
		mcts.tiers = p.MediumMoves
	case seconds <= p.MediumTimeThreshold:
		if legal >= p.ComplexPositionThreshold {
			mcts.tiers = p.ManyMoves
		} else {
			mcts.tiers = p.MediumMoves
		}
	default:
		if legal >= p.ComplexPositionThreshold {
			mcts.tiers = p.ManyMoves
		} else if legal > p.MediumPositionThreshold {
			mcts.tiers = p.MediumMoves
		} else {
			mcts.tiers = p.FewMoves
		}
	}
}

// Run the search until the limits are reached, the result is confident enough
// or the whole tree is explored. At least one iteration is always made.
func (mcts *MCTS) Search() (Result, error) {
	mcts.setupSearch()
	if mcts.Root.Terminal() {
		mcts.Limiter.EvaluateStopReason(uint32(mcts.Root.Plays), StopExhausted)
		mcts.invokeListener(mcts.listener.onStop)
		return mcts.Result(), ErrNoLegalMoves
	}

	p := mcts.params
	limits := mcts.Limiter.Limits()
	seconds := limits.Seconds()
	minTime := seconds2duration(min(p.MinTimeCap, p.MinTimeRatio*seconds))
	interval := seconds2duration(p.CheckInterval)
	moves := mcts.Root.Unseen()

	var (
		reason    StopReason
		lastCheck time.Duration
		maxdepth  = mcts.MaxDepth()
	)

	for first := true; first || mcts.Limiter.Ok(uint32(mcts.Root.Plays)); first = false {
		c := dynamicExploration(p.Exploration, p.MaxExplorationFactor, mcts.Limiter.ElapsedRatio(), moves)
		mcts.iterate(c)

		mcts.cycles++
		mcts.cps = cyclesPerSecond(mcts.cycles, mcts.Limiter.Elapsed())
		mcts.listener.invokeCycle(mcts)
		if d := mcts.MaxDepth(); d > maxdepth {
			maxdepth = d
			mcts.invokeListener(mcts.listener.onDepth)
		}

		if mcts.Root.Exhausted() {
			reason |= StopExhausted
			break
		}

		if limits.ForceFullTime {
			continue
		}

		if elapsed := mcts.Limiter.ElapsedTime(); elapsed-lastCheck >= interval {
			if elapsed >= minTime && mcts.checkConfidence() {
				reason |= StopConfident
				break
			}
			lastCheck = elapsed
		}
	}

	mcts.Limiter.EvaluateStopReason(uint32(mcts.Root.Plays), reason)
	mcts.invokeListener(mcts.listener.onStop)

	result := mcts.Result()
	log.Debug().
		Str("move", result.BestMove.String()).
		Float64("score", result.Score).
		Int("plays", result.Plays).
		Int("depth", result.Depth).
		Str("strategy", string(mcts.strategy)).
		Stringer("stop", result.StopReason).
		Dur("time", result.ThinkingTime).
		Msg("search finished")
	return result, nil
}

// Update the best move stability and confidence, returns true
// if the search can stop early
func (mcts *MCTS) checkConfidence() bool {
	best, confidence := confidence(mcts.Root, mcts.params.ScoreDiffNormalizer)
	if best == nil {
		return false
	}

	if best == mcts.lastBest {
		mcts.stable++
	} else {
		mcts.stable = 0
		mcts.lastBest = best
	}
	mcts.confidence = confidence
	mcts.invokeListener(mcts.listener.onCheck)

	return confidentEnough(mcts.params, confidence, mcts.stable)
}

// Looser confidence requires more stable checks
func confidentEnough(p *Params, confidence float64, stable int) bool {
	return (confidence > p.ConfidenceHigh && stable >= p.StableChecksHigh) ||
		(confidence > p.ConfidenceModerate && stable >= p.StableChecksModerate) ||
		stable >= p.StableChecksLow
}

// One iteration: descend with UCB1 through nodes without unseen moves,
// expand one child at the first node that has some, then walk back up
// restoring the game and refreshing the exhausted flags.
func (mcts *MCTS) iterate(c float64) {
	path := append(mcts.path[:0], mcts.Root)
	node := mcts.Root

	for node.Unseen() == 0 {
		child := selectUCB1(node, c)
		if child == nil {
			break
		}
		mcts.traverse(child)
		path = append(path, child)
		node = child
	}

	if node.Unseen() > 0 {
		mcts.expand(path)
	}

	for i := len(path) - 1; i >= 0; i-- {
		path[i].updateExhausted()
		if i > 0 {
			mcts.backTraverse(path[i])
		}
	}
	mcts.path = path
}

// Make the moves of the edge leading to 'node'
func (mcts *MCTS) traverse(node *Node) {
	mcts.game.Play(node.Move)
	if node.Reply.Valid() {
		mcts.game.Play(node.Reply)
	}
}

// Undo the moves made by traverse
func (mcts *MCTS) backTraverse(node *Node) {
	if node.Reply.Valid() {
		mcts.game.Undo()
	}
	mcts.game.Undo()
}

// Expand one unseen move of the last node on the path, score the new child
// and backpropagate the score through the whole path
func (mcts *MCTS) expand(path []*Node) {
	parent := path[len(path)-1]
	m := parent.unseen[len(parent.unseen)-1]
	parent.unseen = parent.unseen[:len(parent.unseen)-1]

	g := mcts.game
	g.Play(m)
	reply := uttt.MoveNone
	if !g.Terminated() {
		reply = mcts.opponentReply(len(path) - 1)
		if reply.Valid() && !g.Play(reply) {
			log.Warn().Str("reply", reply.String()).Msg("illegal opponent reply, ignoring it")
			reply = uttt.MoveNone
		}
	}

	child := newNode(m, reply, parent.Player, g.LegalMoves().Slice())
	child.Score = mcts.evaluate(child.Player)
	child.exhausted = child.Unseen() == 0
	parent.Children = append(parent.Children, child)
	mcts.size++

	if reply.Valid() {
		g.Undo()
	}
	g.Undo()

	// Depth of the new child relative to each node on the path
	depth := len(path)
	for i, node := range path {
		node.Plays++
		node.Score += child.Score
		node.DepthSeen = max(node.DepthSeen, depth-i)
	}
}

func (mcts *MCTS) invokeListener(f ListenerFunc) {
	if f != nil {
		f(toListenerStats(mcts))
	}
}

// Computed in 64 bits, long analyses overflow cycles*1000 in 32
func cyclesPerSecond(cycles int, elapsedMs uint32) uint32 {
	return uint32(uint64(cycles) * 1000 / uint64(max(elapsedMs, 1)))
}

func seconds2duration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
