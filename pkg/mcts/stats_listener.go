package mcts

import "github.com/IlikeChooros/go-uttt/pkg/uttt"

type SearchLine struct {
	BestMove uttt.Move
	Moves    []uttt.Move
	Eval     float64
	Terminal bool
}

type ListenerTreeStats struct {
	Maxdepth   int
	Cycles     int
	TimeMs     int
	Cps        uint32
	Size       int
	Lines      []SearchLine
	Confidence float64
	Stable     int
	StopReason StopReason
}

// Convert tree state to 'ListenerTreeStats' struct
func toListenerStats(tree *MCTS) ListenerTreeStats {
	ranked := rankChildren(tree.Root)
	count := min(len(ranked), max(1, tree.Limiter.Limits().MultiPv))
	lines := make([]SearchLine, count)
	for i := 0; i < count; i++ {
		pv, terminal := tree.Pv(ranked[i])
		lines[i] = SearchLine{
			BestMove: ranked[i].Move,
			Moves:    pv,
			Eval:     ranked[i].AvgScore(),
			Terminal: terminal,
		}
	}

	return ListenerTreeStats{
		Lines:      lines,
		Maxdepth:   tree.MaxDepth(),
		Cycles:     tree.Cycles(),
		TimeMs:     int(tree.Limiter.Elapsed()),
		Cps:        tree.Cps(),
		Size:       tree.Size(),
		Confidence: tree.confidence,
		Stable:     tree.stable,
		StopReason: tree.Limiter.StopReason(),
	}
}

// Listener function callback, will recieve current tree statistics, like
// max depth of tree, number of iterations so far
type ListenerFunc func(ListenerTreeStats)

type StatsListener struct {
	// called when 'max depth' increases, receives new max depth
	onDepth ListenerFunc

	// called every N full iterations, receives total number of cycles
	onCycle ListenerFunc
	nCycles int // call 'onCycle' every N cycles

	// called after every early stop check, with the confidence and stability
	onCheck ListenerFunc

	// called when the search stops
	onStop ListenerFunc
}

func NewStatsListener() StatsListener {
	return StatsListener{nCycles: 1}
}

// Attach new on max depth change callback
func (listener *StatsListener) OnDepth(onDepth ListenerFunc) *StatsListener {
	listener.onDepth = onDepth
	return listener
}

// Attach new on iteration increase callback, this will significantly slow down the search,
// because of pv evaluation, so use it only for debugging
func (listener *StatsListener) OnCycle(onCycle ListenerFunc) *StatsListener {
	listener.onCycle = onCycle
	return listener
}

func (listener *StatsListener) SetCycleInterval(n int) *StatsListener {
	if n < 1 {
		n = 1
	}
	listener.nCycles = n
	return listener
}

// Attach early stop check callback, not called if the search is forced to use full time
func (listener *StatsListener) OnCheck(onCheck ListenerFunc) *StatsListener {
	listener.onCheck = onCheck
	return listener
}

// Attach 'on search end' callback, makes 'StopReason' available in the stats
func (listener *StatsListener) OnStop(onStop ListenerFunc) *StatsListener {
	listener.onStop = onStop
	return listener
}

func (listener *StatsListener) invokeCycle(tree *MCTS) {
	if listener.onCycle != nil && tree.Cycles()%listener.nCycles == 0 {
		listener.onCycle(toListenerStats(tree))
	}
}
