package mcts

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"testing"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog"
)

const (
	// x wins the game by playing board 0 cell 2
	winningPosition = "xx1oo4/9/9/9/xxx6/9/9/9/xxx6 x 0"
	// only board 8 is open with 2 empty squares, every line ends in a draw
	endgamePosition = "xxx6/ooo6/xxx6/xxx6/ooo6/ooo6/ooo6/xxx6/xo1ox1oxo x 8"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

func mustGame(t *testing.T, notation string) *uttt.Game {
	t.Helper()
	g, err := uttt.FromNotation(notation)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

// Play 'n' random moves from the starting position
func randomGame(rng *rand.Rand, n int) *uttt.Game {
	g := uttt.NewGame()
	for i := 0; i < n && !g.Terminated(); i++ {
		moves := g.LegalMoves().Slice()
		g.Play(moves[rng.Intn(len(moves))])
	}
	return g
}

func TestSearchRestoresGame(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	params := DefaultParams()
	params.RolloutDepth = 3
	params.ManyMoves = Tiers{0.01, 0.01, 0.01}
	params.MediumMoves = Tiers{0.01, 0.01, 0.01}
	params.FewMoves = Tiers{0.01, 0.01, 0.01}

	for _, strategy := range []Strategy{StrategyGreedy, StrategyRollout, StrategyMCTS} {
		for i := 0; i < 5; i++ {
			t.Run(fmt.Sprintf("%s-%d", strategy, i), func(t *testing.T) {
				g := randomGame(rng, rng.Intn(30))
				if g.Terminated() {
					t.Skip("Random game already ended")
				}
				notation, moves := g.Notation(), g.Moves()

				limits := DefaultLimits().SetSeconds(6).SetNodes(40).SetForceFullTime(true).SetStrategy(strategy)
				result, err := Search(g, limits, &params)
				if err != nil {
					t.Fatal(err)
				}

				if g.Notation() != notation || fmt.Sprint(g.Moves()) != fmt.Sprint(moves) {
					t.Fatalf("Search didn't restore the game: %q != %q", g.Notation(), notation)
				}
				if result.Strategy != strategy {
					t.Errorf("Expected strategy %s, got %s", strategy, result.Strategy)
				}
				if !g.LegalMoves().Contains(result.BestMove) {
					t.Errorf("Best move %s is not legal", result.BestMove)
				}
			})
		}
	}
}

func TestSearchNoLegalMoves(t *testing.T) {
	g := mustGame(t, "xxx6/xxx6/xxx6/9/9/9/9/9/9 o -")

	result, err := Search(g, DefaultLimits().SetNodes(10), nil)
	if !errors.Is(err, ErrNoLegalMoves) {
		t.Errorf("Expected ErrNoLegalMoves, got %v", err)
	}
	if result.BestMove != uttt.MoveNone || len(result.Moves) != 0 {
		t.Errorf("Expected no move, got %s with %d ranked moves", result.BestMove, len(result.Moves))
	}
}

func TestSearchFindsWin(t *testing.T) {
	g := mustGame(t, winningPosition)

	result, err := Search(g, DefaultLimits().SetSeconds(1).SetNodes(200), nil)
	if err != nil {
		t.Fatal(err)
	}
	if result.BestMove.Board != 0 || result.BestMove.Cell != 2 {
		t.Errorf("Expected the winning move A3c3, got %s", result.BestMove)
	}
	if result.Score != 1.0 {
		t.Errorf("Expected score 1.0 for the winning move, got %f", result.Score)
	}
	if len(result.Pv) != 1 || !result.Pv[0].Same(result.BestMove) {
		t.Errorf("Expected the predicted line to end after the win, got %v", result.Pv)
	}
}

func TestMonotonicNodeBudget(t *testing.T) {
	g := uttt.NewGame()
	g.MakeMove(4, 4, uttt.MarkX)

	prev := 0
	for _, nodes := range []uint32{10, 25, 50, 100} {
		limits := DefaultLimits().SetSeconds(60).SetNodes(nodes).SetForceFullTime(true)
		result, err := Search(g, limits, nil)
		if err != nil {
			t.Fatal(err)
		}

		if result.Plays < prev {
			t.Errorf("Plays decreased from %d to %d with nodes=%d", prev, result.Plays, nodes)
		}
		if result.Plays != int(nodes) {
			t.Errorf("Expected %d plays, got %d", nodes, result.Plays)
		}
		if result.StopReason&StopNodes != StopNodes || result.EarlyStop {
			t.Errorf("Expected node limit stop, got %s", result.StopReason)
		}
		prev = result.Plays
	}
}

func TestSearchExhaustsTree(t *testing.T) {
	g := mustGame(t, endgamePosition)

	result, err := Search(g, DefaultLimits().SetSeconds(30).SetForceFullTime(true), nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.StopReason&StopExhausted != StopExhausted {
		t.Errorf("Expected exhausted stop, got %s", result.StopReason)
	}
	if result.Plays != 3 || result.Nodes != 3 || result.Depth != 1 {
		t.Errorf("Expected 3 plays, 3 nodes and depth 1, got %d, %d, %d", result.Plays, result.Nodes, result.Depth)
	}
	if len(result.Moves) != 2 {
		t.Errorf("Expected 2 ranked moves, got %v", result.Moves)
	}
	if result.ThinkingTime.Seconds() > 5 {
		t.Errorf("Exhausted search should stop right away, took %s", result.ThinkingTime)
	}
}

func TestSearchEarlyStop(t *testing.T) {
	g := mustGame(t, winningPosition)
	params := DefaultParams()
	params.CheckInterval = 0.01
	params.MinTimeCap = 0.05
	params.StableChecksLow = 2

	checks := 0
	tree := NewMCTS(g, &params)
	tree.SetLimits(DefaultLimits().SetSeconds(3))
	tree.StatsListener().OnCheck(func(ListenerTreeStats) { checks++ })

	result, err := tree.Search()
	if err != nil {
		t.Fatal(err)
	}

	if !result.EarlyStop || result.StopReason&StopConfident != StopConfident {
		t.Errorf("Expected confident early stop, got %s", result.StopReason)
	}
	if checks < 3 {
		t.Errorf("Expected at least 3 checks, got %d", checks)
	}
	if result.ThinkingTime.Seconds() >= 3 {
		t.Errorf("Early stop should end before the budget, took %s", result.ThinkingTime)
	}
}

func TestForcedGreedyStrategy(t *testing.T) {
	g := uttt.NewGame()
	params := DefaultParams()
	params.Strategy = StrategyMCTS

	result, err := Search(g, DefaultLimits().SetSeconds(params.GreedyTimeThreshold).SetNodes(20), &params)
	if err != nil {
		t.Fatal(err)
	}
	if result.Strategy != StrategyGreedy {
		t.Errorf("Short budget should force greedy, got %s", result.Strategy)
	}

	params.Strategy = "unknown"
	result, _ = Search(g, DefaultLimits().SetNodes(5), &params)
	if result.Strategy != StrategyGreedy {
		t.Errorf("Unknown strategy should fall back to greedy, got %s", result.Strategy)
	}
}

func TestTierSelection(t *testing.T) {
	p := DefaultParams()
	cases := []struct {
		name     string
		notation string
		seconds  float64
		tiers    Tiers
	}{
		{"Short", uttt.StartingPosition, 3, p.MediumMoves},
		{"MediumMany", uttt.StartingPosition, 8, p.ManyMoves},
		{"MediumFew", endgamePosition, 8, p.MediumMoves},
		{"LongMany", uttt.StartingPosition, 20, p.ManyMoves},
		{"LongFew", endgamePosition, 20, p.FewMoves},
		{"LongMedium", "xo7/9/9/9/9/9/9/9/9 x 0", 20, p.MediumMoves},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			tree := NewMCTS(mustGame(t, c.notation), &p)
			tree.SetLimits(DefaultLimits().SetSeconds(c.seconds))
			tree.setupSearch()
			if tree.tiers != c.tiers {
				t.Errorf("Expected tiers %v, got %v", c.tiers, tree.tiers)
			}
		})
	}

	if s := p.FewMoves.Slice(1); s != 1.0 {
		t.Errorf("Depth 1 should use the first slice, got %f", s)
	}
	if s := p.FewMoves.Slice(2); s != 0.5 {
		t.Errorf("Depth 2 should use the second slice, got %f", s)
	}
	if s := p.FewMoves.Slice(5); s != 0.1 {
		t.Errorf("Depth 5 should use the last slice, got %f", s)
	}
}

func TestUCB1TieBreak(t *testing.T) {
	parent := &Node{Plays: 10}
	a := &Node{Move: uttt.NewMove(0, 0, uttt.MarkX), Plays: 2, Score: 1}
	b := &Node{Move: uttt.NewMove(0, 1, uttt.MarkX), Plays: 2, Score: 1}
	parent.Children = []*Node{a, b}

	if selected := selectUCB1(parent, 1); selected != b {
		t.Errorf("Expected the last maximal child on ties, got %s", selected.Move)
	}
	if best := bestChild(parent); best != a {
		t.Errorf("Expected the first maximal child for the final choice, got %s", best.Move)
	}

	b.exhausted = true
	if selected := selectUCB1(parent, 1); selected != a {
		t.Errorf("Exhausted child should be skipped, got %s", selected.Move)
	}
	a.exhausted = true
	if selected := selectUCB1(parent, 1); selected != nil {
		t.Errorf("Expected no child, got %s", selected.Move)
	}
}

func TestDynamicExploration(t *testing.T) {
	cases := []struct {
		ratio    float64
		moves    int
		expected float64
	}{
		{0, 0, 2},
		{1, 0, 1},
		{0.5, 10, 1.5 * 1.5},
		{0, 81, 4},
		{-1, 100, 4},
		{2, 20, 2},
	}

	for _, c := range cases {
		if got := dynamicExploration(1, 4, c.ratio, c.moves); math.Abs(got-c.expected) > 1e-9 {
			t.Errorf("ratio=%f moves=%d: expected %f, got %f", c.ratio, c.moves, c.expected, got)
		}
	}

	if got := dynamicExploration(1, 3, 0, 81); got != 3 {
		t.Errorf("Expected the cap of 3, got %f", got)
	}
}

func TestConfidence(t *testing.T) {
	parent := &Node{Plays: 3}
	if best, c := confidence(parent, 0.5); best != nil || c != 0 {
		t.Errorf("No children should give no confidence, got %f", c)
	}

	a := &Node{Plays: 1, Score: 0.5}
	parent.Children = []*Node{a}
	if best, c := confidence(parent, 0.5); best != a || c != 1 {
		t.Errorf("Single child should be fully confident, got %f", c)
	}

	b := &Node{Plays: 2, Score: 1.8}
	parent.Children = append(parent.Children, b)
	if best, c := confidence(parent, 0.5); best != b || math.Abs(c-0.8) > 1e-9 {
		t.Errorf("Expected 0.8 confidence for the second child, got %f", c)
	}

	p := DefaultParams()
	stopCases := []struct {
		confidence float64
		stable     int
		stop       bool
	}{
		{0.81, 3, true},
		{0.8, 3, false},
		{0.81, 2, false},
		{0.61, 5, true},
		{0.6, 5, false},
		{0.61, 4, false},
		{0, 8, true},
		{1, 7, true},
		{0.5, 7, false},
	}
	for _, c := range stopCases {
		if got := confidentEnough(&p, c.confidence, c.stable); got != c.stop {
			t.Errorf("confidence=%f stable=%d: expected %v, got %v", c.confidence, c.stable, c.stop, got)
		}
	}
}

func TestScoreOf(t *testing.T) {
	g := uttt.NewGame()
	tree := NewMCTS(g, nil)
	tree.SetLimits(DefaultLimits().SetNodes(5))
	if _, err := tree.Search(); err != nil {
		t.Fatal(err)
	}

	explored := tree.Root.Children[0]
	if score, ok := tree.Root.ScoreOf(explored.Move); !ok || score != explored.AvgScore() {
		t.Errorf("Expected score %f for %s, got %f (ok=%v)", explored.AvgScore(), explored.Move, score, ok)
	}

	// Moves are expanded from the back of the move list, the first one is unexplored
	unexplored := uttt.NewMove(0, 0, uttt.MarkX)
	if _, ok := tree.Root.ScoreOf(unexplored); ok {
		t.Errorf("Move %s shouldn't be explored", unexplored)
	}
	if tree.Root.Child(unexplored) != nil {
		t.Error("Child of an unexplored move should be nil")
	}
}

func TestBackpropagation(t *testing.T) {
	g := uttt.NewGame()
	tree := NewMCTS(g, nil)
	tree.SetLimits(DefaultLimits().SetNodes(200).SetForceFullTime(true))
	if _, err := tree.Search(); err != nil {
		t.Fatal(err)
	}

	var check func(node *Node, depth int) int
	check = func(node *Node, depth int) int {
		plays, deepest := 1, 0
		for _, child := range node.Children {
			plays += child.Plays
			deepest = max(deepest, child.DepthSeen+1)
			check(child, depth+1)
		}
		if node.Plays != plays {
			t.Errorf("Node %s at depth %d: expected %d plays, got %d", node.Move, depth, plays, node.Plays)
		}
		if node.DepthSeen != deepest {
			t.Errorf("Node %s at depth %d: expected depth seen %d, got %d", node.Move, depth, deepest, node.DepthSeen)
		}
		return plays
	}

	if plays := check(tree.Root, 0); plays != 200 {
		t.Errorf("Expected 200 plays at the root, got %d", plays)
	}
	if tree.Size() != tree.Root.Count() {
		t.Errorf("Size %d doesn't match the node count %d", tree.Size(), tree.Root.Count())
	}
}

func TestListener(t *testing.T) {
	tree := NewMCTS(uttt.NewGame(), nil)
	tree.SetLimits(DefaultLimits().SetNodes(100).SetMultiPv(3))

	stops, cycles, depth := 0, 0, 0
	listener := NewStatsListener()
	listener.
		OnDepth(func(stats ListenerTreeStats) { depth = stats.Maxdepth }).
		OnCycle(func(stats ListenerTreeStats) { cycles++ }).
		SetCycleInterval(10).
		OnStop(func(stats ListenerTreeStats) {
			stops++
			if len(stats.Lines) != 3 {
				t.Errorf("Expected 3 lines, got %d", len(stats.Lines))
			}
			if stats.StopReason&StopNodes != StopNodes {
				t.Errorf("Expected node limit stop, got %s", stats.StopReason)
			}
		})
	tree.SetListener(listener)

	if _, err := tree.Search(); err != nil {
		t.Fatal(err)
	}
	if stops != 1 {
		t.Errorf("Expected 1 stop call, got %d", stops)
	}
	if cycles != tree.Cycles()/10 {
		t.Errorf("Expected %d cycle calls, got %d", tree.Cycles()/10, cycles)
	}
	if depth != tree.MaxDepth() {
		t.Errorf("Expected last depth %d, got %d", tree.MaxDepth(), depth)
	}
}

func TestCyclesPerSecond(t *testing.T) {
	cases := []struct {
		cycles  int
		elapsed uint32
		want    uint32
	}{
		{0, 1, 0},
		{500, 1000, 500},
		{10, 0, 10000},
		// cycles*1000 doesn't fit in 32 bits
		{5_000_000, 100_000, 50_000},
	}

	for _, c := range cases {
		if got := cyclesPerSecond(c.cycles, c.elapsed); got != c.want {
			t.Errorf("cyclesPerSecond(%d, %d) = %d, want %d", c.cycles, c.elapsed, got, c.want)
		}
	}
}
