package mcts

import (
	"cmp"
	"math"
	"slices"
)

// UCB1 value of a child: avg + 2*C*sqrt(2*ln(parent plays)/child plays)
func ucb1(parent, child *Node, c float64) float64 {
	return child.AvgScore() + 2*c*math.Sqrt(2*math.Log(float64(parent.Plays))/float64(child.Plays))
}

// Select the child to descend into, with given exploration constant.
// Exhausted children are skipped, on ties the last maximal child wins
// (the final move choice keeps the first one instead). Returns nil if
// every child is exhausted.
func selectUCB1(parent *Node, c float64) *Node {
	var best *Node
	bestValue := math.Inf(-1)

	for _, child := range parent.Children {
		if child.exhausted {
			continue
		}

		if v := ucb1(parent, child, c); v >= bestValue {
			bestValue = v
			best = child
		}
	}
	return best
}

// Exploration constant for the current iteration: higher early in the search
// and with more legal moves, capped at base * maxFactor
func dynamicExploration(base, maxFactor, elapsedRatio float64, moves int) float64 {
	elapsedRatio = min(1, max(0, elapsedRatio))
	timeFactor := 1 + (1 - elapsedRatio)
	branchingFactor := min(1+float64(moves)/20, 2)
	return min(base*timeFactor*branchingFactor, base*maxFactor)
}

// Children sorted by their average score, best first. Stable, so on ties
// the first expanded child comes first.
func rankChildren(node *Node) []*Node {
	ranked := slices.Clone(node.Children)
	slices.SortStableFunc(ranked, func(a, b *Node) int {
		return cmp.Compare(b.AvgScore(), a.AvgScore())
	})
	return ranked
}

// Child with the best average score, nil if there are no children
func bestChild(node *Node) *Node {
	var best *Node
	for _, child := range node.Children {
		if best == nil || child.AvgScore() > best.AvgScore() {
			best = child
		}
	}
	return best
}

// Best move and the confidence of that choice: the gap between the two best
// average scores divided by normalizer, capped at 1. A single child is
// always fully confident.
func confidence(node *Node, normalizer float64) (*Node, float64) {
	if len(node.Children) == 0 {
		return nil, 0
	}

	ranked := rankChildren(node)
	if len(ranked) == 1 {
		return ranked[0], 1
	}
	return ranked[0], min(1, (ranked[0].AvgScore()-ranked[1].AvgScore())/normalizer)
}
