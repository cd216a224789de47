package mcts

import (
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/rs/zerolog/log"
)

// Search tree node. The edge leading to it holds the searching player's move
// and the simulated opponent reply, so every node is a position where
// the searching player is to move again. Nodes don't own a game state,
// the tree shares a single game which is walked with make/undo.
type Node struct {
	Move  uttt.Move // searching player's move, MoveNone for the root
	Reply uttt.Move // simulated reply, MoveNone if the game ended after Move

	// Searching player, the perspective of every score in the tree
	Player uttt.Mark

	Plays     int     // starts at 1, incremented by every descendant expansion
	Score     float64 // cumulative score of this node and its descendants
	DepthSeen int     // deepest descendant, relative to this node

	Children []*Node
	unseen   []uttt.Move // popped from the back

	// Node has no unseen moves and every child is exhausted (or there are none)
	exhausted bool
}

func newNode(move, reply uttt.Move, player uttt.Mark, unseen []uttt.Move) *Node {
	return &Node{
		Move:   move,
		Reply:  reply,
		Player: player,
		Plays:  1,
		unseen: unseen,
	}
}

// Create new root for given position, the player to move is the searching player
func newRootNode(g *uttt.Game) *Node {
	return newNode(uttt.MoveNone, uttt.MoveNone, g.Next(), g.LegalMoves().Slice())
}

func (node *Node) AvgScore() float64 {
	return node.Score / float64(node.Plays)
}

// Number of moves not expanded yet
func (node *Node) Unseen() int {
	return len(node.unseen)
}

// No unseen moves and no children, the game ended at this node
func (node *Node) Terminal() bool {
	return len(node.unseen) == 0 && len(node.Children) == 0
}

// The subtree can't grow anymore
func (node *Node) Exhausted() bool {
	return node.exhausted
}

// Child reached by given searching player's move, nil if it wasn't explored
func (node *Node) Child(m uttt.Move) *Node {
	for _, child := range node.Children {
		if child.Move.Same(m) {
			return child
		}
	}
	return nil
}

// Average score of the child reached by given move, returns false (and logs it)
// if the move was never explored from this node
func (node *Node) ScoreOf(m uttt.Move) (float64, bool) {
	child := node.Child(m)
	if child == nil {
		log.Warn().Str("move", m.String()).Msg("move is not explored from this node")
		return 0, false
	}
	return child.AvgScore(), true
}

// Recompute the exhausted flag from the children
func (node *Node) updateExhausted() {
	if len(node.unseen) > 0 {
		return
	}
	for _, child := range node.Children {
		if !child.exhausted {
			return
		}
	}
	node.exhausted = true
}

// Count nodes of this subtree
func (node *Node) Count() int {
	nodes := 1
	for _, child := range node.Children {
		nodes += child.Count()
	}
	return nodes
}
