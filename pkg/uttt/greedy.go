package uttt

// Pick the legal move with the highest meta-board score for the side to move.
// Each move is made on the game, scored and undone, so the game is left
// unchanged. Ties keep the first move generated. Returns false if there
// is no legal move.
func (g *Game) GreedyNextMove(w *Weights) (Move, bool) {
	w = weightsOrDefault(w)
	movelist := g.LegalMoves()
	mover := g.next

	best, bestScore := MoveNone, -1.0
	for _, m := range movelist.Slice() {
		g.Play(m)
		s := g.board.Score(mover, w)
		g.Undo()

		if s > bestScore {
			best, bestScore = m, s
		}
	}
	return best, best.Valid()
}

// Play up to n greedy moves, stops early if the game is decided.
// Returns the number of moves actually made.
func (g *Game) RunGreedyMoves(n int, w *Weights) int {
	for i := 0; i < n; i++ {
		m, ok := g.GreedyNextMove(w)
		if !ok {
			return i
		}
		g.Play(m)
	}
	return n
}
