package uttt

// Generate all legal moves for the side to move, the list is empty iff the game is decided
func (g *Game) LegalMoves() *MoveList {
	movelist := NewMoveList()
	g.appendLegalMoves(movelist)
	return movelist
}

// Same as LegalMoves, but reuses given list
func (g *Game) LegalMovesInto(movelist *MoveList) {
	movelist.Clear()
	g.appendLegalMoves(movelist)
}

func (g *Game) appendLegalMoves(movelist *MoveList) {
	// If the game is over, stop returning legal moves
	if g.board.Winner != MarkNone {
		return
	}

	if g.target != targetAny {
		appendBoardMoves(movelist, &g.board.Boards[g.target], int(g.target), g.next)
		return
	}

	// Target board is won or full (or it's the first move), go anywhere
	for bi := range g.board.Boards {
		appendBoardMoves(movelist, &g.board.Boards[bi], bi, g.next)
	}
}

func appendBoardMoves(movelist *MoveList, mb *MiniBoard, bi int, player Mark) {
	if mb.Winner != MarkNone {
		return
	}
	for ci, c := range mb.Cells {
		if c == MarkNone {
			movelist.Append(bi, ci, player)
		}
	}
}

// Cheaper version of LegalMoves().Size() > 0
func (g *Game) hasLegalMove() bool {
	if g.board.Winner != MarkNone {
		return false
	}
	if g.target != targetAny {
		return g.board.Boards[g.target].Open()
	}
	for i := range g.board.Boards {
		if g.board.Boards[i].Open() {
			return true
		}
	}
	return false
}
