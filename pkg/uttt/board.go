package uttt

// One of the 9 inner tic tac toe boards
type MiniBoard struct {
	Cells  [9]Mark
	Winner Mark // MarkNone until a line of 3 identical marks exists
}

// Recompute the cached winner from the cells
func (mb *MiniBoard) evaluate() {
	mb.Winner = ThreeInARow(mb.Cells)
}

// Every cell is taken
func (mb *MiniBoard) Full() bool {
	for _, c := range mb.Cells {
		if c == MarkNone {
			return false
		}
	}
	return true
}

// Board is neither won nor full, so a mark can still be placed here
func (mb *MiniBoard) Open() bool {
	return mb.Winner == MarkNone && !mb.Full()
}

// Empty cells of this board, none if it's already won
func (mb *MiniBoard) LegalCells() []int {
	if mb.Winner != MarkNone {
		return nil
	}

	cells := make([]int, 0, 9)
	for i, c := range mb.Cells {
		if c == MarkNone {
			cells = append(cells, i)
		}
	}
	return cells
}

// The meta-board, 3x3 grid of the mini-boards
type Board struct {
	Boards [9]MiniBoard
	Winner Mark // computed from mini-board winners with the same three in a row rule
}

// Mini-board winners treated as a tic tac toe board
func (b *Board) Winners() [9]Mark {
	var winners [9]Mark
	for i := range b.Boards {
		winners[i] = b.Boards[i].Winner
	}
	return winners
}

// Recompute every winner, mini-boards first then the meta-board
func (b *Board) evaluate() {
	for i := range b.Boards {
		b.Boards[i].evaluate()
	}
	b.Winner = ThreeInARow(b.Winners())
}

// Recompute the touched mini-board, then the meta-board
func (b *Board) evaluateBoard(index int) {
	b.Boards[index].evaluate()
	b.Winner = ThreeInARow(b.Winners())
}
