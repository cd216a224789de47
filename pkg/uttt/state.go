package uttt

// History of the game, used for undo functionality
type historyEntry struct {
	move       Move
	prevTarget int8 // forced board before this move was made, -1 means any
}

// Stores the history of the game as a slice of entries, in chronological order
type history struct {
	list []historyEntry
}

func newHistory() history {
	return history{list: make([]historyEntry, 0, 16)}
}

func (h *history) append(m Move, prevTarget int8) {
	h.list = append(h.list, historyEntry{move: m, prevTarget: prevTarget})
}

// Remove last entry, returns false if there is nothing to remove
func (h *history) pop() (historyEntry, bool) {
	if len(h.list) == 0 {
		return historyEntry{}, false
	}
	last := h.list[len(h.list)-1]
	h.list = h.list[:len(h.list)-1]
	return last, true
}

func (h *history) size() int {
	return len(h.list)
}

// Get the last move, or MoveNone if there is no history
func (h *history) last() Move {
	if len(h.list) == 0 {
		return MoveNone
	}
	return h.list[len(h.list)-1].move
}

func (h *history) moves() []Move {
	moves := make([]Move, len(h.list))
	for i := range h.list {
		moves[i] = h.list[i].move
	}
	return moves
}

func (h *history) clone() history {
	list := make([]historyEntry, len(h.list), max(cap(h.list), 16))
	copy(list, h.list)
	return history{list: list}
}
