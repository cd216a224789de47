package uttt

import "errors"

// Mark occupying a cell, also used as the player identity and as the winner
// of a mini-board or of the whole game
type Mark int8

// Enum for the marks
const (
	MarkNone Mark = iota
	MarkX
	MarkO
)

var (
	ErrIllegalMove = errors.New("illegal move")
	ErrNotation    = errors.New("invalid notation")
)

// Opponent of this mark, MarkNone has no opponent
func (m Mark) Opponent() Mark {
	switch m {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	}
	return MarkNone
}

func (m Mark) String() string {
	switch m {
	case MarkX:
		return "x"
	case MarkO:
		return "o"
	}
	return ""
}

// Create a mark from a rune, anything other than x/o (case insensitive) is MarkNone
func MarkFromRune(r rune) Mark {
	switch r {
	case 'x', 'X':
		return MarkX
	case 'o', 'O':
		return MarkO
	default:
		return MarkNone
	}
}

// Rows, columns and diagonals of a 3x3 grid
//
//	0 | 1 | 2
//	---------
//	3 | 4 | 5
//	---------
//	6 | 7 | 8
var Lines = [8][3]int{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Returns the mark occupying any complete line of the grid, or MarkNone
func ThreeInARow(cells [9]Mark) Mark {
	for i := 0; i < len(Lines); i++ {
		if v := cells[Lines[i][0]]; v != MarkNone &&
			v == cells[Lines[i][1]] && v == cells[Lines[i][2]] {
			return v
		}
	}
	return MarkNone
}

// Count marks of given player and of the opponent on a line
func countLine(cells *[9]Mark, line *[3]int, player Mark) (own, theirs int) {
	opponent := player.Opponent()
	for _, idx := range line {
		switch cells[idx] {
		case player:
			own++
		case opponent:
			theirs++
		}
	}
	return own, theirs
}
