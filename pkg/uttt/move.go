package uttt

import (
	"fmt"
	"strings"
)

// Single move: 'Player' puts a mark on the square [Board][Cell]
type Move struct {
	Board  int8 `json:"board"`
	Cell   int8 `json:"cell"`
	Player Mark `json:"-"`
}

// Returned when there is no legal move to make
var MoveNone = Move{Board: -1, Cell: -1}

func NewMove(board, cell int, player Mark) Move {
	return Move{Board: int8(board), Cell: int8(cell), Player: player}
}

// Wheter this move points to a valid square
func (m Move) Valid() bool {
	return m.Board >= 0 && m.Board < 9 && m.Cell >= 0 && m.Cell < 9
}

// Same square, ignoring the player
func (m Move) Same(other Move) bool {
	return m.Board == other.Board && m.Cell == other.Cell
}

// Get string representation of the move, will contain
// A/B/C 1/2/3 as big board coordinates, and a/b/c 1/2/3 as the
// small board coordinates, for example board = 7, cell = 2 -> B1c3
//
//	    A   B   C
//	  0 | 1 | 2    3
//	 -----------
//	  3 | 4 | 5    2
//	 -----------
//	  6 | 7 | 8    1
func (m Move) String() string {
	if !m.Valid() {
		return "(none)"
	}

	builder := strings.Builder{}
	builder.WriteByte('A' + byte(m.Board%3))
	builder.WriteByte('3' - byte(m.Board/3))
	builder.WriteByte('a' + byte(m.Cell%3))
	builder.WriteByte('3' - byte(m.Cell/3))
	return builder.String()
}

// Convert given move notation (made with Move.String()) to a Move, without the player set
func MoveFromString(str string) (Move, error) {
	if len(str) != 4 {
		return MoveNone, fmt.Errorf("%w: move %q", ErrNotation, str)
	}

	// Make sure the coordinates are within the range
	_cmp := func(i int, letter byte) bool {
		return (str[i] >= letter && str[i] <= letter+2) &&
			(str[i+1] >= '1' && str[i+1] <= '3')
	}

	if !_cmp(0, 'A') || !_cmp(2, 'a') {
		return MoveNone, fmt.Errorf("%w: move %q", ErrNotation, str)
	}

	return Move{
		Board: int8((str[0] - 'A') + ('3'-str[1])*3),
		Cell:  int8((str[2] - 'a') + ('3'-str[3])*3),
	}, nil
}

type MoveList struct {
	moves [9 * 9]Move
	size  uint8
}

// Make a new move list struct
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Reset the movelist, simply sets the size to 0
func (ml *MoveList) Clear() {
	ml.size = 0
}

// Get the actual slice of valid moves
func (ml *MoveList) Slice() []Move {
	return ml.moves[0:ml.size]
}

func (ml *MoveList) Size() int {
	return int(ml.size)
}

func (ml *MoveList) Append(board, cell int, player Mark) {
	ml.moves[ml.size] = Move{Board: int8(board), Cell: int8(cell), Player: player}
	ml.size++
}

// Wheter the list contains a move on the same square
func (ml *MoveList) Contains(m Move) bool {
	for _, v := range ml.Slice() {
		if v.Same(m) {
			return true
		}
	}
	return false
}

// Convert movelist into a string, uses move notation with space seperation
func (ml *MoveList) String() string {
	if ml.size == 0 {
		return "empty"
	}

	strMoves := make([]string, ml.size)
	for i, m := range ml.Slice() {
		strMoves[i] = m.String()
	}
	return strings.Join(strMoves, " ")
}
