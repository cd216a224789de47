package uttt

import (
	"fmt"

	"github.com/muesli/termenv"
)

const targetAny int8 = -1

// Main game struct, owns the board, the move history and the side to move
type Game struct {
	board   Board
	history history
	next    Mark
	target  int8 // board the next move must be played on, -1 if any open board
}

// Create a fresh game, x moves first
func NewGame() *Game {
	return &Game{
		history: newHistory(),
		next:    MarkX,
		target:  targetAny,
	}
}

// Make a deep copy of the game (has no shared memory with this object)
func (g *Game) Clone() *Game {
	return &Game{
		board:   g.board,
		history: g.history.clone(),
		next:    g.next,
		target:  g.target,
	}
}

// Getters

func (g *Game) Board() *Board {
	return &g.board
}

func (g *Game) Next() Mark {
	return g.next
}

func (g *Game) Winner() Mark {
	return g.board.Winner
}

// Forced mini-board for the next move, -1 if the player can choose any open board
func (g *Game) Target() int {
	return int(g.target)
}

// Most recent move, MoveNone if nothing was played
func (g *Game) LastMove() Move {
	return g.history.last()
}

// Chronological list of played moves
func (g *Game) Moves() []Move {
	return g.history.moves()
}

func (g *Game) Ply() int {
	return g.history.size()
}

// Game is decided, either someone won or there are no legal moves left
func (g *Game) Terminated() bool {
	return g.board.Winner != MarkNone || !g.hasLegalMove()
}

// No winner and no legal moves left
func (g *Game) Draw() bool {
	return g.board.Winner == MarkNone && !g.hasLegalMove()
}

// Compute the forced board for the opponent after a move on given cell
func (g *Game) targetAfter(cell int) int8 {
	if g.board.Boards[cell].Open() {
		return int8(cell)
	}
	return targetAny
}

// Check if placing a mark on [board][cell] is legal for the side to move
func (g *Game) IsLegal(board, cell int) bool {
	// Index out of range, game decided, wrong board, non-empty square or board is won
	if board < 0 || board >= 9 || cell < 0 || cell >= 9 ||
		g.board.Winner != MarkNone ||
		(g.target != targetAny && int(g.target) != board) ||
		g.board.Boards[board].Winner != MarkNone ||
		g.board.Boards[board].Cells[cell] != MarkNone {
		return false
	}
	return true
}

// Put 'player' mark on [board][cell], refuses (returns false) if it's not
// that player's turn, the square is not legal or the game is already decided.
// Never applies a move partially.
func (g *Game) MakeMove(board, cell int, player Mark) bool {
	if player != g.next || !g.IsLegal(board, cell) {
		return false
	}

	m := Move{Board: int8(board), Cell: int8(cell), Player: player}
	g.history.append(m, g.target)
	g.board.Boards[board].Cells[cell] = player

	// Meta recomputation must follow the cell mutation
	g.board.evaluateBoard(board)
	g.target = g.targetAfter(cell)
	g.next = player.Opponent()
	return true
}

// Same as MakeMove, but takes a Move value
func (g *Game) Play(m Move) bool {
	return g.MakeMove(int(m.Board), int(m.Cell), m.Player)
}

// Verifies legality of given move, then if it's valid, make's it on the board
func (g *Game) MakeLegalMove(m Move) error {
	if !g.Play(m) {
		return fmt.Errorf("%w: %s by %q, possible moves=[%s]", ErrIllegalMove, m, m.Player, g.LegalMoves())
	}
	return nil
}

// Undo last move, returns false if the history is empty
func (g *Game) Undo() bool {
	last, ok := g.history.pop()
	if !ok {
		return false
	}

	m := last.move
	g.board.Boards[m.Board].Cells[m.Cell] = MarkNone
	g.board.evaluateBoard(int(m.Board))
	g.target = last.prevTarget
	g.next = m.Player
	return true
}

// Undo n moves, returns how many were actually undone
func (g *Game) UndoN(n int) int {
	for i := 0; i < n; i++ {
		if !g.Undo() {
			return i
		}
	}
	return n
}

func (g *Game) String() string {
	return Render(g, termenv.Ascii)
}
