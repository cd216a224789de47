package uttt

import (
	"fmt"
	"strings"
)

const (
	StartingPosition string = "9/9/9/9/9/9/9/9/9 x -"
)

// string notation for the ultimate tic tac toe position,
// much like the FEN representation of a chessboard:
//
//	X/X/X/X/X/X/X/X/X <turn> <board>
//
// where `X` is one mini-board string, cells written in order 0..8,
// 'x' and 'o' for the marks and a digit for the number of empty cells.
//
// For example, let X be:
//
//	o | x | x
//	---------
//	x | o |
//	---------
//	o |   |
//
// then X format string would be: oxxxo1o2
//
// <turn> - either 'o' or 'x'
//
// <board> - where the current player must play, a digit between 0 and 8,
// or '-' if player can move on any open board
//
// Examples:
//
// * 9/9/9/9/9/9/9/9/9 x -
//
// * 9/9/9/7x1/4xo3/8x/9/4o4/o8 x 0
func (g *Game) Notation() string {
	builder := strings.Builder{}

	for bi := range g.board.Boards {
		counter := 0
		for _, c := range g.board.Boards[bi].Cells {
			if c == MarkNone {
				counter++
				continue
			}
			if counter > 0 {
				builder.WriteByte('0' + byte(counter))
				counter = 0
			}
			builder.WriteString(c.String())
		}

		if counter > 0 {
			builder.WriteByte('0' + byte(counter))
		}
		if bi != 8 {
			builder.WriteByte('/')
		}
	}

	builder.WriteByte(' ')
	builder.WriteString(g.next.String())

	builder.WriteByte(' ')
	if g.target == targetAny {
		builder.WriteByte('-')
	} else {
		builder.WriteByte('0' + byte(g.target))
	}

	return builder.String()
}

// Create the game from given notation string, the history will be empty,
// so the loaded position can't be undone past this point
func FromNotation(notation string) (*Game, error) {
	if notation == "startpos" {
		notation = StartingPosition
	}

	sections := strings.Fields(notation)
	if len(sections) != 3 {
		return nil, fmt.Errorf("%w: expected 3 sections, got %d", ErrNotation, len(sections))
	}

	boards := strings.Split(sections[0], "/")
	if len(boards) != 9 {
		return nil, fmt.Errorf("%w: expected 9 boards, got %d", ErrNotation, len(boards))
	}

	var cells [9][9]Mark
	for bi, board := range boards {
		ci := 0
		for _, v := range board {
			switch {
			case v == 'x' || v == 'o':
				if ci >= 9 {
					return nil, fmt.Errorf("%w: too many squares within board %d", ErrNotation, bi)
				}
				cells[bi][ci] = MarkFromRune(v)
				ci++
			case '1' <= v && v <= '9':
				ci += int(v - '0')
			default:
				return nil, fmt.Errorf("%w: unexpected token %q in board %d", ErrNotation, v, bi)
			}
		}

		// Every board must describe exactly 9 squares
		if ci != 9 {
			return nil, fmt.Errorf("%w: invalid number of squares within board %d", ErrNotation, bi)
		}
	}

	var next Mark
	switch sections[1] {
	case "x":
		next = MarkX
	case "o":
		next = MarkO
	default:
		return nil, fmt.Errorf("%w: invalid side %q", ErrNotation, sections[1])
	}

	target := targetAny
	if v := sections[2]; len(v) == 1 && v[0] >= '0' && v[0] <= '8' {
		target = int8(v[0] - '0')
	} else if v != "-" {
		return nil, fmt.Errorf("%w: invalid board %q, expected a digit 0-8 or '-'", ErrNotation, v)
	}

	g := &Game{history: newHistory(), next: next, target: target}
	g.setup(cells)
	return g, nil
}

// Create a game from the board state and the most recent move,
// the next player is the opponent of the last move's player.
func FromState(cells [9][9]Mark, last Move) (*Game, error) {
	if !last.Valid() || last.Player == MarkNone {
		return nil, fmt.Errorf("%w: last move %s by %q", ErrIllegalMove, last, last.Player)
	}
	if cells[last.Board][last.Cell] != last.Player {
		return nil, fmt.Errorf("%w: square %s doesn't hold the last move's mark", ErrIllegalMove, last)
	}

	g := &Game{history: newHistory(), next: last.Player.Opponent(), target: int8(last.Cell)}
	g.history.append(last, targetAny)
	g.setup(cells)
	return g, nil
}

// Replay given moves from the starting position
func FromMoves(moves []Move) (*Game, error) {
	g := NewGame()
	for i, m := range moves {
		if err := g.MakeLegalMove(m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return g, nil
}

// Set the cells, evaluate winners and drop the target if it can't be played on
func (g *Game) setup(cells [9][9]Mark) {
	for i := range cells {
		g.board.Boards[i].Cells = cells[i]
	}
	g.board.evaluate()

	if g.target != targetAny && !g.board.Boards[g.target].Open() {
		g.target = targetAny
	}
}
