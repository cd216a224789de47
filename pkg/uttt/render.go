package uttt

import (
	"strings"

	"github.com/muesli/termenv"
)

// Colors used by Render, ANSI palette indexes
var (
	ColorX      = "9"
	ColorO      = "12"
	ColorTarget = "11"
	ColorLast   = "10"
)

// Render the game as a 9x9 grid of text, mini-boards separated by double bars.
// Marks are colored with the given terminal profile, termenv.Ascii yields
// plain text. Squares of the forced board are highlighted, won mini-boards
// show the winner's mark in every empty square.
//
//	x . . || . . . || . . .
//	. o . || . x . || . . .
//	. . . || . . . || . . .
//	======++=======++======
func Render(g *Game, profile termenv.Profile) string {
	builder := strings.Builder{}
	last := g.LastMove()

	for row := 0; row < 9; row++ {
		if row > 0 && row%3 == 0 {
			builder.WriteString("======++=======++======\n")
		}

		for col := 0; col < 9; col++ {
			if col > 0 {
				if col%3 == 0 {
					builder.WriteString(" || ")
				} else {
					builder.WriteByte(' ')
				}
			}

			bi := (row/3)*3 + col/3
			ci := (row%3)*3 + col%3
			builder.WriteString(renderSquare(g, profile, bi, ci, last))
		}
		builder.WriteByte('\n')
	}

	return builder.String()
}

func renderSquare(g *Game, profile termenv.Profile, bi, ci int, last Move) string {
	mb := &g.board.Boards[bi]
	mark := mb.Cells[ci]

	text := "."
	if mark != MarkNone {
		text = mark.String()
	} else if mb.Winner != MarkNone {
		text = mb.Winner.String()
		mark = mb.Winner
	}

	style := profile.String(text)
	switch mark {
	case MarkX:
		style = style.Foreground(profile.Color(ColorX))
	case MarkO:
		style = style.Foreground(profile.Color(ColorO))
	default:
		if g.target == int8(bi) {
			style = style.Foreground(profile.Color(ColorTarget))
		}
	}

	if mb.Winner != MarkNone && mb.Cells[ci] == MarkNone {
		style = style.Faint()
	}
	if last.Valid() && int(last.Board) == bi && int(last.Cell) == ci {
		style = style.Bold().Underline()
	}
	return style.String()
}
