package uttt

// Importance of every empty square of a 3x3 grid for both marks.
// Each line with an empty square contributes to its squares, depending on how
// many of the player's marks it already holds and divided by the number of
// the player's viable lines. Lines holding an opponent mark contribute nothing.
// Both vectors are normalized independently to [0, 1].
// If the grid is already won, both vectors are zero.
func SquareImportance(cells [9]Mark, w *Weights) (x, o [9]float64) {
	if ThreeInARow(cells) != MarkNone {
		return x, o
	}
	w = weightsOrDefault(w)

	viableX, viableO := viableLines(&cells, MarkX), viableLines(&cells, MarkO)
	for i := range Lines {
		line := &Lines[i]
		if cells[line[0]] != MarkNone && cells[line[1]] != MarkNone && cells[line[2]] != MarkNone {
			continue
		}

		lx := lineImportance(&cells, line, MarkX, viableX, w)
		lo := lineImportance(&cells, line, MarkO, viableO, w)
		for _, idx := range line {
			if cells[idx] == MarkNone {
				x[idx] += lx
				o[idx] += lo
			}
		}
	}

	normalize(&x)
	normalize(&o)
	return x, o
}

// Number of lines without any opponent mark
func viableLines(cells *[9]Mark, player Mark) int {
	n := 0
	for i := range Lines {
		if _, theirs := countLine(cells, &Lines[i], player); theirs == 0 {
			n++
		}
	}
	return n
}

func lineImportance(cells *[9]Mark, line *[3]int, player Mark, viable int, w *Weights) float64 {
	own, theirs := countLine(cells, line, player)
	if theirs > 0 || viable == 0 {
		return 0
	}

	switch own {
	case 2:
		return min(1, w.ImportanceWin/float64(viable))
	case 1:
		return w.ImportanceDevelop / float64(viable)
	}
	return w.ImportanceFresh / float64(viable)
}

func normalize(v *[9]float64) {
	top := 0.0
	for _, x := range v {
		top = max(top, x)
	}
	if top <= 0 {
		return
	}
	for i := range v {
		v[i] = min(1, v[i]/top)
	}
}
