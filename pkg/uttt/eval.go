package uttt

import (
	"math"
	"slices"
)

// Score a single 3x3 grid from the player's perspective, based purely on
// line analysis. Returns 1.0 if the player has three in a row, 0.0 if the
// opponent has, or if no line is still winnable for the player.
// Every other position scores within [0, w.Cap].
func ScoreBoard(cells [9]Mark, player Mark, w *Weights) float64 {
	w = weightsOrDefault(w)

	switch ThreeInARow(cells) {
	case player:
		return 1.0
	case player.Opponent():
		return 0.0
	}

	var potentials [8]float64
	n := 0
	for i := range Lines {
		own, theirs := countLine(&cells, &Lines[i], player)
		if theirs > 0 {
			continue
		}
		potentials[n] = w.LineBase + math.Pow(float64(own)/3, w.LineExponent)
		n++
	}

	if n == 0 {
		return 0.0
	}

	viable := potentials[:n]
	slices.Sort(viable)
	slices.Reverse(viable)
	best := viable[0]

	synergy := 0.0
	for i := 0; i < n && i < w.SynergyTop; i++ {
		synergy += viable[i]
	}
	if w.SynergyTop > 0 {
		synergy /= float64(w.SynergyTop)
	}

	// Bonus for keeping many paths open
	multiplier := min(w.PathBonusCap, 1+float64(n)/8)
	score := w.BestLineWeight*best + w.SynergyWeight*synergy*multiplier
	return min(w.Cap, score)
}

// Score the whole position for 'player': exactly 1.0 if the player won the game,
// exactly 0.0 if the opponent did, otherwise a blend of the global potential
// (mini-board winners seen as a 3x3 grid) and the strategic control of the
// still open mini-boards, clamped to [0, w.Cap].
//
// Also 0.0 while the game goes on, if the player has no viable meta line
// and no open board carries any importance weight.
func (b *Board) Score(player Mark, w *Weights) float64 {
	w = weightsOrDefault(w)

	switch b.Winner {
	case player:
		return 1.0
	case player.Opponent():
		return 0.0
	}

	winners := b.Winners()
	global := ScoreBoard(winners, player, w)
	impX, impO := SquareImportance(winners, w)
	impPlayer, impOpp := impX, impO
	if player == MarkO {
		impPlayer, impOpp = impO, impX
	}

	strategic, total := 0.0, 0.0
	for i := range b.Boards {
		if !b.Boards[i].Open() {
			continue
		}

		own := ScoreBoard(b.Boards[i].Cells, player, w)
		theirs := ScoreBoard(b.Boards[i].Cells, player.Opponent(), w)
		importance := max(impPlayer[i], impOpp[i])

		// Offensive potential minus defensive necessity
		bs := w.OffensiveWeight*own*impPlayer[i] - w.DefensiveWeight*theirs*impOpp[i]
		strategic += bs * importance
		total += importance
	}

	if total > 0 {
		strategic = (strategic/total + 1) / 2
	} else {
		strategic = 0
	}

	score := w.GlobalWeight*global + w.StrategicWeight*strategic
	return max(0, min(w.Cap, score))
}
