package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/muesli/termenv"
	"github.com/rs/zerolog/log"
)

const (
	ColorPlayer1 = "10"
	ColorPlayer2 = "13"
	ColorDraw    = "8"
)

// Arena callbacks, invoked from the worker goroutines
type ListenerLike interface {
	OnMoveMade(info VersusWorkerInfo)
	OnFinishedGame(info VersusWorkerInfo, record *GameRecord)
	OnFinishedWork(info VersusWorkerInfo)
	Summary(summary VersusSummaryInfo)
}

// Prints colored progress lines, safe for concurrent use
type DefaultListener struct {
	mu      sync.Mutex
	out     *termenv.Output
	verbose bool
}

// Create a listener printing to 'w', 'verbose' also prints every move made
func NewDefaultListener(w io.Writer, verbose bool) *DefaultListener {
	return &DefaultListener{out: termenv.NewOutput(w), verbose: verbose}
}

func (d *DefaultListener) colored(s, color string) termenv.Style {
	return d.out.String(s).Foreground(d.out.Color(color))
}

func (d *DefaultListener) score(info VersusWorkerInfo) string {
	return fmt.Sprintf("%s %s %s",
		d.colored(fmt.Sprintf("+%d", info.P1Wins), ColorPlayer1),
		d.colored(fmt.Sprintf("=%d", info.Draws), ColorDraw),
		d.colored(fmt.Sprintf("-%d", info.P2Wins), ColorPlayer2),
	)
}

func (d *DefaultListener) OnMoveMade(info VersusWorkerInfo) {
	if !d.verbose {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[worker %d] game %d/%d move %d: %s (%s, %d plays, score %.3f)\n",
		info.WorkerID, info.FinishedGames+1, info.NGames, info.GameMoveNum,
		info.Last.BestMove, info.Last.Strategy, info.Last.Plays, info.Last.Score)
}

func (d *DefaultListener) OnFinishedGame(info VersusWorkerInfo, record *GameRecord) {
	d.mu.Lock()
	defer d.mu.Unlock()

	color := ColorDraw
	switch record.Winner {
	case "":
	case info.P1Name:
		color = ColorPlayer1
	default:
		color = ColorPlayer2
	}

	fmt.Fprintf(d.out, "[worker %d] game %d/%d %s vs %s: %s in %d moves, %s\n",
		info.WorkerID, info.FinishedGames, info.NGames,
		record.AgentX, record.AgentO,
		d.colored(record.Result, color).Bold(), len(record.Moves), d.score(info))
}

func (d *DefaultListener) OnFinishedWork(info VersusWorkerInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	fmt.Fprintf(d.out, "[worker %d] done, %d games %s\n", info.WorkerID, info.FinishedGames, d.score(info))
}

func (d *DefaultListener) Summary(summary VersusSummaryInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()

	total := max(summary.TotalGames, 1)
	fmt.Fprintf(d.out, "\n%s\n", d.out.String(fmt.Sprintf("%s vs %s, %d games on %d workers",
		summary.P1Name, summary.P2Name, summary.TotalGames, summary.Workers)).Bold())
	fmt.Fprintf(d.out, "  %-12s %s\n", summary.P1Name,
		d.colored(fmt.Sprintf("%d wins (%.1f%%)", summary.P1Wins, 100*float64(summary.P1Wins)/float64(total)), ColorPlayer1))
	fmt.Fprintf(d.out, "  %-12s %s\n", summary.P2Name,
		d.colored(fmt.Sprintf("%d wins (%.1f%%)", summary.P2Wins, 100*float64(summary.P2Wins)/float64(total)), ColorPlayer2))
	fmt.Fprintf(d.out, "  %-12s %s\n", "draws",
		d.colored(fmt.Sprintf("%d (%.1f%%)", summary.Draws, 100*float64(summary.Draws)/float64(total)), ColorDraw))
	fmt.Fprintf(d.out, "  first to move won %d, second to move won %d\n",
		summary.FirstToMoveWins, summary.SecondToMoveWins)
}

// Logs arena events through zerolog, at debug level for moves
type LogListener struct{}

func (LogListener) OnMoveMade(info VersusWorkerInfo) {
	log.Debug().
		Int("worker", info.WorkerID).
		Stringer("game", info.GameID).
		Int("ply", info.GameMoveNum).
		Stringer("move", info.Last.BestMove).
		Str("player", info.Game.LastMove().Player.String()).
		Int("plays", info.Last.Plays).
		Float64("score", info.Last.Score).
		Msg("move made")
}

func (LogListener) OnFinishedGame(info VersusWorkerInfo, record *GameRecord) {
	log.Info().
		Int("worker", info.WorkerID).
		Stringer("game", record.ID).
		Str("x", record.AgentX).
		Str("o", record.AgentO).
		Str("result", record.Result).
		Int("moves", len(record.Moves)).
		Msg("game finished")
}

func (LogListener) OnFinishedWork(info VersusWorkerInfo) {
	log.Debug().
		Int("worker", info.WorkerID).
		Int("games", info.FinishedGames).
		Msg("worker finished")
}

func (LogListener) Summary(summary VersusSummaryInfo) {
	log.Info().
		Int("games", summary.TotalGames).
		Int(summary.P1Name, summary.P1Wins).
		Int(summary.P2Name, summary.P2Wins).
		Int("draws", summary.Draws).
		Msg("arena finished")
}
