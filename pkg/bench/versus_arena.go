package bench

import (
	"context"
	"fmt"
	"sync"

	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"lukechampine.com/frand"
)

/*
Arena benchmark subpackage, allows to play a series of games between two
different agent profiles. Seats are drawn at random for every game, so
each agent plays both as the first and the second player.
*/

type VersusArena struct {
	VersusArenaStats
	Player1  Agent
	Player2  Agent
	NGames   uint
	NThreads uint
	// Starting position of every game, nil means the empty board
	Position *uttt.Game

	records []GameRecord
	mu      sync.Mutex
	group   *errgroup.Group
	ctx     context.Context
}

func NewVersusArena(player1, player2 Agent) *VersusArena {
	return &VersusArena{
		Player1:  player1,
		Player2:  player2,
		NGames:   100,
		NThreads: 2,
		ctx:      context.Background(),
	}
}

func (va *VersusArena) WithContext(ctx context.Context) *VersusArena {
	va.ctx = ctx
	return va
}

func (va *VersusArena) Setup(nGames uint, nThreads uint) *VersusArena {
	va.NGames = nGames
	va.NThreads = max(nThreads, 1)
	return va
}

// Records of all finished games, in the order they ended
func (va *VersusArena) Records() []GameRecord {
	va.mu.Lock()
	defer va.mu.Unlock()
	return append([]GameRecord(nil), va.records...)
}

func (va *VersusArena) Summary() VersusSummaryInfo {
	return VersusSummaryInfo{
		TotalGames:       va.Total(),
		P1Wins:           va.P1Wins(),
		P2Wins:           va.P2Wins(),
		FirstToMoveWins:  va.FirstToMoveWins(),
		SecondToMoveWins: va.SecondToMoveWins(),
		Draws:            va.Draws(),
		Workers:          int(va.NThreads),
		P1Name:           va.Player1.ID,
		P2Name:           va.Player2.ID,
	}
}

// Start equally distributed work between worker goroutines, call Wait to
// block until they finish. 'listener' may be nil.
func (va *VersusArena) Start(listener ListenerLike) {
	va.NThreads = max(va.NThreads, 1)
	group, ctx := errgroup.WithContext(va.ctx)
	va.group = group

	nGames := va.NGames / va.NThreads
	rest := va.NGames % va.NThreads
	for i := uint(0); i < va.NThreads; i++ {
		delta := uint(0)
		if rest > 0 {
			delta = 1
			rest--
		}

		id, n := int(i), int(nGames+delta)
		group.Go(func() error {
			return va.worker(ctx, id, n, listener)
		})
	}
}

// Wait for all workers, returns the first error (a search failure or the
// context cancellation). The summary is reported even if the arena was interrupted.
func (va *VersusArena) Wait(listener ListenerLike) error {
	if va.group == nil {
		return nil
	}

	err := va.group.Wait()
	va.group = nil
	if listener != nil {
		listener.Summary(va.Summary())
	}
	return err
}

// Play all games, blocking until done
func (va *VersusArena) Run(listener ListenerLike) error {
	va.Start(listener)
	return va.Wait(listener)
}

func (va *VersusArena) worker(ctx context.Context, id, nGames int, listener ListenerLike) error {
	localStats := VersusArenaStats{}
	info := VersusWorkerInfo{
		WorkerID: id,
		NGames:   nGames,
		P1Name:   va.Player1.ID,
		P2Name:   va.Player2.ID,
	}

	for i := 0; i < nGames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		p1First := frand.Intn(2) == 0
		x, o := &va.Player1, &va.Player2
		if !p1First {
			x, o = o, x
		}

		info.FinishedGames = i
		record, err := va.playGame(ctx, x, o, info, listener)
		if err != nil {
			return err
		}

		va.VersusArenaStats.add(record.outcome, p1First)
		localStats.add(record.outcome, p1First)
		va.mu.Lock()
		va.records = append(va.records, record)
		va.mu.Unlock()

		info = localStats.fill(info)
		info.FinishedGames = i + 1
		if listener != nil {
			listener.OnFinishedGame(info, &record)
		}
	}

	if listener != nil {
		listener.OnFinishedWork(localStats.fill(info))
	}
	return nil
}

// Copy the local counters into the worker info
func (vas *VersusArenaStats) fill(info VersusWorkerInfo) VersusWorkerInfo {
	info.P1Wins = vas.P1Wins()
	info.P2Wins = vas.P2Wins()
	info.Draws = vas.Draws()
	info.FirstToMoveWins = vas.FirstToMoveWins()
	info.SecondToMoveWins = vas.SecondToMoveWins()
	return info
}

func (va *VersusArena) startingPosition() *uttt.Game {
	if va.Position == nil {
		return uttt.NewGame()
	}
	return va.Position.Clone()
}

func (va *VersusArena) playGame(ctx context.Context, x, o *Agent, info VersusWorkerInfo, listener ListenerLike) (GameRecord, error) {
	game := va.startingPosition()
	record := GameRecord{
		ID:     uuid.New(),
		AgentX: x.ID,
		AgentO: o.ID,
		Moves:  make([]MoveRecord, 0, 81),
	}
	info.GameID = record.ID
	info.Game = game

	for !game.Terminated() {
		if err := ctx.Err(); err != nil {
			return record, err
		}

		agent := x
		if game.Next() == uttt.MarkO {
			agent = o
		}

		result, err := agent.NextMove(game)
		if err != nil {
			return record, err
		}

		mover := game.Next()
		if err := game.MakeLegalMove(result.BestMove); err != nil {
			return record, fmt.Errorf("agent %q played %v: %w", agent.ID, result.BestMove, err)
		}

		record.Moves = append(record.Moves, MoveRecord{
			Player:   mover.String(),
			Move:     result.BestMove,
			Metadata: result,
		})

		if listener != nil {
			info.GameMoveNum = len(record.Moves)
			info.Moves = game.Moves()
			info.Last = result
			listener.OnMoveMade(info)
		}
	}

	record.outcome = computeOutcome(game)
	record.Final = game.Notation()
	switch game.Winner() {
	case uttt.MarkX:
		record.Result, record.Winner = "x wins", x.ID
	case uttt.MarkO:
		record.Result, record.Winner = "o wins", o.ID
	default:
		record.Result = "draw"
	}
	return record, nil
}
