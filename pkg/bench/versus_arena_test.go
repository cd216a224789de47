package bench

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"

	"github.com/IlikeChooros/go-uttt/pkg/config"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	os.Exit(m.Run())
}

// Fast agents, the short time budget forces the greedy decision
func testAgents() (Agent, Agent) {
	profiles := config.Default()
	p1 := NewAgent(profiles, "default", 0.5)
	p2 := NewAgent(profiles, "cautious", 0.5)
	p1.Limits.SetNodes(50)
	p2.Limits.SetNodes(50)
	return p1, p2
}

type countingListener struct {
	moves, games, workers, summaries int
}

func (c *countingListener) OnMoveMade(VersusWorkerInfo)                 { c.moves++ }
func (c *countingListener) OnFinishedGame(VersusWorkerInfo, *GameRecord) { c.games++ }
func (c *countingListener) OnFinishedWork(VersusWorkerInfo)             { c.workers++ }
func (c *countingListener) Summary(VersusSummaryInfo)                   { c.summaries++ }

func TestVersusArena(t *testing.T) {
	p1, p2 := testAgents()
	// single worker, the listener counters are not synchronized
	arena := NewVersusArena(p1, p2).Setup(5, 1)
	counter := &countingListener{}
	require.NoError(t, arena.Run(counter))

	require.Equal(t, 5, arena.Total())
	require.Equal(t, arena.Total(), arena.P1Wins()+arena.P2Wins()+arena.Draws())
	require.Equal(t, arena.P1Wins()+arena.P2Wins(), arena.FirstToMoveWins()+arena.SecondToMoveWins())

	require.Equal(t, 5, counter.games)
	require.Equal(t, 1, counter.workers)
	require.Equal(t, 1, counter.summaries)

	records := arena.Records()
	require.Len(t, records, 5)

	ids := make(map[uuid.UUID]bool)
	moves := 0
	for _, r := range records {
		require.NotEqual(t, uuid.Nil, r.ID)
		require.False(t, ids[r.ID], "duplicate game id")
		ids[r.ID] = true

		require.ElementsMatch(t, []string{p1.ID, p2.ID}, []string{r.AgentX, r.AgentO})
		require.NotEmpty(t, r.Moves)
		moves += len(r.Moves)

		// replay the log, it must lead to the recorded final position
		g := uttt.NewGame()
		for i, m := range r.Moves {
			require.Equal(t, g.Next().String(), m.Player, "move %d", i)
			require.True(t, m.Metadata.BestMove.Same(m.Move))
			require.NoError(t, g.MakeLegalMove(m.Move))
		}
		require.True(t, g.Terminated())
		require.Equal(t, r.Final, g.Notation())

		switch g.Winner() {
		case uttt.MarkX:
			require.Equal(t, "x wins", r.Result)
			require.Equal(t, r.AgentX, r.Winner)
		case uttt.MarkO:
			require.Equal(t, "o wins", r.Result)
			require.Equal(t, r.AgentO, r.Winner)
		default:
			require.Equal(t, "draw", r.Result)
			require.Empty(t, r.Winner)
		}
	}
	require.Equal(t, moves, counter.moves)
}

func TestVersusArenaWorkers(t *testing.T) {
	p1, p2 := testAgents()
	arena := NewVersusArena(p1, p2).Setup(7, 3)
	require.NoError(t, arena.Run(nil))

	summary := arena.Summary()
	require.Equal(t, 7, summary.TotalGames)
	require.Equal(t, 3, summary.Workers)
	require.Equal(t, summary.TotalGames, summary.P1Wins+summary.P2Wins+summary.Draws)
	require.Len(t, arena.Records(), 7)
}

func TestVersusArenaPosition(t *testing.T) {
	p1, p2 := testAgents()
	start, err := uttt.FromNotation("xx1oo4/9/9/9/xxx6/9/9/9/xxx6 x 0")
	require.NoError(t, err)

	arena := NewVersusArena(p1, p2).Setup(2, 1)
	arena.Position = start
	require.NoError(t, arena.Run(nil))

	// x completes the top left board and wins at once
	for _, r := range arena.Records() {
		require.Len(t, r.Moves, 1)
		require.Equal(t, "x wins", r.Result)
	}
	require.Equal(t, "xx1oo4/9/9/9/xxx6/9/9/9/xxx6 x 0", start.Notation())
}

func TestVersusArenaCancelled(t *testing.T) {
	p1, p2 := testAgents()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	counter := &countingListener{}
	arena := NewVersusArena(p1, p2).WithContext(ctx).Setup(4, 2)
	err := arena.Run(counter)
	require.True(t, errors.Is(err, context.Canceled), "got %v", err)
	require.Equal(t, 0, arena.Total())
	require.Equal(t, 1, counter.summaries)
}

func TestToAgentResult(t *testing.T) {
	cases := []struct {
		outcome GameOutcome
		p1First bool
		want    VersusMatchResult
	}{
		{GameOutcome{IsDraw: true}, true, VersusDraw},
		{GameOutcome{IsDraw: true}, false, VersusDraw},
		{GameOutcome{FirstPlayerWon: true}, true, VersusPl1Win},
		{GameOutcome{FirstPlayerWon: true}, false, VersusPl2Win},
		{GameOutcome{FirstPlayerWon: false}, true, VersusPl2Win},
		{GameOutcome{FirstPlayerWon: false}, false, VersusPl1Win},
	}

	for _, c := range cases {
		require.Equal(t, c.want, toAgentResult(c.outcome, c.p1First), "%+v p1First=%v", c.outcome, c.p1First)
	}
}

func TestDefaultListener(t *testing.T) {
	buf := &bytes.Buffer{}
	p1, p2 := testAgents()
	arena := NewVersusArena(p1, p2).Setup(2, 1)
	require.NoError(t, arena.Run(NewArenaListener(NewDefaultListener(buf, true), LogListener{})))

	out := buf.String()
	require.Contains(t, out, "[worker 0] game 1/2 move 1:")
	require.Contains(t, out, "[worker 0] done, 2 games")
	require.Contains(t, out, "default vs cautious, 2 games on 1 workers")
	require.Contains(t, out, "first to move won")
}
