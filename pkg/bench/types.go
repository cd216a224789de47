package bench

import (
	"sync/atomic"

	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/google/uuid"
)

type VersusMatchResult int

const (
	VersusPl1Win VersusMatchResult = 1
	VersusPl2Win VersusMatchResult = -1
	VersusDraw   VersusMatchResult = 0
)

type VersusArenaStats struct {
	p1Wins           uint32
	p2Wins           uint32
	draws            uint32
	firstToMoveWins  uint32
	secondToMoveWins uint32
}

func (vas *VersusArenaStats) Total() int {
	return vas.P1Wins() + vas.P2Wins() + vas.Draws()
}

func (vas *VersusArenaStats) P1Wins() int {
	return int(atomic.LoadUint32(&vas.p1Wins))
}

func (vas *VersusArenaStats) P2Wins() int {
	return int(atomic.LoadUint32(&vas.p2Wins))
}

func (vas *VersusArenaStats) Draws() int {
	return int(atomic.LoadUint32(&vas.draws))
}

func (vas *VersusArenaStats) FirstToMoveWins() int {
	return int(atomic.LoadUint32(&vas.firstToMoveWins))
}

func (vas *VersusArenaStats) SecondToMoveWins() int {
	return int(atomic.LoadUint32(&vas.secondToMoveWins))
}

// Count a finished game, 'p1First' tells if player 1 moved first
func (vas *VersusArenaStats) add(outcome GameOutcome, p1First bool) {
	switch toAgentResult(outcome, p1First) {
	case VersusDraw:
		atomic.AddUint32(&vas.draws, 1)
		return
	case VersusPl1Win:
		atomic.AddUint32(&vas.p1Wins, 1)
	case VersusPl2Win:
		atomic.AddUint32(&vas.p2Wins, 1)
	}

	if outcome.FirstPlayerWon {
		atomic.AddUint32(&vas.firstToMoveWins, 1)
	} else {
		atomic.AddUint32(&vas.secondToMoveWins, 1)
	}
}

type VersusWorkerInfo struct {
	WorkerID         int
	GameID           uuid.UUID
	NGames           int
	FinishedGames    int
	GameMoveNum      int
	Moves            []uttt.Move
	Last             mcts.Result
	Game             *uttt.Game
	P1Wins           int
	P2Wins           int
	Draws            int
	FirstToMoveWins  int
	SecondToMoveWins int
	P1Name           string
	P2Name           string
}

type VersusSummaryInfo struct {
	TotalGames       int    `json:"total_games"`
	P1Wins           int    `json:"player1_wins"`
	P2Wins           int    `json:"player2_wins"`
	FirstToMoveWins  int    `json:"first_to_move_wins"`
	SecondToMoveWins int    `json:"second_to_move_wins"`
	Draws            int    `json:"draws"`
	Workers          int    `json:"workers"`
	P1Name           string `json:"player1_name"`
	P2Name           string `json:"player2_name"`
}

// represents result from the first-player's perspective in a single game
type GameOutcome struct {
	FirstPlayerWon bool
	IsDraw         bool
}

// maps a game outcome to which agent won, given player assignments
func toAgentResult(outcome GameOutcome, p1WentFirst bool) VersusMatchResult {
	if outcome.IsDraw {
		return VersusDraw
	}

	if p1WentFirst == outcome.FirstPlayerWon {
		return VersusPl1Win
	}
	return VersusPl2Win
}

// determines the outcome of a finished game, x always moves first
func computeOutcome(g *uttt.Game) GameOutcome {
	if g.Winner() == uttt.MarkNone {
		return GameOutcome{IsDraw: true}
	}
	return GameOutcome{FirstPlayerWon: g.Winner() == uttt.MarkX}
}

// Single move of a recorded game, with the search metadata behind it
type MoveRecord struct {
	Player   string      `json:"player"`
	Move     uttt.Move   `json:"move"`
	Metadata mcts.Result `json:"metadata"`
}

// Complete log of a self-play game
type GameRecord struct {
	ID     uuid.UUID    `json:"id"`
	AgentX string       `json:"agent_x"`
	AgentO string       `json:"agent_o"`
	Moves  []MoveRecord `json:"moves"`
	Result string       `json:"result"` // "x wins", "o wins" or "draw"
	Winner string       `json:"winner"` // agent id of the winner, empty on draw
	Final  string       `json:"final_position"`

	outcome GameOutcome
}

func (r *GameRecord) Outcome() GameOutcome {
	return r.outcome
}
