package main

/*

Analyze a single position: load it from the notation or a move list,
run the search with an agent profile and print the board and the result as json.

	analyze -moves "B2b2 B2a3" -agent mcts -seconds 20
	analyze -notation "xx1oo4/9/9/9/xxx6/9/9/9/xxx6 x 0" -nodes 500

*/

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/config"
	"github.com/IlikeChooros/go-uttt/pkg/mcts"
	"github.com/IlikeChooros/go-uttt/pkg/uttt"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		notation   = flag.String("notation", uttt.StartingPosition, "position notation, or 'startpos'")
		moves      = flag.String("moves", "", "moves played from the starting position, overrides -notation")
		agent      = flag.String("agent", config.DefaultID, "agent profile id")
		configPath = flag.String("config", "", "agent profiles toml file, embedded profiles if empty")
		seconds    = flag.Float64("seconds", mcts.DefaultSeconds, "time budget in seconds, 0 for no time limit")
		nodes      = flag.Uint("nodes", 0, "maximum number of iterations, 0 for no limit")
		force      = flag.Bool("force", false, "use the whole time budget, disables the early stop")
		strategy   = flag.String("strategy", "", "opponent strategy override: greedy, mcts or rollout")
		multipv    = flag.Int("multipv", 3, "number of lines to report while searching")
		verbose    = flag.Bool("verbose", false, "print the search progress")
		logLevel   = flag.String("loglevel", "info", "log level")
	)
	flag.Parse()
	setupLogger(*logLevel)

	profiles, err := loadProfiles(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load agent profiles")
	}

	game, err := loadGame(*notation, *moves)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load the position")
	}

	limits := mcts.DefaultLimits().
		SetForceFullTime(*force).
		SetStrategy(mcts.Strategy(*strategy)).
		SetMultiPv(*multipv)
	if *seconds > 0 {
		limits.SetSeconds(*seconds)
	}
	if *nodes > 0 {
		limits.SetNodes(uint32(*nodes))
	}

	profile := profiles.Lookup(*agent)
	tree := mcts.NewMCTS(game, profile.Params())
	tree.SetLimits(limits)
	if *verbose {
		listener := mcts.NewStatsListener()
		listener.OnDepth(printStats).OnCheck(printStats)
		tree.SetListener(listener)
	}

	// Stop the search on interrupt, the best move found so far is still reported
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	go func() {
		<-interrupt
		log.Warn().Msg("interrupted, stopping the search")
		tree.Stop()
	}()

	fmt.Println(uttt.Render(game, termenv.ColorProfile()))
	fmt.Println(game.Notation())

	result, err := analyze(tree)
	if err != nil {
		log.Fatal().Err(err).Str("position", game.Notation()).Msg("search failed")
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		log.Fatal().Err(err).Msg("failed to encode the result")
	}
}

// Run the search, a finished position is reported as a result without a move
func analyze(tree *mcts.MCTS) (mcts.Result, error) {
	result, err := tree.Search()
	if errors.Is(err, mcts.ErrNoLegalMoves) {
		log.Warn().Msg("the game is over, no move to search for")
		return result, nil
	}
	return result, err
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func loadProfiles(path string) (config.Profiles, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// Replay the move list, or decode the notation if there are no moves
func loadGame(notation, moves string) (*uttt.Game, error) {
	if moves == "" {
		return uttt.FromNotation(notation)
	}

	game := uttt.NewGame()
	for i, str := range strings.FieldsFunc(moves, func(r rune) bool { return r == ',' || r == ' ' }) {
		m, err := uttt.MoveFromString(str)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
		m.Player = game.Next()
		if err := game.MakeLegalMove(m); err != nil {
			return nil, fmt.Errorf("move %d: %w", i+1, err)
		}
	}
	return game, nil
}

func printStats(stats mcts.ListenerTreeStats) {
	for i, line := range stats.Lines {
		pv := make([]string, len(line.Moves))
		for j, m := range line.Moves {
			pv[j] = m.String()
		}
		fmt.Fprintf(os.Stderr, "depth %d time %dms cycles %d cps %d confidence %.2f multipv %d score %.3f pv %s\n",
			stats.Maxdepth, stats.TimeMs, stats.Cycles, stats.Cps, stats.Confidence, i+1, line.Eval, strings.Join(pv, " "))
	}
}
