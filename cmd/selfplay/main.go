package main

/*

Self-play arena: plays a series of games between two agent profiles
and prints the summary. Seats are assigned at random for every game.

	selfplay -agent1 default -agent2 cautious -games 20 -workers 4 -seconds 2

*/

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"os/signal"
	"time"

	"github.com/IlikeChooros/go-uttt/pkg/bench"
	"github.com/IlikeChooros/go-uttt/pkg/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var (
		agent1     = flag.String("agent1", config.DefaultID, "first agent profile id")
		agent2     = flag.String("agent2", "cautious", "second agent profile id")
		configPath = flag.String("config", "", "agent profiles toml file, embedded profiles if empty")
		games      = flag.Uint("games", 10, "number of games to play")
		workers    = flag.Uint("workers", 2, "number of games played at the same time")
		seconds    = flag.Float64("seconds", 1, "time budget per move in seconds")
		nodes      = flag.Uint("nodes", 0, "maximum number of iterations per move, 0 for no limit")
		records    = flag.String("records", "", "write the game records as json to this file")
		verbose    = flag.Bool("verbose", false, "print every move")
		logLevel   = flag.String("loglevel", "warn", "log level")
	)
	flag.Parse()
	setupLogger(*logLevel)

	profiles := config.Default()
	if *configPath != "" {
		var err error
		if profiles, err = config.Load(*configPath); err != nil {
			log.Fatal().Err(err).Msg("failed to load agent profiles")
		}
	}

	p1 := bench.NewAgent(profiles, *agent1, *seconds)
	p2 := bench.NewAgent(profiles, *agent2, *seconds)
	if *nodes > 0 {
		p1.Limits.SetNodes(uint32(*nodes))
		p2.Limits.SetNodes(uint32(*nodes))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	listener := bench.NewArenaListener(bench.NewDefaultListener(os.Stdout, *verbose), bench.LogListener{})
	arena := bench.NewVersusArena(p1, p2).WithContext(ctx).Setup(*games, *workers)

	err := arena.Run(listener)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("arena failed")
	}

	if *records != "" {
		if werr := writeRecords(*records, arena.Records()); werr != nil {
			log.Error().Err(werr).Str("path", *records).Msg("failed to write the game records")
		}
	}

	if err != nil {
		os.Exit(1)
	}
}

func setupLogger(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func writeRecords(path string, records []bench.GameRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}
