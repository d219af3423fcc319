package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"

	"cvscreen/internal/config"
	"cvscreen/internal/logger"
)

const usage = "Usage: migrate [up|down|steps N|force V|version]"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Init(cfg.Log)

	m, err := migrate.New("file://db/migrations", cfg.DB.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create migrate instance")
	}
	defer m.Close()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	switch cmd {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration up failed")
		}
		log.Info().Msg("migrations applied successfully")

	case "down":
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration down failed")
		}
		log.Info().Msg("migrations reverted successfully")

	case "steps":
		n := intArg("steps")
		if err := m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("migration steps failed")
		}
		log.Info().Int("steps", n).Msg("applied migration steps")

	case "force":
		v := intArg("force")
		if err := m.Force(v); err != nil {
			log.Fatal().Err(err).Msg("migration force failed")
		}
		log.Info().Int("version", v).Msg("forced migration version")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to get version")
		}
		fmt.Printf("version: %d, dirty: %v\n", version, dirty)

	default:
		fmt.Printf("unknown command: %s\n", cmd)
		fmt.Println(usage)
		os.Exit(1)
	}
}

func intArg(cmd string) int {
	if len(os.Args) < 3 {
		log.Fatal().Msgf("%s requires a number argument", cmd)
	}
	n, err := strconv.Atoi(os.Args[2])
	if err != nil {
		log.Fatal().Err(err).Msgf("invalid %s argument", cmd)
	}
	return n
}
