package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/atlas/internal/repositories"
	"github.com/desertthunder/atlas/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	if err := shared.LoadEnv(".env"); err != nil {
		logger.Warn("failed to load .env", "error", err)
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("using default config", "error", err)
		}
	}
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		logger.Fatalf("invalid config: %v", err)
	}

	level, err := shared.ParseLevel(config.Logging.Level)
	if err != nil {
		logger.Warn("falling back to info level", "error", err)
	}
	shared.SetLogLevel(logger, level)

	var jar *repositories.PersistentJar
	if db, err := shared.OpenDatabase(config.Database); err != nil {
		logger.Warn("session will not persist", "error", err)
	} else {
		defer db.Close()
		jar, err = repositories.NewPersistentJar(repositories.NewCookieRepository(db), shared.WithLogger(logger, "component", "jar"))
		if err != nil {
			logger.Warn("session will not persist", "error", err)
			jar = nil
		}
	}

	runner, err := NewRunner(RunnerOpts{Config: config, Jar: jar, Logger: logger})
	if err != nil {
		logger.Fatalf("failed to start: %v", err)
	}

	app := &cli.Command{
		Name:     "atlas",
		Usage:    "Follow upcoming football fixtures from the terminal",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	err = app.Run(context.Background(), os.Args)
	runner.Close()
	if err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}
