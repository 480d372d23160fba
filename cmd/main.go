package main

import (
	"context"
	"errors"
	"os"
	"strings"

	"github.com/desertthunder/dottify/internal/shared"
	"github.com/urfave/cli/v3"
)

const defaultConfigPath = "config.toml"

// configPath returns the value of --config/-c from args, or the default path.
//
// It runs before cli parsing because the runner is built from the loaded config.
func configPath(args []string) string {
	for i, arg := range args {
		if (arg == "--config" || arg == "-c") && i+1 < len(args) {
			return args[i+1]
		}
		if value, ok := strings.CutPrefix(arg, "--config="); ok && value != "" {
			return value
		}
	}
	return defaultConfigPath
}

func main() {
	logger := shared.NewLogger(nil)

	path := configPath(os.Args[1:])
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		loaded, err := shared.LoadConfig(path)
		if err != nil {
			logger.Fatal("invalid config", "path", path, "error", err)
		}
		config = loaded
	} else {
		if err := config.ApplyEnv(); err != nil {
			logger.Fatal("invalid environment", "error", err)
		}
		if err := config.Validate(); err != nil {
			logger.Fatal("invalid config", "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Log.Level))

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: path,
		Logger:     logger,
	})
	defer runner.Close()

	app := newApp(runner)

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrValidation) {
			runner.writeRejection(err)
			runner.Close()
			os.Exit(1)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}

// newApp builds the root command around runner
func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "dottify",
		Usage:   "Manage a music catalog of albums, songs and playlists",
		Version: "0.1.0",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   defaultConfigPath,
			},
		},
		Commands: r.register(),
	}
}
