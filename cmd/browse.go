package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/desertthunder/dottify/internal/tasks"
	"github.com/desertthunder/dottify/internal/ui"
	"github.com/urfave/cli/v3"
)

func browseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "browse",
		Usage: "Browse albums interactively and export them",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "artist", Aliases: []string{"a"}, Usage: "Only albums by this artist"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Usage: "Export format: csv, markdown, txt", Value: "markdown"},
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "Export directory", Value: "exports"},
			&cli.StringFlag{Name: "log-file", Usage: "Where to write logs while the browser owns the terminal", Value: filepath.Join(os.TempDir(), "dottify-browse.log")},
		},
		Action: r.Browse,
	}
}

// Browse launches the interactive album browser.
func (r *Runner) Browse(ctx context.Context, cmd *cli.Command) error {
	svc, err := r.open()
	if err != nil {
		return err
	}

	fileLogger, closer, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer closer.Close()
	fileLogger.SetLevel(r.logger.GetLevel())

	engine := tasks.NewExportEngine(svc, fileLogger)
	model := ui.NewModel(ctx, svc, engine,
		map[string]any{"artist_name": cmd.String("artist")},
		tasks.BulkExportOpts{Format: cmd.String("format"), OutputDir: cmd.String("dir"), NumWorkers: 1},
	)

	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		return fmt.Errorf("error running browser: %w", err)
	}
	return nil
}
