package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/dottify/internal/catalog"
	"github.com/desertthunder/dottify/internal/formatter"
	"github.com/desertthunder/dottify/internal/shared"
	"github.com/desertthunder/dottify/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// The database is opened on the first command that needs it.
type Runner struct {
	config     *shared.Config
	configPath string
	db         *sql.DB
	catalog    *catalog.Service
	engine     *tasks.ExportEngine
	logger     *log.Logger
	output     io.Writer
	palette    *formatter.Palette
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	DB         *sql.DB // already migrated database; opened from Config when nil
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		db:         opts.DB,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    formatter.DefaultPalette,
	}
	if opts.DB != nil {
		r.attach(opts.DB)
	}
	return r
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, userCommand, albumCommand, songCommand, playlistCommand, rateCommand, commentCommand, browseCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// attach builds the catalog service and export engine over db
func (r *Runner) attach(db *sql.DB) {
	r.db = db
	r.catalog = catalog.NewService(db, r.config.Catalog.DefaultCover, r.logger)
	r.engine = tasks.NewExportEngine(r.catalog, r.logger)
}

// database returns the configured database, opening it on first use without running migrations.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.Path, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	return db, nil
}

// open returns the catalog service, migrating the configured database on first use.
func (r *Runner) open() (*catalog.Service, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	db, err := r.database()
	if err != nil {
		return nil, err
	}

	applied, err := shared.RunMigrations(db)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	if applied > 0 {
		r.logger.Debug("applied migrations", "count", applied, "path", r.config.Database.Path)
	}

	r.attach(db)
	return r.catalog, nil
}

// Close releases the database, if one was opened
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", r.palette.Title(title))
	r.writePlain("═══════════════════════════════════════\n")
}

// writeRejection prints each rejected field of a validation error
func (r *Runner) writeRejection(err error) {
	ve, ok := catalog.IsValidation(err)
	if !ok {
		return
	}
	for _, f := range ve.Fields {
		r.writePlain("%s %s: %s\n", r.palette.Err("✗"), f.Field, f.Message)
	}
}
