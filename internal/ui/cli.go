// Package ui implements the coursegrid command line.
package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/coursegrid/coursegrid/internal/archive"
	"github.com/coursegrid/coursegrid/internal/cache"
	"github.com/coursegrid/coursegrid/internal/calendar"
	"github.com/coursegrid/coursegrid/internal/config"
	"github.com/coursegrid/coursegrid/internal/course"
	"github.com/coursegrid/coursegrid/internal/curriculum"
	"github.com/coursegrid/coursegrid/internal/db"
	"github.com/coursegrid/coursegrid/internal/events"
	"github.com/coursegrid/coursegrid/internal/logging"
	"github.com/coursegrid/coursegrid/internal/placement"
	"github.com/coursegrid/coursegrid/internal/service"
	"github.com/coursegrid/coursegrid/internal/tui"
	"github.com/coursegrid/coursegrid/internal/tui/theme"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// DebugLogPath is where --debug writes the interactive calendar's log.
const DebugLogPath = "coursegrid-debug.log"

// App holds the CLI application state.
type App struct {
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging

	// Opened on first use by ensureService.
	log     *zap.Logger
	repo    course.Repository
	cache   cache.Cache
	bus     events.Bus
	archive archive.Store
	svc     *service.Service
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	var filters filterFlags
	a.root = &cobra.Command{
		Use:   "coursegrid",
		Short: "Weekly course calendars with conflict detection",
		Long: `coursegrid keeps a term's course offerings and lays them out on a
weekly grid, stacking overlapping sections so conflicts stand out.

Run without a subcommand to open the interactive calendar.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalendarUI(cmd.Context(), filters.query())
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (interactive calendar logs to "+DebugLogPath+")")
	filters.bind(a.root)

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.serveCmd())
	a.root.AddCommand(a.importCmd())
	a.root.AddCommand(a.listCmd())
	a.root.AddCommand(a.calendarCmd())
	a.root.AddCommand(a.roomsCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.catalogCmd())
	a.root.AddCommand(a.summaryCmd())
	a.root.AddCommand(a.freeCmd())
	a.root.AddCommand(a.watchCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "coursegrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// ExecuteContext runs the CLI application with ctx.
func (a *App) ExecuteContext(ctx context.Context) error {
	return a.root.ExecuteContext(ctx)
}

// ensureService opens storage and the optional cache, event feed and upload
// archive, then builds the course service. It is a no-op after the first
// successful call.
func (a *App) ensureService(ctx context.Context) error {
	if a.svc != nil {
		return nil
	}
	if a.log == nil {
		log, err := logging.New(a.config.Log)
		if err != nil {
			return err
		}
		a.log = log
	}

	repo, err := db.Open(ctx, a.config.Storage)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	a.repo = repo

	if a.cache, err = cache.Open(ctx, a.config.Cache); err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	if a.bus, err = events.Open(a.config.Events, a.log); err != nil {
		return fmt.Errorf("opening event feed: %w", err)
	}
	if a.archive, err = archive.Open(ctx, a.config.Archive); err != nil {
		return fmt.Errorf("opening upload archive: %w", err)
	}

	cal := a.config.Calendar
	engine, err := placement.New(cal.Granularity,
		placement.WithDefaults(cal.Defaults()),
		placement.WithLogger(a.log),
	)
	if err != nil {
		return err
	}
	start, end := cal.Window()
	layout := calendar.Layout{DayStart: start, DayEnd: end, Granularity: cal.Granularity}

	a.svc, err = service.New(repo, engine, layout,
		service.WithCache(a.cache),
		service.WithEvents(a.bus),
		service.WithArchive(a.archive),
		service.WithLogger(a.log),
	)
	return err
}

// runCalendarUI opens the interactive calendar. Its logger only reports
// errors unless --debug sends everything to DebugLogPath.
func (a *App) runCalendarUI(ctx context.Context, q curriculum.Query) error {
	log, err := a.calendarUILogger()
	if err != nil {
		return err
	}
	a.log = log
	if err := a.ensureService(ctx); err != nil {
		return err
	}

	th, err := theme.Load(a.config.UI.Theme)
	if err != nil {
		return err
	}
	return tui.Run(ctx, a.svc, a.bus, tui.Options{
		Query:  q,
		Theme:  th,
		Logger: log,
	})
}

func (a *App) calendarUILogger() (*zap.Logger, error) {
	if !a.debug {
		return logging.Quiet(a.config.Log)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{DebugLogPath}
	cfg.ErrorOutputPaths = []string{DebugLogPath}
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("creating debug log: %w", err)
	}
	return log, nil
}

// Close releases everything ensureService opened.
func (a *App) Close() error {
	var errs []error
	if a.bus != nil {
		errs = append(errs, a.bus.Close())
	}
	if a.cache != nil {
		errs = append(errs, a.cache.Close())
	}
	if a.repo != nil {
		errs = append(errs, a.repo.Close())
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return errors.Join(errs...)
}
