package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/sandeepkv93/tutord/internal/classify"
	"github.com/sandeepkv93/tutord/internal/config"
	"github.com/sandeepkv93/tutord/internal/model"
	"github.com/sandeepkv93/tutord/internal/scheduler"
	"github.com/sandeepkv93/tutord/internal/storage"
	"github.com/sandeepkv93/tutord/internal/store"
)

// App is the wired application shared by the TUI and every subcommand.
type App struct {
	Config     config.Config
	ConfigPath string
	Logger     *slog.Logger
	Repo       *storage.SQLiteRepository
	Store      *store.Store
	Sorter     *classify.Sorter

	closers []io.Closer
}

type Options struct {
	ConfigPath string
	// Now overrides the wall clock, mostly for tests.
	Now func() time.Time
	// LogWriter, when set, replaces the configured log destination.
	LogWriter io.Writer
	// Interactive drops stderr logging when no log file is configured, since
	// the TUI owns the terminal.
	Interactive bool
}

// New loads configuration, opens the database and builds the store. The
// stored workspace falls back to seed data when it is empty on first run or
// no longer decodes. Expired TOP-3 markers are archived before New returns.
func New(ctx context.Context, opts Options) (*App, error) {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg, ConfigPath: path}
	if opts.LogWriter == nil && opts.Interactive && cfg.Log.File == "" {
		opts.LogWriter = io.Discard
	}
	if opts.LogWriter != nil {
		a.Logger = newLoggerWithWriter(cfg.Log, opts.LogWriter)
	} else {
		logger, closer, err := NewLogger(cfg.Log)
		if err != nil {
			return nil, err
		}
		a.Logger = logger
		a.closers = append(a.closers, closer)
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}
	loc := cfg.Location()

	dbPath := cfg.ResolveDBPath(path)
	repo, err := storage.OpenSQLite(dbPath)
	if err != nil {
		_ = a.Close()
		return nil, err
	}
	a.Repo = repo
	a.closers = append(a.closers, repo)

	ws, err := a.loadWorkspace(ctx, model.DayOf(now(), loc), now())
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Store = store.New(ws, store.Options{
		Now:       now,
		Location:  loc,
		Persister: repo,
		Logger:    a.Logger,
	})
	a.Sorter = classify.NewSorter(cfg.Locale)

	if res := a.Store.ArchiveTop3(ctx); res.Changed() {
		a.Logger.Info("archived expired TOP-3 on startup", slog.String("date", res.Date.String()))
	}
	a.Logger.Debug("app ready",
		slog.String("config", path),
		slog.String("db", dbPath),
		slog.String("timezone", loc.String()),
		slog.Int("blocks", len(ws.Blocks)),
	)
	return a, nil
}

func (a *App) loadWorkspace(ctx context.Context, today model.Day, now time.Time) (model.Workspace, error) {
	ws, err := a.Repo.LoadWorkspace(ctx)
	switch {
	case errors.Is(err, storage.ErrMalformed):
		a.Logger.Warn("stored workspace is malformed, loading seed data", slog.Any("error", err))
		seed := storage.Seed(today, now)
		seed.History = a.historyOrEmpty(ctx)
		return seed, nil
	case err != nil:
		return model.Workspace{}, fmt.Errorf("load workspace: %w", err)
	}
	if len(ws.Blocks) == 0 && len(ws.Tags) == 0 && !a.Config.SkipSeed {
		seed := storage.Seed(today, now)
		seed.History = ws.History
		if err := a.Repo.SaveWorkspace(ctx, seed); err != nil {
			return model.Workspace{}, fmt.Errorf("save seed: %w", err)
		}
		a.Logger.Info("seeded empty workspace", slog.Int("blocks", len(seed.Blocks)))
		return seed, nil
	}
	return ws, nil
}

func (a *App) historyOrEmpty(ctx context.Context) []model.Top3History {
	h, err := a.Repo.ListHistory(ctx, storage.HistoryListFilter{})
	if err != nil {
		return []model.Top3History{}
	}
	return h
}

// StartScheduler starts a timer engine loaded with the next rollover and
// today's lesson reminders. The caller owns Stop.
func (a *App) StartScheduler() *scheduler.Engine {
	engine := scheduler.NewEngine(a.Config.Scheduler.Buffer)
	engine.Start()
	a.Replan(engine)
	return engine
}

// Replan replaces the queued events with those for the store's current day.
func (a *App) Replan(engine *scheduler.Engine) {
	now := a.Store.Now()
	loc := a.Store.Location()
	engine.Cancel(scheduler.KindLessonStart)
	if err := engine.Schedule(scheduler.RolloverEvent(now, loc)); err != nil {
		a.Logger.Warn("schedule rollover", slog.Any("error", err))
	}
	for _, ev := range scheduler.LessonEvents(a.Store.Blocks(), a.Store.Today(), now, loc, a.Config.LessonLead()) {
		if err := engine.Schedule(ev); err != nil {
			a.Logger.Warn("schedule lesson", slog.String("block_id", ev.BlockID), slog.Any("error", err))
		}
	}
}

// Rollover archives the day that just ended and replans the engine.
func (a *App) Rollover(ctx context.Context, engine *scheduler.Engine) model.Day {
	res := a.Store.ArchiveTop3(ctx)
	if engine != nil {
		a.Replan(engine)
	}
	return res.Date
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
