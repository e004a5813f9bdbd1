// Package app wires configuration, the tabular store and the engine together
// for the CLI and the HTTP server.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"droneops/internal/config"
	"droneops/internal/db"
	"droneops/internal/engine"
	"droneops/internal/events"
	"droneops/internal/logger"
	"droneops/internal/metrics"
	"droneops/internal/migrate"
	"droneops/internal/repo"
	"droneops/internal/store"
	"droneops/internal/store/csvfile"
)

// ErrReadOnlySource is returned by operations that need the sqlite store when
// the workspace is configured for CSV only.
var ErrReadOnlySource = errors.New("workspace source is read-only csv; set source.kind: sqlite")

// Options configure Open.
type Options struct {
	Workspace string
	// Registerer receives the prometheus collectors; nil uses the default.
	Registerer prometheus.Registerer
	LogOut     io.Writer
}

// App is an opened workspace.
type App struct {
	Workspace string
	Config    *config.Config
	DB        *sql.DB
	Repo      *repo.Repo
	CSV       csvfile.Source
	Engine    engine.Engine
	Log       logger.Logger
}

// Open loads the workspace config and builds the engine on top of the
// configured source. With a sqlite source, reads fall back to the CSV
// directory while the database is empty.
func Open(ctx context.Context, opts Options) (*App, error) {
	cfg, err := config.LoadOptional(opts.Workspace)
	if err != nil {
		return nil, err
	}
	return OpenWithConfig(ctx, opts, cfg)
}

func OpenWithConfig(ctx context.Context, opts Options, cfg *config.Config) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logOpts := logger.Options{Level: cfg.Log.Level, Format: cfg.Log.Format, Out: opts.LogOut}
	a := &App{
		Workspace: opts.Workspace,
		Config:    cfg,
		CSV:       csvfile.Source{Dir: csvDir(opts.Workspace, cfg.Source.CSVDir)},
		Log:       logger.New("app", logOpts),
	}
	sink, err := metrics.NewPromSink(opts.Registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	var st store.Store = a.CSV
	var rec events.Recorder = events.Discard{}
	if cfg.Source.Kind == config.SourceSQLite {
		conn, err := db.Open(db.Config{Workspace: opts.Workspace})
		if err != nil {
			return nil, err
		}
		if err := migrate.Migrate(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		a.DB = conn
		a.Repo = &repo.Repo{DB: conn}
		st = store.Fallback{Primary: *a.Repo, Secondary: a.CSV, Log: logger.New("store", logOpts)}
		rec = events.Writer{DB: conn}
	}

	eng := engine.New(st, cfg.Rules)
	eng.Events = rec
	eng.Metrics = sink
	eng.Log = logger.New("engine", logOpts)
	a.Engine = eng
	a.Log.Debugw("workspace opened", map[string]any{"workspace": opts.Workspace, "source": cfg.Source.Kind})
	return a, nil
}

func csvDir(workspace, dir string) string {
	if filepath.IsAbs(dir) {
		return dir
	}
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, dir)
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

// Import loads <dir>/<table>.csv for every table into the sqlite store. An
// empty dir uses the configured CSV directory. Missing files are skipped.
func (a *App) Import(ctx context.Context, dir string) (map[store.Table]int, error) {
	if a.Repo == nil {
		return nil, ErrReadOnlySource
	}
	src := a.CSV
	if dir != "" {
		src = csvfile.Source{Dir: dir}
	}
	counts := map[store.Table]int{}
	for _, table := range store.Tables {
		rows, err := src.Read(ctx, table)
		if err != nil {
			return counts, fmt.Errorf("read %s: %w", src.Path(table), err)
		}
		n, err := a.Repo.ImportRecords(ctx, table, rows)
		if err != nil {
			return counts, err
		}
		counts[table] = n
		a.Log.Infof("imported %d rows into %s from %s", n, table, src.Path(table))
	}
	payload := events.EventPayload{"dir": src.Dir}
	for t, n := range counts {
		payload[string(t)] = n
	}
	if err := a.Engine.Events.Append(ctx, events.RosterImported, "roster", "", engine.ActorFrom(ctx), payload); err != nil {
		a.Log.Warnf("record import event: %v", err)
	}
	return counts, nil
}
