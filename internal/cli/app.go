package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/aggcheck/internal/config"
	"github.com/roach88/aggcheck/internal/hierarchy"
	"github.com/roach88/aggcheck/internal/history"
	"github.com/roach88/aggcheck/internal/session"
	"github.com/roach88/aggcheck/internal/store"
)

// App wires the core objects together for a command invocation: the
// containment index, the scan session, the check history, and the
// persistence gateway. No ambient globals - commands construct an App and
// pass it around.
//
// Persistence failures degrade the app to in-memory-only operation: they are
// logged and the gateway is dropped, but scanning and ingestion continue.
type App struct {
	Config  config.Config
	Index   *hierarchy.Index
	Session *session.Session
	History *history.Log

	db *store.Store
}

// openApp opens the database and loads all three persisted documents,
// applying the reload-consistency pruning to the session.
func openApp(cfg config.Config) *App {
	app := &App{
		Config:  cfg,
		Index:   hierarchy.New(),
		History: history.New(),
	}

	db, err := store.Open(cfg.Database)
	if err != nil {
		slog.Warn("database unavailable, running in-memory only",
			"path", cfg.Database, "error", err)
		app.Session = session.New(app.Index)
		return app
	}
	app.db = db

	ctx := context.Background()

	snap, err := app.db.LoadHierarchy(ctx)
	if err != nil {
		slog.Warn("failed to load hierarchy, starting empty", "error", err)
	} else {
		app.Index = hierarchy.FromSnapshot(snap)
	}
	app.Session = session.New(app.Index)

	checks, lastFile, err := app.db.LoadHistory(ctx)
	if err != nil {
		slog.Warn("failed to load check history, starting empty", "error", err)
	} else {
		app.History.Restore(checks, lastFile)
	}

	saved, savedAt, ok, err := app.db.LoadSession(ctx)
	if err != nil {
		slog.Warn("failed to load session snapshot, starting idle", "error", err)
	} else if ok {
		restored := app.Session.Restore(saved)
		slog.Debug("session restored",
			"saved_at", savedAt,
			"pallet", restored.Pallet,
			"box", restored.Box,
			"items", len(restored.Items),
		)
	}

	return app
}

// InMemory reports whether the app runs without a persistence gateway.
func (a *App) InMemory() bool {
	return a.db == nil
}

// SaveNow persists the session snapshot and history log. Idempotent; safe
// to call after every mutation and from a host-driven tick. Failures are
// logged and the app degrades to in-memory operation - an in-progress
// session is never aborted by a persistence error.
func (a *App) SaveNow(ctx context.Context) {
	if a.db == nil {
		return
	}
	if err := a.db.SaveSession(ctx, a.Session.State(), time.Now()); err != nil {
		slog.Warn("session autosave failed, continuing in memory", "error", err)
		a.dropGateway()
		return
	}
	if err := a.db.SaveHistory(ctx, a.History.Checks(), a.History.LastFile()); err != nil {
		slog.Warn("history save failed, continuing in memory", "error", err)
		a.dropGateway()
	}
}

// SaveHierarchy persists the containment index. Called after ingestion.
func (a *App) SaveHierarchy(ctx context.Context) {
	if a.db == nil {
		return
	}
	if err := a.db.SaveHierarchy(ctx, a.Index.Snapshot()); err != nil {
		slog.Warn("hierarchy save failed, continuing in memory", "error", err)
		a.dropGateway()
	}
}

// MaybeCompact trims the history log to its cap. Idempotent; intended for
// the same host-driven tick as SaveNow.
func (a *App) MaybeCompact() {
	a.History.Compact()
}

// Snapshot records displaced session state into the history.
// nil states (no progress) are ignored.
func (a *App) Snapshot(displaced *session.State) {
	if displaced == nil {
		return
	}
	if check := a.History.Record(*displaced, a.Index.Stats()); check != nil {
		slog.Debug("check recorded",
			"id", check.ID,
			"pallet", check.State.Pallet,
			"items", check.Summary.Items,
		)
	}
}

// Close releases the persistence gateway.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			slog.Error("error closing database", "error", err)
		}
		a.db = nil
	}
}

func (a *App) dropGateway() {
	if a.db != nil {
		_ = a.db.Close()
		a.db = nil
	}
}
