package root

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"strings"

	"cleanquest/internal/config"
	"cleanquest/internal/engine"
	"cleanquest/internal/sound"
	"cleanquest/internal/storage"
)

// app bundles everything a command needs.
type app struct {
	cfg     *config.Config
	log     *slog.Logger
	db      *sql.DB
	svc     *engine.Service
	backups *storage.BackupLogRepo
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(globalFlags.configPath)
	if err != nil {
		return nil, err
	}
	if globalFlags.dbPath != "" {
		cfg.Storage.Path = globalFlags.dbPath
	}
	if globalFlags.logLevel != "" {
		cfg.Log.Level = globalFlags.logLevel
	}
	return cfg, nil
}

func newLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, func(), error) {
	path, err := storage.ResolveDBPath(cfg.Storage.Path)
	if err != nil {
		return nil, nil, err
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openApp(ctx context.Context) (*app, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)

	db, closeDB, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	var player sound.Player = sound.Nop{}
	if cfg.Sound.Enabled {
		player = sound.NewBeepPlayer(cfg.Sound.Dir, cfg.Sound.Volume, logger)
	}

	svc := engine.NewService(storage.NewStateRepo(db), player,
		engine.WithLogger(logger),
		engine.WithBreakTick(cfg.Timers.BreakTick),
	)
	svc.Load(ctx)

	a := &app{cfg: cfg, log: logger, db: db, svc: svc, backups: storage.NewBackupLogRepo(db)}
	cleanup := func() {
		svc.Close(context.Background())
		closeDB()
	}
	return a, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, func(), error) {
	a, cleanup, err := openApp(ctx)
	if err != nil {
		return nil, nil, err
	}
	return a.svc, cleanup, nil
}
