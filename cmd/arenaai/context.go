package main

import (
	"database/sql"
	"fmt"

	"github.com/lsm1103/ArenaAI/internal/config"
	"github.com/lsm1103/ArenaAI/internal/storage/sqlite"
	"github.com/lsm1103/ArenaAI/pkg/logger"
)

// commandContext carries lazily-initialized shared state between commands.
type commandContext struct {
	configPath string

	cfg *config.Config
	log *logger.Logger
}

// ensure loads the config file and builds the logger on first use.
func (ctx *commandContext) ensure() error {
	if ctx.cfg != nil {
		return nil
	}

	cfg, err := config.Load(ctx.configPath)
	if err != nil {
		return err
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	ctx.cfg = cfg
	ctx.log = log
	return nil
}

// openStorage opens the database and both storage layers. The caller closes
// the returned db handle.
func (ctx *commandContext) openStorage() (*sql.DB, *sqlite.RunStorage, *sqlite.AnalysisStorage, error) {
	db, err := sqlite.Open(ctx.cfg.Database.Path)
	if err != nil {
		return nil, nil, nil, err
	}

	runs, err := sqlite.NewRunStorage(db, ctx.log)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	analyses, err := sqlite.NewAnalysisStorage(db, ctx.log)
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return db, runs, analyses, nil
}
