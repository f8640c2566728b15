package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/store"
)

// defaultSQLitePath is used when no database URL is configured.
const defaultSQLitePath = "leadgen.db"

// initStore opens the configured store backend. SQLite is the default so
// the CLI works with zero setup; Postgres is opt-in for shared deployments.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "postgres":
		if cfg.Store.DatabaseURL == "" {
			return nil, eris.New("store: postgres driver requires store.database_url")
		}
		st, err := store.NewPostgres(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, eris.Wrap(err, "init postgres store")
		}
		zap.L().Info("using postgres store")
		return st, nil
	case "sqlite", "":
		path := cfg.Store.DatabaseURL
		if path == "" {
			path = defaultSQLitePath
		}
		st, err := store.NewSQLite(path)
		if err != nil {
			return nil, eris.Wrap(err, "init sqlite store")
		}
		zap.L().Info("using sqlite store", zap.String("path", path))
		return st, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Store.Driver)
	}
}
