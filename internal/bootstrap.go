package internal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/starford/menutree/internal/catalog"
	"github.com/starford/menutree/internal/snapshot"
	"github.com/starford/menutree/internal/storage"
)

// openCatalog wires storage, the snapshot database and the catalog, and
// publishes the initial tree. The returned closer releases the database.
func openCatalog(ctx context.Context, cfg *Config, logger *slog.Logger) (*catalog.Service, func() error, error) {
	store, err := storage.NewFS(cfg.Tree.Dir())
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}

	closer := func() error { return nil }
	var db snapshot.Store
	if cfg.SQLite.Enabled() {
		sdb, err := snapshot.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("init snapshot db: %w", err)
		}
		db, closer = sdb, sdb.Close
	}

	svc, err := catalog.NewService(store, db, catalog.Options{
		Path:          cfg.Tree.File(),
		CacheSize:     cfg.Search.CacheSize,
		SearchOptions: cfg.Search.Options(),
		Logger:        logger,
	})
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("init catalog: %w", err)
	}

	snap, err := svc.Load(ctx)
	if err != nil {
		_ = closer()
		return nil, nil, fmt.Errorf("load tree: %w", err)
	}
	logger.Info("Menu tree ready",
		slog.String("source", snap.Source),
		slog.String("checksum", snap.Checksum),
		slog.Int("nodes", snap.Tree.Len()))

	return svc, closer, nil
}
