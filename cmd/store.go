package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sentinelsec/geomodel/internal/reconciler"
	"github.com/sentinelsec/geomodel/internal/store"
)

// openStore builds the configured store backend.
func openStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func reconcilerConfig() reconciler.Config {
	return reconciler.Config{
		Index:     cfg.Locality.Index,
		ValidDays: cfg.Locality.ValidDays,
		RadiusKm:  cfg.Locality.RadiusKm,
	}
}
