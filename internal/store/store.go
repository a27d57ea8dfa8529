// Package store provides document-store adapters behind the locality
// gateway contracts. Each adapter keeps whole state documents in a
// single table keyed by identifier and index name, mirroring the
// document-per-user model the reconciliation algorithm assumes.
package store

import (
	"context"

	"github.com/sentinelsec/geomodel/internal/geomodel"
)

// Store is a persistence backend serving both gateway capabilities plus
// its own lifecycle.
type Store interface {
	geomodel.Journaler
	geomodel.Querier

	// Migrate creates the document schema if it does not exist.
	Migrate(ctx context.Context) error
	Close() error
}
