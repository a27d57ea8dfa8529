// Package reconciler composes the locality core into the read-merge-write
// cycle run for each authentication event: extract a candidate locality,
// fetch the user's recorded state, merge, evict stale entries, and journal
// the result when anything changed.
package reconciler

import (
	"context"

	"go.uber.org/zap"

	"github.com/sentinelsec/geomodel/internal/event"
	"github.com/sentinelsec/geomodel/internal/geomodel"
)

// Config tunes one reconciler instance.
type Config struct {
	// Index is the document index locality state lives in.
	Index string
	// ValidDays is the retention window applied after each merge.
	ValidDays int
	// RadiusKm is attached to every extracted locality.
	RadiusKm float64
}

// Reconciler runs reconciliations against injected gateway capabilities.
// It holds no per-user state; callers are expected to keep at most one
// reconciliation in flight per username, since the cycle is a plain
// read-modify-write.
type Reconciler struct {
	journal geomodel.Journaler
	querier geomodel.Querier
	cfg     Config
	log     *zap.Logger
}

// New builds a Reconciler over the given gateway capabilities.
func New(journal geomodel.Journaler, querier geomodel.Querier, cfg Config, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.L()
	}
	return &Reconciler{journal: journal, querier: querier, cfg: cfg, log: log}
}

// Result reports what one reconciliation did.
type Result struct {
	Username   string
	Localities int
	Persisted  bool
}

// Process reconciles one authentication event into the user's locality
// ledger. Events without a username or without location data are skipped
// with a nil result; store and parse failures surface as errors.
func (r *Reconciler) Process(ctx context.Context, evt event.Event) (*Result, error) {
	username := evt.Source.Details.Username
	if username == "" {
		r.log.Debug("skipping event without username")
		return nil, nil
	}

	loc, err := geomodel.Extract(evt, r.cfg.RadiusKm)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		r.log.Debug("skipping event without location data", zap.String("username", username))
		return nil, nil
	}
	incoming := geomodel.NewState(username, []geomodel.Locality{*loc})

	target, err := r.lookup(ctx, username)
	if err != nil {
		return nil, err
	}

	upd := geomodel.Merge(target.State, incoming).Then(func(s geomodel.State) geomodel.Update {
		return geomodel.RemoveOutdated(s, r.cfg.ValidDays)
	})

	return r.persist(ctx, target.Identifier, upd)
}

// Prune applies only the retention filter to a user's recorded state and
// persists the result when anything was evicted. A user with no recorded
// state yields a nil result.
func (r *Reconciler) Prune(ctx context.Context, username string) (*Result, error) {
	entry, err := geomodel.Find(ctx, r.querier, username, r.cfg.Index)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, nil
	}

	upd := geomodel.RemoveOutdated(entry.State, r.cfg.ValidDays)
	return r.persist(ctx, entry.Identifier, upd)
}

func (r *Reconciler) lookup(ctx context.Context, username string) (geomodel.Entry, error) {
	entry, err := geomodel.Find(ctx, r.querier, username, r.cfg.Index)
	if err != nil {
		return geomodel.Entry{}, err
	}
	if entry == nil {
		return geomodel.NewEntry(geomodel.NewState(username, nil)), nil
	}
	return *entry, nil
}

func (r *Reconciler) persist(ctx context.Context, identifier string, upd geomodel.Update) (*Result, error) {
	res := &Result{Username: upd.State.Username, Localities: len(upd.State.Localities)}
	if !upd.DidUpdate {
		r.log.Debug("locality ledger unchanged", zap.String("username", res.Username))
		return res, nil
	}

	entry := geomodel.Entry{Identifier: identifier, State: upd.State}
	if err := r.journal.Journal(ctx, entry, r.cfg.Index); err != nil {
		return nil, err
	}
	res.Persisted = true

	r.log.Info("locality ledger updated",
		zap.String("username", res.Username),
		zap.Int("localities", res.Localities),
		zap.Bool("new_entry", identifier == ""),
	)
	return res, nil
}
