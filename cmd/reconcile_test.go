package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sentinelsec/geomodel/internal/geomodel"
	"github.com/sentinelsec/geomodel/internal/reconciler"
	"github.com/sentinelsec/geomodel/internal/store"
)

func newTestReconciler(t *testing.T) (*reconciler.Reconciler, store.Store) {
	t.Helper()
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	rec := reconciler.New(s, s, reconciler.Config{
		Index:     "localities",
		ValidDays: 30,
		RadiusKm:  geomodel.DefaultRadiusKm,
	}, zap.NewNop())
	return rec, s
}

func eventLine(username, city, country, ip string) string {
	ts := geomodel.FormatTimestamp(time.Now().UTC().Add(-time.Hour))
	return fmt.Sprintf(`{"_source": {"sourceipaddress": %q, "sourceipgeolocation": {"city": %q, "country_code": %q, "latitude": 1, "longitude": 2}, "utctimestamp": %q, "details": {"username": %q}}}`,
		ip, city, country, ts, username)
}

func TestProcessEvents(t *testing.T) {
	rec, s := newTestReconciler(t)

	input := strings.Join([]string{
		eventLine("alice", "Rome", "IT", "203.0.113.7"),
		"",
		eventLine("alice", "Toronto", "CA", "198.51.100.2"),
		`{"_source": {"details": {"username": "bob"}}}`,
	}, "\n")

	processed, skipped, err := processEvents(context.Background(), rec, strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, processed)
	assert.Equal(t, 1, skipped)

	entry, err := geomodel.Find(context.Background(), s, "alice", "localities")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Len(t, entry.State.Localities, 2)
}

func TestProcessEvents_MalformedLine(t *testing.T) {
	rec, _ := newTestReconciler(t)

	_, _, err := processEvents(context.Background(), rec, strings.NewReader("{not json"))
	require.Error(t, err)
}
