package geomodel

import "context"

// Term is one equality requirement in a query filter.
type Term struct {
	Field string
	Value string
}

// Filter selects documents by field equality within a named index.
type Filter struct {
	Terms []Term
}

// Journaler writes a state document to a named index. An entry with an
// empty identifier is inserted as a new document; one with an identifier
// replaces the document at that identifier wholesale. Store failures
// surface to the caller unmodified.
type Journaler interface {
	Journal(ctx context.Context, entry Entry, index string) error
}

// Querier runs a filter against a named index and returns the first
// matching document decoded into an Entry, or nil when nothing matches.
// A stored document that fails to decode is reported as nil rather than
// an error: corrupt state must read the same as no state.
type Querier interface {
	Query(ctx context.Context, filter Filter, index string) (*Entry, error)
}

// Find fetches a user's current locality entry from the given index.
func Find(ctx context.Context, q Querier, username, index string) (*Entry, error) {
	filter := Filter{Terms: []Term{
		{Field: "type_", Value: RecordType},
		{Field: "username", Value: username},
	}}
	return q.Query(ctx, filter, index)
}
