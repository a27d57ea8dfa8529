// Package geomodel maintains the per-user ledger of geographic login
// localities that the alerting pipeline reads when scoring anomalous
// activity. The package holds the value types and the reconciliation
// algorithm; persistence is injected through the Journaler and Querier
// contracts in gateway.go.
package geomodel

import "time"

// DefaultRadiusKm is the assumed imprecision of IP geolocation, attached
// to every locality extracted from an event.
const DefaultRadiusKm = 50.0

// RecordType is the type_ discriminator carried by persisted locality
// documents.
const RecordType = "locality"

// Locality is one geographic cluster of activity for a user. Two
// localities with the same (city, country) describe the same cluster and
// never coexist within a State.
type Locality struct {
	SourceIP   string
	City       string
	Country    string
	LastAction time.Time
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
}

// State is the full locality ledger for one user. Localities holds at
// most one entry per (city, country); order is insertion order and
// carries no meaning beyond deterministic iteration.
type State struct {
	RecordType string
	Username   string
	Localities []Locality
}

// NewState builds a ledger for a user with the locality record type.
func NewState(username string, localities []Locality) State {
	return State{RecordType: RecordType, Username: username, Localities: localities}
}

// Entry pairs a State with its storage identifier. An empty identifier
// journals as an insert of a new document; a non-empty one replaces the
// document it names.
type Entry struct {
	Identifier string
	State      State
}

// NewEntry wraps a state in an Entry that journals as a new document.
func NewEntry(state State) Entry {
	return Entry{State: state}
}

// Update pairs a possibly-changed State with whether anything actually
// changed, letting callers skip the journal write when nothing did.
// Updates are transient results and are never persisted.
type Update struct {
	State     State
	DidUpdate bool
}

// Then applies fn to the state inside u and ORs the change flags, so a
// chain of state transforms reports whether any link changed anything.
func (u Update) Then(fn func(State) Update) Update {
	next := fn(u.State)
	return Update{State: next.State, DidUpdate: u.DidUpdate || next.DidUpdate}
}
