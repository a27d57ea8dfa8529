package geomodel

import "time"

// Merge reconciles the localities observed in incoming against those
// already recorded in existing. A locality for a known (city, country)
// replaces the recorded one only when it is strictly more recent or its
// source IP differs; an address change is worth recording even when the
// event arrived out of order. Unseen localities are appended. The
// returned state carries a fresh slice, so callers still holding the
// pre-merge state never observe the mutation.
func Merge(existing, incoming State) Update {
	localities := make([]Locality, len(existing.Localities))
	copy(localities, existing.Localities)

	didUpdate := false
	for _, candidate := range incoming.Localities {
		found := false
		for i, recorded := range localities {
			if candidate.City != recorded.City || candidate.Country != recorded.Country {
				continue
			}
			found = true

			moreRecent := candidate.LastAction.After(recorded.LastAction)
			newIP := candidate.SourceIP != recorded.SourceIP
			if moreRecent || newIP {
				localities[i] = candidate
				didUpdate = true
			}

			// At most one match can exist per (city, country).
			break
		}

		if !found {
			localities = append(localities, candidate)
			didUpdate = true
		}
	}

	return Update{
		State:     State{RecordType: existing.RecordType, Username: existing.Username, Localities: localities},
		DidUpdate: didUpdate,
	}
}

// RemoveOutdated evicts localities whose last activity is more than
// daysValid days old. A locality exactly at the cutoff is retained.
func RemoveOutdated(state State, daysValid int) Update {
	return removeOutdatedAt(state, daysValid, time.Now().UTC())
}

func removeOutdatedAt(state State, daysValid int, now time.Time) Update {
	cutoff := now.Add(-time.Duration(daysValid) * 24 * time.Hour)

	kept := make([]Locality, 0, len(state.Localities))
	for _, loc := range state.Localities {
		if !loc.LastAction.Before(cutoff) {
			kept = append(kept, loc)
		}
	}

	return Update{
		State:     State{RecordType: state.RecordType, Username: state.Username, Localities: kept},
		DidUpdate: len(kept) != len(state.Localities),
	}
}
