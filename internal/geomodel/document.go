package geomodel

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// Document field structs use pointers so decoding can tell a missing
// field from a zero value.

type localityDoc struct {
	SourceIPAddress *string  `json:"sourceipaddress"`
	City            *string  `json:"city"`
	Country         *string  `json:"country"`
	LastAction      *string  `json:"lastaction"`
	Latitude        *float64 `json:"latitude"`
	Longitude       *float64 `json:"longitude"`
	Radius          *float64 `json:"radius"`
}

type stateDoc struct {
	Type       *string       `json:"type_"`
	Username   *string       `json:"username"`
	Localities []localityDoc `json:"localities"`
}

// EncodeState serializes a state into its journaled document form, with
// lastaction in the canonical timestamp layout.
func EncodeState(state State) ([]byte, error) {
	docs := make([]localityDoc, 0, len(state.Localities))
	for _, loc := range state.Localities {
		last := FormatTimestamp(loc.LastAction)
		docs = append(docs, localityDoc{
			SourceIPAddress: &loc.SourceIP,
			City:            &loc.City,
			Country:         &loc.Country,
			LastAction:      &last,
			Latitude:        &loc.Latitude,
			Longitude:       &loc.Longitude,
			Radius:          &loc.RadiusKm,
		})
	}

	data, err := json.Marshal(stateDoc{
		Type:       &state.RecordType,
		Username:   &state.Username,
		Localities: docs,
	})
	return data, eris.Wrap(err, "geomodel: encode state")
}

// DecodeState parses a journaled document back into a State. A document
// that is not the expected shape — malformed JSON, a type mismatch, or a
// missing required field — yields (nil, nil): a corrupt record reads the
// same as no record. An unparseable lastaction value is the one hard
// failure, since it means the document was written by something other
// than this codec.
func DecodeState(data []byte) (*State, error) {
	var doc stateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil
	}
	if doc.Type == nil || doc.Username == nil || doc.Localities == nil {
		return nil, nil
	}

	localities := make([]Locality, 0, len(doc.Localities))
	for _, ld := range doc.Localities {
		if ld.SourceIPAddress == nil || ld.City == nil || ld.Country == nil ||
			ld.LastAction == nil || ld.Latitude == nil || ld.Longitude == nil ||
			ld.Radius == nil {
			return nil, nil
		}

		last, err := ParseTimestamp(*ld.LastAction)
		if err != nil {
			return nil, err
		}

		localities = append(localities, Locality{
			SourceIP:   *ld.SourceIPAddress,
			City:       *ld.City,
			Country:    *ld.Country,
			LastAction: last,
			Latitude:   *ld.Latitude,
			Longitude:  *ld.Longitude,
			RadiusKm:   *ld.Radius,
		})
	}

	return &State{RecordType: *doc.Type, Username: *doc.Username, Localities: localities}, nil
}
