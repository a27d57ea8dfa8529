package geomodel

import (
	"time"

	"github.com/sentinelsec/geomodel/internal/event"
)

// unknownPlace stands in for a city or country the geolocation resolver
// could not name.
const unknownPlace = "UNKNOWN"

// Extract derives a candidate locality from a raw authentication event.
// It returns nil when the event has no source address or no geolocation:
// without both there is no locality to record. A blank city or country
// falls back to UNKNOWN and missing coordinates to zero. The activity
// instant is the event's own timestamp when present, otherwise the
// current UTC time.
func Extract(evt event.Event, radiusKm float64) (*Locality, error) {
	src := evt.Source
	if src.SourceIPAddress == "" || src.Geolocation == nil {
		return nil, nil
	}

	text := src.UTCTimestamp
	if text == "" {
		text = FormatTimestamp(time.Now())
	}
	lastAction, err := ParseTimestamp(text)
	if err != nil {
		return nil, err
	}

	city := src.Geolocation.City
	if city == "" {
		city = unknownPlace
	}
	country := src.Geolocation.CountryCode
	if country == "" {
		country = unknownPlace
	}

	return &Locality{
		SourceIP:   src.SourceIPAddress,
		City:       city,
		Country:    country,
		LastAction: lastAction,
		Latitude:   src.Geolocation.Latitude,
		Longitude:  src.Geolocation.Longitude,
		RadiusKm:   radiusKm,
	}, nil
}
