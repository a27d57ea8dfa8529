// Package event models the raw authentication events consumed by the
// locality pipeline.
package event

// Geolocation is the GeoIP enrichment attached to an event's source
// address. City and country may be blank when the resolver had no data.
type Geolocation struct {
	City        string  `json:"city"`
	CountryCode string  `json:"country_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
}

// Details carries the authentication-specific fields of an event.
type Details struct {
	Username string `json:"username"`
}

// Payload is the event body: who authenticated, from which address, and
// where that address geolocates to. UTCTimestamp, when present, is in
// one of the layouts accepted by geomodel.ParseTimestamp.
type Payload struct {
	SourceIPAddress string       `json:"sourceipaddress"`
	Geolocation     *Geolocation `json:"sourceipgeolocation"`
	UTCTimestamp    string       `json:"utctimestamp,omitempty"`
	Details         Details      `json:"details"`
}

// Event is one raw authentication event as delivered by the upstream
// event pipeline.
type Event struct {
	Source Payload `json:"_source"`
}
