package geomodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeState_DocumentShape(t *testing.T) {
	state := NewState("alice", []Locality{
		locality("Rome", "IT", "203.0.113.7", time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)),
	})

	data, err := EncodeState(state)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"type_": "locality",
		"username": "alice",
		"localities": [{
			"sourceipaddress": "203.0.113.7",
			"city": "Rome",
			"country": "IT",
			"lastaction": "2020-01-01T00:00:00.000000+00:00",
			"latitude": 0,
			"longitude": 0,
			"radius": 50
		}]
	}`, string(data))
}

func TestDecodeState_RoundTrip(t *testing.T) {
	state := NewState("alice", []Locality{
		{
			SourceIP:   "203.0.113.7",
			City:       "Rome",
			Country:    "IT",
			LastAction: time.Date(2020, 1, 1, 12, 30, 0, 0, time.UTC),
			Latitude:   41.9028,
			Longitude:  12.4964,
			RadiusKm:   50,
		},
	})

	data, err := EncodeState(state)
	require.NoError(t, err)

	got, err := DecodeState(data)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, state.Username, got.Username)
	assert.Equal(t, state.RecordType, got.RecordType)
	require.Len(t, got.Localities, 1)
	assert.True(t, got.Localities[0].LastAction.Equal(state.Localities[0].LastAction))
	assert.Equal(t, state.Localities[0].SourceIP, got.Localities[0].SourceIP)
}

func TestDecodeState_CorruptIsAbsent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed json", `{"type_": "locality"`},
		{"wrong type", `{"type_": "locality", "username": 42, "localities": []}`},
		{"missing username", `{"type_": "locality", "localities": []}`},
		{"missing localities", `{"type_": "locality", "username": "alice"}`},
		{"locality missing city", `{"type_": "locality", "username": "alice", "localities": [
			{"sourceipaddress": "203.0.113.7", "country": "IT",
			 "lastaction": "2020-01-01T00:00:00", "latitude": 0, "longitude": 0, "radius": 50}]}`},
		{"locality wrong latitude type", `{"type_": "locality", "username": "alice", "localities": [
			{"sourceipaddress": "203.0.113.7", "city": "Rome", "country": "IT",
			 "lastaction": "2020-01-01T00:00:00", "latitude": "north", "longitude": 0, "radius": 50}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeState([]byte(tt.doc))
			assert.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestDecodeState_BadLastActionPropagates(t *testing.T) {
	doc := `{"type_": "locality", "username": "alice", "localities": [
		{"sourceipaddress": "203.0.113.7", "city": "Rome", "country": "IT",
		 "lastaction": "last tuesday", "latitude": 0, "longitude": 0, "radius": 50}]}`

	_, err := DecodeState([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidTimestamp)
}

func TestDecodeState_EmptyLocalities(t *testing.T) {
	got, err := DecodeState([]byte(`{"type_": "locality", "username": "alice", "localities": []}`))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got.Localities)
}
