// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package model

import (
	"errors"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func validRecord() *Restaurant {
	return &Restaurant{
		ID:          "r-001",
		Name:        "Chez Nadia",
		Location:    &Coordinates{Lat: 50.8371, Lng: 4.3414},
		Cuisine:     "moroccan",
		VenueType:   "restaurant",
		PriceLevel:  2,
		Rating:      ptr(4.5),
		ReviewCount: ptr(180),
	}
}

func TestValidateAcceptsWellFormedRecord(t *testing.T) {
	va := NewValidator()
	require.NoError(t, va.Validate(validRecord()))
}

func TestValidateRejectsMalformedRecords(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Restaurant)
	}{
		{"missing id", func(r *Restaurant) { r.ID = "" }},
		{"missing coordinates", func(r *Restaurant) { r.Location = nil }},
		{"latitude out of range", func(r *Restaurant) { r.Location.Lat = 91 }},
		{"missing rating", func(r *Restaurant) { r.Rating = nil }},
		{"rating above scale", func(r *Restaurant) { r.Rating = ptr(5.5) }},
		{"negative rating", func(r *Restaurant) { r.Rating = ptr(-0.1) }},
		{"missing review count", func(r *Restaurant) { r.ReviewCount = nil }},
		{"negative review count", func(r *Restaurant) { r.ReviewCount = ptr(-1) }},
		{"price level out of range", func(r *Restaurant) { r.PriceLevel = 5 }},
		{"bad hours clock", func(r *Restaurant) {
			r.Hours = []DayHours{{Day: "monday", Open: "noon", Close: "22:00"}}
		}},
		{"bad hours day", func(r *Restaurant) {
			r.Hours = []DayHours{{Day: "funday", Open: "12:00", Close: "22:00"}}
		}},
	}

	va := NewValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			err := va.Validate(rec)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRecord)

			var re *RecordError
			require.True(t, errors.As(err, &re))
			if rec.ID != "" {
				assert.Equal(t, rec.ID, re.RestaurantID)
			}
		})
	}
}

func TestValidateRejectsAbsentRatingFromJSON(t *testing.T) {
	// An input record without a rating key must be rejected, not read
	// as a legitimate 0.0.
	raw := `{"id":"r-042","name":"Le Silence","location":{"lat":50.84,"lng":4.35},"review_count":40}`
	var rec Restaurant
	require.NoError(t, json.Unmarshal([]byte(raw), &rec))
	require.Nil(t, rec.Rating)

	err := NewValidator().Validate(&rec)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)

	// An explicit zero rating is a different case and stays valid.
	raw = `{"id":"r-043","name":"Le Zero","location":{"lat":50.84,"lng":4.35},"rating":0,"review_count":0}`
	var zero Restaurant
	require.NoError(t, json.Unmarshal([]byte(raw), &zero))
	require.NotNil(t, zero.Rating)
	assert.NoError(t, NewValidator().Validate(&zero))
}

func TestValidateNilRecord(t *testing.T) {
	va := NewValidator()
	err := va.Validate(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"9:30", 570, false},
		{"23:59", 1439, false},
		{" 12:00 ", 720, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"midnight", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}
