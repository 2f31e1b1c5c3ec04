// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package spatial

import (
	"fmt"

	h3 "github.com/uber/h3-go/v4"
)

// DefaultResolution is H3 resolution 8, whose cells cover roughly a
// walkable neighborhood block in a European city.
const DefaultResolution = 8

// CellID returns the H3 cell index string for a point at the given
// resolution.
func CellID(lat, lng float64, resolution int) (string, error) {
	cell, err := h3.LatLngToCell(h3.NewLatLng(lat, lng), resolution)
	if err != nil {
		return "", fmt.Errorf("assigning cell for (%v, %v): %w", lat, lng, err)
	}
	return cell.String(), nil
}
