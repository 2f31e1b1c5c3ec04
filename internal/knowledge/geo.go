// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package knowledge

import "math"

// earthRadiusKm is the mean Earth radius used by the haversine
// distance.
const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between
// two WGS84 points.
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180.0

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// ZoneHit is a zone containing a queried point, with the distance to
// the zone center.
type ZoneHit struct {
	Zone       *Zone
	DistanceKm float64
}

// TouristZonesAt returns every tourist zone whose radius contains the
// point, nearest first.
func (b *Base) TouristZonesAt(lat, lng float64) []ZoneHit {
	return zonesAt(b.TouristZones, lat, lng)
}

// LocalStreetsAt returns every local-street zone whose radius contains
// the point, nearest first.
func (b *Base) LocalStreetsAt(lat, lng float64) []ZoneHit {
	return zonesAt(b.LocalStreets, lat, lng)
}

func zonesAt(zones []Zone, lat, lng float64) []ZoneHit {
	var hits []ZoneHit
	for i := range zones {
		z := &zones[i]
		d := Haversine(lat, lng, z.Lat, z.Lng)
		if d < z.RadiusKm {
			hits = append(hits, ZoneHit{Zone: z, DistanceKm: d})
		}
	}
	// Insertion sort keeps this allocation-light; zone lists are tiny.
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0 && hits[j].DistanceKm < hits[j-1].DistanceKm; j-- {
			hits[j], hits[j-1] = hits[j-1], hits[j]
		}
	}
	return hits
}

// NearestArea returns the area whose center is closest to the point,
// or nil when no areas are configured.
func (b *Base) NearestArea(lat, lng float64) *Area {
	var best *Area
	bestDist := math.MaxFloat64
	for i := range b.Areas {
		a := &b.Areas[i]
		d := Haversine(lat, lng, a.Lat, a.Lng)
		if d < bestDist {
			best = a
			bestDist = d
		}
	}
	return best
}
