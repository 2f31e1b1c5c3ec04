// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package spatial

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// ClusterConfig holds the neighborhood clustering parameters.
type ClusterConfig struct {
	// K is the fixed number of clusters. Default: 4.
	K int `koanf:"k" json:"k"`
	// MaxIterations bounds Lloyd's algorithm. Default: 100.
	MaxIterations int `koanf:"max_iterations" json:"max_iterations"`
	// Seed makes centroid initialization deterministic. Default: 42.
	Seed int64 `koanf:"seed" json:"seed"`
}

// DefaultClusterConfig returns the documented defaults.
func DefaultClusterConfig() ClusterConfig {
	return ClusterConfig{K: 4, MaxIterations: 100, Seed: 42}
}

// clusterLabels name clusters in descending mean-rating order. Ranks
// beyond the list fall back to a numbered label.
var clusterLabels = []string{"elite", "strong", "everyday", "emerging"}

// Cluster groups cells into K neighborhood character clusters with
// z-score standardized k-means and writes the label onto each
// CellStats. The label set is ordered by cluster mean rating, best
// first. Identical input and seed always produce identical labels.
//
// When there are fewer cells than K, every cell gets its own cluster.
func Cluster(cells map[string]*CellStats, cfg ClusterConfig) (map[string]string, error) {
	if cfg.K <= 0 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", cfg.K)
	}
	if cfg.MaxIterations <= 0 {
		return nil, fmt.Errorf("max iterations must be positive, got %d", cfg.MaxIterations)
	}
	if len(cells) == 0 {
		return map[string]string{}, nil
	}

	// Map iteration order is randomized; sort ids for determinism.
	ids := make([]string, 0, len(cells))
	for id := range cells {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	k := cfg.K
	if len(ids) < k {
		k = len(ids)
	}

	points := make([][]float64, len(ids))
	for i, id := range ids {
		s := cells[id]
		points[i] = []float64{
			s.MeanRating,
			s.MeanResidual,
			float64(s.Count),
			s.ChainShare,
			s.CuisineEntropy,
			s.MeanPrice,
		}
	}
	standardize(points)

	assign := lloyd(points, k, cfg.MaxIterations, rand.New(rand.NewSource(cfg.Seed)))

	// Order clusters by mean rating, best first, then label.
	type rank struct {
		cluster int
		rating  float64
	}
	ranks := make([]rank, k)
	counts := make([]int, k)
	for i := range ranks {
		ranks[i].cluster = i
	}
	for i, c := range assign {
		ranks[c].rating += cells[ids[i]].MeanRating
		counts[c]++
	}
	for i := range ranks {
		if counts[i] > 0 {
			ranks[i].rating /= float64(counts[i])
		} else {
			ranks[i].rating = math.Inf(-1)
		}
	}
	sort.SliceStable(ranks, func(a, b int) bool { return ranks[a].rating > ranks[b].rating })

	labelOf := make([]string, k)
	for pos, r := range ranks {
		if pos < len(clusterLabels) {
			labelOf[r.cluster] = clusterLabels[pos]
		} else {
			labelOf[r.cluster] = fmt.Sprintf("tier_%d", pos+1)
		}
	}

	out := make(map[string]string, len(ids))
	for i, id := range ids {
		label := labelOf[assign[i]]
		out[id] = label
		cells[id].Cluster = label
	}
	return out, nil
}

// standardize z-scores each column in place. Constant columns become
// all zeros.
func standardize(points [][]float64) {
	if len(points) == 0 {
		return
	}
	cols := len(points[0])
	n := float64(len(points))
	for c := 0; c < cols; c++ {
		var sum float64
		for _, p := range points {
			sum += p[c]
		}
		mean := sum / n
		var sq float64
		for _, p := range points {
			d := p[c] - mean
			sq += d * d
		}
		sd := math.Sqrt(sq / n)
		for _, p := range points {
			if sd > 0 {
				p[c] = (p[c] - mean) / sd
			} else {
				p[c] = 0
			}
		}
	}
}

// lloyd runs k-means with k-means++ seeding: later centroids are drawn
// proportionally to their squared distance from the nearest existing
// centroid, so duplicate points never seed two clusters while distinct
// points remain.
func lloyd(points [][]float64, k, maxIter int, rng *rand.Rand) []int {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[rng.Intn(len(points))]...))
	dists := make([]float64, len(points))
	for len(centroids) < k {
		var total float64
		for i, p := range points {
			dists[i] = sqDist(p, centroids[0])
			for _, cent := range centroids[1:] {
				if d := sqDist(p, cent); d < dists[i] {
					dists[i] = d
				}
			}
			total += dists[i]
		}
		if total == 0 {
			// All remaining points coincide with a centroid.
			centroids = append(centroids, append([]float64(nil), points[0]...))
			continue
		}
		target := rng.Float64() * total
		pick := len(points) - 1
		var cum float64
		for i, d := range dists {
			cum += d
			if cum >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, append([]float64(nil), points[pick]...))
	}

	assign := make([]int, len(points))
	for iter := 0; iter < maxIter; iter++ {
		changed := false
		for i, p := range points {
			best, bestDist := 0, math.MaxFloat64
			for c, cent := range centroids {
				d := sqDist(p, cent)
				if d < bestDist {
					best, bestDist = c, d
				}
			}
			if assign[i] != best {
				assign[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		next := make([][]float64, k)
		for i := range next {
			next[i] = make([]float64, len(points[0]))
		}
		for i, p := range points {
			c := assign[i]
			counts[c]++
			for j, v := range p {
				next[c][j] += v
			}
		}
		for c := range next {
			if counts[c] == 0 {
				// Empty cluster keeps its old centroid.
				next[c] = centroids[c]
				continue
			}
			for j := range next[c] {
				next[c][j] /= float64(counts[c])
			}
		}
		centroids = next
	}
	return assign
}

func sqDist(a, b []float64) float64 {
	var d float64
	for i := range a {
		diff := a[i] - b[i]
		d += diff * diff
	}
	return d
}
