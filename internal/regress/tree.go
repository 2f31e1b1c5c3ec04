// Gastrocarta - Restaurant Ranking and Neighborhood Analytics
// Copyright 2026 Gastrocarta Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gastrocarta/gastrocarta

package regress

import "sort"

// node is a binary regression tree node. Leaves carry the mean of the
// gradient targets routed to them.
type node struct {
	feature   int
	threshold float64
	left      *node
	right     *node
	value     float64
	leaf      bool
}

func (n *node) predict(row []float64) float64 {
	for !n.leaf {
		if row[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

// split is the best candidate found for one node.
type split struct {
	feature   int
	threshold float64
	gain      float64
	left      []int
	right     []int
}

// buildTree grows a tree over the given row indices against the
// current pseudo-residual targets. Splits maximize variance reduction
// (sum-of-squares gain) and are scanned in fixed column order over
// sorted values, which keeps training independent of input ordering.
func buildTree(rows [][]float64, targets []float64, idx []int, depth, maxDepth, minLeaf int) *node {
	if depth >= maxDepth || len(idx) < 2*minLeaf {
		return &node{leaf: true, value: mean(targets, idx)}
	}

	best := findBestSplit(rows, targets, idx, minLeaf)
	if best == nil {
		return &node{leaf: true, value: mean(targets, idx)}
	}

	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      buildTree(rows, targets, best.left, depth+1, maxDepth, minLeaf),
		right:     buildTree(rows, targets, best.right, depth+1, maxDepth, minLeaf),
	}
}

func findBestSplit(rows [][]float64, targets []float64, idx []int, minLeaf int) *split {
	n := len(idx)
	var total, totalSq float64
	for _, i := range idx {
		total += targets[i]
		totalSq += targets[i] * targets[i]
	}
	baseSSE := totalSq - total*total/float64(n)

	var best *split
	order := make([]int, n)

	for f := 0; f < len(rows[idx[0]]); f++ {
		copy(order, idx)
		sort.SliceStable(order, func(a, b int) bool {
			return rows[order[a]][f] < rows[order[b]][f]
		})

		var leftSum, leftSq float64
		for pos := 0; pos < n-1; pos++ {
			i := order[pos]
			leftSum += targets[i]
			leftSq += targets[i] * targets[i]

			cur, next := rows[i][f], rows[order[pos+1]][f]
			if cur == next {
				continue // no boundary between equal values
			}
			left := pos + 1
			right := n - left
			if left < minLeaf || right < minLeaf {
				continue
			}

			rightSum := total - leftSum
			rightSq := totalSq - leftSq
			sse := (leftSq - leftSum*leftSum/float64(left)) +
				(rightSq - rightSum*rightSum/float64(right))
			gain := baseSSE - sse
			if best != nil && gain <= best.gain {
				continue
			}
			best = &split{
				feature:   f,
				threshold: (cur + next) / 2,
				gain:      gain,
			}
			best.left = append([]int(nil), order[:left]...)
			best.right = append([]int(nil), order[left:]...)
		}
	}

	if best == nil || best.gain <= 1e-12 {
		return nil
	}
	return best
}

func mean(targets []float64, idx []int) float64 {
	if len(idx) == 0 {
		return 0
	}
	var sum float64
	for _, i := range idx {
		sum += targets[i]
	}
	return sum / float64(len(idx))
}
