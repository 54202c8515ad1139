package kdbush

import (
	"math"

	"github.com/apendleton/static-bushes/internal/ivec"
	"github.com/apendleton/static-bushes/internal/numeric"
)

// sortKD recursively partitions [left, right] around its median index,
// alternating the partition axis with depth (starting from x, axis 0), so
// that the resulting permutation is an implicit binary k-d tree: the median
// element of every subrange sits at (left+right)/2, every element to its
// left is <= it on the current axis, every element to its right is >=.
func sortKD[T numeric.Number](ids ivec.Vec, coords []T, nodeSize, left, right, axis int) {
	if right-left <= nodeSize {
		return
	}

	m := (left + right) >> 1

	floydRivestSelect(ids, coords, m, left, right, axis)

	sortKD(ids, coords, nodeSize, left, m-1, 1-axis)
	sortKD(ids, coords, nodeSize, m+1, right, 1-axis)
}

// floydRivestSelect partitions [left, right] so that the k-th smallest
// element (keyed on coords[2*i+axis]) ends up at position k, with every
// smaller element to its left and every larger element to its right. It is
// the classical Floyd-Rivest selection algorithm: for large ranges it first
// narrows [left, right] using a randomized-free sampled-interval heuristic,
// then does an in-place three-pointer Hoare partition around the true
// pivot value.
func floydRivestSelect[T numeric.Number](ids ivec.Vec, coords []T, k, left, right, axis int) {
	for right > left {
		if right-left > 600 {
			n := float64(right - left + 1)
			m := float64(k - left + 1)
			fk := float64(k)

			z := math.Log(n)
			s := 0.5 * math.Exp(2*z/3)
			sign := 1.0
			if m-n/2 < 0 {
				sign = -1.0
			}
			sd := 0.5 * math.Sqrt(z*s*(n-s)/n) * sign

			newLeft := max(left, int(math.Floor(fk-m*s/n+sd)))
			newRight := min(right, int(math.Floor(fk+(n-m)*s/n+sd)))
			floydRivestSelect(ids, coords, k, newLeft, newRight, axis)
		}

		t := coords[2*k+axis]
		i := left
		j := right

		swapItem(ids, coords, left, k)
		if coords[2*right+axis] > t {
			swapItem(ids, coords, left, right)
		}

		for i < j {
			swapItem(ids, coords, i, j)
			i++
			j--
			for coords[2*i+axis] < t {
				i++
			}
			for coords[2*j+axis] > t {
				j--
			}
		}

		if coords[2*left+axis] == t {
			swapItem(ids, coords, left, j)
		} else {
			j++
			swapItem(ids, coords, j, right)
		}

		if j <= k {
			left = j + 1
		}
		if k <= j {
			right = j - 1
		}
	}
}

// swapItem co-swaps an identifier and its (x, y) coordinate pair, keeping
// ids and coords in lockstep under any permutation.
func swapItem[T numeric.Number](ids ivec.Vec, coords []T, i, j int) {
	ids.Swap(i, j)
	coords[2*i], coords[2*j] = coords[2*j], coords[2*i]
	coords[2*i+1], coords[2*j+1] = coords[2*j+1], coords[2*i+1]
}
