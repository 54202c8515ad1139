package flatbush

import (
	"github.com/apendleton/static-bushes/internal/ivec"
	"github.com/apendleton/static-bushes/internal/numeric"
)

// sortByHilbert is a custom quicksort that partially sorts hilbertValues,
// carrying boxes (4 values per item) and indices (1 per item) along for
// the ride. It deliberately stops descending once every remaining element
// in [left, right] falls in the same node-sized block (left/nodeSize >=
// right/nodeSize): flatbush only needs items grouped into nodeSize-sized
// leaf blocks in Hilbert order, not a fully sorted array.
func sortByHilbert[T numeric.Number](values []uint32, boxes []T, indices ivec.Vec, left, right, nodeSize int) {
	if left/nodeSize >= right/nodeSize {
		return
	}

	pivot := values[(left+right)>>1]
	i := left - 1
	j := right + 1

	for {
		for {
			i++
			if values[i] >= pivot {
				break
			}
		}
		for {
			j--
			if values[j] <= pivot {
				break
			}
		}
		if i >= j {
			break
		}
		swapHilbertItem(values, boxes, indices, i, j)
	}

	sortByHilbert(values, boxes, indices, left, j, nodeSize)
	sortByHilbert(values, boxes, indices, j+1, right, nodeSize)
}

// swapHilbertItem co-swaps a Hilbert value, its 4-element box, and its
// identifier, keeping all three arrays in lockstep under any permutation.
func swapHilbertItem[T numeric.Number](values []uint32, boxes []T, indices ivec.Vec, i, j int) {
	values[i], values[j] = values[j], values[i]
	indices.Swap(i, j)
	for k := 0; k < 4; k++ {
		boxes[4*i+k], boxes[4*j+k] = boxes[4*j+k], boxes[4*i+k]
	}
}
