package flatbush

import "iter"

// SearchRange returns a lazy sequence of identifiers of every box that
// intersects the inclusive query rectangle [minX,maxX] x [minY,maxY].
// Emission order is traversal order; no identifier is ever emitted twice.
func (idx *FlatBush[T]) SearchRange(minX, minY, maxX, maxY T) iter.Seq[int] {
	return func(yield func(int) bool) {
		if idx.numItems == 0 || len(idx.boxes) == 0 {
			return
		}

		numItemSlots := idx.numItems * 4
		queue := []int{len(idx.boxes) - 4}

		for len(queue) > 0 {
			nodeIndex := queue[len(queue)-1]
			queue = queue[:len(queue)-1]

			end := nodeIndex + idx.nodeSize*4
			if ub := upperBound(nodeIndex, idx.levelBounds); ub < end {
				end = ub
			}

			for pos := nodeIndex; pos < end; pos += 4 {
				if maxX < idx.boxes[pos] || maxY < idx.boxes[pos+1] ||
					minX > idx.boxes[pos+2] || minY > idx.boxes[pos+3] {
					continue
				}

				childIndex := int(idx.indices.Get(pos >> 2))
				if pos < numItemSlots {
					if !yield(childIndex) {
						return
					}
				} else {
					queue = append(queue, childIndex)
				}
			}
		}
	}
}

// upperBound returns the first entry in levelBounds strictly greater than
// value; levelBounds is always non-empty and its last entry is greater
// than any valid boxes offset, so this always finds an entry.
func upperBound(value int, levelBounds []int) int {
	i, j := 0, len(levelBounds)-1
	for i < j {
		m := (i + j) >> 1
		if levelBounds[m] > value {
			j = m
		} else {
			i = m + 1
		}
	}
	return levelBounds[i]
}
