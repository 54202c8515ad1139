// Package flatbush is a static, packed Hilbert R-tree over 2D axis-aligned
// boxes. Boxes are collected once via a FlatBushBuilder, Hilbert-sorted, and
// folded bottom-up into internal node boxes, all stored in one flat slice
// so that child lookup is index arithmetic rather than pointer-chasing.
//
// Package flatbush is a Go port of https://github.com/mourner/flatbush (by
// way of apendleton/static-bushes), adopting the pre-declared-item-count
// construction dialect: see NewFlatBushBuilder.
package flatbush

import (
	"errors"
	"fmt"

	"github.com/apendleton/static-bushes/internal/ivec"
	"github.com/apendleton/static-bushes/internal/numeric"
)

// DefaultNodeSize is the fan-out used when none is given to
// NewFlatBushBuilder.
const DefaultNodeSize = 16

// MinNodeSize and MaxNodeSize bound the fan-out any builder will use; a
// requested node size outside this range is silently clamped into it.
const (
	MinNodeSize = 2
	MaxNodeSize = 65535
)

// ErrInputCountMismatch is returned by Finish when the number of boxes
// added differs from the item count declared at NewFlatBushBuilder.
var ErrInputCountMismatch = errors.New("flatbush: number of items added does not match declared count")

// FlatBushBuilder collects boxes in insertion order. The builder uses the
// pre-declared-count construction dialect: the caller states how many
// items it will add up front, and Finish validates that promise.
type FlatBushBuilder[T numeric.Number] struct {
	numItems int
	nodeSize int
	boxes    []T // flat (minX, minY, maxX, maxY) per item, appended in Add order
	minX     T
	minY     T
	maxX     T
	maxY     T
}

// NewFlatBushBuilder creates a builder that expects exactly numItems calls
// to Add, using the default node size (16).
func NewFlatBushBuilder[T numeric.Number](numItems int) *FlatBushBuilder[T] {
	return NewFlatBushBuilderWithNodeSize[T](numItems, DefaultNodeSize)
}

// NewFlatBushBuilderWithNodeSize creates a builder that expects exactly
// numItems calls to Add, with the internal-node fan-out clamped to
// [MinNodeSize, MaxNodeSize].
func NewFlatBushBuilderWithNodeSize[T numeric.Number](numItems, nodeSize int) *FlatBushBuilder[T] {
	if nodeSize < MinNodeSize {
		nodeSize = MinNodeSize
	} else if nodeSize > MaxNodeSize {
		nodeSize = MaxNodeSize
	}
	return &FlatBushBuilder[T]{
		numItems: numItems,
		nodeSize: nodeSize,
		boxes:    make([]T, 0, numItems*4),
		minX:     numeric.MaxValue[T](),
		minY:     numeric.MaxValue[T](),
		maxX:     numeric.MinValue[T](),
		maxY:     numeric.MinValue[T](),
	}
}

// Add appends a box and returns its identifier, the number of boxes added
// before this one (so identifiers start at 0 and are consecutive). It also
// folds the box into the builder's running tree bounds.
func (b *FlatBushBuilder[T]) Add(minX, minY, maxX, maxY T) int {
	id := len(b.boxes) >> 2
	b.boxes = append(b.boxes, minX, minY, maxX, maxY)

	if minX < b.minX {
		b.minX = minX
	}
	if minY < b.minY {
		b.minY = minY
	}
	if maxX > b.maxX {
		b.maxX = maxX
	}
	if maxY > b.maxY {
		b.maxY = maxY
	}
	return id
}

// AddBoxes appends a batch of boxes in order and returns their identifiers.
func (b *FlatBushBuilder[T]) AddBoxes(boxes [][4]T) []int {
	ids := make([]int, len(boxes))
	for i, box := range boxes {
		ids[i] = b.Add(box[0], box[1], box[2], box[3])
	}
	return ids
}

// Finish builds the packed Hilbert R-tree and returns the finished,
// immutable index. It returns ErrInputCountMismatch if the number of boxes
// added differs from the count declared at construction.
func (b *FlatBushBuilder[T]) Finish() (*FlatBush[T], error) {
	numItems := len(b.boxes) >> 2
	if numItems != b.numItems {
		return nil, fmt.Errorf("%w: declared %d, added %d", ErrInputCountMismatch, b.numItems, numItems)
	}

	if numItems == 0 {
		return &FlatBush[T]{
			nodeSize:    b.nodeSize,
			boxes:       nil,
			indices:     ivec.New(0, 16384),
			levelBounds: []int{0},
			numItems:    0,
			minX:        b.minX,
			minY:        b.minY,
			maxX:        b.maxX,
			maxY:        b.maxY,
		}, nil
	}

	// Step 1: total node count and the boxes-offset ending each level.
	n := numItems
	numNodes := n
	levelBounds := []int{n * 4}
	for {
		n = ceilDiv(n, b.nodeSize)
		numNodes += n
		levelBounds = append(levelBounds, numNodes*4)
		if n == 1 {
			break
		}
	}

	indices := ivec.New(numNodes, 16384)
	for i := 0; i < numItems; i++ {
		indices.Set(i, uint32(i))
	}

	if numItems <= b.nodeSize {
		// Only one node: skip sorting, fill the root box with the tree bounds.
		boxes := append(b.boxes, b.minX, b.minY, b.maxX, b.maxY)
		return &FlatBush[T]{
			nodeSize:    b.nodeSize,
			boxes:       boxes,
			indices:     indices,
			levelBounds: levelBounds,
			numItems:    numItems,
			minX:        b.minX,
			minY:        b.minY,
			maxX:        b.maxX,
			maxY:        b.maxY,
		}, nil
	}

	// Step 2: project item centers onto the 16-bit Hilbert grid and
	// compute each item's Hilbert value.
	width := numeric.ToFloat64(b.maxX) - numeric.ToFloat64(b.minX)
	height := numeric.ToFloat64(b.maxY) - numeric.ToFloat64(b.minY)
	const hilbertMax = float64((1 << 16) - 1)

	hilbertValues := make([]uint32, numItems)
	for i := 0; i < numItems; i++ {
		pos := 4 * i
		boxMinX := numeric.ToFloat64(b.boxes[pos])
		boxMinY := numeric.ToFloat64(b.boxes[pos+1])
		boxMaxX := numeric.ToFloat64(b.boxes[pos+2])
		boxMaxY := numeric.ToFloat64(b.boxes[pos+3])

		var hx, hy uint32
		if width == 0 {
			hx = 0
		} else {
			hx = uint32(hilbertMax * ((boxMinX+boxMaxX)/2 - numeric.ToFloat64(b.minX)) / width)
		}
		if height == 0 {
			hy = 0
		} else {
			hy = uint32(hilbertMax * ((boxMinY+boxMaxY)/2 - numeric.ToFloat64(b.minY)) / height)
		}
		hilbertValues[i] = hilbertXYToIndex(hx, hy)
	}

	// Step 3: sort items by Hilbert value, keeping boxes and indices in
	// lockstep; the sort only guarantees inter-block order (see sortByHilbert).
	sortByHilbert(hilbertValues, b.boxes, indices, 0, numItems-1, b.nodeSize)

	// Step 4: bottom-up node synthesis, one level at a time.
	pos := 0
	boxes := b.boxes
	for i := 0; i < len(levelBounds)-1; i++ {
		end := levelBounds[i]

		for pos < end {
			nodeIndex := pos

			nodeMinX := numeric.MaxValue[T]()
			nodeMinY := numeric.MaxValue[T]()
			nodeMaxX := numeric.MinValue[T]()
			nodeMaxY := numeric.MinValue[T]()

			for k := 0; k < b.nodeSize && pos < end; k++ {
				if boxes[pos] < nodeMinX {
					nodeMinX = boxes[pos]
				}
				if boxes[pos+1] < nodeMinY {
					nodeMinY = boxes[pos+1]
				}
				if boxes[pos+2] > nodeMaxX {
					nodeMaxX = boxes[pos+2]
				}
				if boxes[pos+3] > nodeMaxY {
					nodeMaxY = boxes[pos+3]
				}
				pos += 4
			}

			indices.Set(len(boxes)>>2, uint32(nodeIndex))
			boxes = append(boxes, nodeMinX, nodeMinY, nodeMaxX, nodeMaxY)
		}
	}

	return &FlatBush[T]{
		nodeSize:    b.nodeSize,
		boxes:       boxes,
		indices:     indices,
		levelBounds: levelBounds,
		numItems:    numItems,
		minX:        b.minX,
		minY:        b.minY,
		maxX:        b.maxX,
		maxY:        b.maxY,
	}, nil
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}

// FlatBush is a finished, immutable packed Hilbert R-tree over 2D boxes. It
// is safe for concurrent read by multiple goroutines: nothing about a
// query mutates the index.
type FlatBush[T numeric.Number] struct {
	nodeSize    int
	boxes       []T // flat (minX, minY, maxX, maxY) per item and internal node
	indices     ivec.Vec
	levelBounds []int
	numItems    int
	minX        T
	minY        T
	maxX        T
	maxY        T
}

// NumItems returns the number of boxes in the index.
func (idx *FlatBush[T]) NumItems() int {
	return idx.numItems
}

// NodeSize returns the internal-node fan-out the index was built with.
func (idx *FlatBush[T]) NodeSize() int {
	return idx.nodeSize
}

// Bounds returns the componentwise min/max over every box in the index.
func (idx *FlatBush[T]) Bounds() (minX, minY, maxX, maxY T) {
	return idx.minX, idx.minY, idx.maxX, idx.maxY
}
