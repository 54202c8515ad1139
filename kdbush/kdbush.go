// Package kdbush is a static, packed k-d tree over 2D points. Points are
// collected once via a KDBushBuilder, then reordered in place so that the
// tree structure is implicit in index arithmetic: querying never follows a
// pointer, only ever does range/midpoint math over two parallel slices.
//
// Package kdbush is a Go port of the k-d tree half of
// https://github.com/mourner/kdbush (by way of apendleton/static-bushes).
package kdbush

import (
	"github.com/apendleton/static-bushes/internal/ivec"
	"github.com/apendleton/static-bushes/internal/numeric"
)

// DefaultNodeSize is the leaf threshold used when none is given to
// NewKDBushBuilder.
const DefaultNodeSize = 64

// KDBushBuilder collects points in insertion order. Identifiers are assigned
// implicitly: the i-th point added gets identifier i.
type KDBushBuilder[T numeric.Number] struct {
	nodeSize int
	coords   []T
}

// NewKDBushBuilder creates a builder with the default leaf threshold (64).
func NewKDBushBuilder[T numeric.Number]() *KDBushBuilder[T] {
	return NewKDBushBuilderWithNodeSize[T](DefaultNodeSize)
}

// NewKDBushBuilderWithNodeSize creates a builder with the given leaf
// threshold. There is no validation of an upper bound: a very large
// threshold simply degenerates every query into a linear scan.
func NewKDBushBuilderWithNodeSize[T numeric.Number](nodeSize int) *KDBushBuilder[T] {
	return &KDBushBuilder[T]{nodeSize: nodeSize}
}

// Add appends a point, whose identifier is the number of points added so
// far (starting at 0).
func (b *KDBushBuilder[T]) Add(x, y T) int {
	id := len(b.coords) >> 1
	b.coords = append(b.coords, x, y)
	return id
}

// AddPoints appends a batch of points in order.
func (b *KDBushBuilder[T]) AddPoints(points [][2]T) {
	for _, p := range points {
		b.Add(p[0], p[1])
	}
}

// Finish consumes the builder, kd-sorts the points in place, and returns the
// finished, immutable index. An empty builder (no points added) produces a
// valid index whose queries simply yield nothing.
func (b *KDBushBuilder[T]) Finish() *KDBush[T] {
	numPoints := len(b.coords) >> 1
	ids := ivec.Identity(numPoints, 65536)

	if numPoints > 0 {
		sortKD(ids, b.coords, b.nodeSize, 0, numPoints-1, 0)
	}

	return &KDBush[T]{
		nodeSize: b.nodeSize,
		coords:   b.coords,
		ids:      ids,
	}
}

// KDBush is a finished, immutable k-d tree over 2D points. It is safe for
// concurrent read by multiple goroutines: nothing about a query mutates the
// index, and each query keeps its own traversal stack.
type KDBush[T numeric.Number] struct {
	nodeSize int
	coords   []T // permuted (x, y) pairs, 2 values per point
	ids      ivec.Vec
}

// Len returns the number of points in the index.
func (idx *KDBush[T]) Len() int {
	return idx.ids.Len()
}

// NodeSize returns the leaf threshold the index was built with.
func (idx *KDBush[T]) NodeSize() int {
	return idx.nodeSize
}
