package kdbush

import (
	"iter"

	"github.com/apendleton/static-bushes/internal/numeric"
)

// stackFrame is one entry of the traversal stack shared by all three
// queries: a k-d subrange plus the axis that range was partitioned on.
type stackFrame struct {
	left, right, axis int
}

// SearchRange returns a lazy sequence of identifiers of every point whose
// coordinates lie within the inclusive rectangle [minX,maxX] x [minY,maxY].
// Iteration order is traversal order, not sorted, but deterministic for a
// given built index.
func (idx *KDBush[T]) SearchRange(minX, minY, maxX, maxY T) iter.Seq[int] {
	return func(yield func(int) bool) {
		if idx.Len() == 0 {
			return
		}
		stack := []stackFrame{{0, idx.Len() - 1, 0}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.right-f.left <= idx.nodeSize {
				for i := f.left; i <= f.right; i++ {
					x, y := idx.coords[2*i], idx.coords[2*i+1]
					if x >= minX && x <= maxX && y >= minY && y <= maxY {
						if !yield(int(idx.ids.Get(i))) {
							return
						}
					}
				}
				continue
			}

			m := (f.left + f.right) >> 1
			x, y := idx.coords[2*m], idx.coords[2*m+1]
			if x >= minX && x <= maxX && y >= minY && y <= maxY {
				if !yield(int(idx.ids.Get(m))) {
					return
				}
			}

			var overMin, underMax bool
			if f.axis == 0 {
				overMin, underMax = minX <= x, maxX >= x
			} else {
				overMin, underMax = minY <= y, maxY >= y
			}

			if overMin {
				stack = append(stack, stackFrame{f.left, m - 1, 1 - f.axis})
			}
			if underMax {
				stack = append(stack, stackFrame{m + 1, f.right, 1 - f.axis})
			}
		}
	}
}

// SearchWithin returns a lazy sequence of identifiers of every point within
// radius r (inclusive) of (qx, qy), measured by squared Euclidean distance.
// Distance uses absolute differences so the arithmetic stays valid for
// unsigned coordinate types.
func (idx *KDBush[T]) SearchWithin(qx, qy, r T) iter.Seq[int] {
	return func(yield func(int) bool) {
		if idx.Len() == 0 {
			return
		}
		r2 := r * r
		stack := []stackFrame{{0, idx.Len() - 1, 0}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.right-f.left <= idx.nodeSize {
				for i := f.left; i <= f.right; i++ {
					if sqDist(idx.coords[2*i], idx.coords[2*i+1], qx, qy) <= r2 {
						if !yield(int(idx.ids.Get(i))) {
							return
						}
					}
				}
				continue
			}

			m := (f.left + f.right) >> 1
			x, y := idx.coords[2*m], idx.coords[2*m+1]
			if sqDist(x, y, qx, qy) <= r2 {
				if !yield(int(idx.ids.Get(m))) {
					return
				}
			}

			// q-r <= c and q+r >= c, written so unsigned T cannot wrap.
			q, c := qx, x
			if f.axis == 1 {
				q, c = qy, y
			}
			overMin := c >= q || q-c <= r
			underMax := c <= q || c-q <= r

			if overMin {
				stack = append(stack, stackFrame{f.left, m - 1, 1 - f.axis})
			}
			if underMax {
				stack = append(stack, stackFrame{m + 1, f.right, 1 - f.axis})
			}
		}
	}
}

// Exact returns a lazy sequence of identifiers of every point exactly equal
// to (qx, qy). Both children are visited on equality at the split line, so
// duplicates are never missed.
func (idx *KDBush[T]) Exact(qx, qy T) iter.Seq[int] {
	return func(yield func(int) bool) {
		if idx.Len() == 0 {
			return
		}
		stack := []stackFrame{{0, idx.Len() - 1, 0}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if f.right-f.left <= idx.nodeSize {
				for i := f.left; i <= f.right; i++ {
					if idx.coords[2*i] == qx && idx.coords[2*i+1] == qy {
						if !yield(int(idx.ids.Get(i))) {
							return
						}
					}
				}
				continue
			}

			m := (f.left + f.right) >> 1
			x, y := idx.coords[2*m], idx.coords[2*m+1]
			if x == qx && y == qy {
				if !yield(int(idx.ids.Get(m))) {
					return
				}
			}

			var overMin, underMax bool
			if f.axis == 0 {
				overMin, underMax = qx <= x, qx >= x
			} else {
				overMin, underMax = qy <= y, qy >= y
			}

			if overMin {
				stack = append(stack, stackFrame{f.left, m - 1, 1 - f.axis})
			}
			if underMax {
				stack = append(stack, stackFrame{m + 1, f.right, 1 - f.axis})
			}
		}
	}
}

// ExactAsSlice eagerly materializes Exact into a slice, for callers who
// don't want to range over the lazy form.
func (idx *KDBush[T]) ExactAsSlice(qx, qy T) []int {
	var out []int
	for id := range idx.Exact(qx, qy) {
		out = append(out, id)
	}
	return out
}

func sqDist[T numeric.Number](ax, ay, bx, by T) T {
	dx := numeric.AbsDiff(ax, bx)
	dy := numeric.AbsDiff(ay, by)
	return dx*dx + dy*dy
}
