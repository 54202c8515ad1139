// Package ivec implements the compact index vector used by both kdbush and
// flatbush: a dense sequence of identifiers stored as 16-bit elements when
// the count fits, or 32-bit elements otherwise. The tag is chosen once at
// construction and never changes.
package ivec

// Vec is a tagged sequence of non-negative integer identifiers. Exactly one
// of narrow/wide is non-nil after New.
type Vec struct {
	narrow []uint16
	wide   []uint32
}

// New allocates a Vec of length n. When n is below threshold, the vector is
// backed by uint16 elements; otherwise uint32. FlatBush calls New with
// threshold 16384 (on its node count); KDBush calls it with threshold 65536
// (on its point count), per the two different width thresholds the indices
// use.
func New(n, threshold int) Vec {
	if n < threshold {
		return Vec{narrow: make([]uint16, n)}
	}
	return Vec{wide: make([]uint32, n)}
}

// Identity returns a Vec of length n whose i-th entry is i, using the same
// width-selection rule as New.
func Identity(n, threshold int) Vec {
	v := New(n, threshold)
	for i := 0; i < n; i++ {
		v.Set(i, uint32(i))
	}
	return v
}

// Len returns the number of identifiers stored.
func (v Vec) Len() int {
	if v.narrow != nil {
		return len(v.narrow)
	}
	return len(v.wide)
}

// Get returns the identifier at position i.
func (v Vec) Get(i int) uint32 {
	if v.narrow != nil {
		return uint32(v.narrow[i])
	}
	return v.wide[i]
}

// Set stores val at position i. In the narrow form, val is truncated to 16
// bits; the caller guarantees it fits.
func (v Vec) Set(i int, val uint32) {
	if v.narrow != nil {
		v.narrow[i] = uint16(val)
		return
	}
	v.wide[i] = val
}

// Swap exchanges the identifiers at positions i and j.
func (v Vec) Swap(i, j int) {
	if v.narrow != nil {
		v.narrow[i], v.narrow[j] = v.narrow[j], v.narrow[i]
		return
	}
	v.wide[i], v.wide[j] = v.wide[j], v.wide[i]
}

// Slice materializes the vector as a plain []uint32; the test suites use it
// to compare whole identifier vectors.
func (v Vec) Slice() []uint32 {
	out := make([]uint32, v.Len())
	for i := range out {
		out[i] = v.Get(i)
	}
	return out
}

// Wide reports whether this Vec is backed by the 32-bit form.
func (v Vec) Wide() bool {
	return v.wide != nil
}
