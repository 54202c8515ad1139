package kdbush

import (
	"sort"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

// points is the 100-point reference fixture shared by the test suite.
var points = [][2]uint32{
	{54, 1}, {97, 21}, {65, 35}, {33, 54}, {95, 39}, {54, 3}, {53, 54}, {84, 72}, {33, 34}, {43, 15},
	{52, 83}, {81, 23}, {1, 61}, {38, 74}, {11, 91}, {24, 56}, {90, 31}, {25, 57}, {46, 61}, {29, 69},
	{49, 60}, {4, 98}, {71, 15}, {60, 25}, {38, 84}, {52, 38}, {94, 51}, {13, 25}, {77, 73}, {88, 87},
	{6, 27}, {58, 22}, {53, 28}, {27, 91}, {96, 98}, {93, 14}, {22, 93}, {45, 94}, {18, 28}, {35, 15},
	{19, 81}, {20, 81}, {67, 53}, {43, 3}, {47, 66}, {48, 34}, {46, 12}, {32, 38}, {43, 12}, {39, 94},
	{88, 62}, {66, 14}, {84, 30}, {72, 81}, {41, 92}, {26, 4}, {6, 76}, {47, 21}, {57, 70}, {71, 82},
	{50, 68}, {96, 18}, {40, 31}, {78, 53}, {71, 90}, {32, 14}, {55, 6}, {32, 88}, {62, 32}, {21, 67},
	{73, 81}, {44, 64}, {29, 50}, {70, 5}, {6, 22}, {68, 3}, {11, 23}, {20, 42}, {21, 73}, {63, 86},
	{9, 40}, {99, 2}, {99, 76}, {56, 77}, {83, 6}, {21, 72}, {78, 30}, {75, 53}, {41, 11}, {95, 20},
	{30, 38}, {96, 82}, {65, 48}, {33, 18}, {87, 28}, {10, 10}, {40, 34}, {10, 20}, {47, 29}, {46, 78},
}

// expectedIDs is the expected kd-sorted identifier permutation for points, built
// with node size 10, taken from the reference implementation.
var expectedIDs = []uint32{
	97, 74, 95, 30, 77, 38, 76, 27, 80, 55, 72, 90, 88, 48, 43, 46, 65, 39, 62, 93, 9, 96, 47, 8,
	3, 12, 15, 14, 21, 41, 36, 40, 69, 56, 85, 78, 17, 71, 44,
	19, 18, 13, 99, 24, 67, 33, 37, 49, 54, 57, 98, 45, 23,
	31, 66, 68, 0, 32, 5, 51, 75, 73, 84, 35, 81, 22, 61, 89, 1, 11, 86, 52, 94, 16, 2, 6, 25, 92,
	42, 20, 60, 58, 83, 79, 64, 10, 59, 53, 26, 87, 4, 63, 50, 7, 28, 82, 70, 29, 34, 91,
}

func buildReferenceIndex() *KDBush[uint32] {
	b := NewKDBushBuilderWithNodeSize[uint32](10)
	b.AddPoints(points)
	return b.Finish()
}

func TestCreatesKDSortedIndex(t *testing.T) {
	idx := buildReferenceIndex()
	require.Equal(t, expectedIDs, idx.ids.Slice(), "ids are kd-sorted")
}

func TestSearchRange(t *testing.T) {
	idx := buildReferenceIndex()

	var result []int
	for id := range idx.SearchRange(20, 30, 50, 70) {
		result = append(result, id)
	}

	expected := []int{60, 20, 45, 3, 17, 71, 44, 19, 18, 15, 69, 90, 62, 96, 47, 8, 77, 72}
	require.ElementsMatch(t, expected, result)

	for _, id := range result {
		p := points[id]
		require.False(t, p[0] < 20 || p[0] > 50 || p[1] < 30 || p[1] > 70, "result point in range")
	}

	for _, id := range expectedIDs {
		p := points[id]
		inResult := contains(result, int(id))
		inRange := p[0] >= 20 && p[0] <= 50 && p[1] >= 30 && p[1] <= 70
		require.False(t, !inResult && inRange, "outside point not in range")
	}
}

func TestSearchWithin(t *testing.T) {
	idx := buildReferenceIndex()

	qx, qy, r := uint32(50), uint32(50), uint32(20)
	r2 := r * r

	var result []int
	for id := range idx.SearchWithin(qx, qy, r) {
		result = append(result, id)
	}

	expected := []int{60, 6, 25, 92, 42, 20, 45, 3, 71, 44, 18, 96}
	require.ElementsMatch(t, expected, result)

	for _, id := range result {
		p := points[id]
		require.LessOrEqual(t, sqDistInts(p, qx, qy), r2)
	}

	for _, id := range expectedIDs {
		p := points[id]
		inResult := contains(result, int(id))
		inRange := sqDistInts(p, qx, qy) <= r2
		require.False(t, !inResult && inRange, "outside point not in range")
	}
}

func TestExactFindsDuplicates(t *testing.T) {
	pts := [][2]int32{{10, 10}, {20, 20}, {10, 10}, {5, 5}}
	b := NewKDBushBuilderWithNodeSize[int32](4)
	b.AddPoints(pts)
	idx := b.Finish()

	got := idx.ExactAsSlice(10, 10)
	require.ElementsMatch(t, []int{0, 2}, got)
	require.Empty(t, idx.ExactAsSlice(99, 99))
}

func TestEmptyIndex(t *testing.T) {
	idx := NewKDBushBuilder[float64]().Finish()
	require.Equal(t, 0, idx.Len())

	var results []int
	for id := range idx.SearchRange(0, 0, 100, 100) {
		results = append(results, id)
	}
	require.Empty(t, results)
	require.Empty(t, idx.ExactAsSlice(0, 0))
}

func TestSearchRangeEarlyExit(t *testing.T) {
	idx := buildReferenceIndex()

	count := 0
	for range idx.SearchRange(0, 0, 100, 100) {
		count++
		if count == 3 {
			break
		}
	}
	require.Equal(t, 3, count)
}

// TestIDsArePermutation checks invariant 6 (KDBush permutation) across many
// random point sets via testing/quick, the way the corpus's
// mmph/go-boomphf property tests do.
func TestIDsArePermutation(t *testing.T) {
	f := func(seed uint16) bool {
		n := int(seed)%200 + 1
		b := NewKDBushBuilderWithNodeSize[int32](8)
		for i := 0; i < n; i++ {
			b.Add(int32((i*7+3)%101), int32((i*13+5)%97))
		}
		idx := b.Finish()

		seen := make([]bool, n)
		for i := 0; i < n; i++ {
			id := idx.ids.Get(i)
			if int(id) >= n || seen[id] {
				return false
			}
			seen[id] = true
		}
		return true
	}
	require.NoError(t, quick.Check(f, &quick.Config{MaxCount: 100}))
}

// TestRangeQueryCompleteness checks invariant 2 (identifier completeness):
// a range query over the full extent returns every identifier exactly once.
func TestRangeQueryCompleteness(t *testing.T) {
	idx := buildReferenceIndex()

	var result []int
	for id := range idx.SearchRange(0, 0, 99, 98) {
		result = append(result, id)
	}
	sort.Ints(result)

	require.Len(t, result, len(points))
	for i, id := range result {
		require.Equal(t, i, id)
	}
}

func contains(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func sqDistInts(p [2]uint32, qx, qy uint32) uint32 {
	dx := absDiffU32(p[0], qx)
	dy := absDiffU32(p[1], qy)
	return dx*dx + dy*dy
}

func absDiffU32(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
