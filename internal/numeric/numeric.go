// Package numeric is the coordinate-type contract shared by kdbush and
// flatbush: a minimal capability bundle over signed/unsigned integers and
// floats, rather than a full numeric-trait hierarchy.
package numeric

import "golang.org/x/exp/constraints"

// Number is the set of coordinate types both indices accept: any signed or
// unsigned integer, or any float. Callers must not pass NaN for float T;
// behavior is undefined if they do.
type Number interface {
	constraints.Integer | constraints.Float
}

// MaxValue returns the largest finite value representable by T.
func MaxValue[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return T(int8(127))
	case int16:
		return T(int16(32767))
	case int32:
		return T(int32(2147483647))
	case int64:
		return T(int64(9223372036854775807))
	case int:
		return T(int(^uint(0) >> 1))
	case uint8:
		return T(uint8(255))
	case uint16:
		return T(uint16(65535))
	case uint32:
		return T(uint32(4294967295))
	case uint64:
		return T(uint64(18446744073709551615))
	case uint:
		return T(^uint(0))
	case uintptr:
		return T(^uintptr(0))
	case float32:
		return T(float32(3.40282346638528859811704183484516925440e+38))
	case float64:
		return T(float64(1.797693134862315708145274237317043567981e+308))
	default:
		panic("numeric: unsupported coordinate type")
	}
}

// MinValue returns the smallest (most negative, for signed/float types, or
// zero, for unsigned types) value representable by T.
func MinValue[T Number]() T {
	var zero T
	switch any(zero).(type) {
	case int8:
		return T(int8(-128))
	case int16:
		return T(int16(-32768))
	case int32:
		return T(int32(-2147483648))
	case int64:
		return T(int64(-9223372036854775808))
	case int:
		return T(-int(^uint(0)>>1) - 1)
	case uint8, uint16, uint32, uint64, uint, uintptr:
		return zero
	case float32:
		return T(float32(-3.40282346638528859811704183484516925440e+38))
	case float64:
		return T(float64(-1.797693134862315708145274237317043567981e+308))
	default:
		panic("numeric: unsupported coordinate type")
	}
}

// ToFloat64 projects a coordinate value to a 64-bit float, used to normalize
// box centers onto the Hilbert grid.
func ToFloat64[T Number](v T) float64 {
	return float64(v)
}

// AbsDiff returns |a-b| without risking underflow for unsigned T: it compares
// before subtracting rather than subtracting and negating.
func AbsDiff[T Number](a, b T) T {
	if a > b {
		return a - b
	}
	return b - a
}
