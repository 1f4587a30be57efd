// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import (
	"golang.org/x/exp/constraints"

	"github.com/safenum/overflow/checked"
)

// shiftCount converts a count of any integer type to uint. Negative counts
// pass through their two's-complement image and come out far beyond any
// type's width; counts too large for uint pin to the maximum, which is
// equally out of range. Either way the policies' >= width checks see them
// as out-of-range, never as small counts.
func shiftCount[C constraints.Integer](count C) uint {
	n := uint64(count)
	if n > uint64(^uint(0)) {
		return ^uint(0)
	}
	return uint(n)
}

// ShlWrap returns a<<count with the count reduced modulo the width of T, so
// every count produces a defined result: shifting a uint8 by 9 shifts by 1.
// Type arguments outside the fixed-width integer types take the native
// shift, which zeroes out at the width and panics on negative counts.
func ShlWrap[T constraints.Integer, C constraints.Integer](a T, count C) T {
	if isFixed(a) {
		return a << (uint64(count) % uint64(checked.BitsOf[T]()))
	}
	return a << count
}

// ShlPanic returns a<<count, panicking with an error wrapping ErrOverflow
// when the shift would lose a significant bit: a nonzero operand with a
// count at or beyond the width of T, or a shift that pushes a set bit (the
// sign bit included) out of the type. A zero operand shifts to zero for any
// count.
func ShlPanic[T constraints.Integer, C constraints.Integer](a T, count C) T {
	if isFixed(a) {
		v, ok := checked.Shl(a, shiftCount(count))
		if !ok {
			panicOverflow("shl")
		}
		return v
	}
	return a << count
}

// ShlSaturate returns a<<count, clamping a shift that would lose a
// significant bit to MaxOf[T] for a positive operand and MinOf[T] for a
// negative one. A zero operand shifts to zero for any count.
func ShlSaturate[T constraints.Integer, C constraints.Integer](a T, count C) T {
	if isFixed(a) {
		v, ok := checked.Shl(a, shiftCount(count))
		if ok {
			return v
		}
		if a < 0 {
			return checked.MinOf[T]()
		}
		return checked.MaxOf[T]()
	}
	return a << count
}

// ShrWrap returns a>>count, with counts at or beyond the width of T
// yielding zero. That holds for negative operands too: the all-bits-out
// shift is zero, not the -1 a native arithmetic shift converges to.
func ShrWrap[T constraints.Integer, C constraints.Integer](a T, count C) T {
	if isFixed(a) {
		v, _ := checked.Shr(a, shiftCount(count))
		return v
	}
	return a >> count
}

// ShrPanic returns a>>count, panicking with an error wrapping ErrOverflow
// when the count reaches the width of T, mirroring ShlPanic's out-of-range
// check.
func ShrPanic[T constraints.Integer, C constraints.Integer](a T, count C) T {
	if isFixed(a) {
		v, ok := checked.Shr(a, shiftCount(count))
		if !ok {
			panicOverflow("shr")
		}
		return v
	}
	return a >> count
}

// ShrSaturate returns a>>count, with counts at or beyond the width of T
// yielding zero. A right shift cannot cross either bound, so clamping never
// produces anything but the all-bits-out zero.
func ShrSaturate[T constraints.Integer, C constraints.Integer](a T, count C) T {
	if isFixed(a) {
		v, _ := checked.Shr(a, shiftCount(count))
		return v
	}
	return a >> count
}
