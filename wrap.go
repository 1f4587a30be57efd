// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import "golang.org/x/exp/constraints"

// AddWrap returns a+b with wraparound on overflow. Go's + already wraps
// fixed-width integers, so this is the native operator for every type
// argument, strings and floats included.
func AddWrap[T Addable](a, b T) T {
	return a + b
}

// SubWrap returns a-b with wraparound on overflow.
func SubWrap[T Number](a, b T) T {
	return a - b
}

// MulWrap returns a*b with wraparound on overflow.
func MulWrap[T Number](a, b T) T {
	return a * b
}

// DivWrap returns a/b. Quotients wrap in exactly one case, MinOf/-1, whose
// result is again MinOf; Go's native division already defines it that way.
// A zero divisor has no wrapped result and panics with ErrDivisionByZero
// when T is a fixed-width integer type. Other type arguments keep the
// native behavior throughout: floats divide to infinities and NaN, and a
// defined integer type divides with Go's own runtime panic.
func DivWrap[T Number](a, b T) T {
	var zero T
	if b == zero && isFixed(b) {
		panicDivide("div")
	}
	return a / b
}

// RemWrap returns a%b. MinOf%-1 is zero, as in native Go. A zero divisor
// panics with ErrDivisionByZero when T is a fixed-width integer type;
// defined types keep Go's native runtime panic.
func RemWrap[T constraints.Integer](a, b T) T {
	if b == 0 && isFixed(b) {
		panicDivide("rem")
	}
	return a % b
}
