// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package checked implements integer arithmetic that reports overflow
// instead of silently wrapping.
//
// Every function returns the result alongside an ok flag. When ok is false
// the mathematical result is not representable in the operand type and the
// returned value is the truncated (two's-complement) result, or zero where
// no meaningful truncated result exists, such as division by zero. Callers
// that need a different out-of-range behavior, for example saturation or a
// panic, are expected to build it on top of these primitives; package
// overflow does exactly that.
//
// The functions are total: no input makes them panic, including division by
// zero and shift counts beyond the width of the type.
package checked

import "golang.org/x/exp/constraints"

// Add returns a+b and reports whether the sum is representable in T.
func Add[T constraints.Integer](a, b T) (T, bool) {
	s := a + b
	if IsSigned[T]() {
		// Overflow flips the sign: both operands on one side of zero,
		// the sum on the other.
		if (a >= 0) == (b >= 0) && (s >= 0) != (a >= 0) {
			return s, false
		}
		return s, true
	}
	return s, s >= a
}

// Sub returns a-b and reports whether the difference is representable in T.
func Sub[T constraints.Integer](a, b T) (T, bool) {
	d := a - b
	if IsSigned[T]() {
		// Overflow requires operands of opposite sign and a result whose
		// sign disagrees with the minuend.
		if (a >= 0) != (b >= 0) && (d >= 0) != (a >= 0) {
			return d, false
		}
		return d, true
	}
	return d, b <= a
}

// Mul returns a*b and reports whether the product is representable in T.
func Mul[T constraints.Integer](a, b T) (T, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	p := a * b
	if IsSigned[T]() && (a == ^T(0) || b == ^T(0)) {
		// MinOf * -1 wraps back to MinOf and divides back cleanly, so the
		// quotient test below cannot see it. Every other product with -1
		// is exact.
		if m := MinOf[T](); a == m || b == m {
			return p, false
		}
		return p, true
	}
	return p, p/b == a
}

// Div returns a/b and reports whether the quotient is representable in T.
// ok is false when b is zero, in which case the value is zero, and for the
// one overflowing case MinOf/-1, in which case the value is MinOf.
func Div[T constraints.Integer](a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	if IsSigned[T]() && b == ^T(0) && a == MinOf[T]() {
		return a, false
	}
	return a / b, true
}

// Rem returns a%b and reports whether the remainder is defined. ok is false
// when b is zero and for MinOf%-1, whose quotient overflows; the returned
// value is zero in both cases.
func Rem[T constraints.Integer](a, b T) (T, bool) {
	if b == 0 {
		return 0, false
	}
	if IsSigned[T]() && b == ^T(0) && a == MinOf[T]() {
		return 0, false
	}
	return a % b, true
}

// Neg returns -a and reports whether the negation is representable in T.
// For unsigned types only zero can be negated; for signed types only MinOf
// cannot.
func Neg[T constraints.Integer](a T) (T, bool) {
	if IsSigned[T]() {
		if a == MinOf[T]() {
			return a, false
		}
		return -a, true
	}
	if a == 0 {
		return 0, true
	}
	return -a, false
}

// Shl returns a<<count and reports whether the shift preserves the value,
// that is, whether shifting back right would recover a. A zero operand
// shifts to zero for any count. Otherwise ok is false when count reaches
// the width of T, with a returned value of zero, or when a significant bit
// (the sign bit included) is shifted out, with the truncated result
// returned.
func Shl[T constraints.Integer](a T, count uint) (T, bool) {
	if a == 0 {
		return 0, true
	}
	if count >= uint(BitsOf[T]()) {
		return 0, false
	}
	if IsSigned[T]() && a < 0 {
		if MinOf[T]()>>count > a {
			return a << count, false
		}
	} else if MaxOf[T]()>>count < a {
		return a << count, false
	}
	return a << count, true
}

// Shr returns a>>count and reports whether the count is within the width of
// T. Out-of-range counts return zero, for negative operands too, rather
// than the -1 a native arithmetic shift converges to.
func Shr[T constraints.Integer](a T, count uint) (T, bool) {
	if count >= uint(BitsOf[T]()) {
		return 0, false
	}
	return a >> count, true
}
