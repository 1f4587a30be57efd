// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import (
	"golang.org/x/exp/constraints"

	"github.com/safenum/overflow/checked"
)

// Negation of an unsigned fixed-width integer is the identity under every
// policy: the only unsigned value with a representable negation is zero, so
// wrapping, panicking and saturating all collapse to "leave it alone". A
// defined type with an unsigned underlying type is not covered by that rule
// and takes Go's native unsigned negation, which wraps.

// NegWrap returns -x with wraparound: for the signed fixed-width integer
// types NegWrap(MinOf) is MinOf again. Unsigned fixed-width integers are
// returned unchanged; any other type argument takes the native negation.
func NegWrap[T Number](x T) T {
	switch any(x).(type) {
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return x
	}
	return -x
}

// NegPanic returns -x, panicking with an error wrapping ErrOverflow for
// MinOf of the signed fixed-width integer types, the one signed value whose
// negation does not fit. Unsigned fixed-width integers are returned
// unchanged.
func NegPanic[T Number](x T) T {
	switch v := any(x).(type) {
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return x
	case int:
		return as[T](negPanic(v))
	case int8:
		return as[T](negPanic(v))
	case int16:
		return as[T](negPanic(v))
	case int32:
		return as[T](negPanic(v))
	case int64:
		return as[T](negPanic(v))
	}
	return -x
}

// NegSaturate returns -x, clamping MinOf of the signed fixed-width integer
// types to MaxOf. Unsigned fixed-width integers are returned unchanged.
func NegSaturate[T Number](x T) T {
	switch v := any(x).(type) {
	case uint, uint8, uint16, uint32, uint64, uintptr:
		return x
	case int:
		return as[T](negSaturate(v))
	case int8:
		return as[T](negSaturate(v))
	case int16:
		return as[T](negSaturate(v))
	case int32:
		return as[T](negSaturate(v))
	case int64:
		return as[T](negSaturate(v))
	}
	return -x
}

// AbsWrap returns the absolute value of x, wrapping for MinOf of the signed
// types, whose absolute value is MinOf again. Unlike the other operations
// Abs has no native operator to fall back on, so the Abs functions are
// limited to the fixed-width integer types by construction.
func AbsWrap[T Fixed](x T) T {
	if x >= 0 {
		return x
	}
	return -x
}

// AbsPanic returns the absolute value of x, panicking with an error
// wrapping ErrOverflow for MinOf of the signed types.
func AbsPanic[T Fixed](x T) T {
	if x >= 0 {
		return x
	}
	v, ok := checked.Neg(x)
	if !ok {
		panicOverflow("abs")
	}
	return v
}

// AbsSaturate returns the absolute value of x, clamping MinOf of the signed
// types to MaxOf.
func AbsSaturate[T Fixed](x T) T {
	if x >= 0 {
		return x
	}
	v, ok := checked.Neg(x)
	if ok {
		return v
	}
	return checked.MaxOf[T]()
}

func negPanic[T constraints.Integer](x T) T {
	v, ok := checked.Neg(x)
	if !ok {
		panicOverflow("neg")
	}
	return v
}

func negSaturate[T constraints.Integer](x T) T {
	v, ok := checked.Neg(x)
	if ok {
		return v
	}
	return checked.MaxOf[T]()
}
