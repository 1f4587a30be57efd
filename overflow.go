// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"
)

// Number is the constraint satisfied by every type the native arithmetic
// operators apply to, strings excepted.
type Number interface {
	constraints.Integer | constraints.Float | constraints.Complex
}

// Addable is the constraint for Add and Sum: every Number plus the string
// types, since the native + operator also concatenates.
type Addable interface {
	Number | ~string
}

// Fixed is the set of fixed-width integer types the overflow policies are
// defined for. Unlike Number it has no approximation terms: a defined type
// such as
//
//	type Celsius int16
//
// does not satisfy Fixed even though its underlying type does. Operations
// constrained by Number or Addable accept such types and give them the
// native operator semantics; operations constrained by Fixed, which have no
// native operator to fall back on, reject them at compile time.
type Fixed interface {
	int | int8 | int16 | int32 | int64 |
		uint | uint8 | uint16 | uint32 | uint64 | uintptr
}

// Failure sentinels carried by the panics the Panic-policy operations and
// the zero-divisor checks raise. The panic value is always an error wrapping
// one of these, so a recovery boundary can classify it:
//
//	defer func() {
//		if r := recover(); r != nil {
//			if err, ok := r.(error); ok && errors.Is(err, overflow.ErrOverflow) {
//				// handle out-of-range arithmetic
//			}
//		}
//	}()
var (
	// ErrOverflow reports a result that is not representable in the operand
	// type, including shift counts at or beyond the type's width.
	ErrOverflow = errors.New("integer overflow")

	// ErrDivisionByZero reports a zero divisor in Div or Rem under the Wrap
	// and Panic policies.
	ErrDivisionByZero = errors.New("division by zero")
)

func panicOverflow(op string) {
	panic(fmt.Errorf("%s: %w", op, ErrOverflow))
}

func panicDivide(op string) {
	panic(fmt.Errorf("%s: %w", op, ErrDivisionByZero))
}

// isFixed reports whether the type argument behind v is one of the Fixed
// kinds. A defined type whose underlying type is a kind has a distinct
// dynamic type and reports false, which is what routes it to the native
// fallback in every entry point.
func isFixed[T any](v T) bool {
	switch any(v).(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return true
	}
	return false
}

// as recovers a value dispatched through any back into the type parameter
// it came from. It is only called on values whose dynamic type is known to
// be T's type argument, so the assertion cannot fail.
func as[T any](v any) T {
	return v.(T)
}
