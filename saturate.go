// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import (
	"golang.org/x/exp/constraints"

	"github.com/safenum/overflow/checked"
)

// The Saturate entry points never panic for fixed-width integer type
// arguments: an unrepresentable result clamps to the bound it crossed, and
// division by zero resolves by the dividend's sign. They share the Panic
// entry points' dispatch shape.

// AddSaturate returns a+b, clamping an unrepresentable sum to MaxOf[T] when
// b is positive and to MinOf[T] when b is negative. Type arguments outside
// the fixed-width integer types take the native +.
func AddSaturate[T Addable](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](addSaturate(x, any(b).(int)))
	case int8:
		return as[T](addSaturate(x, any(b).(int8)))
	case int16:
		return as[T](addSaturate(x, any(b).(int16)))
	case int32:
		return as[T](addSaturate(x, any(b).(int32)))
	case int64:
		return as[T](addSaturate(x, any(b).(int64)))
	case uint:
		return as[T](addSaturate(x, any(b).(uint)))
	case uint8:
		return as[T](addSaturate(x, any(b).(uint8)))
	case uint16:
		return as[T](addSaturate(x, any(b).(uint16)))
	case uint32:
		return as[T](addSaturate(x, any(b).(uint32)))
	case uint64:
		return as[T](addSaturate(x, any(b).(uint64)))
	case uintptr:
		return as[T](addSaturate(x, any(b).(uintptr)))
	}
	return a + b
}

// SubSaturate returns a-b, clamping an unrepresentable difference to
// MinOf[T] when b is positive and to MaxOf[T] when b is negative. For
// unsigned types that makes any difference below zero come out as zero.
func SubSaturate[T Number](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](subSaturate(x, any(b).(int)))
	case int8:
		return as[T](subSaturate(x, any(b).(int8)))
	case int16:
		return as[T](subSaturate(x, any(b).(int16)))
	case int32:
		return as[T](subSaturate(x, any(b).(int32)))
	case int64:
		return as[T](subSaturate(x, any(b).(int64)))
	case uint:
		return as[T](subSaturate(x, any(b).(uint)))
	case uint8:
		return as[T](subSaturate(x, any(b).(uint8)))
	case uint16:
		return as[T](subSaturate(x, any(b).(uint16)))
	case uint32:
		return as[T](subSaturate(x, any(b).(uint32)))
	case uint64:
		return as[T](subSaturate(x, any(b).(uint64)))
	case uintptr:
		return as[T](subSaturate(x, any(b).(uintptr)))
	}
	return a - b
}

// MulSaturate returns a*b, clamping an unrepresentable product to MaxOf[T]
// when the operands agree in sign and to MinOf[T] when they differ.
func MulSaturate[T Number](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](mulSaturate(x, any(b).(int)))
	case int8:
		return as[T](mulSaturate(x, any(b).(int8)))
	case int16:
		return as[T](mulSaturate(x, any(b).(int16)))
	case int32:
		return as[T](mulSaturate(x, any(b).(int32)))
	case int64:
		return as[T](mulSaturate(x, any(b).(int64)))
	case uint:
		return as[T](mulSaturate(x, any(b).(uint)))
	case uint8:
		return as[T](mulSaturate(x, any(b).(uint8)))
	case uint16:
		return as[T](mulSaturate(x, any(b).(uint16)))
	case uint32:
		return as[T](mulSaturate(x, any(b).(uint32)))
	case uint64:
		return as[T](mulSaturate(x, any(b).(uint64)))
	case uintptr:
		return as[T](mulSaturate(x, any(b).(uintptr)))
	}
	return a * b
}

// DivSaturate returns a/b and is total for fixed-width integer type
// arguments. A zero divisor resolves by the dividend's sign: MaxOf[T] for a
// positive dividend, MinOf[T] for a negative one, zero for zero. MinOf/-1
// clamps to MaxOf[T].
func DivSaturate[T Number](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](divSaturate(x, any(b).(int)))
	case int8:
		return as[T](divSaturate(x, any(b).(int8)))
	case int16:
		return as[T](divSaturate(x, any(b).(int16)))
	case int32:
		return as[T](divSaturate(x, any(b).(int32)))
	case int64:
		return as[T](divSaturate(x, any(b).(int64)))
	case uint:
		return as[T](divSaturate(x, any(b).(uint)))
	case uint8:
		return as[T](divSaturate(x, any(b).(uint8)))
	case uint16:
		return as[T](divSaturate(x, any(b).(uint16)))
	case uint32:
		return as[T](divSaturate(x, any(b).(uint32)))
	case uint64:
		return as[T](divSaturate(x, any(b).(uint64)))
	case uintptr:
		return as[T](divSaturate(x, any(b).(uintptr)))
	}
	return a / b
}

// RemSaturate returns a%b and is total for fixed-width integer type
// arguments. A zero divisor yields MaxOf[T] for any nonzero dividend,
// negative ones included, and zero for a zero dividend. MinOf%-1 is zero,
// the exact remainder.
func RemSaturate[T constraints.Integer](a, b T) T {
	if isFixed(a) {
		return remSaturate(a, b)
	}
	return a % b
}

func addSaturate[T constraints.Integer](a, b T) T {
	v, ok := checked.Add(a, b)
	if ok {
		return v
	}
	if b >= 0 {
		return checked.MaxOf[T]()
	}
	return checked.MinOf[T]()
}

func subSaturate[T constraints.Integer](a, b T) T {
	v, ok := checked.Sub(a, b)
	if ok {
		return v
	}
	if b >= 0 {
		return checked.MinOf[T]()
	}
	return checked.MaxOf[T]()
}

func mulSaturate[T constraints.Integer](a, b T) T {
	v, ok := checked.Mul(a, b)
	if ok {
		return v
	}
	if (a < 0) != (b < 0) {
		return checked.MinOf[T]()
	}
	return checked.MaxOf[T]()
}

func divSaturate[T constraints.Integer](a, b T) T {
	if b == 0 {
		switch {
		case a > 0:
			return checked.MaxOf[T]()
		case a < 0:
			return checked.MinOf[T]()
		}
		return 0
	}
	v, ok := checked.Div(a, b)
	if !ok {
		// MinOf / -1
		return checked.MaxOf[T]()
	}
	return v
}

func remSaturate[T constraints.Integer](a, b T) T {
	if b == 0 {
		if a == 0 {
			return 0
		}
		return checked.MaxOf[T]()
	}
	return a % b
}
