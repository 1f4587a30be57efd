// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import (
	"golang.org/x/exp/constraints"

	"github.com/safenum/overflow/checked"
)

// The Panic entry points dispatch on the dynamic type of the operands: one
// case per fixed-width integer kind, each instantiating the checked kernel
// at that kind, and the native operator as the fallback for every other
// type argument. The switch is resolved per instantiation, so a monomorphic
// call site pays for one comparison at most.

// AddPanic returns a+b, panicking with an error wrapping ErrOverflow when
// the sum is not representable in T. Type arguments outside the fixed-width
// integer types take the native +, which never panics.
func AddPanic[T Addable](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](addPanic(x, any(b).(int)))
	case int8:
		return as[T](addPanic(x, any(b).(int8)))
	case int16:
		return as[T](addPanic(x, any(b).(int16)))
	case int32:
		return as[T](addPanic(x, any(b).(int32)))
	case int64:
		return as[T](addPanic(x, any(b).(int64)))
	case uint:
		return as[T](addPanic(x, any(b).(uint)))
	case uint8:
		return as[T](addPanic(x, any(b).(uint8)))
	case uint16:
		return as[T](addPanic(x, any(b).(uint16)))
	case uint32:
		return as[T](addPanic(x, any(b).(uint32)))
	case uint64:
		return as[T](addPanic(x, any(b).(uint64)))
	case uintptr:
		return as[T](addPanic(x, any(b).(uintptr)))
	}
	return a + b
}

// SubPanic returns a-b, panicking with an error wrapping ErrOverflow when
// the difference is not representable in T.
func SubPanic[T Number](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](subPanic(x, any(b).(int)))
	case int8:
		return as[T](subPanic(x, any(b).(int8)))
	case int16:
		return as[T](subPanic(x, any(b).(int16)))
	case int32:
		return as[T](subPanic(x, any(b).(int32)))
	case int64:
		return as[T](subPanic(x, any(b).(int64)))
	case uint:
		return as[T](subPanic(x, any(b).(uint)))
	case uint8:
		return as[T](subPanic(x, any(b).(uint8)))
	case uint16:
		return as[T](subPanic(x, any(b).(uint16)))
	case uint32:
		return as[T](subPanic(x, any(b).(uint32)))
	case uint64:
		return as[T](subPanic(x, any(b).(uint64)))
	case uintptr:
		return as[T](subPanic(x, any(b).(uintptr)))
	}
	return a - b
}

// MulPanic returns a*b, panicking with an error wrapping ErrOverflow when
// the product is not representable in T.
func MulPanic[T Number](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](mulPanic(x, any(b).(int)))
	case int8:
		return as[T](mulPanic(x, any(b).(int8)))
	case int16:
		return as[T](mulPanic(x, any(b).(int16)))
	case int32:
		return as[T](mulPanic(x, any(b).(int32)))
	case int64:
		return as[T](mulPanic(x, any(b).(int64)))
	case uint:
		return as[T](mulPanic(x, any(b).(uint)))
	case uint8:
		return as[T](mulPanic(x, any(b).(uint8)))
	case uint16:
		return as[T](mulPanic(x, any(b).(uint16)))
	case uint32:
		return as[T](mulPanic(x, any(b).(uint32)))
	case uint64:
		return as[T](mulPanic(x, any(b).(uint64)))
	case uintptr:
		return as[T](mulPanic(x, any(b).(uintptr)))
	}
	return a * b
}

// DivPanic returns a/b, panicking with an error wrapping ErrDivisionByZero
// when b is zero and with one wrapping ErrOverflow for MinOf/-1, the single
// overflowing quotient.
func DivPanic[T Number](a, b T) T {
	switch x := any(a).(type) {
	case int:
		return as[T](divPanic(x, any(b).(int)))
	case int8:
		return as[T](divPanic(x, any(b).(int8)))
	case int16:
		return as[T](divPanic(x, any(b).(int16)))
	case int32:
		return as[T](divPanic(x, any(b).(int32)))
	case int64:
		return as[T](divPanic(x, any(b).(int64)))
	case uint:
		return as[T](divPanic(x, any(b).(uint)))
	case uint8:
		return as[T](divPanic(x, any(b).(uint8)))
	case uint16:
		return as[T](divPanic(x, any(b).(uint16)))
	case uint32:
		return as[T](divPanic(x, any(b).(uint32)))
	case uint64:
		return as[T](divPanic(x, any(b).(uint64)))
	case uintptr:
		return as[T](divPanic(x, any(b).(uintptr)))
	}
	return a / b
}

// RemPanic returns a%b, panicking with an error wrapping ErrDivisionByZero
// when b is zero and with one wrapping ErrOverflow for MinOf%-1, whose
// quotient overflows.
func RemPanic[T constraints.Integer](a, b T) T {
	if isFixed(a) {
		return remPanic(a, b)
	}
	return a % b
}

func addPanic[T constraints.Integer](a, b T) T {
	v, ok := checked.Add(a, b)
	if !ok {
		panicOverflow("add")
	}
	return v
}

func subPanic[T constraints.Integer](a, b T) T {
	v, ok := checked.Sub(a, b)
	if !ok {
		panicOverflow("sub")
	}
	return v
}

func mulPanic[T constraints.Integer](a, b T) T {
	v, ok := checked.Mul(a, b)
	if !ok {
		panicOverflow("mul")
	}
	return v
}

func divPanic[T constraints.Integer](a, b T) T {
	if b == 0 {
		panicDivide("div")
	}
	v, ok := checked.Div(a, b)
	if !ok {
		panicOverflow("div")
	}
	return v
}

func remPanic[T constraints.Integer](a, b T) T {
	if b == 0 {
		panicDivide("rem")
	}
	v, ok := checked.Rem(a, b)
	if !ok {
		panicOverflow("rem")
	}
	return v
}
