// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package overflow provides integer arithmetic with an explicit overflow
// policy: every operation exists in a Wrap, a Panic, and a Saturate
// flavor, named <Op><Policy>, as in AddWrap, MulPanic or SubSaturate.
//
// # Policies
//
// Wrap keeps Go's native two's-complement behavior: results outside the
// operand type's range wrap around. AddWrap, SubWrap and MulWrap compile to
// the plain operators; the value of the Wrap functions is that a rewritten
// or generic call site names its policy instead of inheriting it silently.
//
// Panic treats an unrepresentable result as a programming error. The
// operation panics with an error wrapping ErrOverflow, or ErrDivisionByZero
// for a zero divisor, so a recovery boundary can tell the two apart with
// errors.Is.
//
// Saturate clamps an unrepresentable result to the nearest representable
// bound: the type's maximum when the true result is too large, its minimum
// when too small. Saturating operations never panic, including division by
// zero, which clamps by the dividend's sign.
//
// Division by zero is not an overflow and is not made to disappear: under
// Wrap as well as Panic, DivWrap, DivPanic, RemWrap and RemPanic panic with
// ErrDivisionByZero. Only the Saturate flavor defines a result for it.
//
// # Types
//
// The policies are defined for the fixed-width integer types: int, int8,
// int16, int32, int64, uint, uint8, uint16, uint32, uint64 and uintptr. The
// entry points are generic and deliberately accept more than that. For any
// other type argument that supports the operator, among them floating-point
// types, complex types, strings for Add and Sum, and defined types such as
// `type Celsius int16`, the operation is the native Go operator and the
// policy suffix has no effect: -0.5 does not saturate and "a"+"b" does not
// wrap. Each call site therefore keeps exactly one meaning, chosen at
// compile time by the type argument; there is no reflection and no runtime
// policy state.
//
// Abs is the one exception: Go has no operator to fall back on, so AbsWrap,
// AbsPanic and AbsSaturate are constrained to the fixed-width types alone
// and anything else is a compile error.
//
// # Shifts
//
// Shift counts may have any integer type. A negative count converts to its
// unsigned two's-complement image and is therefore far beyond every type's
// width, landing in the out-of-range regime of the policy: ShlWrap reduces
// the count modulo the width, ShlPanic and ShrPanic panic, ShlSaturate
// clamps by the operand's sign, and ShrWrap and ShrSaturate return zero.
// Note that right-shifting a negative operand by the type's width or more
// yields zero under Wrap and Saturate, not the -1 that Go's arithmetic
// shift converges to.
//
// # Rewriting
//
// The companion tool in cmd/overflow rewrites the arithmetic in existing
// source files into calls to this package, selecting the policy per
// function or file from //overflow: directives. Package rewrite implements
// the transformation.
package overflow
