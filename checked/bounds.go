// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package checked

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// BitsOf returns the width of T in bits.
func BitsOf[T constraints.Integer]() int {
	var z T
	return int(unsafe.Sizeof(z)) * 8
}

// IsSigned reports whether T is a signed integer type.
func IsSigned[T constraints.Integer]() bool {
	return ^T(0) < T(0)
}

// MinOf returns the smallest value representable by T: zero for unsigned
// types, -2^(bits-1) for signed ones.
func MinOf[T constraints.Integer]() T {
	if !IsSigned[T]() {
		return 0
	}
	return T(1) << (BitsOf[T]() - 1)
}

// MaxOf returns the largest value representable by T.
func MaxOf[T constraints.Integer]() T {
	if !IsSigned[T]() {
		return ^T(0)
	}
	return ^(T(1) << (BitsOf[T]() - 1))
}
