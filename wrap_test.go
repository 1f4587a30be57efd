// Copyright 2024 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/safenum/overflow"
)

func TestAddWrap(t *testing.T) {
	require.Equal(t, 5, overflow.AddWrap(2, 3))
	require.Equal(t, int8(math.MinInt8), overflow.AddWrap(int8(math.MaxInt8), 1))
	require.Equal(t, uint8(0), overflow.AddWrap(uint8(math.MaxUint8), 1))
	require.Equal(t, uint64(0), overflow.AddWrap(uint64(math.MaxUint64), 1))

	// Non-integer type arguments are the native operator.
	require.Equal(t, 2.5, overflow.AddWrap(1.25, 1.25))
	require.Equal(t, "ab", overflow.AddWrap("a", "b"))
}

func TestSubWrap(t *testing.T) {
	require.Equal(t, -1, overflow.SubWrap(2, 3))
	require.Equal(t, int8(math.MaxInt8), overflow.SubWrap(int8(math.MinInt8), 1))
	require.Equal(t, uint16(math.MaxUint16), overflow.SubWrap(uint16(0), 1))
}

func TestMulWrap(t *testing.T) {
	require.Equal(t, 42, overflow.MulWrap(6, 7))
	require.Equal(t, uint8(0), overflow.MulWrap(uint8(16), 16))
	require.Equal(t, int8(math.MinInt8), overflow.MulWrap(int8(64), 2))
}

func TestDivWrap(t *testing.T) {
	require.Equal(t, 6, overflow.DivWrap(42, 7))
	require.Equal(t, -6, overflow.DivWrap(42, -7))

	// The single wrapping quotient.
	require.Equal(t, int32(math.MinInt32), overflow.DivWrap(int32(math.MinInt32), -1))

	require.PanicsWithError(t, "div: division by zero", func() {
		overflow.DivWrap(42, 0)
	})
	require.PanicsWithError(t, "div: division by zero", func() {
		overflow.DivWrap(uint8(42), 0)
	})

	// Floats keep their own arithmetic: no panic, an infinity.
	require.Equal(t, math.Inf(1), overflow.DivWrap(1.0, 0.0))
}

func TestRemWrap(t *testing.T) {
	require.Equal(t, 1, overflow.RemWrap(43, 7))
	require.Equal(t, -1, overflow.RemWrap(-43, 7))

	// MinOf%-1 pairs with the wrapping quotient: exactly zero.
	require.Equal(t, int16(0), overflow.RemWrap(int16(math.MinInt16), -1))

	require.PanicsWithError(t, "rem: division by zero", func() {
		overflow.RemWrap(43, 0)
	})
}
