// Copyright 2026 The Overflow Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package overflow

import "iter"

// SumWrap adds up seq with wraparound, starting from the zero value of T.
// The sequence is consumed lazily, in order and exactly once:
//
//	total := overflow.SumWrap(slices.Values(weights))
//
// String sequences concatenate.
func SumWrap[T Addable](seq iter.Seq[T]) T {
	var sum T
	for v := range seq {
		sum += v
	}
	return sum
}

// SumPanic adds up seq, panicking with an error wrapping ErrOverflow at the
// first element whose addition overflows the running total. The panic
// unwinds out of the range loop, so no element past the offending one is
// pulled from the sequence.
//
// There is no saturating sum: once the total sticks at a bound, every
// further element would be absorbed and the result would misreport the
// input. Callers that want a clamped total can decide at the boundary with
// AddSaturate and their own loop.
func SumPanic[T Addable](seq iter.Seq[T]) T {
	var sum T
	for v := range seq {
		sum = AddPanic(sum, v)
	}
	return sum
}
