// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import "strconv"

// Bit positions of the serial interface lines on the peripheral's input bus.
//
const (
	BitSCLK = 0
	BitData = 1
	BitCS   = 2
)

// LineState is the state of the three serial interface lines. CS is active low.
//
type LineState struct {
	CS   bool
	Data bool
	SCLK bool
}

// Idle is the line state between transactions.
//
var Idle = LineState{CS: true}

// Pack returns the bus value for ls. Bits above BitCS are always 0.
//
func Pack(ls LineState) uint64 {
	var v uint64
	if ls.SCLK {
		v |= 1 << BitSCLK
	}
	if ls.Data {
		v |= 1 << BitData
	}
	if ls.CS {
		v |= 1 << BitCS
	}
	return v
}

// Unpack returns the line state encoded in the low 3 bits of v.
//
func Unpack(v uint64) LineState {
	return LineState{
		CS:   v&(1<<BitCS) != 0,
		Data: v&(1<<BitData) != 0,
		SCLK: v&(1<<BitSCLK) != 0,
	}
}

func b2s(b bool) byte {
	if b {
		return '1'
	}
	return '0'
}

// String returns the line state as "ncs=x copi=x sclk=x".
//
func (ls LineState) String() string {
	return "ncs=" + string(b2s(ls.CS)) + " copi=" + string(b2s(ls.Data)) + " sclk=" + string(b2s(ls.SCLK)) +
		" (0x" + strconv.FormatUint(Pack(ls), 16) + ")"
}
