// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import (
	"fmt"
	"strconv"
)

// Frame geometry.
//
const (
	FrameBits = 16
	AddrBits  = 7
	DataBits  = 8

	MaxAddr = 1<<AddrBits - 1
	MaxData = 1<<DataBits - 1
)

// Direction is the transaction direction, sent as the first bit of a frame.
//
type Direction int

// Transaction directions.
//
const (
	Read Direction = iota
	Write
)

func (d Direction) String() string {
	switch d {
	case Read:
		return "read"
	case Write:
		return "write"
	}
	return "Direction(" + strconv.Itoa(int(d)) + ")"
}

// A Transaction is a single register access.
//
type Transaction struct {
	Dir  Direction
	Addr int
	Data int
}

func (t Transaction) String() string {
	return fmt.Sprintf("%s addr=0x%02X data=0x%02X", t.Dir, t.Addr, t.Data)
}

// ValidationError reports a transaction field that does not fit its bit width.
//
type ValidationError struct {
	Field string
	Value int
	Max   int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %d out of range [0, %d]", e.Field, e.Value, e.Max)
}

// Validate checks that the address and data fit in their bit widths.
// The returned error, if any, is a *ValidationError.
//
func (t Transaction) Validate() error {
	if t.Addr < 0 || t.Addr > MaxAddr {
		return &ValidationError{"address", t.Addr, MaxAddr}
	}
	if t.Data < 0 || t.Data > MaxData {
		return &ValidationError{"data", t.Data, MaxData}
	}
	return nil
}

// Frame is the 16 bits serial frame of a transaction:
//
//	bit 15: direction (1 = write)
//	bits 14..8: address
//	bits 7..0: data
//
// Frames are transmitted MSB first.
//
type Frame uint16

// Encode validates t and returns its frame.
//
func Encode(t Transaction) (Frame, error) {
	if err := t.Validate(); err != nil {
		return 0, err
	}
	f := Frame(t.Addr)<<DataBits | Frame(t.Data)
	if t.Dir != Read {
		f |= 1 << (FrameBits - 1)
	}
	return f, nil
}

// Bit returns the i-th bit of f in transmission order. Bit(0) is the direction
// bit.
//
func (f Frame) Bit(i int) bool {
	return f&(1<<uint(FrameBits-1-i)) != 0
}

// Bits returns the bits of f in transmission order.
//
func (f Frame) Bits() []bool {
	bs := make([]bool, FrameBits)
	for i := range bs {
		bs[i] = f.Bit(i)
	}
	return bs
}

// Transaction decodes f.
//
func (f Frame) Transaction() Transaction {
	t := Transaction{
		Dir:  Read,
		Addr: int(f>>DataBits) & MaxAddr,
		Data: int(f) & MaxData,
	}
	if f.Bit(0) {
		t.Dir = Write
	}
	return t
}

func (f Frame) String() string {
	return fmt.Sprintf("%016b", uint16(f))
}
