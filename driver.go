// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import (
	"github.com/pkg/errors"
	"github.com/womat/debug"
)

// Send drives transaction t on the input bus and returns the final (idle) line
// state.
//
// The frame is sent MSB first with one serial clock pulse per bit. Data is set
// while SCLK is low and held across the rising edge. Each half-period lasts
// until the elapsed simulation time is past Timing.HalfPeriod. Once the frame is
// sent, the bus returns to idle and Send waits Timing.Settle ticks.
//
// Invalid transactions are rejected before any bus write; the returned error
// then wraps a *ValidationError. There is no acknowledgment of any kind.
//
func (b *Bench) Send(t Transaction) (LineState, error) {
	f, err := Encode(t)
	if err != nil {
		return LineState{}, errors.Wrap(err, "invalid transaction")
	}
	if err = b.Timing.Validate(); err != nil {
		return LineState{}, errors.Wrap(err, "invalid timing")
	}
	debug.TraceLog.Printf("spi: %s frame=%s", t, f)

	ls := LineState{}
	b.drive(ls)
	b.Clock.Wait(1)

	for _, bit := range f.Bits() {
		ls.Data, ls.SCLK = bit, false
		b.drive(ls)
		b.halfPeriod()
		ls.SCLK = true
		b.drive(ls)
		b.halfPeriod()
	}

	ls = Idle
	b.drive(ls)
	b.Clock.Wait(b.Timing.Settle)
	return ls, nil
}

// Write sends a write transaction.
//
func (b *Bench) Write(addr, data int) (LineState, error) {
	return b.Send(Transaction{Write, addr, data})
}

// Read sends a read transaction. Nothing is read back.
//
func (b *Bench) Read(addr, data int) (LineState, error) {
	return b.Send(Transaction{Read, addr, data})
}

func (b *Bench) drive(ls LineState) {
	b.In.Write(Pack(ls))
}

func (b *Bench) halfPeriod() {
	start := b.Clock.Ticks()
	Until(b.Clock, func() bool {
		return b.Timing.elapsed(b.Clock.Ticks() - start)
	})
}
