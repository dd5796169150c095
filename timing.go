// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import "github.com/pkg/errors"

// Timing holds the timing parameters of the transaction driver.
//
// TickPeriod and HalfPeriod are expressed in simulation time units (ns in the
// reference environment), Settle in ticks. Only the ratio HalfPeriod/TickPeriod
// matters to the driver.
//
type Timing struct {
	TickPeriod uint64 `yaml:"tick_period"`
	HalfPeriod uint64 `yaml:"half_period"`
	Settle     uint   `yaml:"settle"`
}

// Reference timing values: a 10 MHz clock, a 100 kHz serial clock and 600
// ticks of settle time after each transaction.
//
const (
	DefaultTickPeriod = 100
	DefaultHalfPeriod = 100 * 100 / 2
	DefaultSettle     = 600
)

// DefaultTiming returns the reference timing.
//
func DefaultTiming() Timing {
	return Timing{
		TickPeriod: DefaultTickPeriod,
		HalfPeriod: DefaultHalfPeriod,
		Settle:     DefaultSettle,
	}
}

// Validate checks that t is usable by the driver.
//
func (t Timing) Validate() error {
	if t.TickPeriod == 0 {
		return errors.New("tick period must be greater than 0")
	}
	if t.HalfPeriod < t.TickPeriod {
		return errors.Errorf("half period %d shorter than tick period %d", t.HalfPeriod, t.TickPeriod)
	}
	return nil
}

// elapsed reports whether the elapsed time for the given tick count is past
// the half-period deadline.
func (t Timing) elapsed(ticks uint64) bool {
	return ticks*t.TickPeriod > t.HalfPeriod
}

// HalfPeriodTicks returns the number of ticks of each serial clock half-period,
// that is the smallest tick count whose elapsed time is strictly greater than
// HalfPeriod.
//
func (t Timing) HalfPeriodTicks() uint64 {
	if t.TickPeriod == 0 {
		return 0
	}
	return t.HalfPeriod/t.TickPeriod + 1
}
