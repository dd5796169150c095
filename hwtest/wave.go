// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package hwtest provides synthetic clocks and buses for testing the driver and
// the analyzers without a simulated peripheral.
//
package hwtest

// Wave is a synthetic periodic waveform on bit 0 of an output bus. It is both
// the clock and the bus: each tick advances the waveform.
//
// At tick t, the output is high if (t + Phase) mod Period < High.
//
// *Wave implements spipwm.Clock and spipwm.Bus.
//
type Wave struct {
	Period uint64
	High   uint64
	Phase  uint64

	ticks uint64
}

// Wait advances the waveform by n ticks.
//
func (w *Wave) Wait(n uint) { w.ticks += uint64(n) }

// Ticks returns the number of elapsed ticks.
//
func (w *Wave) Ticks() uint64 { return w.ticks }

// Width returns 1.
//
func (w *Wave) Width() int { return 1 }

// Read returns the current output value.
//
func (w *Wave) Read() uint64 {
	if w.Period == 0 {
		return 0
	}
	if (w.ticks+w.Phase)%w.Period < w.High {
		return 1
	}
	return 0
}

// Write panics.
//
func (w *Wave) Write(uint64) { panic("write to synthetic waveform") }
