// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

// A Clock is the shared discrete clock of a simulation.
//
type Clock interface {
	// Wait advances the clock by n ticks and returns once all n ticks have
	// elapsed.
	Wait(n uint)
	// Ticks returns the number of ticks elapsed since the start of the
	// simulation.
	Ticks() uint64
}

// A Bus is a fixed width digital bus.
//
type Bus interface {
	// Width returns the bus width in bits.
	Width() int
	// Read returns the bus value at the current tick.
	Read() uint64
	// Write sets the bus value at the current tick.
	Write(v uint64)
}

// Line is the bit index of an output line on a Bus.
//
type Line uint

// Bench bundles the simulation collaborators used by the transaction driver
// and the analyzers: the shared clock, the peripheral's input bus (driven by
// Send) and its output bus (sampled by the analyzers).
//
// A Bench must not be used concurrently.
//
type Bench struct {
	Clock  Clock
	In     Bus
	Out    Bus
	Timing Timing
}

// Until waits one tick at a time until pred returns true and returns the number
// of ticks waited. pred is evaluated after each tick, so Until always waits at
// least one tick.
//
func Until(c Clock, pred func() bool) uint64 {
	var n uint64
	for {
		c.Wait(1)
		n++
		if pred() {
			return n
		}
	}
}

func (b *Bench) sample(l Line) bool {
	return b.Out.Read()&(1<<l) != 0
}
