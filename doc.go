// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

/*
Package spipwm provides the tools to verify a register mapped peripheral driven
over a 3-wire serial interface and exposing a PWM output.

It includes a cycle accurate frame encoder and transaction driver, together
with duty cycle and period analyzers. All time is measured in ticks of a shared
simulation clock. The clock and the digital buses are provided by the caller
through the Clock and Bus interfaces, bundled in a Bench:

	b := &spipwm.Bench{Clock: clk, In: uiIn, Out: uoOut, Timing: spipwm.DefaultTiming()}
	if _, err := b.Write(0x04, 0x80); err != nil {
		// ...
	}
	duty := b.MeasureDuty(0, 3328)

See package sim for a simulator implementing these interfaces and package
periph for a reference peripheral.

*/
package spipwm
