// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

// DutyMeasurement is the result of a duty cycle measurement.
//
type DutyMeasurement struct {
	High  uint64 // ticks sampled high
	Total uint64 // ticks sampled
}

// Percent returns the duty cycle in percent. It returns 0 if no tick was
// sampled.
//
func (m DutyMeasurement) Percent() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.High) * 100 / float64(m.Total)
}

// SampleDuty samples output line l once per tick for window ticks. Each sample
// is taken right after the clock advances.
//
// The window should span at least one full period of the signal, or the result
// will be biased by the sampling start phase.
//
func (b *Bench) SampleDuty(l Line, window uint64) DutyMeasurement {
	m := DutyMeasurement{Total: window}
	for i := uint64(0); i < window; i++ {
		b.Clock.Wait(1)
		if b.sample(l) {
			m.High++
		}
	}
	return m
}

// MeasureDuty returns the duty cycle of output line l in percent, measured over
// window ticks. See SampleDuty.
//
func (b *Bench) MeasureDuty(l Line, window uint64) float64 {
	return b.SampleDuty(l, window).Percent()
}
