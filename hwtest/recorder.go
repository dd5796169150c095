// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package hwtest

import (
	"github.com/db47h/spipwm"
)

// A Sample is a bus value written at a given tick.
//
type Sample struct {
	Tick  uint64
	Value uint64
}

// Recorder is a clock and an input bus that records all bus writes.
//
// *Recorder implements spipwm.Clock and spipwm.Bus.
//
type Recorder struct {
	Samples []Sample

	ticks uint64
	v     uint64
}

// Wait advances the clock by n ticks.
//
func (r *Recorder) Wait(n uint) { r.ticks += uint64(n) }

// Ticks returns the number of elapsed ticks.
//
func (r *Recorder) Ticks() uint64 { return r.ticks }

// Width returns 8.
//
func (r *Recorder) Width() int { return 8 }

// Read returns the last written value.
//
func (r *Recorder) Read() uint64 { return r.v }

// Write records v.
//
func (r *Recorder) Write(v uint64) {
	r.v = v
	r.Samples = append(r.Samples, Sample{r.ticks, v})
}

// Frames decodes the recorded writes as serial frames. Data is sampled on
// each rising edge of SCLK while CS is low; a frame ends when CS goes high.
// Frames with a bit count other than spipwm.FrameBits are returned with ok set
// to false.
//
func (r *Recorder) Frames() (frames []spipwm.Frame, ok bool) {
	ok = true
	prev := spipwm.Idle
	var f spipwm.Frame
	var n int
	for _, s := range r.Samples {
		ls := spipwm.Unpack(s.Value)
		switch {
		case !ls.CS && ls.SCLK && !prev.SCLK:
			f <<= 1
			if ls.Data {
				f |= 1
			}
			n++
		case ls.CS && !prev.CS:
			if n != spipwm.FrameBits {
				ok = false
			}
			frames = append(frames, f)
			f, n = 0, 0
		}
		prev = ls
	}
	return frames, ok
}
