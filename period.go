// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package spipwm

import "github.com/pkg/errors"

// ErrNoPeriod is returned by MeasurePeriodWithin when no full period could be
// observed before the tick limit.
//
var ErrNoPeriod = errors.New("no full period observed")

// periodState is a state of the period measurement.
type periodState int

const (
	// seekLow discards any high phase in progress.
	seekLow periodState = iota
	// seekRising waits for a rising edge.
	seekRising
	// countHigh counts ticks in the high phase.
	countHigh
	// countLow counts ticks in the low phase, up to the next rising edge.
	countLow
	// periodDone is the terminal state.
	periodDone
)

var stateNames = [...]string{"seekLow", "seekRising", "countHigh", "countLow", "done"}

func (s periodState) String() string { return stateNames[s] }

// periodFSM measures the period of a signal, from one rising edge to the next.
type periodFSM struct {
	state periodState
	count uint64
}

// next feeds the current sample to the state machine. It returns true if the
// caller must wait one tick before the next sample, false if the same sample
// must be fed again after a state transition.
//
func (m *periodFSM) next(high bool) (wait bool) {
	switch m.state {
	case seekLow:
		if high {
			return true
		}
		m.state = seekRising
	case seekRising:
		if !high {
			return true
		}
		m.state = countHigh
	case countHigh:
		if high {
			m.count++
			return true
		}
		m.state = countLow
	case countLow:
		if !high {
			m.count++
			return true
		}
		m.state = periodDone
	}
	return false
}

// MeasurePeriod returns the period in ticks of output line l, measured from a
// rising edge to the next. Any phase in progress when MeasurePeriod is called is
// discarded so that the result does not depend on the starting phase.
//
// MeasurePeriod blocks forever if l never toggles.
//
func (b *Bench) MeasurePeriod(l Line) uint64 {
	p, _ := b.MeasurePeriodWithin(l, 0)
	return p
}

// MeasurePeriodWithin is like MeasurePeriod but gives up after limit ticks and
// returns ErrNoPeriod. A limit of 0 means no limit.
//
func (b *Bench) MeasurePeriodWithin(l Line, limit uint64) (uint64, error) {
	var m periodFSM
	var ticks uint64
	for m.state != periodDone {
		if !m.next(b.sample(l)) {
			continue
		}
		if limit > 0 && ticks >= limit {
			return 0, errors.Wrapf(ErrNoPeriod, "%s after %d ticks", m.state, ticks)
		}
		b.Clock.Wait(1)
		ticks++
	}
	return m.count, nil
}
