// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package sim provides a naive tick driven simulator for synchronous digital
// circuits.
//
// A circuit is built from parts. Each part is mounted into a Socket that maps
// its pin names to wires in the circuit and returns the components that update
// its outputs. On every step (one tick of the reference clock), all components
// compute the next state of the wires from their current state, then the new
// state becomes current. All components are therefore clocked on the same
// rising edge, like D flip-flops.
//
// *Circuit implements spipwm.Clock and *Port implements spipwm.Bus.
//
package sim

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
)

// A Component updates the outputs of a part. Components must only Get wire
// states and Set the wires of their own outputs, once per step.
//
type Component func(c *Circuit)

// A MountFn mounts a part into socket s. MountFn's should query
// the socket for assigned pin numbers and return closures around
// these pin numbers.
//
// For example, a DFF (D flip-flop) can be defined like this:
//
//	dff := &PartSpec{
//		Name:    "DFF",
//		Inputs:  []string{"in"},
//		Outputs: []string{"out"},
//		Mount: func(s *Socket) []Component {
//			in, out := s.Pin("in"), s.Pin("out")
//			return []Component{
//				func(c *Circuit) { c.Set(out, c.Get(in)) },
//			}
//		}}
//
type MountFn func(s *Socket) []Component

// A PartSpec wraps a part specification (its blueprint).
//
type PartSpec struct {
	// Part name.
	Name string
	// Input pin names. Use BusPins to expand a bus to individual pin names.
	Inputs []string
	// Output pin names.
	Outputs []string
	// Mount function (see MountFn).
	Mount MountFn
}

// NewPart returns a Part for p with the given wiring.
//
func (p *PartSpec) NewPart(w W) Part {
	return Part{p, w}
}

// A Part wraps a part specification together with its connections to wires
// in the circuit.
//
type Part struct {
	*PartSpec
	W W
}

// Parts is a convenience wrapper for []Part.
//
type Parts []Part

// Circuit is a runnable circuit simulation.
//
type Circuit struct {
	s0    []bool // wire states frame #0 (current)
	s1    []bool // wire states frame #1 (next)
	cs    []Component
	count int
	ticks uint64
	wires map[string]int

	wc []chan struct{}
	wg sync.WaitGroup
}

// NewCircuit builds a new circuit based on the given parts.
//
// workers is the number of goroutines used to update the state of the Circuit
// each step of the simulation. If less or equal to 0, the value of GOMAXPROCS
// will be used.
//
// Callers must make sure to call Dispose() once the circuit is no longer needed
// in order to release allocated resources.
//
func NewCircuit(workers int, parts ...Part) (*Circuit, error) {
	if len(parts) == 0 {
		return nil, errors.New("empty part list")
	}

	// new circuit with room for constant value pins.
	c := &Circuit{count: cstCount, wires: map[string]int{False: cstFalse, True: cstTrue}}
	ups, err := c.mount(parts)
	if err != nil {
		return nil, err
	}
	c.cs = ups
	c.s0 = make([]bool, c.count)
	c.s1 = make([]bool, c.count)
	c.s0[cstTrue] = true
	c.s1[cstTrue] = true

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(-1)
	}
	for len(ups) > 0 {
		size := len(ups) / workers
		if size*workers < len(ups) {
			size++
		}
		wc := make(chan struct{}, 1)
		c.wc = append(c.wc, wc)
		go worker(c, ups[:size], wc)
		ups = ups[size:]
	}

	return c, nil
}

func (c *Circuit) mount(parts Parts) ([]Component, error) {
	drivers := make(map[string]string)
	readers := make(map[string]string)
	var ups []Component

	for _, p := range parts {
		w, err := p.W.expand()
		if err != nil {
			return nil, errors.Wrap(err, p.Name)
		}
		s := newSocket(c)
		for _, in := range p.Inputs {
			name, ok := w[in]
			if !ok {
				// unconnected inputs are grounded.
				s.m[in] = cstFalse
				continue
			}
			delete(w, in)
			s.m[in] = c.wire(name)
			if name != True && name != False {
				readers[name] = p.Name + "." + in
			}
		}
		for _, out := range p.Outputs {
			name, ok := w[out]
			if !ok {
				s.m[out] = c.allocPin()
				continue
			}
			delete(w, out)
			switch name {
			case True, False:
				return nil, errors.Errorf("%s.%s: output pin connected to constant %q", p.Name, out, name)
			}
			if d, ok := drivers[name]; ok {
				return nil, errors.Errorf("%s.%s: wire %q already driven by %s", p.Name, out, name, d)
			}
			drivers[name] = p.Name + "." + out
			s.m[out] = c.wire(name)
		}
		for k := range w {
			return nil, errors.Errorf("invalid pin name %q for part %s", k, p.Name)
		}
		ups = append(ups, p.Mount(s)...)
	}

	for name, r := range readers {
		if _, ok := drivers[name]; !ok {
			return nil, errors.Errorf("wire %q read by %s is not driven by any output", name, r)
		}
	}
	return ups, nil
}

// wire returns the pin number of the named wire, allocating it if needed.
func (c *Circuit) wire(name string) int {
	n, ok := c.wires[name]
	if !ok {
		n = c.allocPin()
		c.wires[name] = n
	}
	return n
}

// Dispose releases all resources allocated for a circuit and stops
// worker goroutines.
//
func (c *Circuit) Dispose() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		close(wc)
	}
	c.wg.Wait()
	c.wc = nil
}

func worker(c *Circuit, cs []Component, wc <-chan struct{}) {
	for {
		_, ok := <-wc
		if !ok {
			c.wg.Done()
			return
		}
		for _, f := range cs {
			f(c)
		}
		c.wg.Done()
	}
}

// allocPin allocates a pin and returns its number.
//
func (c *Circuit) allocPin() int {
	cnt := c.count
	c.count++
	return cnt
}

// Ticks returns the value of the step counter.
//
func (c *Circuit) Ticks() uint64 {
	return c.ticks
}

// Get returns the state of pin n. The value of n should be obtained in a
// MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Get(n int) bool {
	return c.s0[n]
}

// Set sets the state s of pin n for the next step. The value of n should be
// obtained in a MountFn by a call to one of the Socket methods.
//
func (c *Circuit) Set(n int, s bool) {
	c.s1[n] = s
}

// Step advances the simulation by one tick.
//
func (c *Circuit) Step() {
	c.wg.Add(len(c.wc))
	for _, wc := range c.wc {
		wc <- struct{}{}
	}

	c.wg.Wait()
	c.ticks++
	c.s0, c.s1 = c.s1, c.s0
}

// Wait advances the simulation by n ticks.
//
func (c *Circuit) Wait(n uint) {
	for ; n > 0; n-- {
		c.Step()
	}
}

// Size returns the component count in the circuit.
//
func (c *Circuit) Size() int { return len(c.cs) }
