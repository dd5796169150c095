// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import "strconv"

// Int returns the current state of the pins as an integer. Pin 0 is lsb.
//
func Int(c *Circuit, pins []int) uint64 {
	var out uint64
	for bit := range pins {
		if c.Get(pins[bit]) {
			out |= 1 << uint(bit)
		}
	}
	return out
}

// SetInt sets the next state of the pins to the given value. Pin 0 is lsb.
//
func SetInt(c *Circuit, pins []int, v uint64) {
	for bit := range pins {
		c.Set(pins[bit], v&(1<<uint(bit)) != 0)
	}
}

// A Port is a bus that connects a circuit to the outside world. Input ports are
// written by the caller between simulation steps, output ports read.
//
// *Port implements spipwm.Bus.
//
type Port struct {
	name  string
	width int
	input bool
	c     *Circuit
	pins  []int
	v     uint64
}

// NewPort returns a new port of the given width. Its Input or Output method
// must then be called exactly once to wire it into a circuit.
//
func NewPort(name string, width int) *Port {
	return &Port{name: name, width: width}
}

// Input returns a part that drives its output bus "out" with the last value
// written to p. Values written to p are visible to the circuit right away.
//
//	Outputs: out[width]
//	Function: out = p.Read()
//
func (p *Port) Input(w W) Part {
	p.input = true
	return (&PartSpec{
		Name:    "Input" + strconv.Itoa(p.width) + "(" + p.name + ")",
		Outputs: BusPins(p.width, pOut),
		Mount: func(s *Socket) []Component {
			p.bind(s.c, s.Bus(pOut, p.width))
			return []Component{func(c *Circuit) {
				SetInt(c, p.pins, p.v)
			}}
		}}).NewPart(w)
}

// Output returns a part that exposes the state of its input bus "in" through
// p.
//
//	Inputs: in[width]
//	Function: p.Read() = in
//
func (p *Port) Output(w W) Part {
	return (&PartSpec{
		Name:   "Output" + strconv.Itoa(p.width) + "(" + p.name + ")",
		Inputs: BusPins(p.width, pIn),
		Mount: func(s *Socket) []Component {
			p.bind(s.c, s.Bus(pIn, p.width))
			return nil
		}}).NewPart(w)
}

func (p *Port) bind(c *Circuit, pins []int) {
	if p.c != nil {
		panic("port " + p.name + " already mounted")
	}
	p.c, p.pins = c, pins
}

// Name returns the port name.
//
func (p *Port) Name() string { return p.name }

// Width returns the port width in bits.
//
func (p *Port) Width() int { return p.width }

func (p *Port) mask() uint64 {
	if p.width >= 64 {
		return ^uint64(0)
	}
	return 1<<uint(p.width) - 1
}

// Read returns the current value of the port.
//
func (p *Port) Read() uint64 {
	if p.c == nil || p.input {
		return p.v
	}
	return Int(p.c, p.pins)
}

// Write sets the value of an input port. Bits above the port width are
// discarded.
//
// Write panics if p is an output port.
//
func (p *Port) Write(v uint64) {
	if !p.input {
		panic("write to output port " + p.name)
	}
	p.v = v & p.mask()
	if p.c == nil {
		return
	}
	// update the current state as well so that the new value is seen on the
	// next step.
	for bit, n := range p.pins {
		p.c.s0[n] = p.v&(1<<uint(bit)) != 0
	}
}

// common pin names
const (
	pIn  = "in"
	pOut = "out"
)
