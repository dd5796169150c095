// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

// Constant input wire names.
//
const (
	True  = "true"
	False = "false"
	GND   = False
)

const (
	cstFalse = iota
	cstTrue
	cstCount
)

// A Socket maps a part's pin names to pin numbers in a circuit.
//
type Socket struct {
	m map[string]int
	c *Circuit
}

func newSocket(c *Circuit) *Socket {
	return &Socket{
		m: make(map[string]int),
		c: c,
	}
}

// Pin returns the pin number allocated to the given pin name. Unconnected input
// pins are wired to False.
//
// This function panics if name is not one of the part's pins.
//
func (s *Socket) Pin(name string) int {
	n, ok := s.m[name]
	if !ok {
		panic("pin " + name + " does not exist")
	}
	return n
}

// Bus returns the pin numbers allocated to the given bus name. Pin 0 is the
// lsb.
//
func (s *Socket) Bus(name string, bits int) []int {
	out := make([]int, bits)
	for i := range out {
		out[i] = s.Pin(BusPinName(name, i))
	}
	return out
}
