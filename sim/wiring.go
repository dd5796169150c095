// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package sim

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// W is a set of wires, connecting a part's I/O pins (the map key) to wires in
// the circuit.
//
// Both keys and values may be bus ranges like "out[0..7]":
//
//	W{"out[0..7]": "uo_out[0..7]", "pwm": "pwm"}
//
type W map[string]string

// BusPinName returns the pin name of bit i of bus name.
//
func BusPinName(name string, i int) string {
	return name + "[" + strconv.Itoa(i) + "]"
}

// BusPins returns the pin names of the given buses of the given width.
//
func BusPins(bits int, names ...string) []string {
	b := make([]string, 0, len(names)*bits)
	for _, n := range names {
		for j := 0; j < bits; j++ {
			b = append(b, BusPinName(n, j))
		}
	}
	return b
}

// expand builds a wire map by expanding bus ranges.
//
func (w W) expand() (map[string]string, error) {
	r := make(map[string]string, len(w))
	for k, v := range w {
		if k == "" || v == "" {
			return nil, errors.New("invalid pin mapping " + k + ":" + v)
		}
		ks, err := expandRange(k)
		if err != nil {
			return nil, errors.Wrap(err, "expand key "+k)
		}
		vs, err := expandRange(v)
		if err != nil {
			return nil, errors.Wrap(err, "expand value "+v)
		}
		switch {
		case len(ks) == len(vs):
			// many to many
			for i := range ks {
				r[ks[i]] = vs[i]
			}
		case len(vs) == 1:
			// many to one
			for _, k := range ks {
				r[k] = vs[0]
			}
		default:
			return nil, errors.New("pin count mismatch in pin mapping: " + k + ":" + v)
		}
	}
	return r, nil
}

func expandRange(name string) ([]string, error) {
	i := strings.IndexRune(name, '[')
	if i < 0 {
		return []string{name}, nil
	}
	bus := name[:i]
	if bus == "" {
		return nil, errors.New("empty bus name")
	}
	n := name[i+1:]
	i = strings.Index(n, "..")
	if i < 0 {
		return []string{name}, nil
	}
	start, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	n = n[i+2:]
	i = strings.IndexRune(n, ']')
	if i < 0 {
		return nil, errors.New("no terminating ] in bus range")
	}
	end, err := strconv.Atoi(n[:i])
	if err != nil {
		return nil, err
	}
	if end < start {
		return nil, errors.Errorf("invalid bus range %d..%d", start, end)
	}
	r := make([]string, 0, end-start+1)
	for i := start; i <= end; i++ {
		r = append(r, BusPinName(bus, i))
	}
	return r, nil
}
