// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package periph

import (
	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/sim"
	"github.com/pkg/errors"
)

// Config holds the peripheral model parameters.
//
type Config struct {
	ClockDivider uint `yaml:"clock_divider"`
	Workers      int  `yaml:"workers"`
}

// DefaultConfig returns the reference configuration.
//
func DefaultConfig() Config {
	return Config{ClockDivider: DefaultClockDivider, Workers: 1}
}

// Period returns the PWM period in ticks for cfg.
//
func (cfg Config) Period() uint64 {
	return (uint64(cfg.ClockDivider) + 1) * 256
}

// Device is a simulated peripheral together with its I/O ports.
//
type Device struct {
	*sim.Circuit
	UI   *sim.Port // ui_in, 8 bits
	UO   *sim.Port // uo_out, 8 bits
	UIO  *sim.Port // uio_out, 8 bits
	RstN *sim.Port // rst_n, 1 bit
}

// Parts returns the parts of the peripheral, wired to the circuit wires ui_in[8],
// uo_out[8], uio_out[8] and rst_n. The caller must provide parts driving ui_in
// and rst_n.
//
func Parts(cfg Config) sim.Parts {
	return sim.Parts{
		SPIReceiver(sim.W{
			pRstN:        "rst_n",
			pSCLK:        sim.BusPinName("ui_in", spipwm.BitSCLK),
			pCOPI:        sim.BusPinName("ui_in", spipwm.BitData),
			pNCS:         sim.BusPinName("ui_in", spipwm.BitCS),
			pValid:       "spi_valid",
			pRW:          "spi_rw",
			"addr[0..6]": "spi_addr[0..6]",
			"data[0..7]": "spi_data[0..7]",
		}),
		RegisterFile(sim.W{
			pRstN:           "rst_n",
			pValid:          "spi_valid",
			pRW:             "spi_rw",
			"addr[0..6]":    "spi_addr[0..6]",
			"data[0..7]":    "spi_data[0..7]",
			"uo_en[0..7]":   "uo_en[0..7]",
			"uio_en[0..7]":  "uio_en[0..7]",
			"uo_pwm[0..7]":  "uo_pwm[0..7]",
			"uio_pwm[0..7]": "uio_pwm[0..7]",
			"duty[0..7]":    "duty[0..7]",
		}),
		PWM(cfg.ClockDivider, sim.W{pRstN: "rst_n", "duty[0..7]": "duty[0..7]", pPWM: "pwm"}),
		OutputMux(sim.W{"en[0..7]": "uo_en[0..7]", "sel[0..7]": "uo_pwm[0..7]", pPWM: "pwm", "out[0..7]": "uo_out[0..7]"}),
		OutputMux(sim.W{"en[0..7]": "uio_en[0..7]", "sel[0..7]": "uio_pwm[0..7]", pPWM: "pwm", "out[0..7]": "uio_out[0..7]"}),
	}
}

// New returns a new simulated peripheral. The device starts with its input bus
// idle and rst_n high; call Reset before use.
//
// Callers must make sure to call Dispose() once the device is no longer needed.
//
func New(cfg Config) (*Device, error) {
	d := &Device{
		UI:   sim.NewPort("ui_in", 8),
		UO:   sim.NewPort("uo_out", 8),
		UIO:  sim.NewPort("uio_out", 8),
		RstN: sim.NewPort("rst_n", 1),
	}
	parts := append(Parts(cfg),
		d.UI.Input(sim.W{"out[0..7]": "ui_in[0..7]"}),
		d.RstN.Input(sim.W{"out[0]": "rst_n"}),
		d.UO.Output(sim.W{"in[0..7]": "uo_out[0..7]"}),
		d.UIO.Output(sim.W{"in[0..7]": "uio_out[0..7]"}),
	)
	c, err := sim.NewCircuit(cfg.Workers, parts...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build peripheral")
	}
	d.Circuit = c
	d.UI.Write(spipwm.Pack(spipwm.Idle))
	d.RstN.Write(1)
	return d, nil
}

// Reset holds rst_n low for ticks ticks with the serial interface idle, then
// releases it and waits another ticks ticks.
//
func (d *Device) Reset(ticks uint) {
	d.UI.Write(spipwm.Pack(spipwm.Idle))
	d.RstN.Write(0)
	d.Wait(ticks)
	d.RstN.Write(1)
	d.Wait(ticks)
}

// Bench returns a bench driving ui_in and sampling uo_out.
//
func (d *Device) Bench(t spipwm.Timing) *spipwm.Bench {
	return &spipwm.Bench{Clock: d.Circuit, In: d.UI, Out: d.UO, Timing: t}
}
