// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package periph provides a reference model of the SPI controlled PWM
// peripheral, built from sim parts.
//
// The peripheral receives 16 bits frames on ui_in (bit 0: SCLK, bit 1: COPI,
// bit 2: nCS) and drives two 8 bits outputs, uo_out and uio_out. Each output
// bit can be enabled and switched to the PWM signal. Register map:
//
//	0x00: uo_out enable
//	0x01: uio_out enable
//	0x02: uo_out PWM select
//	0x03: uio_out PWM select
//	0x04: PWM duty cycle (0xFF is always high)
//
// Reads and writes to any other address are ignored.
//
package periph

import (
	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/sim"
)

// Register addresses.
//
const (
	RegOutEnable = 0x00
	RegIOEnable  = 0x01
	RegOutPWM    = 0x02
	RegIOPWM     = 0x03
	RegDuty      = 0x04

	NumRegs = 5
)

// common pin names
const (
	pRstN  = "rst_n"
	pNCS   = "ncs"
	pCOPI  = "copi"
	pSCLK  = "sclk"
	pValid = "valid"
	pRW    = "rw"
	pAddr  = "addr"
	pData  = "data"
	pDuty  = "duty"
	pPWM   = "pwm"
	pEn    = "en"
	pSel   = "sel"
	pOut   = "out"
)

// register file output buses, indexed by register address.
var regBus = [NumRegs]string{"uo_en", "uio_en", "uo_pwm", "uio_pwm", pDuty}

// SPIReceiver returns the serial interface receiver.
//
// Inputs are resynchronized with two flip-flops. COPI is shifted in on each
// rising edge of SCLK while nCS is low. When nCS goes back high after exactly
// 16 bits, valid is asserted for one tick together with the decoded frame.
//
//	Inputs: rst_n, ncs, copi, sclk
//	Outputs: valid, rw, addr[7], data[8]
//
func SPIReceiver(w sim.W) sim.Part { return spiReceiver.NewPart(w) }

var spiReceiver = &sim.PartSpec{
	Name:    "SPIReceiver",
	Inputs:  []string{pRstN, pNCS, pCOPI, pSCLK},
	Outputs: append([]string{pValid, pRW}, append(sim.BusPins(spipwm.AddrBits, pAddr), sim.BusPins(spipwm.DataBits, pData)...)...),
	Mount: func(s *sim.Socket) []sim.Component {
		rst, ncs, copi, sclk := s.Pin(pRstN), s.Pin(pNCS), s.Pin(pCOPI), s.Pin(pSCLK)
		valid, rw := s.Pin(pValid), s.Pin(pRW)
		addr, data := s.Bus(pAddr, spipwm.AddrBits), s.Bus(pData, spipwm.DataBits)

		var (
			ncsSync, copiSync, sclkSync [2]bool
			ncsPrev, sclkPrev           bool
			shift                       spipwm.Frame
			count                       int
			frame                       spipwm.Frame
		)
		reset := func() {
			ncsSync, copiSync, sclkSync = [2]bool{true, true}, [2]bool{}, [2]bool{}
			ncsPrev, sclkPrev = true, false
			shift, count = 0, 0
		}
		reset()

		return []sim.Component{func(c *sim.Circuit) {
			strobe := false
			if !c.Get(rst) {
				reset()
				frame = 0
			} else {
				nCS, nSCLK, nCOPI := ncsSync[1], sclkSync[1], copiSync[1]
				switch {
				case !nCS && nSCLK && !sclkPrev:
					if count < spipwm.FrameBits {
						shift <<= 1
						if nCOPI {
							shift |= 1
						}
					}
					if count <= spipwm.FrameBits {
						count++
					}
				case nCS && !ncsPrev:
					if count == spipwm.FrameBits {
						strobe = true
						frame = shift
					}
					shift, count = 0, 0
				}
				ncsPrev, sclkPrev = nCS, nSCLK

				ncsSync[1], ncsSync[0] = ncsSync[0], c.Get(ncs)
				copiSync[1], copiSync[0] = copiSync[0], c.Get(copi)
				sclkSync[1], sclkSync[0] = sclkSync[0], c.Get(sclk)
			}

			t := frame.Transaction()
			c.Set(valid, strobe)
			c.Set(rw, t.Dir == spipwm.Write)
			sim.SetInt(c, addr, uint64(t.Addr))
			sim.SetInt(c, data, uint64(t.Data))
		}}
	}}

// RegisterFile returns the register file. A register is written when valid and
// rw are both high and addr is a valid register address. All registers are
// cleared while rst_n is low.
//
//	Inputs: rst_n, valid, rw, addr[7], data[8]
//	Outputs: uo_en[8], uio_en[8], uo_pwm[8], uio_pwm[8], duty[8]
//
func RegisterFile(w sim.W) sim.Part { return registerFile.NewPart(w) }

var registerFile = &sim.PartSpec{
	Name:    "RegisterFile",
	Inputs:  append([]string{pRstN, pValid, pRW}, append(sim.BusPins(spipwm.AddrBits, pAddr), sim.BusPins(spipwm.DataBits, pData)...)...),
	Outputs: sim.BusPins(8, regBus[:]...),
	Mount: func(s *sim.Socket) []sim.Component {
		rst, valid, rw := s.Pin(pRstN), s.Pin(pValid), s.Pin(pRW)
		addr, data := s.Bus(pAddr, spipwm.AddrBits), s.Bus(pData, spipwm.DataBits)
		var outs [NumRegs][]int
		for i, n := range regBus {
			outs[i] = s.Bus(n, 8)
		}
		var regs [NumRegs]uint64

		return []sim.Component{func(c *sim.Circuit) {
			switch {
			case !c.Get(rst):
				regs = [NumRegs]uint64{}
			case c.Get(valid) && c.Get(rw):
				if a := sim.Int(c, addr); a < NumRegs {
					regs[a] = sim.Int(c, data)
				}
			}
			for i, o := range outs {
				sim.SetInt(c, o, regs[i])
			}
		}}
	}}

// DefaultClockDivider is the default PWM clock divider trigger value.
//
const DefaultClockDivider = 12

// PWM returns a PWM generator. An 8 bits counter is incremented every
// divider+1 ticks; pwm is high while the counter is lower than duty, or
// always if duty is 0xFF. The PWM period is (divider+1)*256 ticks.
//
//	Inputs: rst_n, duty[8]
//	Outputs: pwm
//
func PWM(divider uint, w sim.W) sim.Part {
	return (&sim.PartSpec{
		Name:    "PWM",
		Inputs:  append([]string{pRstN}, sim.BusPins(8, pDuty)...),
		Outputs: []string{pPWM},
		Mount: func(s *sim.Socket) []sim.Component {
			rst, duty, pwm := s.Pin(pRstN), s.Bus(pDuty, 8), s.Pin(pPWM)
			var div uint
			var cnt uint64
			return []sim.Component{func(c *sim.Circuit) {
				switch {
				case !c.Get(rst):
					div, cnt = 0, 0
				case div >= divider:
					div = 0
					cnt = (cnt + 1) & 0xff
				default:
					div++
				}
				d := sim.Int(c, duty)
				c.Set(pwm, d == 0xff || cnt < d)
			}}
		}}).NewPart(w)
}

// OutputMux returns an 8 bits output stage.
//
//	Inputs: en[8], sel[8], pwm
//	Outputs: out[8]
//	Function: out[i] = en[i] && (sel[i] ? pwm : 1)
//
func OutputMux(w sim.W) sim.Part { return outputMux.NewPart(w) }

var outputMux = &sim.PartSpec{
	Name:    "OutputMux",
	Inputs:  append(sim.BusPins(8, pEn, pSel), pPWM),
	Outputs: sim.BusPins(8, pOut),
	Mount: func(s *sim.Socket) []sim.Component {
		en, sel, pwm, out := s.Bus(pEn, 8), s.Bus(pSel, 8), s.Pin(pPWM), s.Bus(pOut, 8)
		return []sim.Component{func(c *sim.Circuit) {
			p := c.Get(pwm)
			for i := range out {
				c.Set(out[i], c.Get(en[i]) && (!c.Get(sel[i]) || p))
			}
		}}
	}}
