package periph_test

import (
	"testing"

	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/periph"
	"github.com/db47h/spipwm/sim"
)

func newDevice(t *testing.T) (*periph.Device, *spipwm.Bench) {
	t.Helper()
	d, err := periph.New(periph.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	d.Reset(5)
	return d, d.Bench(spipwm.DefaultTiming())
}

func send(t *testing.T, b *spipwm.Bench, dir spipwm.Direction, addr, data int) {
	t.Helper()
	if _, err := b.Send(spipwm.Transaction{Dir: dir, Addr: addr, Data: data}); err != nil {
		t.Fatal(err)
	}
}

func TestDevice_registers(t *testing.T) {
	d, b := newDevice(t)
	defer d.Dispose()

	if v := d.UO.Read(); v != 0 {
		t.Fatalf("uo_out = %#x after reset", v)
	}
	send(t, b, spipwm.Write, periph.RegOutEnable, 0xf0)
	if v := d.UO.Read(); v != 0xf0 {
		t.Fatalf("expected uo_out = 0xf0, got %#x", v)
	}
	send(t, b, spipwm.Write, periph.RegIOEnable, 0xcc)
	if v := d.UIO.Read(); v != 0xcc {
		t.Fatalf("expected uio_out = 0xcc, got %#x", v)
	}

	// ignored transactions
	send(t, b, spipwm.Write, 0x30, 0xaa)
	send(t, b, spipwm.Read, periph.RegOutEnable, 0xbe)
	send(t, b, spipwm.Read, 0x41, 0xef)
	if v := d.UO.Read(); v != 0xf0 {
		t.Fatalf("expected uo_out = 0xf0, got %#x", v)
	}
	if v := d.UIO.Read(); v != 0xcc {
		t.Fatalf("expected uio_out = 0xcc, got %#x", v)
	}

	d.Reset(5)
	if v := d.UO.Read(); v != 0 {
		t.Fatalf("uo_out = %#x after reset", v)
	}
}

func TestDevice_truncatedFrame(t *testing.T) {
	d, b := newDevice(t)
	defer d.Dispose()

	// 15 bits only
	f, _ := spipwm.Encode(spipwm.Transaction{Dir: spipwm.Write, Addr: periph.RegOutEnable, Data: 0xff})
	ls := spipwm.LineState{}
	for _, bit := range f.Bits()[:spipwm.FrameBits-1] {
		ls.Data, ls.SCLK = bit, false
		d.UI.Write(spipwm.Pack(ls))
		d.Wait(51)
		ls.SCLK = true
		d.UI.Write(spipwm.Pack(ls))
		d.Wait(51)
	}
	d.UI.Write(spipwm.Pack(spipwm.Idle))
	d.Wait(600)
	if v := d.UO.Read(); v != 0 {
		t.Fatalf("truncated frame changed uo_out to %#x", v)
	}

	// the next full frame goes through.
	send(t, b, spipwm.Write, periph.RegOutEnable, 0x0f)
	if v := d.UO.Read(); v != 0x0f {
		t.Fatalf("expected uo_out = 0x0f, got %#x", v)
	}
}

func TestDevice_pwmOutput(t *testing.T) {
	d, b := newDevice(t)
	defer d.Dispose()

	send(t, b, spipwm.Write, periph.RegOutEnable, 0x03)
	send(t, b, spipwm.Write, periph.RegOutPWM, 0x01)
	send(t, b, spipwm.Write, periph.RegDuty, 0x00)
	// bit 0 follows the PWM (always low), bit 1 is enabled.
	if v := d.UO.Read(); v != 0x02 {
		t.Fatalf("expected uo_out = 0x02, got %#x", v)
	}
	send(t, b, spipwm.Write, periph.RegDuty, 0xff)
	if v := d.UO.Read(); v != 0x03 {
		t.Fatalf("expected uo_out = 0x03, got %#x", v)
	}
}

func TestPWM(t *testing.T) {
	const div = 3
	cfg := periph.Config{ClockDivider: div}
	period := cfg.Period()

	for _, duty := range []uint64{0, 1, 0x40, 0x80, 0xfe, 0xff} {
		in, out := sim.NewPort("duty", 8), sim.NewPort("pwm", 1)
		c, err := sim.NewCircuit(1,
			in.Input(sim.W{"out[0..7]": "duty[0..7]"}),
			periph.PWM(div, sim.W{"rst_n": sim.True, "duty[0..7]": "duty[0..7]", "pwm": "pwm"}),
			out.Output(sim.W{"in[0]": "pwm"}),
		)
		if err != nil {
			t.Fatal(err)
		}
		in.Write(duty)
		c.Wait(10)

		b := &spipwm.Bench{Clock: c, Out: out}
		m := b.SampleDuty(0, period)
		exp := duty * (div + 1)
		if duty == 0xff {
			exp = period
		}
		if m.High != exp {
			t.Errorf("duty %#x: expected %d high ticks, got %d", duty, exp, m.High)
		}
		if duty != 0 && duty != 0xff {
			if p := b.MeasurePeriod(0); p != period {
				t.Errorf("duty %#x: expected period %d, got %d", duty, period, p)
			}
		}
		c.Dispose()
	}
}
