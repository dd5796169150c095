// Package scenario implements the end-to-end verification scenarios of the
// reference peripheral.
package scenario

import (
	"math"

	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/internal/config"
	"github.com/db47h/spipwm/periph"
	"github.com/pkg/errors"
	"github.com/womat/debug"
)

// Runner runs scenarios against a simulated peripheral.
type Runner struct {
	Dev   *periph.Device
	Bench *spipwm.Bench
	cfg   *config.Config
}

// New returns a new Runner for the given configuration. Callers must call Close
// once done.
func New(cfg *config.Config) (*Runner, error) {
	d, err := periph.New(cfg.Peripheral)
	if err != nil {
		return nil, err
	}
	return &Runner{Dev: d, Bench: d.Bench(cfg.Timing), cfg: cfg}, nil
}

// Close releases the simulator resources.
func (r *Runner) Close() error {
	r.Dev.Dispose()
	return nil
}

// Reset resets the peripheral.
func (r *Runner) Reset() {
	debug.DebugLog.Print("reset")
	r.Dev.Reset(r.cfg.Scenario.ResetTicks)
}

// Send sends a transaction then waits wait ticks.
func (r *Runner) Send(dir spipwm.Direction, addr, data int, wait uint) error {
	t := spipwm.Transaction{Dir: dir, Addr: addr, Data: data}
	debug.InfoLog.Printf("%s transaction, address 0x%02X, data 0x%02X", dir, addr, data)
	if _, err := r.Bench.Send(t); err != nil {
		return err
	}
	r.Dev.Wait(wait)
	return nil
}

type step struct {
	dir        spipwm.Direction
	addr, data int
	wait       uint
}

func (r *Runner) run(steps []step) error {
	for _, s := range steps {
		if err := r.Send(s.dir, s.addr, s.data, s.wait); err != nil {
			return err
		}
	}
	return nil
}

func expect(port string, got uint64, exp uint64) error {
	if got != exp {
		return errors.Errorf("expected %s = 0x%02X, got 0x%02X", port, exp, got)
	}
	return nil
}

// SPI writes and reads registers, including invalid transactions, and checks
// the outputs.
func (r *Runner) SPI() error {
	debug.InfoLog.Print("start SPI test")
	r.Reset()

	if err := r.Send(spipwm.Write, periph.RegOutEnable, 0xf0, 0); err != nil {
		return err
	}
	if err := expect("uo_out", r.Dev.UO.Read(), 0xf0); err != nil {
		return err
	}
	r.Dev.Wait(1000)

	if err := r.Send(spipwm.Write, periph.RegIOEnable, 0xcc, 0); err != nil {
		return err
	}
	if err := expect("uio_out", r.Dev.UIO.Read(), 0xcc); err != nil {
		return err
	}

	gap, soak := r.cfg.Scenario.Gap, r.cfg.Scenario.Soak
	if err := r.run([]step{
		{spipwm.Write, 0x30, 0xaa, gap},
		{spipwm.Read, 0x30, 0xbe, gap},
	}); err != nil {
		return err
	}
	if err := expect("uo_out", r.Dev.UO.Read(), 0xf0); err != nil {
		return err
	}

	if err := r.run([]step{
		{spipwm.Read, 0x41, 0xef, gap},
		{spipwm.Write, periph.RegOutPWM, 0xff, gap},
		{spipwm.Write, periph.RegDuty, 0xcf, soak},
		{spipwm.Write, periph.RegDuty, 0xff, soak},
		{spipwm.Write, periph.RegDuty, 0x00, soak},
		{spipwm.Write, periph.RegDuty, 0x01, soak},
	}); err != nil {
		return err
	}
	if err := expect("uio_out", r.Dev.UIO.Read(), 0xcc); err != nil {
		return err
	}

	debug.InfoLog.Print("SPI test completed successfully")
	return nil
}

func (r *Runner) setupPWM(duty int) error {
	if err := r.Send(spipwm.Write, periph.RegOutEnable, 0x01, 0); err != nil {
		return err
	}
	if err := r.Send(spipwm.Write, periph.RegOutPWM, 0x01, 0); err != nil {
		return err
	}
	if duty >= 0 {
		return r.Send(spipwm.Write, periph.RegDuty, duty, 0)
	}
	return nil
}

// CheckDuty sets the duty cycle register and checks the measured duty cycle of
// uo_out[0] against expected, in percent.
func (r *Runner) CheckDuty(duty int, expected float64) error {
	if err := r.Send(spipwm.Write, periph.RegDuty, duty, r.cfg.Scenario.Gap); err != nil {
		return err
	}
	measured := r.Bench.MeasureDuty(0, r.cfg.DutyWindow())
	debug.InfoLog.Printf("duty 0x%02X: expected %v%%, measured %.1f%%", duty, expected, measured)
	if math.Abs(measured-expected) > r.cfg.Scenario.DutyTolerance {
		return errors.Errorf("duty 0x%02X: expected %v%%, got %.1f%%", duty, expected, measured)
	}
	return nil
}

// Duty checks duty cycles of 0%, 50% and 100%.
func (r *Runner) Duty() error {
	debug.InfoLog.Print("start PWM duty cycle test")
	r.Reset()
	if err := r.setupPWM(-1); err != nil {
		return err
	}
	for _, d := range []struct {
		duty int
		exp  float64
	}{{0x00, 0}, {0x80, 50}, {0xff, 100}} {
		if err := r.CheckDuty(d.duty, d.exp); err != nil {
			return err
		}
	}
	debug.InfoLog.Print("PWM duty cycle test passed")
	return nil
}

// Freq checks the PWM period at 50% duty cycle.
func (r *Runner) Freq() error {
	debug.InfoLog.Print("start PWM frequency test")
	r.Reset()
	if err := r.setupPWM(0x80); err != nil {
		return err
	}
	exp := r.cfg.ExpectedPeriod()
	period, err := r.Bench.MeasurePeriodWithin(0, r.cfg.Scenario.PeriodLimit)
	if err != nil {
		return err
	}
	debug.InfoLog.Printf("measured: %d clocks, expected: %d", period, exp)
	diff := period - exp
	if exp > period {
		diff = exp - period
	}
	if diff >= r.cfg.Scenario.PeriodTolerance {
		return errors.Errorf("period mismatch: got %d, expected %d", period, exp)
	}
	debug.InfoLog.Print("PWM frequency test passed")
	return nil
}

// Idempotent checks that sending the same write twice leaves the outputs in the
// same state as sending it once.
func (r *Runner) Idempotent(addr, data int) error {
	r.Reset()
	if err := r.Send(spipwm.Write, addr, data, 0); err != nil {
		return err
	}
	uo, uio := r.Dev.UO.Read(), r.Dev.UIO.Read()
	if err := r.Send(spipwm.Write, addr, data, 0); err != nil {
		return err
	}
	if err := expect("uo_out", r.Dev.UO.Read(), uo); err != nil {
		return errors.Wrap(err, "after second write")
	}
	return errors.Wrap(expect("uio_out", r.Dev.UIO.Read(), uio), "after second write")
}

// All runs the SPI, Duty and Freq scenarios.
func (r *Runner) All() error {
	for _, f := range []func() error{r.SPI, r.Duty, r.Freq} {
		if err := f(); err != nil {
			return err
		}
	}
	return nil
}
