package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/womat/debug"
)

func TestLoadConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "spipwm")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	name := filepath.Join(dir, "config.yaml")
	data := `
timing:
  tick_period: 10
  half_period: 500
  settle: 100
peripheral:
  clock_divider: 3
scenario:
  duty_tolerance: 1.5
debug:
  flag: debug
  file: stdout
`
	if err = ioutil.WriteFile(name, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	c := NewConfig()
	c.Flag.ConfigFile = name
	if err = c.LoadConfig(); err != nil {
		t.Fatal(err)
	}
	if c.Timing.TickPeriod != 10 || c.Timing.HalfPeriod != 500 || c.Timing.Settle != 100 {
		t.Errorf("bad timing %+v", c.Timing)
	}
	if c.Peripheral.ClockDivider != 3 || c.Peripheral.Workers != 1 {
		t.Errorf("bad peripheral config %+v", c.Peripheral)
	}
	if c.ExpectedPeriod() != 1024 || c.DutyWindow() != 1024 {
		t.Errorf("expected period 1024, got %d (window %d)", c.ExpectedPeriod(), c.DutyWindow())
	}
	if c.Scenario.DutyTolerance != 1.5 || c.Scenario.PeriodTolerance != 50 {
		t.Errorf("bad scenario config %+v", c.Scenario)
	}
	if c.Debug.File != os.Stdout || c.Debug.Flag&debug.Debug == 0 {
		t.Errorf("bad debug config %+v", c.Debug)
	}
}

func TestLoadConfig_errors(t *testing.T) {
	c := NewConfig()
	c.Flag.ConfigFile = "/nonexistent/config.yaml"
	if err := c.LoadConfig(); err == nil {
		t.Error("expected an error for a missing file")
	}

	c = NewConfig()
	c.Flag.LogLevel = "verbose"
	if err := c.LoadConfig(); err == nil {
		t.Error("expected an error for an unknown log level")
	}

	c = NewConfig()
	c.Timing.TickPeriod = 0
	if err := c.LoadConfig(); err == nil {
		t.Error("expected an error for an invalid timing")
	}
}

func TestNewConfig(t *testing.T) {
	c := NewConfig()
	if err := c.LoadConfig(); err != nil {
		t.Fatal(err)
	}
	if c.ExpectedPeriod() != 13*256 {
		t.Fatalf("expected the reference period, got %d", c.ExpectedPeriod())
	}
}
