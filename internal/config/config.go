// Package config holds the configuration of the spipwm command.
package config

import (
	"io"
	"os"

	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/periph"
	"github.com/pkg/errors"
	"github.com/womat/debug"
	"gopkg.in/yaml.v2"
)

// Config defines the struct of the global config and of the configuration file.
type Config struct {
	Timing     spipwm.Timing  `yaml:"timing"`
	Peripheral periph.Config  `yaml:"peripheral"`
	Scenario   ScenarioConfig `yaml:"scenario"`
	Debug      DebugConfig    `yaml:"debug"`
	Flag       FlagConfig     `yaml:"-"`
}

// FlagConfig defines the configured flags (parameters).
type FlagConfig struct {
	ConfigFile string
	LogLevel   string
}

// ScenarioConfig defines the parameters of the verification scenarios.
type ScenarioConfig struct {
	// ResetTicks is the number of ticks rst_n is held low, then high.
	ResetTicks uint `yaml:"reset_ticks"`
	// Gap is the number of ticks between transactions.
	Gap uint `yaml:"gap"`
	// Soak is the number of ticks to run after each duty cycle change.
	Soak uint `yaml:"soak"`
	// DutyWindow is the duty cycle sampling window in ticks. 0 means one PWM
	// period.
	DutyWindow uint64 `yaml:"duty_window"`
	// DutyTolerance is the duty cycle tolerance in percent.
	DutyTolerance float64 `yaml:"duty_tolerance"`
	// PeriodTolerance is the period tolerance in ticks.
	PeriodTolerance uint64 `yaml:"period_tolerance"`
	// PeriodLimit is the maximum number of ticks to spend measuring a period.
	// 0 means no limit.
	PeriodLimit uint64 `yaml:"period_limit"`
}

// DebugConfig defines the struct of the debug configuration and configuration file.
type DebugConfig struct {
	File       io.WriteCloser `yaml:"-"`
	Flag       int            `yaml:"-"`
	FlagString string         `yaml:"flag"`
	FileString string         `yaml:"file"`
}

// NewConfig returns the reference configuration.
func NewConfig() *Config {
	return &Config{
		Timing:     spipwm.DefaultTiming(),
		Peripheral: periph.DefaultConfig(),
		Scenario: ScenarioConfig{
			ResetTicks:      5,
			Gap:             100,
			Soak:            30000,
			DutyTolerance:   2,
			PeriodTolerance: 50,
			PeriodLimit:     1 << 20,
		},
		Debug: DebugConfig{
			FileString: "stderr",
			FlagString: "standard",
		},
	}
}

// LoadConfig reads the configuration file, if any, applies the command line
// overrides and opens the debug output.
func (c *Config) LoadConfig() error {
	if c.Flag.ConfigFile != "" {
		if err := c.readConfigFile(); err != nil {
			return errors.Wrapf(err, "error reading config file %q", c.Flag.ConfigFile)
		}
	}

	if c.Flag.LogLevel != "" {
		c.Debug.FlagString = c.Flag.LogLevel
	}
	if err := c.setDebugConfig(); err != nil {
		return errors.Wrapf(err, "unable to open debug file %q", c.Debug.FileString)
	}

	if err := c.Timing.Validate(); err != nil {
		return errors.Wrap(err, "timing")
	}
	return nil
}

func (c *Config) readConfigFile() error {
	file, err := os.Open(c.Flag.ConfigFile)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	return yaml.NewDecoder(file).Decode(c)
}

func (c *Config) setDebugConfig() (err error) {
	switch c.Debug.FlagString {
	case "trace", "full":
		c.Debug.Flag = debug.Full
	case "debug":
		c.Debug.Flag = debug.Warning | debug.Info | debug.Error | debug.Fatal | debug.Debug
	case "standard":
		c.Debug.Flag = debug.Standard
	default:
		return errors.Errorf("unknown log level %q", c.Debug.FlagString)
	}

	switch c.Debug.FileString {
	case "stderr":
		c.Debug.File = os.Stderr
	case "stdout":
		c.Debug.File = os.Stdout
	default:
		if c.Debug.File, err = os.OpenFile(c.Debug.FileString, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666); err != nil {
			return
		}
	}
	return
}

// ExpectedPeriod returns the expected PWM period in ticks.
func (c *Config) ExpectedPeriod() uint64 {
	return c.Peripheral.Period()
}

// DutyWindow returns the duty cycle sampling window in ticks.
func (c *Config) DutyWindow() uint64 {
	if c.Scenario.DutyWindow == 0 {
		return c.ExpectedPeriod()
	}
	return c.Scenario.DutyWindow
}
