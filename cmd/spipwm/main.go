package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/db47h/spipwm"
	"github.com/db47h/spipwm/internal/config"
	"github.com/db47h/spipwm/internal/scenario"
	"github.com/urfave/cli/v2"
	"github.com/womat/debug"
)

const version = "0.1.0"

func main() {
	exitCode := 1
	defer func() {
		os.Exit(exitCode)
	}()

	cfg := config.NewConfig()

	// runScenario returns a cli action running f on a fresh peripheral.
	runScenario := func(f func(r *scenario.Runner) error) cli.ActionFunc {
		return func(ctx *cli.Context) error {
			r, err := scenario.New(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = r.Close() }()
			return f(r)
		}
	}

	cliApp := &cli.App{
		Name:    "spipwm",
		Usage:   "Verify the SPI controlled PWM peripheral in simulation",
		Version: version,
		UsageText: "spipwm [--config <file>] [--log standard|debug|trace] command" +
			"\n\nEXAMPLE:" +
			"\n\trun all scenarios with the settings in spipwm.yaml" +
			"\n\t\tspipwm --config spipwm.yaml all",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Destination: &cfg.Flag.ConfigFile, Usage: "load configuration from `FILE`"},
			&cli.StringFlag{Name: "log", Aliases: []string{"l"}, Destination: &cfg.Flag.LogLevel, Usage: "`LEVEL` defines the log level (standard|debug|trace)"},
		},
		Before: func(ctx *cli.Context) error {
			if err := cfg.LoadConfig(); err != nil {
				return err
			}
			debug.SetDebug(cfg.Debug.File, cfg.Debug.Flag)
			return nil
		},
		After: func(ctx *cli.Context) error {
			if f := cfg.Debug.File; f != nil && f != os.Stderr && f != os.Stdout {
				return f.Close()
			}
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:   "spi",
				Usage:  "write and read registers, including invalid transactions",
				Action: runScenario((*scenario.Runner).SPI),
			},
			{
				Name:   "duty",
				Usage:  "check PWM duty cycles of 0%, 50% and 100%",
				Action: runScenario((*scenario.Runner).Duty),
			},
			{
				Name:   "freq",
				Usage:  "check the PWM period",
				Action: runScenario((*scenario.Runner).Freq),
			},
			{
				Name:   "all",
				Usage:  "run all scenarios",
				Action: runScenario((*scenario.Runner).All),
			},
			{
				Name:      "send",
				Usage:     "send one transaction after reset and print the outputs",
				UsageText: "spipwm send --addr 0x04 --data 0x80",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "addr", Aliases: []string{"a"}, Required: true, Usage: "register `ADDRESS` (0-127)"},
					&cli.IntFlag{Name: "data", Aliases: []string{"d"}, Required: true, Usage: "`DATA` byte (0-255)"},
					&cli.BoolFlag{Name: "read", Aliases: []string{"r"}, Usage: "send a read transaction"},
				},
				Action: func(ctx *cli.Context) error {
					dir := spipwm.Write
					if ctx.Bool("read") {
						dir = spipwm.Read
					}
					return runScenario(func(r *scenario.Runner) error {
						r.Reset()
						if err := r.Send(dir, ctx.Int("addr"), ctx.Int("data"), 0); err != nil {
							return err
						}
						fmt.Printf("uo_out=0x%02X uio_out=0x%02X ticks=%d\n", r.Dev.UO.Read(), r.Dev.UIO.Read(), r.Dev.Ticks())
						return nil
					})(ctx)
				},
			},
		},
	}

	sort.Sort(cli.FlagsByName(cliApp.Flags))
	sort.Sort(cli.CommandsByName(cliApp.Commands))

	if err := cliApp.Run(os.Args); err != nil {
		debug.FatalLog.Print(err)
		return
	}
	exitCode = 0
}
