// Command dotpsim runs the firmware's demo on the host against a simulated
// accelerator, optionally followed by a sweep of random operands.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"

	"dotpaccel/src/config"
	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/harness"
	"dotpaccel/src/harness/metrics"
	"dotpaccel/src/harness/sweep"
	"dotpaccel/src/lib/logging"
	"dotpaccel/src/lib/uart"
	"dotpaccel/src/sim"
)

var configFile = flag.String("c", "", "YAML config file (defaults are used without one)")
var ttyPath = flag.String("p", "", "write the demo output to this tty instead of stdout")
var verbosity = flag.Int("v", 0, "log verbosity")
var runs = flag.Int("sweep", -1, "random operand pairs to check after the demo (overrides sweep.runs)")
var showMetrics = flag.Bool("metrics", false, "print the run's metrics to stderr in the prometheus text format")
var showTrace = flag.Bool("trace", false, "log every register access of the demo run")

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	log := logging.New(os.Stderr, *verbosity).WithValues("run", uuid.New().String())

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Error(err, "unable to load config")
			return 2
		}
	}
	if *runs >= 0 {
		cfg.Sweep.Runs = *runs
	}
	a, b, err := cfg.Operands()
	if err != nil {
		log.Error(err, "bad operands")
		return 2
	}

	var ch uart.Channel = &uart.Stream{W: os.Stdout}
	if *ttyPath != "" {
		t, err := uart.OpenTTY(*ttyPath)
		if err != nil {
			log.Error(err, "unable to open output tty")
			return 2
		}
		defer t.Close()
		ch = t
	}

	m := metrics.New()
	device := sim.New(cfg.SimConfig())
	dopts := []dotp.Option{dotp.WithObserver(m)}
	if cfg.Simulator.ClockedPulse {
		dopts = append(dopts, dotp.WithDelay(device))
	}
	runner := harness.NewRunner(dotp.NewAccelerator(device, dopts...), uart.NewWriter(ch),
		harness.WithCPU(cfg.CPU),
		harness.WithLogger(log),
		harness.WithRecorder(m),
		harness.WithMaxPolls(cfg.Driver.MaxPolls))

	status := 0
	rep, err := runner.Run(a, b)
	switch {
	case errors.Is(err, dotp.ErrNotDone):
		status = 1
	case err != nil:
		log.Error(err, "demo failed")
		return 1
	case !rep.Match:
		status = 1
	}
	if *showTrace {
		for _, acc := range device.Trace() {
			log.Info("access", "cycle", acc.Cycle, "kind", acc.Kind.String(), "register", acc.Register.String(),
				"value", fmt.Sprintf("0x%08x", acc.Value), "state", acc.State.String())
		}
	}
	if perr := sim.CheckProtocol(device.Trace()); perr != nil && err == nil {
		log.Error(perr, "driver broke the register protocol")
		status = 1
	}
	for _, v := range device.Violations() {
		log.Error(sim.ErrProtocol, "violation", "detail", v.String())
		status = 1
	}

	if cfg.Sweep.Runs > 0 {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		sum, err := sweep.Run(ctx, sweep.Options{
			Runs:         cfg.Sweep.Runs,
			Workers:      cfg.Sweep.Workers,
			Seed:         cfg.Sweep.Seed,
			Sim:          cfg.SimConfig(),
			MaxPolls:     cfg.Driver.MaxPolls,
			ClockedPulse: cfg.Simulator.ClockedPulse,
			Recorder:     m,
			Observer:     m,
			Log:          log.WithName("sweep"),
		})
		log.Info("sweep finished", "runs", sum.Runs, "mismatches", sum.Mismatches,
			"timeouts", sum.Timeouts, "protocol", sum.Protocol)
		for _, f := range sum.Failures {
			log.Info("mismatch", "a", f.A, "b", f.B, "software", f.Software, "hardware", f.Hardware)
		}
		if err != nil {
			log.Error(err, "sweep stopped")
			status = 1
		}
		if sum.Mismatches > 0 || sum.Protocol > 0 {
			status = 1
		}
	}

	if *showMetrics {
		if err := m.WriteText(os.Stderr); err != nil {
			log.Error(err, "unable to write metrics")
		}
	}
	return status
}
