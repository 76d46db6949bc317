//go:build linux

// Command dotpmmio runs the demo against the real accelerator from Linux
// on the SoC, mapping its CSRs through /dev/mem.  The register addresses
// come from the csr.csv of the gateware build.
package main

import (
	"flag"
	"os"

	"dotpaccel/src/config"
	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/harness"
	"dotpaccel/src/lib/logging"
	"dotpaccel/src/lib/uart"
	"dotpaccel/src/tools/csrmap"
)

var configFile = flag.String("c", "", "YAML config file")
var csrFile = flag.String("csr", "", "csr.csv of the gateware (overrides csr.file)")
var verbosity = flag.Int("v", 0, "log verbosity")

func main() {
	flag.Parse()
	log := logging.New(os.Stderr, *verbosity)

	cfg := config.Default()
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			log.Error(err, "unable to load config")
			os.Exit(2)
		}
	}
	if *csrFile != "" {
		cfg.CSR.File = *csrFile
	}
	if cfg.CSR.File == "" {
		log.Info("usage: dotpmmio -csr <csr.csv> [-c config.yaml]")
		os.Exit(2)
	}
	a, b, err := cfg.Operands()
	if err != nil {
		log.Error(err, "bad operands")
		os.Exit(2)
	}

	fp, err := os.Open(cfg.CSR.File)
	if err != nil {
		log.Error(err, "unable to open csr map")
		os.Exit(2)
	}
	m, err := csrmap.Parse(fp)
	fp.Close()
	if err != nil {
		log.Error(err, "unable to parse csr map", "file", cfg.CSR.File)
		os.Exit(2)
	}
	base, layout, err := m.DotProductLayout(cfg.CSR.Prefix)
	if err != nil {
		log.Error(err, "no accelerator in csr map", "prefix", cfg.CSR.Prefix)
		os.Exit(2)
	}
	cpu := cfg.CPU
	if c, ok := m.Constant("config_cpu_human_name"); ok {
		cpu = c.Value
	}

	mem, err := dotp.OpenDevMem(cfg.CSR.Device, base, layout)
	if err != nil {
		log.Error(err, "unable to map accelerator", "base", base)
		os.Exit(1)
	}
	log.V(1).Info("mapped accelerator", "device", cfg.CSR.Device, "base", base, "span", layout.Span())

	runner := harness.NewRunner(dotp.NewAccelerator(mem), uart.NewWriter(&uart.Stream{W: os.Stdout}),
		harness.WithCPU(cpu),
		harness.WithLogger(log),
		harness.WithMaxPolls(cfg.Driver.MaxPolls))
	rep, err := runner.Run(a, b)
	mem.Close()
	if err != nil || !rep.Match {
		os.Exit(1)
	}
}
