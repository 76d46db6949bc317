//go:build tinygo

// Command firmware is the demo the SoC boots into: it checks the demo
// vectors on the accelerator against the CPU and reports over the UART.
package main

import (
	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/harness"
	"dotpaccel/src/lib/uart"
)

//go:generate go run dotpaccel/src/tools/csrmap/cmd/csrgen -p main -b tinygo -o csr.go csr.csv

func main() {
	console := uart.NewWriter(uart.NewLiteX(CSRBaseUart))
	accel := dotp.NewAccelerator(dotp.MMIO(CSRBaseDotp))

	runner := harness.NewRunner(accel, console, harness.WithCPU(ConfigCpuHumanName))
	runner.Run(harness.DemoA, harness.DemoB)

	idle()
}

// idle parks the CPU once the report is out.  There is nothing to return to.
func idle() {
	for {
	}
}
