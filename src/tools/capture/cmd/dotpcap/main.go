package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tty "github.com/mattn/go-tty"
	"golang.org/x/sync/errgroup"

	"dotpaccel/src/lib/logging"
	"dotpaccel/src/tools/capture"
)

var port = flag.String("port", "", "serial device of the board, e.g. /dev/ttyUSB0 (set the baud rate with stty)")
var outfile = flag.String("out", "uart_log.txt", "capture file")
var appendOut = flag.Bool("append", false, "append to the capture file instead of truncating it")
var check = flag.Bool("check", false, "exit non-zero unless the last demo run in the capture matched")
var verbosity = flag.Int("v", 0, "log verbosity")

func main() {
	flag.Parse()
	log := logging.New(os.Stderr, *verbosity)
	if *port == "" {
		fmt.Fprintln(os.Stderr, "usage: dotpcap -port <device> [-out file] [-append] [-check]")
		os.Exit(2)
	}

	mode := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if *appendOut {
		mode = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	out, err := os.OpenFile(*outfile, mode, 0644)
	if err != nil {
		log.Error(err, "unable to open capture file")
		os.Exit(1)
	}
	defer out.Close()

	t, err := tty.OpenDevice(*port)
	if err != nil {
		log.Error(err, "unable to open serial port", "port", *port)
		os.Exit(1)
	}
	restore := t.MustRaw()

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("capturing, interrupt to stop", "port", *port, "out", *outfile)
	var seen bytes.Buffer
	g, ctx := errgroup.WithContext(sigCtx)
	g.Go(func() error {
		err := capture.Copy(t.Input(), out, os.Stdout, &seen)
		if sigCtx.Err() != nil {
			//interrupted, the read failed because the port was closed
			return nil
		}
		stop()
		return err
	})
	g.Go(func() error {
		<-ctx.Done()
		//closing the device is the only way to unblock the read
		restore()
		return t.Close()
	})
	if err := g.Wait(); err != nil {
		log.Error(err, "capture failed")
		os.Exit(1)
	}
	log.Info("capture finished", "bytes", seen.Len())

	if !*check {
		return
	}
	rep, err := capture.Last(&seen)
	if err != nil {
		log.Error(err, "nothing to check")
		os.Exit(1)
	}
	log.Info("last run", "cpu", rep.CPU, "software", rep.Software, "hardware", rep.Hardware, "verdict", rep.Verdict.String())
	if rep.Verdict != capture.Match {
		os.Exit(1)
	}
}
