package sweep

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/harness/metrics"
	"dotpaccel/src/sim"
)

func TestCleanSweep(t *testing.T) {
	m := metrics.New()
	sum, err := Run(context.Background(), Options{
		Runs: 500, Workers: 4, Seed: 3,
		Recorder: m, Observer: m,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Runs != 500 || sum.Mismatches != 0 || sum.Protocol != 0 || sum.Timeouts != 0 {
		t.Errorf("expected 500 clean runs, got %+v", sum)
	}
	if v := testutil.ToFloat64(m.ChecksTotal); v != 500 {
		t.Errorf("expected 500 checks recorded, got %v", v)
	}
}

func TestFaultySweep(t *testing.T) {
	sum, err := Run(context.Background(), Options{
		Runs: 50, Workers: 3, Seed: 3,
		Sim: sim.Config{Fault: sim.ResultOffset(1)},
	})
	if err != nil {
		t.Fatalf("a mismatch is not an error, got %v", err)
	}
	if sum.Mismatches != 50 {
		t.Errorf("expected every run to mismatch, got %d", sum.Mismatches)
	}
	if len(sum.Failures) != MaxFailures {
		t.Errorf("expected %d kept failures, got %d", MaxFailures, len(sum.Failures))
	}
	for _, f := range sum.Failures {
		if f.Hardware != f.Software+1 {
			t.Errorf("unexpected failure %+v", f)
		}
	}
}

// The kept failures are the earliest runs, whatever finishes first.
func TestFailuresInRunOrder(t *testing.T) {
	sweepWith := func(workers int) Summary {
		sum, err := Run(context.Background(), Options{
			Runs: 200, Workers: workers, Seed: 11,
			Sim: sim.Config{Fault: sim.ResultOffset(-1)},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return sum
	}
	serial := sweepWith(1)
	if len(serial.Failures) != MaxFailures {
		t.Fatalf("expected %d kept failures, got %d", MaxFailures, len(serial.Failures))
	}
	for _, workers := range []int{3, 8} {
		if got := sweepWith(workers); !reflect.DeepEqual(got, serial) {
			t.Errorf("%d workers: expected %+v but got %+v", workers, serial, got)
		}
	}
}

// A start held longer than the device takes to finish makes it compute
// twice; the sweep must notice.
func TestClockedPulseRetrigger(t *testing.T) {
	sum, err := Run(context.Background(), Options{
		Runs: 20, Workers: 2,
		Sim:          sim.Config{Latency: dotp.StartPulseCycles / 4},
		ClockedPulse: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Protocol != 20 {
		t.Errorf("expected every run to retrigger, got %+v", sum)
	}

	sum, err = Run(context.Background(), Options{
		Runs: 20, Workers: 2,
		Sim:          sim.Config{Latency: 4 * dotp.StartPulseCycles},
		ClockedPulse: true,
	})
	if err != nil || sum.Protocol != 0 || sum.Mismatches != 0 {
		t.Errorf("expected a clean sweep with a slow device, got %+v %v", sum, err)
	}
}

func TestHungSweep(t *testing.T) {
	sum, err := Run(context.Background(), Options{
		Runs: 100, Workers: 2,
		Sim:      sim.Config{Hang: true},
		MaxPolls: 10,
	})
	if !errors.Is(err, dotp.ErrNotDone) {
		t.Fatalf("expected ErrNotDone, got %v", err)
	}
	if sum.Timeouts < 1 || sum.Runs > 2 {
		t.Errorf("expected the sweep to stop at the first timeouts, got %+v", sum)
	}
}

func TestCancelledSweep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, Options{Runs: 1000000, Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
