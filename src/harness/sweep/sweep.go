package sweep

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/go-logr/logr"
	"golang.org/x/sync/errgroup"

	"dotpaccel/src/hardware/dotp"
	"dotpaccel/src/harness"
	"dotpaccel/src/lib/dot"
	"dotpaccel/src/sim"
)

// Options for a sweep of random operands against simulated accelerators.
type Options struct {
	Runs     int
	Workers  int
	Seed     int64
	Sim      sim.Config
	MaxPolls int
	// ClockedPulse holds start for simulator clock cycles instead of CPU
	// spin iterations the simulator never sees.
	ClockedPulse bool

	Recorder harness.Recorder
	Observer dotp.Observer
	Log      logr.Logger
}

// Summary of a sweep.  Failures keeps the MaxFailures earliest mismatching
// runs, in run order.
type Summary struct {
	Runs       int
	Mismatches int
	Timeouts   int
	Protocol   int
	Failures   []harness.Report
}

const MaxFailures = 10

// Run checks opts.Runs random operand pairs.  Each worker owns its own
// simulator and driver, so no accelerator is ever shared.  Operands come
// from one seeded source, so a completed sweep gives the same Summary for
// a given seed whatever the number of workers.  A sweep stopped early by a
// timeout or cancellation covers a scheduling dependent set of runs.
func Run(ctx context.Context, opts Options) (Summary, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Log.GetSink() == nil {
		opts.Log = logr.Discard()
	}

	type job struct {
		n    int
		a, b dot.Vector
	}
	jobs := make(chan job)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(jobs)
		r := rand.New(rand.NewSource(opts.Seed))
		for i := 0; i < opts.Runs; i++ {
			j := job{n: i}
			for k := 0; k < dot.Len; k++ {
				j.a[k] = int32(r.Uint32())
				j.b[k] = int32(r.Uint32())
			}
			select {
			case jobs <- j:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	type failure struct {
		n   int
		rep harness.Report
	}
	var mu sync.Mutex
	var sum Summary
	var failures []failure
	for w := 0; w < opts.Workers; w++ {
		worker := w
		g.Go(func() error {
			s := sim.New(opts.Sim)
			var dopts []dotp.Option
			if opts.ClockedPulse {
				dopts = append(dopts, dotp.WithDelay(s))
			}
			if opts.Observer != nil {
				dopts = append(dopts, dotp.WithObserver(opts.Observer))
			}
			runner := harness.NewRunner(dotp.NewAccelerator(s, dopts...), nil,
				harness.WithLogger(opts.Log.WithValues("worker", worker)),
				harness.WithRecorder(opts.Recorder),
				harness.WithMaxPolls(opts.MaxPolls))

			for j := range jobs {
				s.ClearTrace()
				starts := s.Starts()
				rep, err := runner.Check(j.a, j.b)
				perr := sim.CheckProtocol(s.Trace())
				if perr == nil && len(s.Violations()) > 0 {
					perr = fmt.Errorf("%w: %s", sim.ErrProtocol, s.Violations()[0])
				}
				if perr == nil && s.Starts()-starts != 1 {
					perr = fmt.Errorf("%w: device started %d times for one operation", sim.ErrProtocol, s.Starts()-starts)
				}

				mu.Lock()
				sum.Runs++
				switch {
				case err != nil:
					sum.Timeouts++
				case !rep.Match:
					sum.Mismatches++
					failures = append(failures, failure{n: j.n, rep: rep})
					if len(failures) > MaxFailures {
						sort.Slice(failures, func(x, y int) bool { return failures[x].n < failures[y].n })
						failures = failures[:MaxFailures]
					}
				}
				if perr != nil && err == nil {
					sum.Protocol++
				}
				mu.Unlock()

				if perr != nil && err == nil {
					opts.Log.Error(perr, "driver broke the register protocol", "worker", worker)
				}
				if err != nil {
					// the device is in an unknown state, stop the sweep
					return fmt.Errorf("worker %d: %w", worker, err)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	sort.Slice(failures, func(x, y int) bool { return failures[x].n < failures[y].n })
	for _, f := range failures {
		sum.Failures = append(sum.Failures, f.rep)
	}
	return sum, err
}
