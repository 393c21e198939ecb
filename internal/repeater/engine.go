// Package repeater runs the timed repeat loop. The hot loop and the
// per-second reporter are separate goroutines joined by an errgroup: the
// loop runs cube passes for one wall-clock second (or one amplified
// batch) and counts one repetition per node visited, the reporter turns
// those counts into the big-number tallies the status line shows.
package repeater

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"intention/internal/counter"
	"intention/internal/intent"
)

// Timer selects how a "second" is measured.
type Timer int

const (
	// TimerExact rechecks the wall clock every pass.
	TimerExact Timer = iota
	// TimerInexact charges one displayed second per batch of Amplify
	// passes without touching the clock.
	TimerInexact
)

// ParseTimer interprets a --timer value.
func ParseTimer(s string) (Timer, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "EXACT":
		return TimerExact, nil
	case "INEXACT":
		return TimerInexact, nil
	default:
		return TimerExact, fmt.Errorf("timer %q: want EXACT or INEXACT", s)
	}
}

// Options tunes the run loop.
type Options struct {
	Duration  string // HH:MM:SS; empty or "INFINITY" runs unlimited
	Timer     Timer
	Amplify   uint64 // passes per batch with TimerInexact; min 1
	RestEvery int    // pause cadence in seconds; 0 disables
	RestFor   int    // pause length in seconds
	TargetHz  float64 // target cube passes/sec; 0 is unbounded
}

// Stats is the per-second snapshot handed to the report callback. The
// tallies are reused between calls; copy their strings if they must
// outlive the callback.
type Stats struct {
	Seconds    int64
	Iterations *counter.Tally // cumulative
	Frequency  *counter.Tally // this second
}

// Engine drives the repeat loop over an assembled intention.
type Engine struct {
	asm    *intent.Assembly
	opts   Options
	report func(Stats)
}

// New builds an engine. The report callback runs once per displayed second
// on the reporter goroutine; nil disables reporting.
func New(asm *intent.Assembly, opts Options, report func(Stats)) *Engine {
	if opts.Amplify == 0 {
		opts.Amplify = 1
	}
	if report == nil {
		report = func(Stats) {}
	}
	return &Engine{asm: asm, opts: opts, report: report}
}

// Run repeats until the duration elapses or ctx is canceled. Cancellation
// is a clean stop, not an error.
func (e *Engine) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	counts := make(chan uint64, 1)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(counts)
		return e.repeatLoop(ctx, counts)
	})
	g.Go(func() error {
		return e.reportLoop(ctx, cancel, counts)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// repeatLoop is the hot loop. It never allocates per pass: the scratch
// builder is reused and the cube data is fixed after assembly. Each pass
// counts one repetition per node it walks, so the per-second count it
// sends is passes times the node count.
func (e *Engine) repeatLoop(ctx context.Context, counts chan<- uint64) error {
	var scratch strings.Builder
	scratch.Grow(len(e.asm.Buffer) + 24)

	var interval time.Duration
	if e.opts.TargetHz > 0 {
		interval = time.Duration(float64(time.Second) / e.opts.TargetHz)
	}
	nextPass := time.Now()

	var freq uint64
	var secondsRun int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		start := freq
		if e.opts.Timer == TimerInexact {
			for i := uint64(0); i < e.opts.Amplify; i++ {
				freq = e.asm.Cube.Pass(freq, &scratch)
				if interval > 0 {
					if err := sleep(ctx, interval); err != nil {
						return err
					}
				} else if i%1024 == 0 && ctx.Err() != nil {
					return ctx.Err()
				}
			}
		} else {
			end := time.Now().Add(time.Second)
			for now := time.Now(); now.Before(end); now = time.Now() {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				if interval > 0 && now.Before(nextPass) {
					wait := nextPass.Sub(now)
					if until := end.Sub(now); until < wait {
						wait = until
					}
					if err := sleep(ctx, wait); err != nil {
						return err
					}
					continue
				}
				freq = e.asm.Cube.Pass(freq, &scratch)
				if interval > 0 {
					nextPass = now.Add(interval)
				}
			}
		}

		select {
		case counts <- freq - start:
		case <-ctx.Done():
			return ctx.Err()
		}
		secondsRun++

		if e.opts.RestEvery > 0 && e.opts.RestFor > 0 && secondsRun%e.opts.RestEvery == 0 {
			for r := 0; r < e.opts.RestFor; r++ {
				if err := sleep(ctx, time.Second); err != nil {
					return err
				}
				select {
				case counts <- 0:
				case <-ctx.Done():
					return ctx.Err()
				}
				secondsRun++
			}
		}
	}
}

// reportLoop charges one displayed second per batch and stops the run when
// the formatted elapsed time matches the duration, as the original did.
// The displayed frequency is node repetitions times the memory and hash
// multipliers.
func (e *Engine) reportLoop(ctx context.Context, cancel context.CancelFunc, counts <-chan uint64) error {
	total := counter.NewTally()
	second := counter.NewTally()
	var seconds int64

	limited := e.opts.Duration != "" && e.opts.Duration != "INFINITY"
	for {
		select {
		case reps, ok := <-counts:
			if !ok {
				return nil
			}
			second.SetProduct(reps, e.asm.Multiplier, e.asm.HashMultiplier)
			total.Add(second)
			seconds++
			e.report(Stats{Seconds: seconds, Iterations: total, Frequency: second})
			if limited && counter.FormatTime(seconds) == e.opts.Duration {
				cancel()
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
