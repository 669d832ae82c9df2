package sim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/san-kum/oscillab/internal/dynamo"
	"github.com/san-kum/oscillab/internal/params"
)

// Run describes one headless recording.
type Run struct {
	Options  Options
	Params   dynamo.Params
	Ranges   map[dynamo.Field]params.Range
	Duration float64
	FPS      float64
}

// Recording is the outcome of a headless run.
type Recording struct {
	Mode   dynamo.Mode
	Params dynamo.Params
	Frames []dynamo.Kinematics
	Driver *Driver
}

// Samples returns the recorded values of one signal.
func (r *Recording) Samples(s dynamo.Signal) []dynamo.Sample {
	out := make([]dynamo.Sample, len(r.Frames))
	for i, k := range r.Frames {
		out[i] = dynamo.Sample{Time: k.Time, Value: k.Get(s)}
	}
	return out
}

// Record drives a fresh driver with a manual scheduler at a fixed frame
// period until the clock reaches run.Duration.
func Record(ctx context.Context, run Run) (*Recording, error) {
	if run.Duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", run.Duration)
	}
	if run.FPS <= 0 {
		return nil, fmt.Errorf("fps must be positive, got %f", run.FPS)
	}
	ranges := run.Ranges
	if ranges == nil {
		ranges = params.DefaultRanges()
	}

	store := params.New(run.Params, ranges)
	sched := NewManualScheduler()
	d := New(run.Options, store, sched, nil, nil)

	rec := &Recording{Mode: d.Mode(), Params: store.Params(), Driver: d}
	d.AddObserver(ObserverFunc(func(f Frame) {
		rec.Frames = append(rec.Frames, f.Kinematics)
	}))

	if err := d.Start(); err != nil {
		return nil, err
	}

	period := 1 / run.FPS
	ts := 0.0
	for d.Clock().Elapsed < run.Duration {
		select {
		case <-ctx.Done():
			return rec, ctx.Err()
		default:
		}
		h, ok := sched.Pending()
		if !ok {
			return rec, fmt.Errorf("driver stopped requesting frames after frame %d", h)
		}
		sched.Fire()
		d.Tick(ts)
		ts += period
	}
	d.Pause()

	return rec, nil
}

// RecordAll runs several recordings concurrently. Each run gets its own
// driver, so nothing is shared between goroutines.
func RecordAll(ctx context.Context, runs []Run) ([]*Recording, error) {
	results := make([]*Recording, len(runs))
	errs := make([]error, len(runs))

	var wg sync.WaitGroup
	for i := range runs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			results[idx], errs[idx] = Record(ctx, runs[idx])
		}(i)
	}

	wg.Wait()

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return results, nil
}
