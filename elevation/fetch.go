package elevation

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dave/odt/checkpoint"
	"github.com/dave/odt/geo"
	"github.com/dave/odt/metrics"
	"github.com/dave/odt/profile"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
)

// Fetcher looks up the elevation of every point on the path.
type Fetcher struct {
	Source      Source
	Store       *checkpoint.Store // checkpoint saved after every batch, nil to disable
	Concurrency int               // lookups in flight at once, across the whole run
	BatchSize   int               // points between checkpoints
	Retry       Retry
	Progress    time.Duration // interval between progress lines, 0 for only the final line
	Log         logrus.FieldLogger
	Metrics     *metrics.Metrics
}

type Result struct {
	Elevations profile.Elevations
	Resumed    int // points loaded from the checkpoint
	Fetched    int // points looked up in this run
	Failed     int // points in this run that failed every attempt
	Elapsed    time.Duration
}

// Fetch returns one elevation per point, nil where every attempt failed. With a resume checkpoint the
// checkpointed values are kept and lookups start at resume.Done; no earlier point is queried again.
//
// Points are processed in contiguous batches of BatchSize. All lookups in a batch finish before the
// checkpoint is saved and the next batch starts, so a saved checkpoint always covers whole batches. An
// error is only returned when ctx is done or a checkpoint can't be saved.
func (f *Fetcher) Fetch(ctx context.Context, points []geo.Pos, resume *checkpoint.Checkpoint) (*Result, error) {
	total := len(points)
	elevations := make(profile.Elevations, total)

	var start int
	if resume != nil {
		if err := resume.Check(total); err != nil {
			return nil, err
		}
		start = resume.Done
		copy(elevations, resume.Elevations[:start])
	}

	batchSize := f.BatchSize
	if batchSize < 1 {
		batchSize = total
	}
	concurrency := f.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	log := f.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	prog := newProgress(total, start, elevations[:start].Missing(), f.Metrics)
	stop := prog.start(log, f.Progress)
	defer stop()

	gate := semaphore.NewWeighted(int64(concurrency))
	var failed atomic.Int64

	for batchStart := start; batchStart < total; {
		batchEnd := batchStart + batchSize
		if batchEnd > total {
			batchEnd = total
		}

		var wg sync.WaitGroup
		for i := batchStart; i < batchEnd; i++ {
			if err := gate.Acquire(ctx, 1); err != nil {
				break
			}
			wg.Add(1)
			// task i is the only writer of elevations[i]
			go func(i int) {
				defer wg.Done()
				defer gate.Release(1)
				began := time.Now()
				value, failure, err := Lookup(ctx, f.Source, points[i], f.Retry, prog.retry)
				if err != nil {
					return
				}
				elevations[i] = value
				prog.complete(value != nil, time.Since(began))
				if failure != nil {
					failed.Add(1)
					log.WithError(failure).Debugf("point %d (%.6f, %.6f) failed", i, points[i].Lon, points[i].Lat)
				}
			}(i)
		}
		wg.Wait()

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("fetching batch %d-%d: %w", batchStart, batchEnd, err)
		}

		if f.Store != nil {
			if err := f.Store.Save(checkpoint.Checkpoint{Elevations: elevations, Done: batchEnd}); err != nil {
				return nil, fmt.Errorf("saving checkpoint at %d: %w", batchEnd, err)
			}
			log.Debugf("checkpoint saved at %d", batchEnd)
		}
		batchStart = batchEnd
	}

	stop()
	return &Result{
		Elevations: elevations,
		Resumed:    start,
		Fetched:    total - start,
		Failed:     int(failed.Load()),
		Elapsed:    time.Since(prog.began),
	}, nil
}
