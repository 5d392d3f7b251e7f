package elevation

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/dave/odt/geo"
	"github.com/dave/odt/globals"
)

// Source looks up the elevation in feet for a single position.
type Source interface {
	Elevation(ctx context.Context, pos geo.Pos) (float64, error)
}

// Retry settings for a single point
type Retry struct {
	Limit   int           // attempts per point
	Delay   time.Duration // base delay between attempts
	Timeout time.Duration // per attempt
}

// policy waits Delay*2^a after a rate limited attempt and Delay*(a+1) after any other failure, where a
// is the zero based attempt number. last is set by the operation before backoff asks for the next delay.
type policy struct {
	base    time.Duration
	attempt int
	last    *Failure
}

func (p *policy) NextBackOff() time.Duration {
	a := p.attempt
	p.attempt++
	if p.last != nil && p.last.Kind == RateLimited {
		return p.base * time.Duration(1<<uint(a))
	}
	return p.base * time.Duration(a+1)
}

func (p *policy) Reset() {
	p.attempt = 0
	p.last = nil
}

// Lookup queries the source for pos, retrying failed attempts. A point that still fails when the
// attempts are used up (or fails permanently) gives a nil value and the last failure, not an error. The
// error is only set when ctx is done. onRetry, if not nil, is called before each wait.
func Lookup(ctx context.Context, src Source, pos geo.Pos, r Retry, onRetry func(*Failure, time.Duration)) (*int, *Failure, error) {
	limit := r.Limit
	if limit < 1 {
		limit = 1
	}
	p := &policy{base: r.Delay}
	b := backoff.WithContext(backoff.WithMaxRetries(p, uint64(limit-1)), ctx)

	var value int
	var last *Failure
	attempt := func() error {
		actx := ctx
		if r.Timeout > 0 {
			var cancel context.CancelFunc
			actx, cancel = context.WithTimeout(ctx, r.Timeout)
			defer cancel()
		}
		v, err := src.Elevation(actx, pos)
		if err == nil && !(v > globals.NO_DATA) {
			err = &Failure{Kind: Transient, Err: ErrNoData}
		}
		if err != nil {
			last = Classify(err)
			p.last = last
			if last.Kind == Permanent {
				return backoff.Permanent(last)
			}
			return last
		}
		value = int(math.Round(v))
		return nil
	}
	notify := func(err error, wait time.Duration) {
		if onRetry != nil {
			onRetry(Classify(err), wait)
		}
	}

	err := backoff.RetryNotify(attempt, b, notify)
	if ctx.Err() != nil {
		return nil, last, ctx.Err()
	}
	if err != nil {
		return nil, last, nil
	}
	return &value, nil, nil
}
