package elevation

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/dave/odt/metrics"
	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
)

// progress counts completed lookups. Tasks only touch the atomic counters; the reporter goroutine is the
// only reader that logs. Rates are measured from the start of this run, so a resumed run isn't credited
// with the points loaded from the checkpoint.
type progress struct {
	total   int // points in the path
	resumed int // points already done from the checkpoint
	began   time.Time

	done    atomic.Int64
	failed  atomic.Int64 // includes failures carried over from the checkpoint
	retries atomic.Int64

	metrics *metrics.Metrics
}

func newProgress(total, resumed, failedBefore int, m *metrics.Metrics) *progress {
	p := &progress{total: total, resumed: resumed, began: time.Now(), metrics: m}
	p.failed.Store(int64(failedBefore))
	return p
}

func (p *progress) complete(ok bool, d time.Duration) {
	p.done.Add(1)
	if !ok {
		p.failed.Add(1)
	}
	p.metrics.Lookup(d, ok)
}

func (p *progress) retry(f *Failure, _ time.Duration) {
	p.retries.Add(1)
	p.metrics.Retry(f.Kind.String())
}

func (p *progress) log(log logrus.FieldLogger) {
	done := int(p.done.Load())
	n := p.resumed + done
	elapsed := time.Since(p.began).Seconds()
	var rate, eta float64
	if elapsed > 0 {
		rate = float64(done) / elapsed
	}
	if rate > 0 {
		eta = float64(p.total-n) / rate
	}
	var pct float64
	if p.total > 0 {
		pct = float64(n) / float64(p.total) * 100
	}
	log.WithFields(logrus.Fields{
		"retries": p.retries.Load(),
	}).Infof("%s/%s (%.1f%%)  %.1f req/s  ETA %.1f min  failures: %d",
		humanize.Comma(int64(n)), humanize.Comma(int64(p.total)), pct, rate, eta/60, p.failed.Load())
}

// start logs progress every interval until the returned stop func is called. stop logs a final line.
func (p *progress) start(log logrus.FieldLogger, interval time.Duration) (stop func()) {
	quit := make(chan struct{})
	var wg sync.WaitGroup
	if interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					p.log(log)
				case <-quit:
					return
				}
			}
		}()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			close(quit)
			wg.Wait()
			p.log(log)
		})
	}
}
