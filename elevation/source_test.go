package elevation

import (
	"context"
	"io"
	"sync"

	"github.com/dave/odt/geo"
	"github.com/sirupsen/logrus"
)

// fakeSource answers with fn and records how often each point was queried. Points in tests use the
// index as the longitude.
type fakeSource struct {
	fn func(ctx context.Context, pos geo.Pos, call int) (float64, error)

	mu    sync.Mutex
	calls map[geo.Pos]int
}

func newFakeSource(fn func(ctx context.Context, pos geo.Pos, call int) (float64, error)) *fakeSource {
	return &fakeSource{fn: fn, calls: map[geo.Pos]int{}}
}

func (s *fakeSource) Elevation(ctx context.Context, pos geo.Pos) (float64, error) {
	s.mu.Lock()
	s.calls[pos]++
	call := s.calls[pos]
	s.mu.Unlock()
	return s.fn(ctx, pos, call)
}

func (s *fakeSource) count(pos geo.Pos) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[pos]
}

func path(n int) []geo.Pos {
	points := make([]geo.Pos, n)
	for i := range points {
		points[i] = geo.Pos{Lon: float64(i), Lat: 44}
	}
	return points
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
