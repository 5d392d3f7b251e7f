package elevation

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"sync"

	"github.com/dave/odt/geo"
	"github.com/dave/odt/globals"
	"github.com/tkrajina/go-elevations/geoelevations"
)

// SRTM looks up elevations in the SRTM tiles (downloaded and cached by go-elevations) instead of a
// point service. It's coarser than 3DEP but works for any trail and doesn't get rate limited.
type SRTM struct {
	client *http.Client
	srtm   *geoelevations.Srtm

	// tile loading in geoelevations isn't safe for concurrent use
	mu sync.Mutex
}

func NewSRTM(client *http.Client) (*SRTM, error) {
	srtm, err := geoelevations.NewSrtm(client)
	if err != nil {
		return nil, fmt.Errorf("creating srtm client: %w", err)
	}
	return &SRTM{client: client, srtm: srtm}, nil
}

func (s *SRTM) Elevation(ctx context.Context, pos geo.Pos) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	meters, err := s.srtm.GetElevation(s.client, pos.Lat, pos.Lon)
	if err != nil {
		return 0, fmt.Errorf("srtm lookup: %w", err)
	}
	if math.IsNaN(meters) {
		// voids in the tile won't fill in on retry
		return 0, &Failure{Kind: Permanent, Err: ErrNoData}
	}
	return meters * globals.FEET_PER_METER, nil
}
