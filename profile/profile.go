package profile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dave/odt/geo"
	"github.com/dave/odt/track"
	"github.com/goccy/go-json"
	"github.com/google/renameio/v2"
)

// Sample is one point of the published elevation profile
type Sample struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Distance  float64 `json:"distance"`  // miles from the start of the trail
	Elevation int     `json:"elevation"` // feet
}

// Build zips the path points with their filled elevations.
func Build(points []track.Point, elevations Elevations) ([]Sample, error) {
	if len(points) != len(elevations) {
		return nil, fmt.Errorf("%d points but %d elevations", len(points), len(elevations))
	}
	samples := make([]Sample, len(points))
	for i, p := range points {
		if elevations[i] == nil {
			return nil, fmt.Errorf("point %d: %w", i, ErrUnfilled)
		}
		samples[i] = Sample{
			Lon:       geo.Round(p.Lon, 6),
			Lat:       geo.Round(p.Lat, 6),
			Distance:  p.Miles,
			Elevation: *elevations[i],
		}
	}
	return samples, nil
}

// Load reads a published profile. Returns nil and no error if the file doesn't exist.
func Load(fpath string) ([]Sample, error) {
	b, err := os.ReadFile(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading profile %q: %w", fpath, err)
	}
	var samples []Sample
	if err := json.Unmarshal(b, &samples); err != nil {
		return nil, fmt.Errorf("decoding profile %q: %w", fpath, err)
	}
	return samples, nil
}

// Save writes the profile as compact json, replacing any existing file atomically. Returns the size in bytes.
func Save(fpath string, samples []Sample) (int, error) {
	b, err := json.Marshal(samples)
	if err != nil {
		return 0, fmt.Errorf("encoding profile: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(fpath), 0777); err != nil {
		return 0, fmt.Errorf("creating profile dir: %w", err)
	}
	if err := renameio.WriteFile(fpath, b, 0666); err != nil {
		return 0, fmt.Errorf("writing profile %q: %w", fpath, err)
	}
	return len(b), nil
}

// Backup copies the published profile to the backup path. Returns false if there was nothing to back up.
func Backup(fpath, backup string) (bool, error) {
	in, err := os.Open(fpath)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("opening profile %q: %w", fpath, err)
	}
	defer in.Close()

	out, err := renameio.NewPendingFile(backup)
	if err != nil {
		return false, fmt.Errorf("creating backup %q: %w", backup, err)
	}
	defer out.Cleanup()
	if _, err := io.Copy(out, in); err != nil {
		return false, fmt.Errorf("copying profile to %q: %w", backup, err)
	}
	if err := out.CloseAtomicallyReplace(); err != nil {
		return false, fmt.Errorf("replacing backup %q: %w", backup, err)
	}
	return true, nil
}
