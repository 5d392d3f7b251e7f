package checkpoint

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/google/renameio/v2"
)

// ErrMismatch is returned when a checkpoint doesn't fit the path being processed.
var ErrMismatch = errors.New("checkpoint does not match path")

// Checkpoint is the saved progress of a fetch run. Elevations has one entry per path point (nil for not
// fetched or failed) and Done is the number of points attempted so far.
type Checkpoint struct {
	Elevations []*int `json:"elevations"`
	Done       int    `json:"done"`
}

// Check that the checkpoint can be used to resume a path with n points.
func (c *Checkpoint) Check(n int) error {
	if len(c.Elevations) != n {
		return fmt.Errorf("%w: %d elevations for %d points", ErrMismatch, len(c.Elevations), n)
	}
	if c.Done < 0 || c.Done > n {
		return fmt.Errorf("%w: done %d out of range for %d points", ErrMismatch, c.Done, n)
	}
	return nil
}

// Store persists checkpoints to a single file.
type Store struct {
	Path string
}

func NewStore(fpath string) *Store {
	return &Store{Path: fpath}
}

// Load reads the checkpoint. Returns nil and no error if there is no checkpoint file.
func (s *Store) Load() (*Checkpoint, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading checkpoint %q: %w", s.Path, err)
	}
	var c Checkpoint
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("decoding checkpoint %q: %w", s.Path, err)
	}
	return &c, nil
}

// Save replaces the checkpoint file atomically: the new content is written to a temp file in the same
// directory and renamed over the old one, so an interrupted save leaves the previous checkpoint intact.
func (s *Store) Save(c Checkpoint) error {
	b, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding checkpoint: %w", err)
	}
	if err := renameio.WriteFile(s.Path, b, 0666); err != nil {
		return fmt.Errorf("writing checkpoint %q: %w", s.Path, err)
	}
	return nil
}

// Remove deletes the checkpoint file. Returns true if there was one.
func (s *Store) Remove() (bool, error) {
	err := os.Remove(s.Path)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("removing checkpoint %q: %w", s.Path, err)
	}
	return true, nil
}
