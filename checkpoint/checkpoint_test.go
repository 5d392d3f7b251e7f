package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func intp(v int) *int { return &v }

func TestSaveLoadRemove(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "elevation-checkpoint.json"))

	c, err := store.Load()
	if err != nil || c != nil {
		t.Fatalf("expected no checkpoint, got %v, %v", c, err)
	}

	if err := store.Save(Checkpoint{Elevations: []*int{intp(4100), nil, nil}, Done: 2}); err != nil {
		t.Fatalf("save: %v", err)
	}
	b, err := os.ReadFile(store.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != `{"elevations":[4100,null,null],"done":2}` {
		t.Fatalf("unexpected file contents: %s", b)
	}

	if err := store.Save(Checkpoint{Elevations: []*int{intp(4100), intp(4120), nil}, Done: 3}); err != nil {
		t.Fatalf("save: %v", err)
	}
	c, err = store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Done != 3 || len(c.Elevations) != 3 || *c.Elevations[1] != 4120 || c.Elevations[2] != nil {
		t.Fatalf("unexpected checkpoint: %+v", c)
	}

	removed, err := store.Remove()
	if err != nil || !removed {
		t.Fatalf("remove: %v %v", removed, err)
	}
	removed, err = store.Remove()
	if err != nil || removed {
		t.Fatalf("second remove: %v %v", removed, err)
	}
}

func TestLoadCorrupt(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "ckpt.json"))
	if err := os.WriteFile(store.Path, []byte("{not json"), 0666); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := store.Load(); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCheck(t *testing.T) {
	c := &Checkpoint{Elevations: make([]*int, 3), Done: 3}
	if err := c.Check(3); err != nil {
		t.Fatalf("check: %v", err)
	}
	if err := c.Check(4); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected mismatch for length, got %v", err)
	}
	c.Done = 5
	if err := c.Check(3); !errors.Is(err, ErrMismatch) {
		t.Fatalf("expected mismatch for done, got %v", err)
	}
}
