package record

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/sim"
)

func TestRecordAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	rec, err := Create(path, nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	r := sim.New(w)
	r.AddObserver(rec)
	if _, err := r.Run(context.Background(), 9); err != nil {
		t.Fatalf("run: %v", err)
	}
	if rec.Frames() != 10 {
		t.Errorf("expected 10 frames, got %d", rec.Frames())
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	rd, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rd.Close()

	frames, err := rd.Frames()
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 10 || frames[0].TimePassed != 0 || frames[9].TimePassed != 9 {
		t.Errorf("unexpected frames %v", frames)
	}

	last, err := rd.Bodies(9)
	if err != nil {
		t.Fatal(err)
	}
	if len(last) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(last))
	}
	for i, b := range last {
		if *b != *w.Bodies[i] {
			t.Errorf("body %d: recorded %v, world has %v", i, b, w.Bodies[i])
		}
	}

	track, err := rd.Track(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(track) != 10 {
		t.Fatalf("expected 10 track points, got %d", len(track))
	}
	if track[9].Pos != w.Bodies[0].Pos {
		t.Errorf("track end %v, world %v", track[9].Pos, w.Bodies[0].Pos)
	}
	if pts := Positions(track); len(pts) != 10 || pts[0] != track[0].Pos {
		t.Errorf("unexpected positions %v", pts)
	}
}

func TestRecorderInterval(t *testing.T) {
	rec, err := Create(filepath.Join(t.TempDir(), "sparse.db"), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rec.Close()
	rec.SetInterval(5)

	w := physics.DefaultWorld(physics.DefaultWidth, physics.DefaultHeight)
	for i := 0; i < 12; i++ {
		if err := rec.OnTick(w); err != nil {
			t.Fatal(err)
		}
		w.Update()
	}
	// ticks 0, 5 and 10
	if rec.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", rec.Frames())
	}
}

func TestCreateRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.db")
	rec, err := Create(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	rec.Close()

	if _, err := Create(path, nil); !errors.Is(err, ErrExists) {
		t.Errorf("expected ErrExists, got %v", err)
	}
}

func TestOpenMissing(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "none.db")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
