// Package record stores runs in a SQLite database, one row per body per
// recorded frame, and reads them back for plotting.
package record

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	_ "github.com/mattn/go-sqlite3"
	"github.com/san-kum/gravbox/internal/physics"
)

/*
Body ids are indices into World.Bodies at the time of the frame. Removing a
body while recording shifts the ids of the bodies after it.

Indices are created on Close rather than up front; inserting into indexed
tables is noticeably slower for long runs.
*/

const schema = `
CREATE TABLE frames (
	frame       INTEGER PRIMARY KEY,
	time_passed REAL);
CREATE TABLE bodies (
	frame  INTEGER,
	id     INTEGER, -- index in the world
	name   TEXT,
	x      REAL,
	y      REAL,
	vx     REAL,
	vy     REAL,
	mass   REAL,
	radius INTEGER);
`

const indices = `
CREATE INDEX IF NOT EXISTS idx_frame ON bodies (frame, id);
CREATE INDEX IF NOT EXISTS idx_id ON bodies (id);
`

const (
	insertFrame = `INSERT INTO frames VALUES (?, ?);`
	insertBody  = `INSERT INTO bodies VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);`
)

var (
	ErrExists   = errors.New("record: database already exists")
	ErrNotFound = errors.New("record: database not found")
	ErrNoTrack  = errors.New("record: no frames for body")
)

// Recorder writes frames as a sim observer.
type Recorder struct {
	db       *sql.DB
	frameStm *sql.Stmt
	bodyStm  *sql.Stmt
	logger   log.Logger

	every  int
	ticks  int
	frames int
}

// Create makes a new database in filename. It refuses to overwrite an
// existing file.
func Create(filename string, logger log.Logger) (*Recorder, error) {
	if _, err := os.Stat(filename); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, filename)
	}
	if logger == nil {
		logger = log.NewNopLogger()
	}

	db, err := sql.Open("sqlite3", "file:"+filename+"?_synchronous=OFF")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	r := &Recorder{db: db, every: 1, logger: log.With(logger, "component", "record", "db", filename)}
	if r.frameStm, err = db.Prepare(insertFrame); err != nil {
		db.Close()
		return nil, err
	}
	if r.bodyStm, err = db.Prepare(insertBody); err != nil {
		r.frameStm.Close()
		db.Close()
		return nil, err
	}
	return r, nil
}

// SetInterval records only every n-th tick. Values below 1 mean every tick.
func (r *Recorder) SetInterval(n int) {
	if n < 1 {
		n = 1
	}
	r.every = n
}

// OnTick records the world when the tick falls on the interval.
func (r *Recorder) OnTick(w *physics.World) error {
	defer func() { r.ticks++ }()
	if r.ticks%r.every != 0 {
		return nil
	}
	return r.Write(w)
}

// Write records the world as the next frame in one transaction.
func (r *Recorder) Write(w *physics.World) error {
	tx, err := r.db.Begin()
	if err != nil {
		return err
	}

	frame := r.frames
	if _, err = tx.Stmt(r.frameStm).Exec(frame, w.TimePassed); err != nil {
		tx.Rollback()
		return err
	}
	bodies := tx.Stmt(r.bodyStm)
	for id, b := range w.Bodies {
		_, err = bodies.Exec(frame, id, b.Name, b.Pos[0], b.Pos[1], b.Vel[0], b.Vel[1], b.Mass, b.Radius)
		if err != nil {
			break
		}
	}

	if err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.frames++
	return nil
}

// Frames is the number of frames written so far.
func (r *Recorder) Frames() int { return r.frames }

// Close creates the indices and closes the database.
func (r *Recorder) Close() error {
	_, idxErr := r.db.Exec(indices)
	r.frameStm.Close()
	r.bodyStm.Close()
	err := r.db.Close()
	level.Info(r.logger).Log("msg", "recording closed", "frames", r.frames)
	if idxErr != nil {
		return fmt.Errorf("create indices: %w", idxErr)
	}
	return err
}
