package record

import (
	"fmt"
	"net/url"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jmoiron/sqlx"
	"github.com/san-kum/gravbox/internal/physics"
)

const (
	queryFrames = `SELECT frame, time_passed FROM frames ORDER BY frame ASC;`
	queryFrame  = `SELECT id, name, x, y, vx, vy, mass, radius FROM bodies WHERE frame = ? ORDER BY id ASC;`
	queryTrack  = `
SELECT b.frame, f.time_passed, b.x, b.y
FROM bodies b JOIN frames f ON f.frame = b.frame
WHERE b.id = ?
ORDER BY b.frame ASC;`
)

// Frame is one recorded instant.
type Frame struct {
	Frame      int     `db:"frame"`
	TimePassed float64 `db:"time_passed"`
}

// TrackPoint is a body position at a recorded frame.
type TrackPoint struct {
	Frame      int
	TimePassed float64
	Pos        mgl64.Vec2
}

type trackRow struct {
	Frame      int     `db:"frame"`
	TimePassed float64 `db:"time_passed"`
	X          float64 `db:"x"`
	Y          float64 `db:"y"`
}

type bodyRow struct {
	ID     int     `db:"id"`
	Name   string  `db:"name"`
	X      float64 `db:"x"`
	Y      float64 `db:"y"`
	VX     float64 `db:"vx"`
	VY     float64 `db:"vy"`
	Mass   float64 `db:"mass"`
	Radius int     `db:"radius"`
}

type Reader struct {
	db *sqlx.DB
}

// Open opens an existing recording read-only.
func Open(filename string) (*Reader, error) {
	if _, err := os.Stat(filename); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, filename)
	}
	v := url.Values{}
	v.Add("mode", "ro")
	db, err := sqlx.Connect("sqlite3", fmt.Sprintf("file:%s?%s", filename, v.Encode()))
	if err != nil {
		return nil, err
	}
	return &Reader{db: db}, nil
}

func (r *Reader) Close() error { return r.db.Close() }

func (r *Reader) Frames() ([]Frame, error) {
	var out []Frame
	if err := r.db.Select(&out, queryFrames); err != nil {
		return nil, err
	}
	return out, nil
}

// Bodies returns the bodies of one frame in world order.
func (r *Reader) Bodies(frame int) ([]*physics.Body, error) {
	var rows []bodyRow
	if err := r.db.Select(&rows, queryFrame, frame); err != nil {
		return nil, err
	}

	out := make([]*physics.Body, len(rows))
	for i, row := range rows {
		out[i] = &physics.Body{
			Name:   row.Name,
			Pos:    mgl64.Vec2{row.X, row.Y},
			Vel:    mgl64.Vec2{row.VX, row.VY},
			Mass:   row.Mass,
			Radius: row.Radius,
		}
	}
	return out, nil
}

// Track returns the recorded positions of body id.
func (r *Reader) Track(id int) ([]TrackPoint, error) {
	var rows []trackRow
	if err := r.db.Select(&rows, queryTrack, id); err != nil {
		return nil, err
	}

	out := make([]TrackPoint, len(rows))
	for i, row := range rows {
		out[i] = TrackPoint{Frame: row.Frame, TimePassed: row.TimePassed, Pos: mgl64.Vec2{row.X, row.Y}}
	}
	return out, nil
}

// Positions strips a track down to its points.
func Positions(track []TrackPoint) []mgl64.Vec2 {
	out := make([]mgl64.Vec2, len(track))
	for i, p := range track {
		out[i] = p.Pos
	}
	return out
}
