package record

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// ExportBody is one body of an exported frame.
type ExportBody struct {
	ID     int        `json:"id"`
	Name   string     `json:"name"`
	Pos    [2]float64 `json:"pos"`
	Vel    [2]float64 `json:"vel"`
	Mass   float64    `json:"mass"`
	Radius int        `json:"radius"`
}

type ExportFrame struct {
	Frame      int          `json:"frame"`
	TimePassed float64      `json:"time_passed"`
	Bodies     []ExportBody `json:"bodies"`
}

type ExportData struct {
	Frames int           `json:"frames"`
	Data   []ExportFrame `json:"data"`
}

// ExportJSON writes every recorded frame with its bodies as indented JSON.
func (r *Reader) ExportJSON(out io.Writer) error {
	frames, err := r.Frames()
	if err != nil {
		return err
	}

	data := ExportData{Frames: len(frames), Data: make([]ExportFrame, len(frames))}
	for i, f := range frames {
		bodies, err := r.Bodies(f.Frame)
		if err != nil {
			return err
		}
		ef := ExportFrame{Frame: f.Frame, TimePassed: f.TimePassed, Bodies: make([]ExportBody, len(bodies))}
		for id, b := range bodies {
			ef.Bodies[id] = ExportBody{
				ID:     id,
				Name:   b.Name,
				Pos:    [2]float64{b.Pos[0], b.Pos[1]},
				Vel:    [2]float64{b.Vel[0], b.Vel[1]},
				Mass:   b.Mass,
				Radius: b.Radius,
			}
		}
		data.Data[i] = ef
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportCSV writes the track of body id as time,x,y rows.
func (r *Reader) ExportCSV(out io.Writer, id int) error {
	track, err := r.Track(id)
	if err != nil {
		return err
	}
	if len(track) == 0 {
		return fmt.Errorf("%w: body %d", ErrNoTrack, id)
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"frame", "time", "x", "y"}); err != nil {
		return err
	}
	for _, p := range track {
		row := []string{
			strconv.Itoa(p.Frame),
			strconv.FormatFloat(p.TimePassed, 'f', 6, 64),
			strconv.FormatFloat(p.Pos[0], 'f', 6, 64),
			strconv.FormatFloat(p.Pos[1], 'f', 6, 64),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
