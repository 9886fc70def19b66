package physics

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/scenefile"
)

const sampleScene = `SPACE
tick time:0.5
renders field:1
margin:75
time passed:12.5
--------------------
BODY
name:Earth
mass:1
pos:(252.0, 310.0)
vel:(0, 2.572992)
radius:3
--------------------
`

func TestDecodeScene(t *testing.T) {
	w, err := Decode(strings.NewReader(sampleScene))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if w.TickTime != 0.5 || !w.RendersField || w.Margin != 75 || w.TimePassed != 12.5 {
		t.Errorf("unexpected scalars %+v", w)
	}
	if len(w.Bodies) != 1 {
		t.Fatalf("expected 1 body, got %d", len(w.Bodies))
	}
	b := w.Bodies[0]
	if b.Name != "Earth" || b.Mass != 1 || b.Pos != geom.Vec(252, 310) || b.Vel != geom.Vec(0, 2.572992) || b.Radius != 3 {
		t.Errorf("unexpected body %+v", b)
	}
}

func TestSceneRoundTrip(t *testing.T) {
	for k := 0; k < 4; k++ {
		w := NewWorld(0.75)
		w.RendersField = k%2 == 0
		w.Margin = 60 + k
		for i := 0; i < k; i++ {
			b := NewBody(geom.Vec(float64(i)*1.1, -float64(i)/3), 0.1+float64(i)*7.3, "b")
			b.Vel = geom.Vec(1.0/7, float64(i)*1e-9)
			w.Add(b)
		}
		for i := 0; i < 10; i++ {
			w.Update()
		}
		if k > 0 {
			w.Bodies[0].Highlighted = true
		}

		got, err := Decode(bytes.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("k=%d: decode failed: %v", k, err)
		}
		if got.TickTime != w.TickTime || got.RendersField != w.RendersField || got.Margin != w.Margin || got.TimePassed != w.TimePassed {
			t.Errorf("k=%d: scalars differ: %+v vs %+v", k, got, w)
		}
		if len(got.Bodies) != k {
			t.Fatalf("k=%d: expected %d bodies, got %d", k, k, len(got.Bodies))
		}
		for i := range got.Bodies {
			if *got.Bodies[i] != *w.Bodies[i] {
				t.Errorf("k=%d body %d: %+v vs %+v", k, i, got.Bodies[i], w.Bodies[i])
			}
		}
	}
}

func TestDecodeMissingKey(t *testing.T) {
	broken := strings.Replace(sampleScene, "mass:1\n", "", 1)
	_, err := Decode(strings.NewReader(broken))
	if !errors.Is(err, scenefile.ErrMissingKey) {
		t.Fatalf("expected missing key, got %v", err)
	}
	var fe *scenefile.FieldError
	if !errors.As(err, &fe) || fe.Key != "mass" {
		t.Errorf("expected field error on mass, got %v", err)
	}
}

func TestDecodeStructureErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrNoSpaceBlock},
		{"body first", "BODY\nname:x\n--------------------\n", ErrNoSpaceBlock},
		{"unknown kind", strings.Replace(sampleScene, "BODY", "COMET", 1), ErrUnknownBlock},
		{"truncated", strings.TrimSuffix(sampleScene, "--------------------\n"), scenefile.ErrTruncated},
		{"zero tick time", strings.Replace(sampleScene, "tick time:0.5", "tick time:0", 1), scenefile.ErrBadValue},
		{"negative tick time", strings.Replace(sampleScene, "tick time:0.5", "tick time:-1", 1), scenefile.ErrBadValue},
		{"nan tick time", strings.Replace(sampleScene, "tick time:0.5", "tick time:NaN", 1), scenefile.ErrBadValue},
		{"inf time passed", strings.Replace(sampleScene, "time passed:12.5", "time passed:+Inf", 1), scenefile.ErrBadValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestDecodeRejectsBadTickTime(t *testing.T) {
	in := strings.Replace(sampleScene, "tick time:0.5", "tick time:-1", 1)
	_, err := Decode(strings.NewReader(in))
	var fe *scenefile.FieldError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FieldError, got %v", err)
	}
	if fe.Kind != KindSpace || fe.Key != "tick time" {
		t.Errorf("unexpected field error: %v", fe)
	}
}

func TestRoundTripControlCharsInName(t *testing.T) {
	names := []string{"a\nb", "x\r\ny", "tab\there", "\x00nul"}
	for _, name := range names {
		w := NewWorld(1, NewBody(geom.Vec(1, 2), 1, name))
		w.Bodies = append(w.Bodies, &Body{Name: "raw\nname", Mass: 1, Radius: 1})

		got, err := Decode(bytes.NewReader(w.Bytes()))
		if err != nil {
			t.Fatalf("%q: decode failed: %v", name, err)
		}
		if len(got.Bodies) != 2 {
			t.Fatalf("%q: expected 2 bodies, got %d", name, len(got.Bodies))
		}
		for _, b := range got.Bodies {
			if strings.ContainsAny(b.Name, "\n\r\t\x00") {
				t.Errorf("control character kept in %q", b.Name)
			}
		}
	}
}

func TestRestoreIsStaged(t *testing.T) {
	w := DefaultWorld(800, 600)
	w.Update()
	before := w.Bytes()

	broken := sampleScene + "BODY\nname:half\nmass:1\n"
	if err := w.Restore(strings.NewReader(broken)); err == nil {
		t.Fatal("expected error")
	}
	if !bytes.Equal(before, w.Bytes()) {
		t.Error("world modified by failed restore")
	}

	if err := w.Restore(strings.NewReader(sampleScene)); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if len(w.Bodies) != 1 || w.TimePassed != 12.5 {
		t.Errorf("expected restored scene, got %+v", w)
	}
}

func TestEncodeLayout(t *testing.T) {
	w := NewWorld(1, NewBody(geom.Vec(252, 310), 1, "Earth"))
	got := string(w.Bytes())
	expected := "SPACE\ntick time:1\nrenders field:0\nmargin:75\ntime passed:0\n--------------------\n" +
		"BODY\nname:Earth\nmass:1\npos:(252, 310)\nvel:(0, 0)\nradius:3\n--------------------\n"
	if got != expected {
		t.Errorf("unexpected encoding:\n%s", got)
	}
}
