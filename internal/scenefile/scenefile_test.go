package scenefile

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/gravbox/internal/geom"
)

func TestEncodeLayout(t *testing.T) {
	b := NewBlock("BODY").
		Set("name", "Earth").
		SetFloat("mass", 1).
		SetTuple("pos", geom.Vec(252, 310)).
		SetInt("radius", 3)

	var buf bytes.Buffer
	if err := Encode(&buf, b); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	expected := "BODY\nname:Earth\nmass:1\npos:(252, 310)\nradius:3\n--------------------\n"
	if buf.String() != expected {
		t.Errorf("unexpected encoding:\n%s", buf.String())
	}
}

func TestDecodeBlocks(t *testing.T) {
	in := "SPACE\ntick time:1\n--------------------\n\nBODY\nname:a:b\npos:(1.5, -2)\n--------------------\n"
	blocks, err := Decode(strings.NewReader(in))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Kind != "SPACE" || blocks[1].Kind != "BODY" {
		t.Errorf("unexpected kinds %q %q", blocks[0].Kind, blocks[1].Kind)
	}

	name, err := blocks[1].String("name")
	if err != nil || name != "a:b" {
		t.Errorf("expected name a:b split on first colon, got %q (%v)", name, err)
	}
	pos, err := blocks[1].Tuple("pos")
	if err != nil || pos != geom.Vec(1.5, -2) {
		t.Errorf("expected (1.5, -2), got %v (%v)", pos, err)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"truncated", "BODY\nname:x\n", ErrTruncated},
		{"bad line", "BODY\nnocolon\n--------------------\n", ErrBadLine},
		{"stray delimiter", "--------------------\n", ErrBadLine},
		{"kv without kind", "name:x\n--------------------\n", ErrBadLine},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Decode(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestFieldErrors(t *testing.T) {
	b := NewBlock("SPACE").Set("margin", "abc").Set("renders field", "2")

	_, err := b.Float("tick time")
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Key != "tick time" || !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected missing key error, got %v", err)
	}
	if _, err := b.Int("margin"); !errors.Is(err, ErrBadValue) {
		t.Errorf("expected bad value, got %v", err)
	}
	if _, err := b.Bool("renders field"); !errors.Is(err, ErrBadValue) {
		t.Errorf("expected bad value, got %v", err)
	}
}

func TestIntAcceptsIntegralFloat(t *testing.T) {
	b := NewBlock("BODY").Set("radius", "3.0")
	n, err := b.Int("radius")
	if err != nil || n != 3 {
		t.Errorf("expected 3, got %d (%v)", n, err)
	}
}
