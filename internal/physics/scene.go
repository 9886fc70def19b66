package physics

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/san-kum/gravbox/internal/scenefile"
)

// Block kinds and keys of the save format.
const (
	KindSpace = "SPACE"
	KindBody  = "BODY"

	keyTickTime     = "tick time"
	keyRendersField = "renders field"
	keyMargin       = "margin"
	keyTimePassed   = "time passed"

	keyName        = "name"
	keyMass        = "mass"
	keyPos         = "pos"
	keyVel         = "vel"
	keyRadius      = "radius"
	keyHighlighted = "highlighted"
)

// Block renders the body as a BODY record.
func (b *Body) Block() *scenefile.Block {
	blk := scenefile.NewBlock(KindBody).
		Set(keyName, cleanName(b.Name)).
		SetFloat(keyMass, b.Mass).
		SetTuple(keyPos, b.Pos).
		SetTuple(keyVel, b.Vel).
		SetInt(keyRadius, b.Radius)
	if b.Highlighted {
		blk.SetBool(keyHighlighted, true)
	}
	return blk
}

// ParseBody rebuilds a body from a BODY record. Every key except
// "highlighted" is required.
func ParseBody(blk *scenefile.Block) (*Body, error) {
	if blk.Kind != KindBody {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBlock, blk.Kind)
	}
	b := &Body{}
	var err error
	if b.Name, err = blk.String(keyName); err != nil {
		return nil, err
	}
	if b.Mass, err = blk.Float(keyMass); err != nil {
		return nil, err
	}
	if b.Pos, err = blk.Tuple(keyPos); err != nil {
		return nil, err
	}
	if b.Vel, err = blk.Tuple(keyVel); err != nil {
		return nil, err
	}
	if b.Radius, err = blk.Int(keyRadius); err != nil {
		return nil, err
	}
	if blk.Has(keyHighlighted) {
		if b.Highlighted, err = blk.Bool(keyHighlighted); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (w *World) spaceBlock() *scenefile.Block {
	return scenefile.NewBlock(KindSpace).
		SetFloat(keyTickTime, w.TickTime).
		SetBool(keyRendersField, w.RendersField).
		SetInt(keyMargin, w.Margin).
		SetFloat(keyTimePassed, w.TimePassed)
}

// Encode writes the scene: the SPACE record followed by one BODY record per
// body in world order.
func (w *World) Encode(out io.Writer) error {
	blocks := make([]*scenefile.Block, 0, len(w.Bodies)+1)
	blocks = append(blocks, w.spaceBlock())
	for _, b := range w.Bodies {
		blocks = append(blocks, b.Block())
	}
	return scenefile.Encode(out, blocks...)
}

// Bytes returns the encoded scene.
func (w *World) Bytes() []byte {
	var buf bytes.Buffer
	// writes to a bytes.Buffer cannot fail
	_ = w.Encode(&buf)
	return buf.Bytes()
}

// Decode parses a whole scene into a new World.
func Decode(in io.Reader) (*World, error) {
	blocks, err := scenefile.Decode(in)
	if err != nil {
		return nil, err
	}
	if len(blocks) == 0 || blocks[0].Kind != KindSpace {
		return nil, ErrNoSpaceBlock
	}

	space := blocks[0]
	w := &World{}
	if w.TickTime, err = space.Float(keyTickTime); err != nil {
		return nil, err
	}
	if w.TickTime <= 0 || math.IsNaN(w.TickTime) || math.IsInf(w.TickTime, 0) {
		return nil, badSpaceValue(keyTickTime, w.TickTime)
	}
	if w.RendersField, err = space.Bool(keyRendersField); err != nil {
		return nil, err
	}
	if w.Margin, err = space.Int(keyMargin); err != nil {
		return nil, err
	}
	if w.TimePassed, err = space.Float(keyTimePassed); err != nil {
		return nil, err
	}
	if math.IsNaN(w.TimePassed) || math.IsInf(w.TimePassed, 0) {
		return nil, badSpaceValue(keyTimePassed, w.TimePassed)
	}

	w.Bodies = make([]*Body, 0, len(blocks)-1)
	for i, blk := range blocks[1:] {
		b, err := ParseBody(blk)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		w.Bodies = append(w.Bodies, b)
	}
	return w, nil
}

func badSpaceValue(key string, v float64) error {
	return &scenefile.FieldError{Kind: KindSpace, Key: key, Err: fmt.Errorf("%w: %g", scenefile.ErrBadValue, v)}
}

// Restore replaces w with the scene read from in. The scene is parsed in
// full before w is touched, so on error w is unchanged.
func (w *World) Restore(in io.Reader) error {
	staged, err := Decode(in)
	if err != nil {
		return err
	}
	w.Replace(staged)
	return nil
}
