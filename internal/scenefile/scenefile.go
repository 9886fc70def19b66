// Package scenefile reads and writes the delimited text format used by save
// files.
//
// A file is a sequence of blocks. Each block starts with a kind line
// ("SPACE", "BODY"), continues with "key:value" lines and ends with a line of
// exactly twenty dashes. Keys are split from values on the first colon.
package scenefile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/gravbox/internal/geom"
)

// Delimiter terminates every block.
const Delimiter = "--------------------"

var (
	ErrMissingKey = errors.New("scenefile: missing key")
	ErrBadValue   = errors.New("scenefile: malformed value")
	ErrBadLine    = errors.New("scenefile: malformed line")
	ErrTruncated  = errors.New("scenefile: block not terminated")
)

// FieldError reports a problem with one key of one block.
type FieldError struct {
	Kind string
	Key  string
	Err  error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s block, key %q: %v", e.Kind, e.Key, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// LineError reports a line that is neither a kind, a key:value pair nor a
// delimiter.
type LineError struct {
	Line int
	Text string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %q", e.Line, ErrBadLine, e.Text)
}

func (e *LineError) Unwrap() error { return ErrBadLine }

// Block is one record of the file. Keys keep their insertion order so that
// encoding is deterministic.
type Block struct {
	Kind   string
	keys   []string
	values map[string]string
}

func NewBlock(kind string) *Block {
	return &Block{Kind: kind, values: make(map[string]string)}
}

// Set stores value under key, replacing an earlier value.
func (b *Block) Set(key, value string) *Block {
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
	return b
}

func (b *Block) SetFloat(key string, v float64) *Block { return b.Set(key, geom.FormatFloat(v)) }
func (b *Block) SetInt(key string, v int) *Block       { return b.Set(key, strconv.Itoa(v)) }
func (b *Block) SetTuple(key string, v mgl64.Vec2) *Block {
	return b.Set(key, geom.FormatTuple(v))
}

func (b *Block) SetBool(key string, v bool) *Block {
	if v {
		return b.Set(key, "1")
	}
	return b.Set(key, "0")
}

// Keys returns the keys in insertion order.
func (b *Block) Keys() []string { return append([]string(nil), b.keys...) }

// Has reports whether key is present.
func (b *Block) Has(key string) bool {
	_, ok := b.values[key]
	return ok
}

func (b *Block) fieldErr(key string, err error) error {
	return &FieldError{Kind: b.Kind, Key: key, Err: err}
}

// String returns the raw value stored under key.
func (b *Block) String(key string) (string, error) {
	v, ok := b.values[key]
	if !ok {
		return "", b.fieldErr(key, ErrMissingKey)
	}
	return v, nil
}

func (b *Block) Float(key string) (float64, error) {
	s, err := b.String(key)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, b.fieldErr(key, fmt.Errorf("%w: %q", ErrBadValue, s))
	}
	return f, nil
}

// Int accepts integral text and, for compatibility with older saves, a
// float with a zero fractional part.
func (b *Block) Int(key string) (int, error) {
	s, err := b.String(key)
	if err != nil {
		return 0, err
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, b.fieldErr(key, fmt.Errorf("%w: %q", ErrBadValue, s))
	}
	return int(f), nil
}

// Bool accepts "0"/"1" and the words true/false.
func (b *Block) Bool(key string) (bool, error) {
	s, err := b.String(key)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, b.fieldErr(key, fmt.Errorf("%w: %q", ErrBadValue, s))
}

func (b *Block) Tuple(key string) (mgl64.Vec2, error) {
	s, err := b.String(key)
	if err != nil {
		return geom.Zero, err
	}
	v, err := geom.ParseTuple(s)
	if err != nil {
		return geom.Zero, b.fieldErr(key, fmt.Errorf("%w: %v", ErrBadValue, err))
	}
	return v, nil
}

// Encode writes blocks to w.
func Encode(w io.Writer, blocks ...*Block) error {
	bw := bufio.NewWriter(w)
	for _, b := range blocks {
		bw.WriteString(b.Kind)
		bw.WriteByte('\n')
		for _, k := range b.keys {
			bw.WriteString(k)
			bw.WriteByte(':')
			bw.WriteString(b.values[k])
			bw.WriteByte('\n')
		}
		bw.WriteString(Delimiter)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Decode reads every block from r. Blank lines between blocks are skipped.
// A final block without a delimiter is reported as ErrTruncated so that an
// interrupted write is never mistaken for a complete scene.
func Decode(r io.Reader) ([]*Block, error) {
	sc := bufio.NewScanner(r)
	var (
		blocks []*Block
		cur    *Block
		line   int
	)
	for sc.Scan() {
		line++
		text := strings.TrimRight(sc.Text(), "\r")
		switch {
		case text == Delimiter:
			if cur == nil {
				return nil, &LineError{Line: line, Text: text}
			}
			blocks = append(blocks, cur)
			cur = nil
		case cur == nil:
			if strings.TrimSpace(text) == "" {
				continue
			}
			if strings.Contains(text, ":") {
				return nil, &LineError{Line: line, Text: text}
			}
			cur = NewBlock(strings.TrimSpace(text))
		default:
			key, value, ok := strings.Cut(text, ":")
			if !ok {
				return nil, &LineError{Line: line, Text: text}
			}
			cur.Set(key, value)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if cur != nil {
		return nil, fmt.Errorf("%w: %s block at end of input", ErrTruncated, cur.Kind)
	}
	return blocks, nil
}
