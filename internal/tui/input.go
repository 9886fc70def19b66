package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/gravbox/internal/editor"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/geom"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/units"
)

const maxInputLen = 64

var (
	errEmptyPath = errors.New("tui: empty path")
	errNoStore   = errors.New("tui: no saves directory")
)

type editKind int

const (
	editMass editKind = iota
	editName
	editAngle
	editVelocity
	editPosX
	editPosY
)

type promptKind int

const (
	promptSave promptKind = iota
	promptLoad
	promptDelete
	promptExport
	promptCanvas
)

// inputLine is the one-line text editor shown under the panel. apply runs
// on enter; the line closes either way.
type inputLine struct {
	label string
	buf   string
	apply func(text string) error
	ok    string
}

func (m *Model) open(label, initial, ok string, apply func(string) error) {
	m.input = &inputLine{label: label, buf: initial, apply: apply, ok: ok}
	m.mode = modeInput
}

func (m *Model) closeInput() {
	m.input = nil
	m.mode = modeNormal
}

func (m *Model) inputKey(msg tea.KeyMsg) {
	in := m.input
	switch msg.Type {
	case tea.KeyEnter:
		m.closeInput()
		m.notify(in.apply(in.buf), in.ok)
	case tea.KeyEsc, tea.KeyCtrlC:
		m.closeInput()
	case tea.KeyBackspace:
		if in.buf != "" {
			_, size := utf8.DecodeLastRuneInString(in.buf)
			in.buf = in.buf[:len(in.buf)-size]
		}
	case tea.KeyCtrlU:
		in.buf = ""
	case tea.KeySpace:
		in.append(" ")
	case tea.KeyRunes:
		in.append(string(msg.Runes))
	}
}

func (in *inputLine) append(s string) {
	if utf8.RuneCountInString(in.buf)+utf8.RuneCountInString(s) > maxInputLen {
		return
	}
	in.buf += s
}

// editField opens the editor for a field of the current body, prefilled
// with its value. Positions fall back to the selection centre.
func (m *Model) editField(kind editKind) {
	s := m.session
	b := s.Current()

	if b == nil {
		center, ok := s.SelectionCenter()
		if !ok {
			m.notify(editor.ErrNoSelection, "")
			return
		}
		switch kind {
		case editPosX:
			m.open("x", geom.FormatFloat(center[0]), "", s.SetSelectionX)
		case editPosY:
			m.open("y", geom.FormatFloat(center[1]), "", s.SetSelectionY)
		default:
			m.notify(editor.ErrNoSelection, "")
		}
		return
	}

	switch kind {
	case editMass:
		m.open("mass (kg)", units.FormatSci(b.MassKG()), "", s.SetMass)
	case editName:
		m.open("name", b.Name, "", s.SetName)
	case editAngle:
		m.open("angle (°)", fmt.Sprint(geom.Degrees(b.VelAngle())), "", s.SetAngle)
	case editVelocity:
		m.open("velocity (km/s)", units.FormatSci(units.UnitsPerDayToKms(b.AbsVel())), "", s.SetVelocity)
	case editPosX:
		m.open("x", geom.FormatFloat(b.Pos[0]), "", s.SetPosX)
	case editPosY:
		m.open("y", geom.FormatFloat(b.Pos[1]), "", s.SetPosY)
	}
}

// prompt opens the file prompts. Without a store only export works.
func (m *Model) prompt(kind promptKind) {
	if m.store == nil && kind != promptExport && kind != promptCanvas {
		m.notify(errNoStore, "")
		return
	}
	switch kind {
	case promptSave:
		m.open("save as", "", editor.MsgSaved, m.saveAs)
	case promptLoad:
		names, _ := m.store.Names()
		m.open("load ("+strings.Join(names, ", ")+")", "", editor.MsgLoaded, m.load)
	case promptDelete:
		m.open("delete", "", editor.MsgDeleted, m.store.Delete)
	case promptExport:
		m.open("export svg", "space.svg", "Exported!", m.exportSVG)
	case promptCanvas:
		m.open("export canvas", "canvas.svg", "Exported!", m.exportCanvas)
	}
}

func (m *Model) saveAs(name string) error {
	return m.store.Save(strings.TrimSpace(name), m.session.World)
}

func (m *Model) load(name string) error {
	if err := m.store.LoadInto(strings.TrimSpace(name), m.session.World); err != nil {
		return err
	}
	m.session.Restore()
	m.speeds, m.energies = nil, nil
	return nil
}

// exportPath resolves a typed path; relative paths land in the saves
// directory when there is one.
func (m *Model) exportPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errEmptyPath
	}
	if !filepath.IsAbs(path) && m.store != nil {
		if err := m.store.Init(); err != nil {
			return "", err
		}
		path = filepath.Join(m.store.Dir(), path)
	}
	return path, nil
}

func (m *Model) exportSVG(path string) error {
	path, err := m.exportPath(path)
	if err != nil {
		return err
	}
	svg := export.SceneSVG(m.session.World, m.vp, export.Options{
		Field:  m.session.World.RendersField,
		Margin: m.session.World.Margin,
		Trail:  m.session.Trail(),
		Labels: true,
	})
	return os.WriteFile(path, []byte(svg), 0o644)
}

// exportCanvas writes the braille view as it is on screen.
func (m *Model) exportCanvas(path string) error {
	path, err := m.exportPath(path)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(export.CanvasToSVG(m.drawCanvas(), 4)), 0o644)
}

func physicsSpeedKms(b *physics.Body) float64 {
	return units.UnitsPerDayToKms(b.AbsVel())
}
