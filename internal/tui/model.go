package tui

import (
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/san-kum/gravbox/internal/editor"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/storage"
	"github.com/san-kum/gravbox/internal/viz"
)

const (
	panelWidth  = 36
	historyLen  = 120
	minCols     = 20
	minRows     = 8
	canvasTop   = 1
	bigStepSize = 5
)

type mode int

const (
	modeNormal mode = iota
	modeInput
	modeArea
	modeGrab
)

// Options configures a sandbox session.
type Options struct {
	World    *physics.World
	Viewport physics.Viewport
	Store    *storage.Store
	Logger   log.Logger
	FPS      int
	Theme    string
}

// Model is the bubbletea model of the sandbox.
type Model struct {
	session *editor.Session
	store   *storage.Store
	logger  log.Logger
	vp      physics.Viewport
	fps     int
	theme   viz.Theme

	width, height int
	cursor        mgl64.Vec2
	mode          mode
	anchor        mgl64.Vec2
	input         *inputLine
	showHelp      bool
	frame         int

	speeds   []float64
	energies []float64

	lastMouse   mgl64.Vec2
	lastMouseAt time.Time
	mouseVel    mgl64.Vec2

	now func() time.Time
}

func New(opts Options) *Model {
	w := opts.World
	if w == nil {
		w = physics.DefaultWorld(opts.Viewport.Width, opts.Viewport.Height)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 30
	}
	return &Model{
		session: editor.NewSession(w),
		store:   opts.Store,
		logger:  log.With(logger, "component", "tui"),
		vp:      opts.Viewport,
		fps:     fps,
		theme:   viz.GetTheme(opts.Theme),
		width:   120,
		height:  36,
		cursor:  mgl64.Vec2{float64(opts.Viewport.Width / 2), float64(opts.Viewport.Height / 2)},
		now:     time.Now,
	}
}

// Session exposes the editing session, mainly for tests.
func (m *Model) Session() *editor.Session { return m.session }

// Cursor is the world point under the keyboard cursor.
func (m *Model) Cursor() mgl64.Vec2 { return m.cursor }

type tickMsg time.Time

func (m *Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Init() tea.Cmd { return m.tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		m.step()
		return m, m.tick()
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.KeyMsg:
		if m.mode == modeInput {
			m.inputKey(msg)
			return m, nil
		}
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) step() {
	m.frame++
	if !m.session.Step() {
		return
	}
	if b := m.session.Current(); b != nil {
		m.speeds = appendBounded(m.speeds, physicsSpeedKms(b), historyLen)
	}
	m.energies = appendBounded(m.energies, metrics.TotalEnergy(m.session.World), historyLen)
}

func appendBounded(s []float64, v float64, n int) []float64 {
	s = append(s, v)
	if len(s) > n {
		s = s[len(s)-n:]
	}
	return s
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	s := m.session
	now := m.now()

	switch msg.String() {
	case "q", "ctrl+c":
		m.autosave()
		return tea.Quit
	case "up":
		m.moveCursor(0, -1)
	case "down":
		m.moveCursor(0, 1)
	case "left":
		m.moveCursor(-1, 0)
	case "right":
		m.moveCursor(1, 0)
	case "shift+up":
		m.moveCursor(0, -bigStepSize)
	case "shift+down":
		m.moveCursor(0, bigStepSize)
	case "shift+left":
		m.moveCursor(-bigStepSize, 0)
	case "shift+right":
		m.moveCursor(bigStepSize, 0)
	case "a":
		s.AddBodyAt(m.cursor, now)
		m.speeds = nil
	case "enter":
		if m.mode == modeArea {
			m.finishArea()
			return nil
		}
		s.Select(m.cursor)
		m.speeds = nil
	case "esc":
		if m.mode == modeGrab {
			s.EndDrag(mgl64.Vec2{}, now)
		}
		m.mode = modeNormal
		s.Release()
		m.speeds = nil
	case "tab":
		if b := s.SelectNext(); b != nil {
			m.cursor = b.Pos
		}
		m.speeds = nil
	case "x", "delete":
		s.RemoveSelected()
	case "v":
		if m.mode == modeArea {
			m.finishArea()
		} else {
			m.mode = modeArea
			m.anchor = m.cursor
		}
	case "d":
		m.toggleGrab(now)
	case "f":
		s.World.RendersField = !s.World.RendersField
	case " ", "space":
		s.Time.Toggle()
	case "+", "=":
		s.Time.SpeedUp()
	case "-", "_":
		s.Time.SlowDown()
	case "o":
		if s.Current() != nil {
			s.SetTrail(!s.TrailEnabled())
		}
	case "m":
		m.editField(editMass)
	case "n":
		m.editField(editName)
	case "g":
		m.editField(editAngle)
	case "p":
		m.editField(editVelocity)
	case "X":
		m.editField(editPosX)
	case "Y":
		m.editField(editPosY)
	case "w":
		m.prompt(promptSave)
	case "l":
		m.prompt(promptLoad)
	case "D":
		m.prompt(promptDelete)
	case "e":
		m.prompt(promptExport)
	case "E":
		m.prompt(promptCanvas)
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
	case "?":
		m.showHelp = !m.showHelp
	}
	return nil
}

// moveCursor moves the cursor by whole canvas cells and keeps it inside the
// viewport. A grabbed body follows it.
func (m *Model) moveCursor(dc, dr int) {
	proj := m.projection()
	col, row := proj.CellOf(m.cursor)
	next := proj.Cell(col+dc, row+dr)
	next[0] = clamp(next[0], 0, float64(m.vp.Width-1))
	next[1] = clamp(next[1], 0, float64(m.vp.Height-1))
	m.cursor = next
	if m.mode == modeGrab {
		m.session.DragTo(m.cursor, m.now())
	}
}

func (m *Model) toggleGrab(now time.Time) {
	s := m.session
	if m.mode == modeGrab {
		s.EndDrag(mgl64.Vec2{}, now)
		m.mode = modeNormal
		return
	}
	if s.Current() == nil {
		s.Select(m.cursor)
	}
	b := s.Current()
	if b == nil {
		return
	}
	if s.BeginDrag(b.Pos, now) {
		m.mode = modeGrab
		m.cursor = b.Pos
	}
}

func (m *Model) finishArea() {
	m.mode = modeNormal
	x0, x1 := min(m.anchor[0], m.cursor[0]), max(m.anchor[0], m.cursor[0])
	y0, y1 := min(m.anchor[1], m.cursor[1]), max(m.anchor[1], m.cursor[1])
	m.session.SelectArea(x0, y0, x1-x0, y1-y0)
	m.speeds = nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	s := m.session
	now := m.now()
	proj := m.projection()
	p := proj.Cell(msg.X, msg.Y-canvasTop)

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			m.cursor = p
			if b := s.Select(p); b != nil {
				s.BeginDrag(p, now)
			}
			m.lastMouse, m.lastMouseAt, m.mouseVel = p, now, mgl64.Vec2{}
			m.speeds = nil
		case tea.MouseButtonRight:
			m.cursor = p
			s.AddBodyAt(p, now)
		}
	case tea.MouseActionMotion:
		if !s.Dragging() {
			return
		}
		if dt := now.Sub(m.lastMouseAt); dt > 0 {
			// pointer velocity in world units per frame
			frames := dt.Seconds() * float64(m.fps)
			m.mouseVel = p.Sub(m.lastMouse).Mul(1 / frames)
		}
		m.lastMouse, m.lastMouseAt = p, now
		m.cursor = p
		s.DragTo(p, now)
	case tea.MouseActionRelease:
		if s.Dragging() {
			s.EndDrag(m.mouseVel, now)
		}
	}
}

func (m *Model) autosave() {
	if m.store == nil {
		return
	}
	if err := m.store.Autosave(m.session.World); err != nil {
		level.Error(m.logger).Log("msg", "autosave failed", "err", err)
	}
}

// notify turns err into a notice. Input errors carry their own text.
func (m *Model) notify(err error, ok string) {
	now := m.now()
	if err == nil {
		if ok != "" {
			m.session.Notify(ok, now)
		}
		return
	}
	var inputErr *editor.InputError
	if errors.As(err, &inputErr) {
		m.session.Notify(inputErr.Notice(), now)
		return
	}
	if errors.Is(err, storage.ErrInvalidName) || errors.Is(err, errEmptyPath) {
		m.session.Notify(editor.MsgInvalidValue, now)
		return
	}
	level.Warn(m.logger).Log("msg", "action failed", "err", err)
	m.session.Notify(err.Error(), now)
}

func clamp(v, lo, hi float64) float64 {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
