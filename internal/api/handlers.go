package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/go-kit/kit/log/level"
	"github.com/san-kum/gravbox/internal/editor"
	"github.com/san-kum/gravbox/internal/export"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/storage"
)

// MaxTicksPerRequest bounds POST /tick.
const MaxTicksPerRequest = 10000

var (
	errBodyNotFound = errors.New("body not found")
	errBadTicks     = errors.New("n must be between 1 and 10000")
	errNoStore      = errors.New("saves are disabled")
)

// respondError maps err to a status code and writes {"error": ...}.
func (h *Hub) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()

	var inputErr *editor.InputError
	switch {
	case errors.As(err, &inputErr):
		status, msg = http.StatusBadRequest, inputErr.Notice()
	case errors.Is(err, storage.ErrInvalidName):
		status, msg = http.StatusBadRequest, editor.MsgInvalidValue
	case errors.Is(err, errBadTicks):
		status = http.StatusBadRequest
	case errors.Is(err, errBodyNotFound), errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, physics.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, errNoStore):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		level.Error(h.logger).Log("msg", "request failed", "path", c.FullPath(), "err", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func (h *Hub) getWorld(c *gin.Context) {
	var view worldView
	h.Do(func(s *editor.Session) error {
		view = newWorldView(s)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *Hub) getBodies(c *gin.Context) {
	var bodies []bodyView
	h.Do(func(s *editor.Session) error {
		bodies = bodyViews(s.World)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"data": bodies, "count": len(bodies)})
}

func (h *Hub) getBody(c *gin.Context) {
	var view bodyView
	err := h.Do(func(s *editor.Session) error {
		i, b, err := lookup(s.World, c.Param("index"))
		if err != nil {
			return err
		}
		view = newBodyView(i, b)
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *Hub) addBody(c *gin.Context) {
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgInvalidValue})
		return
	}
	if req.X == nil || req.Y == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgInvalidValue})
		return
	}

	var view bodyView
	err := h.Do(func(s *editor.Session) error {
		b := s.World.AddBody(mgl64.Vec2{*req.X, *req.Y}, editor.NewBodyMass, physics.DefaultName)
		if err := req.apply(s, b); err != nil {
			s.World.RemoveBodies(b)
			return err
		}
		view = newBodyView(len(s.World.Bodies)-1, b)
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": view})
}

func (h *Hub) patchBody(c *gin.Context) {
	var req bodyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgInvalidValue})
		return
	}

	var view bodyView
	err := h.Do(func(s *editor.Session) error {
		i, b, err := lookup(s.World, c.Param("index"))
		if err != nil {
			return err
		}
		if err := req.apply(s, b); err != nil {
			return err
		}
		view = newBodyView(i, b)
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (h *Hub) deleteBody(c *gin.Context) {
	err := h.Do(func(s *editor.Session) error {
		_, b, err := lookup(s.World, c.Param("index"))
		if err != nil {
			return err
		}
		s.World.RemoveBodies(b)
		if s.Current() == nil {
			s.Release()
		}
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// tick advances the world n ticks (default 1) whether or not the clock
// runs.
func (h *Hub) tick(c *gin.Context) {
	n := 1
	if q := c.Query("n"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 || v > MaxTicksPerRequest {
			h.respondError(c, errBadTicks)
			return
		}
		n = v
	}

	var view worldView
	err := h.Do(func(s *editor.Session) error {
		for i := 0; i < n; i++ {
			s.World.Update()
			s.Tick()
		}
		if !s.World.Valid() {
			return physics.ErrInvalidState
		}
		view = newWorldView(s)
		return nil
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

// clock handles pause, resume, faster and slower.
func (h *Hub) clock(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var view clockView
		h.Do(func(s *editor.Session) error {
			switch action {
			case "pause":
				s.Time.Pause()
			case "resume":
				s.Time.Resume()
			case "faster":
				s.Time.SpeedUp()
			case "slower":
				s.Time.SlowDown()
			}
			view = newClockView(s)
			return nil
		})
		c.JSON(http.StatusOK, gin.H{"data": view})
	}
}

func (h *Hub) getField(c *gin.Context) {
	margin := 0
	if q := c.Query("margin"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil || v < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": editor.MsgInvalidValue})
			return
		}
		margin = v
	}

	var samples []fieldView
	h.Do(func(s *editor.Session) error {
		m := margin
		if m == 0 {
			m = s.World.Margin
		}
		for _, f := range s.World.SampleField(h.vp, m) {
			samples = append(samples, newFieldView(f))
		}
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"data": samples, "count": len(samples)})
}

func (h *Hub) getMetrics(c *gin.Context) {
	var out gin.H
	h.Do(func(s *editor.Session) error {
		p := metrics.TotalMomentum(s.World)
		out = gin.H{
			"kinetic_energy":   metrics.KineticEnergy(s.World),
			"potential_energy": metrics.PotentialEnergy(s.World),
			"total_energy":     metrics.TotalEnergy(s.World),
			"momentum":         []float64{p[0], p[1]},
			"total_mass":       s.World.TotalMass(),
		}
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"data": out})
}

func (h *Hub) snapshot(c *gin.Context) {
	var svg string
	h.Do(func(s *editor.Session) error {
		svg = export.SceneSVG(s.World, h.vp, export.Options{
			Field:  c.Query("field") == "true" || s.World.RendersField,
			Trail:  s.Trail(),
			Labels: c.Query("labels") != "false",
		})
		return nil
	})
	c.Data(http.StatusOK, "image/svg+xml", []byte(svg))
}

func (h *Hub) listSaves(c *gin.Context) {
	if h.store == nil {
		h.respondError(c, errNoStore)
		return
	}
	entries, err := h.store.List()
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]saveView, len(entries))
	for i, e := range entries {
		out[i] = saveView{Name: e.Name, ModTime: e.ModTime, Size: e.Size}
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "count": len(out)})
}

func (h *Hub) saveWorld(c *gin.Context) {
	if h.store == nil {
		h.respondError(c, errNoStore)
		return
	}
	name := c.Param("name")
	// copy under the lock, write outside it
	w := h.World()
	if err := h.store.Save(name, w); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"data": gin.H{"name": name, "message": editor.MsgSaved}})
}

func (h *Hub) loadWorld(c *gin.Context) {
	if h.store == nil {
		h.respondError(c, errNoStore)
		return
	}
	name := c.Param("name")
	loaded, err := h.store.Load(name)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var view worldView
	h.Do(func(s *editor.Session) error {
		s.World.Replace(loaded)
		s.Restore()
		view = newWorldView(s)
		return nil
	})
	c.JSON(http.StatusOK, gin.H{"data": view, "message": editor.MsgLoaded})
}

func (h *Hub) deleteSave(c *gin.Context) {
	if h.store == nil {
		h.respondError(c, errNoStore)
		return
	}
	if err := h.store.Delete(c.Param("name")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func lookup(w *physics.World, param string) (int, *physics.Body, error) {
	i, err := strconv.Atoi(param)
	if err != nil || i < 0 || i >= len(w.Bodies) {
		return 0, nil, errBodyNotFound
	}
	return i, w.Bodies[i], nil
}
