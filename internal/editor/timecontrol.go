package editor

import (
	"fmt"
	"math"

	"github.com/san-kum/gravbox/internal/physics"
)

const (
	TimeStep    = 0.25
	MinTimeRate = 0.25
	MaxTimeRate = 2.0
)

// TimeControl sets the world's tick time in steps of TimeStep days and
// pauses the clock.
type TimeControl struct {
	world  *physics.World
	paused bool
}

func NewTimeControl(w *physics.World) *TimeControl {
	return &TimeControl{world: w}
}

// Rate is the current tick time in days.
func (t *TimeControl) Rate() float64 { return t.world.TickTime }

// snapped is the rate rounded to the nearest step within bounds.
func (t *TimeControl) snapped() float64 {
	r := math.Round(t.world.TickTime/TimeStep) * TimeStep
	return math.Min(math.Max(r, MinTimeRate), MaxTimeRate)
}

// SpeedUp raises the rate by one step. It reports false at the maximum.
func (t *TimeControl) SpeedUp() bool {
	r := t.snapped()
	if r+TimeStep > MaxTimeRate+1e-9 {
		t.world.TickTime = r
		return false
	}
	t.world.TickTime = r + TimeStep
	return true
}

// SlowDown lowers the rate by one step. It reports false at the minimum.
func (t *TimeControl) SlowDown() bool {
	r := t.snapped()
	if r-TimeStep < MinTimeRate-1e-9 {
		t.world.TickTime = r
		return false
	}
	t.world.TickTime = r - TimeStep
	return true
}

func (t *TimeControl) Pause()        { t.paused = true }
func (t *TimeControl) Resume()       { t.paused = false }
func (t *TimeControl) Toggle()       { t.paused = !t.paused }
func (t *TimeControl) Running() bool { return !t.paused }

// Level is the rate in steps, 1 to 8.
func (t *TimeControl) Level() int { return int(math.Round(t.Rate() / TimeStep)) }

// MaxLevel is the number of steps at MaxTimeRate.
func MaxLevel() int { return int(MaxTimeRate / TimeStep) }

// DaysPassed is the whole number of simulated days.
func (t *TimeControl) DaysPassed() int { return int(t.world.TimePassed) }

func (t *TimeControl) String() string {
	return fmt.Sprintf("Days passed: %d", t.DaysPassed())
}
