// Package automation runs scripted and randomised batches of simulations:
// YAML scenarios, mass sweeps and Monte Carlo stability trials.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/san-kum/gravbox/internal/config"
	"github.com/san-kum/gravbox/internal/metrics"
	"github.com/san-kum/gravbox/internal/physics"
	"github.com/san-kum/gravbox/internal/record"
	"github.com/san-kum/gravbox/internal/sim"
	"github.com/san-kum/gravbox/internal/storage"
	"gopkg.in/yaml.v3"
)

var (
	ErrEmptyScenario = errors.New("automation: scenario has no steps")
	ErrBadStep       = errors.New("automation: invalid step")
	ErrNoStore       = errors.New("automation: step needs a saves directory")
)

// Scenario defines a scripted simulation sequence. The world carries over
// from one step to the next unless a step loads another one.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Load and Preset are
// exclusive; Days is used when Ticks is zero.
type ScenarioStep struct {
	Load     string  `yaml:"load"`
	Preset   string  `yaml:"preset"`
	TickTime float64 `yaml:"tick_time"`
	Days     float64 `yaml:"days"`
	Ticks    int     `yaml:"ticks"`
	Record   string  `yaml:"record"`
	SaveAs   string  `yaml:"save_as"`
}

// Env is what a scenario runs against.
type Env struct {
	Store    *storage.Store
	Viewport physics.Viewport
	Logger   log.Logger
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Step   int
	Bodies int
	*sim.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScenario
	}
	for i, st := range s.Steps {
		switch {
		case st.Load != "" && st.Preset != "":
			return fmt.Errorf("%w: step %d sets both load and preset", ErrBadStep, i+1)
		case st.Ticks < 0 || st.Days < 0 || st.TickTime < 0:
			return fmt.Errorf("%w: step %d has a negative duration", ErrBadStep, i+1)
		case st.Preset != "" && config.GetPreset(st.Preset) == nil:
			return fmt.Errorf("%w: step %d: %w: %s", ErrBadStep, i+1, config.ErrUnknownScene, st.Preset)
		}
	}
	return nil
}

// RunScenario executes all steps in a scenario, starting from w (the
// default scene when nil). It returns the results of the steps that ran
// and the final world.
func RunScenario(ctx context.Context, scenario *Scenario, w *physics.World, env Env) ([]StepResult, *physics.World, error) {
	logger := env.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	logger = log.With(logger, "scenario", scenario.Name)
	if w == nil {
		w = physics.DefaultWorld(env.Viewport.Width, env.Viewport.Height)
	}

	results := make([]StepResult, 0, len(scenario.Steps))
	for i, step := range scenario.Steps {
		level.Info(logger).Log("msg", "running step", "step", i+1, "of", len(scenario.Steps))

		next, err := step.world(w, env)
		if err != nil {
			return results, w, fmt.Errorf("step %d: %w", i+1, err)
		}
		w = next
		if step.TickTime > 0 {
			w.TickTime = step.TickTime
		}

		result, err := step.run(ctx, w, logger)
		if err != nil {
			return results, w, fmt.Errorf("step %d run: %w", i+1, err)
		}
		results = append(results, StepResult{Step: i + 1, Bodies: len(w.Bodies), Result: result})

		if step.SaveAs != "" {
			if env.Store == nil {
				return results, w, fmt.Errorf("step %d: %w", i+1, ErrNoStore)
			}
			if err := env.Store.Save(step.SaveAs, w); err != nil {
				return results, w, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
	}
	return results, w, nil
}

func (st ScenarioStep) world(current *physics.World, env Env) (*physics.World, error) {
	switch {
	case st.Load != "":
		if env.Store == nil {
			return nil, ErrNoStore
		}
		return env.Store.Load(st.Load)
	case st.Preset != "":
		cfg := config.DefaultConfig()
		if !cfg.Apply(st.Preset) {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownScene, st.Preset)
		}
		if env.Viewport.Width > 0 && env.Viewport.Height > 0 {
			cfg.Viewport = env.Viewport
		}
		return cfg.World()
	}
	return current, nil
}

func (st ScenarioStep) run(ctx context.Context, w *physics.World, logger log.Logger) (*sim.Result, error) {
	ticks := st.Ticks
	if ticks == 0 {
		ticks = sim.TicksFor(st.Days, w.TickTime)
	}

	runner := sim.New(w)
	for _, m := range metrics.Standard() {
		runner.AddMetric(m)
	}

	if st.Record != "" {
		rec, err := record.Create(st.Record, logger)
		if err != nil {
			return nil, err
		}
		runner.AddObserver(rec)
		defer rec.Close()
	}

	if ticks == 0 {
		return &sim.Result{TimePassed: w.TimePassed, Metrics: map[string]float64{}}, nil
	}
	return runner.Run(ctx, ticks)
}

// ParameterSweep varies the mass of one body across a range.
type ParameterSweep struct {
	Body     int
	MassMin  float64
	MassMax  float64
	NumSteps int
	Days     float64
	// Radius is the distance from the centre of mass a body may reach and
	// still count as bound.
	Radius float64
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	Mass    float64
	Drift   float64
	Bounded float64
	Err     error
}

// RunSweep executes a parameter sweep on copies of base. A run that goes
// non-finite is reported in its result rather than stopping the sweep.
func RunSweep(ctx context.Context, base *physics.World, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.Body < 0 || sweep.Body >= len(base.Bodies) {
		return nil, fmt.Errorf("%w: body %d", ErrBadStep, sweep.Body)
	}
	if sweep.NumSteps < 1 || sweep.MassMin <= 0 || sweep.MassMax < sweep.MassMin {
		return nil, fmt.Errorf("%w: mass range", ErrBadStep)
	}

	paramStep := 0.0
	if sweep.NumSteps > 1 {
		paramStep = (sweep.MassMax - sweep.MassMin) / float64(sweep.NumSteps-1)
	}

	results := make([]SweepResult, 0, sweep.NumSteps)
	for i := 0; i < sweep.NumSteps; i++ {
		mass := sweep.MassMin + float64(i)*paramStep
		w := base.Clone()
		w.Bodies[sweep.Body].SetMass(mass, true)

		drift := metrics.NewEnergyDrift()
		bounded := metrics.NewBounded(sweep.Radius)
		runner := sim.New(w)
		runner.AddMetric(drift)
		runner.AddMetric(bounded)

		_, err := runner.RunFor(ctx, sweep.Days)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		results = append(results, SweepResult{
			Mass:    mass,
			Drift:   drift.Value(),
			Bounded: bounded.Value(),
			Err:     err,
		})
	}
	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters
type MonteCarloConfig struct {
	// Perturbation is the largest random shift of each coordinate of every
	// position; VelPerturbation the same for velocities.
	Perturbation    float64
	VelPerturbation float64
	NumTrials       int
	Days            float64
	Radius          float64
	Seed            int64
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID int
	Bounded float64
	Drift   float64
	Stable  bool // every body stayed within Radius of the centre of mass
}

// RunMonteCarlo executes multiple trials with random perturbations of base.
func RunMonteCarlo(ctx context.Context, base *physics.World, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: trials", ErrBadStep)
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	jitter := func(scale float64) float64 { return (rng.Float64() - 0.5) * 2 * scale }

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		w := base.Clone()
		for _, b := range w.Bodies {
			b.Pos[0] += jitter(cfg.Perturbation)
			b.Pos[1] += jitter(cfg.Perturbation)
			b.Vel[0] += jitter(cfg.VelPerturbation)
			b.Vel[1] += jitter(cfg.VelPerturbation)
		}

		drift := metrics.NewEnergyDrift()
		bounded := metrics.NewBounded(cfg.Radius)
		runner := sim.New(w)
		runner.AddMetric(drift)
		runner.AddMetric(bounded)

		_, err := runner.RunFor(ctx, cfg.Days)
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		stable := err == nil && bounded.Value() == 1

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Bounded: bounded.Value(),
			Drift:   drift.Value(),
			Stable:  stable,
		})
	}

	return results, nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
