// loopdemo is a small headless simulation that wires every scheduling
// primitive together: a state machine for the run phase, a fixed-timestep
// movement stage, condition-gated systems, and optional Lua-scripted gates.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/l1jgo/loopkit/config"
	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/event"
	"github.com/l1jgo/loopkit/internal/scenario"
	"github.com/l1jgo/loopkit/schedule"
	"github.com/l1jgo/loopkit/scripting"
	"github.com/l1jgo/loopkit/system"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Demo state and components ─────────────────────────────────────

type runState int

const (
	stateLoading runState = iota
	statePlaying
	statePaused
)

func (s runState) String() string {
	switch s {
	case stateLoading:
		return "loading"
	case statePlaying:
		return "playing"
	case statePaused:
		return "paused"
	}
	return "unknown"
}

type position struct {
	X, Y float64
}

type velocity struct {
	X, Y float64 // units per second
}

// pauseToggled is emitted when the sim should flip between playing and paused.
type pauseToggled struct{}

// simClock tracks total simulated time, advanced only by fixed-step ticks.
type simClock struct {
	Elapsed time.Duration
}

// ── Main demo logic ───────────────────────────────────────────────

func run() error {
	cfgPath := "config/loopdemo.toml"
	if p := os.Getenv("LOOPKIT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		// No config file: run on defaults.
		cfg = config.Defaults()
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	scenePath := "data/scenario.yaml"
	if p := os.Getenv("LOOPKIT_SCENARIO"); p != "" {
		scenePath = p
	}
	scene, err := scenario.Load(scenePath)
	if err != nil {
		return fmt.Errorf("load scenario: %w", err)
	}
	log.Info("scenario loaded", zap.String("title", scene.Title), zap.Int("waves", scene.Count()))

	w := ecs.NewWorld()
	positions := ecs.NewComponents[position]()
	velocities := ecs.NewComponents[velocity]()
	w.Registry().Register(positions)
	w.Registry().Register(velocities)

	// Optional Lua gate: scripts decide whether stats logging is on.
	var lua *scripting.Engine
	statsGate := system.Condition(system.ConditionFunc(func(*ecs.World) bool { return true }))
	if cfg.Scripts.Enabled {
		lua, err = scripting.NewEngine(cfg.Scripts.Dir, log)
		if err != nil {
			return fmt.Errorf("lua engine: %w", err)
		}
		defer lua.Close()
		lua.Expose("entity_count", func() int { return positions.Len() })
		statsGate = lua.Condition("stats_enabled")
	}

	// State machine: loading immediately hands off to playing; the spawner
	// below does the actual work on sim time.
	machine := schedule.States(stateLoading).
		OnEnter(stateLoading, system.SystemFunc(func(w *ecs.World, _ time.Duration) {
			schedule.SetNextState(w, statePlaying)
		})).
		OnEnter(statePlaying, logState(log, statePlaying)).
		OnEnter(statePaused, logState(log, statePaused)).
		MaxTransitionsPerFrame(cfg.Loop.MaxTransitionsPerFrame).
		Build()

	// Fixed-timestep simulation: wave spawning and movement run at a stable
	// step regardless of the frame rate, gated on the playing state. The
	// clock stage advances sim time after the gated stage, so pausing also
	// freezes wave schedules.
	spawner := newWaveSpawner(scene, positions, velocities)
	movement, err := schedule.FixedStep(cfg.Loop.FixedStep).
		Stage(
			schedule.Conditional(system.Pipeline{spawner, moveSystem(positions, velocities)}).
				RunIf(schedule.InState(statePlaying)).
				Build(),
			schedule.Conditional(system.SystemFunc(func(w *ecs.World, step time.Duration) {
				clk, _ := ecs.Resource[simClock](w)
				clk.Elapsed += step
				ecs.InsertResource(w, clk)
			})).RunIf(schedule.InState(statePlaying)).Build(),
		).
		Build()
	if err != nil {
		return fmt.Errorf("fixed step: %w", err)
	}

	// Subscribed handlers fire from the dispatch system below, before any
	// gated system reads the same events.
	event.Subscribe(w.Events(), func(pauseToggled) {
		log.Info("pause toggle requested")
	})
	dispatch := system.SystemFunc(func(w *ecs.World, _ time.Duration) {
		w.Events().DispatchAll()
	})

	// Pause toggling: any pauseToggled event flips playing <-> paused.
	toggle := schedule.Conditional(system.SystemFunc(func(w *ecs.World, _ time.Duration) {
		if cur, ok := schedule.CurrentStateValue[runState](w); ok {
			if cur == statePlaying {
				schedule.SetNextState(w, statePaused)
			} else {
				schedule.SetNextState(w, statePlaying)
			}
		}
	})).RunIf(schedule.OnEvent[pauseToggled]()).Build()

	stats := schedule.Conditional(statsSystem(log, positions)).
		RunIf(statsGate, schedule.NotInState(stateLoading)).
		Build()

	runner := system.NewRunner().WithLogger(log)
	runner.Register(system.PhasePreUpdate, dispatch)
	runner.Register(system.PhasePreUpdate, toggle)
	runner.Register(system.PhaseUpdate, machine)
	runner.Register(system.PhaseUpdate, movement)
	runner.Register(system.PhasePostUpdate, stats)
	runner.Register(system.PhaseCleanup, system.SystemFunc(func(w *ecs.World, _ time.Duration) {
		w.FlushDestroyQueue()
	}))

	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Loop.TickRate)
	defer ticker.Stop()

	log.Info("loop started",
		zap.Duration("tick_rate", cfg.Loop.TickRate),
		zap.Duration("fixed_step", cfg.Loop.FixedStep))

	// Flip pause every 5 seconds so the demo exercises transitions on its own.
	pauseEvery := 5 * time.Second
	sincePause := time.Duration(0)

	last := time.Now()
	for {
		select {
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now

			sincePause += dt
			if sincePause >= pauseEvery {
				sincePause = 0
				event.Emit(w.Events(), pauseToggled{})
			}

			if cfg.Loop.MaxCatchUp > 0 {
				movement.Accumulator().Clamp(cfg.Loop.MaxCatchUp)
			}
			runner.Tick(w, dt)
		case sig := <-shutdownCh:
			log.Info("shutting down", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// waveSpawner releases scenario waves as sim time reaches each wave's
// cumulative delay. Runs inside the fixed-step pipeline, so schedules are
// deterministic in sim time.
type waveSpawner struct {
	scene      *scenario.Scenario
	due        []time.Duration
	next       int
	positions  *ecs.Components[position]
	velocities *ecs.Components[velocity]
}

func newWaveSpawner(scene *scenario.Scenario, positions *ecs.Components[position], velocities *ecs.Components[velocity]) *waveSpawner {
	due := make([]time.Duration, scene.Count())
	acc := time.Duration(0)
	for i, wave := range scene.Waves() {
		acc += time.Duration(wave.DelayMS) * time.Millisecond
		due[i] = acc
	}
	return &waveSpawner{scene: scene, due: due, positions: positions, velocities: velocities}
}

func (s *waveSpawner) Update(w *ecs.World, _ time.Duration) {
	clk, _ := ecs.Resource[simClock](w)
	for s.next < len(s.due) && clk.Elapsed >= s.due[s.next] {
		wave := s.scene.Waves()[s.next]
		for n := 0; n < wave.Count; n++ {
			e := w.CreateEntity()
			s.positions.Set(e, &position{X: float64(s.next * 10), Y: float64(n)})
			s.velocities.Set(e, &velocity{X: wave.SpeedX, Y: wave.SpeedY})
		}
		s.next++
	}
}

// moveSystem integrates positions at the fixed step.
func moveSystem(positions *ecs.Components[position], velocities *ecs.Components[velocity]) system.System {
	return system.SystemFunc(func(_ *ecs.World, step time.Duration) {
		secs := step.Seconds()
		ecs.Each2(positions, velocities, func(_ ecs.EntityID, p *position, v *velocity) {
			p.X += v.X * secs
			p.Y += v.Y * secs
		})
	})
}

func statsSystem(log *zap.Logger, positions *ecs.Components[position]) system.System {
	frames := 0
	return system.SystemFunc(func(w *ecs.World, _ time.Duration) {
		frames++
		if frames%25 != 0 {
			return
		}
		clk, _ := ecs.Resource[simClock](w)
		cur, _ := schedule.CurrentStateValue[runState](w)
		log.Info("sim stats",
			zap.Stringer("state", cur),
			zap.Int("entities", positions.Len()),
			zap.Duration("sim_time", clk.Elapsed))
	})
}

func logState(log *zap.Logger, s runState) system.System {
	return system.SystemFunc(func(_ *ecs.World, _ time.Duration) {
		log.Info("state entered", zap.Stringer("state", s))
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
