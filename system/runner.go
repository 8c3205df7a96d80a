package system

import (
	"sort"
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"go.uber.org/zap"
)

type entry struct {
	phase Phase
	seq   int
	sys   System
}

// Runner is the host-side frame driver: it executes registered systems in
// phase order each frame, preserving registration order within a phase. The
// scheduling constructs it drives are ordinary Systems; the Runner knows
// nothing about conditions, ticks, or states.
type Runner struct {
	entries []entry
	nextSeq int
	sorted  bool
	log     *zap.Logger
}

func NewRunner() *Runner {
	return &Runner{
		entries: make([]entry, 0, 16),
		log:     zap.NewNop(),
	}
}

// WithLogger attaches a logger for frame diagnostics. The driver logs; the
// scheduling constructs never do.
func (r *Runner) WithLogger(log *zap.Logger) *Runner {
	if log != nil {
		r.log = log
	}
	return r
}

func (r *Runner) Register(phase Phase, s System) {
	r.entries = append(r.entries, entry{phase: phase, seq: r.nextSeq, sys: s})
	r.nextSeq++
	r.sorted = false
}

// Tick swaps the event buffers and runs every registered system once, in
// phase order, against the given frame delta. A frame that takes longer than
// its delta budget is logged; the next tick will arrive late and fixed-step
// runners downstream start catching up.
func (r *Runner) Tick(w *ecs.World, dt time.Duration) {
	r.ensureSorted()
	w.Events().SwapBuffers()
	start := time.Now()
	for _, e := range r.entries {
		e.sys.Update(w, dt)
	}
	if elapsed := time.Since(start); dt > 0 && elapsed > dt {
		r.log.Warn("frame overrun",
			zap.Duration("budget", dt),
			zap.Duration("elapsed", elapsed))
	}
}

// TickPhase runs only the systems registered for one phase. Used by hosts
// that poll a single phase at a higher frequency between full frames.
func (r *Runner) TickPhase(w *ecs.World, phase Phase, dt time.Duration) {
	r.ensureSorted()
	for _, e := range r.entries {
		if e.phase == phase {
			e.sys.Update(w, dt)
		}
	}
}

func (r *Runner) ensureSorted() {
	if r.sorted {
		return
	}
	// Stable order: phase first, then registration sequence.
	sort.Slice(r.entries, func(i, j int) bool {
		if r.entries[i].phase != r.entries[j].phase {
			return r.entries[i].phase < r.entries[j].phase
		}
		return r.entries[i].seq < r.entries[j].seq
	})
	r.sorted = true
	r.log.Debug("runner sorted", zap.Int("systems", len(r.entries)))
}
