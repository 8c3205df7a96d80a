package schedule

import (
	"testing"
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"github.com/l1jgo/loopkit/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccumulatorRejectsNonPositiveStep(t *testing.T) {
	_, err := NewAccumulator(0)
	assert.Error(t, err)

	_, err = NewAccumulator(-time.Millisecond)
	assert.Error(t, err)

	acc, err := NewAccumulator(100 * time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 100*time.Millisecond, acc.Step())
}

func TestAccumulatorSmallDeltaSequence(t *testing.T) {
	acc, err := NewAccumulator(100 * time.Millisecond)
	require.NoError(t, err)

	wantTicks := []int{0, 0, 1}
	wantAccum := []time.Duration{40 * time.Millisecond, 80 * time.Millisecond, 20 * time.Millisecond}

	for i := 0; i < 3; i++ {
		acc.Add(40 * time.Millisecond)
		ticks := acc.Ticks()
		for j := 0; j < ticks; j++ {
			acc.Consume()
		}
		assert.Equal(t, wantTicks[i], ticks, "frame %d tick count", i)
		assert.Equal(t, wantAccum[i], acc.Accumulated(), "frame %d balance", i)
	}
}

func TestFixedStepSingleLargeDelta(t *testing.T) {
	w := ecs.NewWorld()
	executed := 0
	var seenDt []time.Duration
	r, err := FixedStep(100 * time.Millisecond).
		Stage(system.SystemFunc(func(_ *ecs.World, dt time.Duration) {
			executed++
			seenDt = append(seenDt, dt)
		})).
		Build()
	require.NoError(t, err)

	r.Update(w, 350*time.Millisecond)

	assert.Equal(t, 3, executed)
	assert.Equal(t, 50*time.Millisecond, r.Accumulator().Accumulated())
	for _, dt := range seenDt {
		assert.Equal(t, 100*time.Millisecond, dt, "stages see the fixed step as their delta")
	}
}

func TestFixedStepZeroDeltaIsNoOp(t *testing.T) {
	w := ecs.NewWorld()
	executed := 0
	r, err := FixedStep(100 * time.Millisecond).
		Stage(system.SystemFunc(func(_ *ecs.World, _ time.Duration) { executed++ })).
		Build()
	require.NoError(t, err)

	r.Update(w, 0)

	assert.Equal(t, 0, executed)
	assert.Equal(t, time.Duration(0), r.Accumulator().Accumulated())
}

func TestFixedStepRepeatsFullStageSequencePerTick(t *testing.T) {
	w := ecs.NewWorld()
	var order []string
	stage := func(name string) system.System {
		return system.SystemFunc(func(_ *ecs.World, _ time.Duration) {
			order = append(order, name)
		})
	}
	r, err := FixedStep(50 * time.Millisecond).
		Stage(stage("move"), stage("collide")).
		Stage(stage("flush")).
		Build()
	require.NoError(t, err)

	r.Update(w, 100*time.Millisecond)

	assert.Equal(t, []string{"move", "collide", "flush", "move", "collide", "flush"}, order)
}

func TestFixedStepRejectsInvalidStep(t *testing.T) {
	_, err := FixedStep(0).Stage(system.SystemFunc(func(*ecs.World, time.Duration) {})).Build()
	assert.Error(t, err)
}

func TestFixedStepDeterminism(t *testing.T) {
	deltas := []time.Duration{
		16 * time.Millisecond,
		33 * time.Millisecond,
		250 * time.Millisecond,
		0,
		99 * time.Millisecond,
		101 * time.Millisecond,
	}

	run := func() ([]int, time.Duration) {
		w := ecs.NewWorld()
		var perFrame []int
		ticks := 0
		r, err := FixedStep(40 * time.Millisecond).
			Stage(system.SystemFunc(func(_ *ecs.World, _ time.Duration) { ticks++ })).
			Build()
		require.NoError(t, err)
		for _, d := range deltas {
			before := ticks
			r.Update(w, d)
			perFrame = append(perFrame, ticks-before)
		}
		return perFrame, r.Accumulator().Accumulated()
	}

	ticksA, accA := run()
	ticksB, accB := run()

	assert.Equal(t, ticksA, ticksB, "identical (step, deltas) must yield identical tick sequences")
	assert.Equal(t, accA, accB)
}

func TestAccumulatorTicksSnapshotNotAffectedByConsume(t *testing.T) {
	acc, err := NewAccumulator(10 * time.Millisecond)
	require.NoError(t, err)
	acc.Add(35 * time.Millisecond)

	ticks := acc.Ticks()
	assert.Equal(t, 3, ticks)

	// Consuming per the snapshot leaves only the remainder.
	for i := 0; i < ticks; i++ {
		acc.Consume()
	}
	assert.Equal(t, 5*time.Millisecond, acc.Accumulated())
	assert.Equal(t, 0, acc.Ticks())
}

func TestAccumulatorClamp(t *testing.T) {
	acc, err := NewAccumulator(10 * time.Millisecond)
	require.NoError(t, err)

	acc.Add(5 * time.Second)
	acc.Clamp(30 * time.Millisecond)
	assert.Equal(t, 30*time.Millisecond, acc.Accumulated())

	// Clamp never raises the balance.
	acc.Clamp(time.Minute)
	assert.Equal(t, 30*time.Millisecond, acc.Accumulated())
}
