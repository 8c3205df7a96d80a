package scripting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/l1jgo/loopkit/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, script string) *Engine {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "test.lua"), []byte(script), 0644))
	e, err := NewEngine(dir, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestLuaConditionAndSystem(t *testing.T) {
	e := newTestEngine(t, `
enabled = false
total_ms = 0

function is_enabled()
	return enabled
end

function enable(dt_ms)
	enabled = true
	total_ms = total_ms + dt_ms
end
`)
	w := ecs.NewWorld()
	cond := e.Condition("is_enabled")
	sys := e.System("enable")

	assert.False(t, cond.Check(w))

	sys.Update(w, 200*time.Millisecond)
	assert.True(t, cond.Check(w))
}

func TestLuaConditionFailsClosed(t *testing.T) {
	e := newTestEngine(t, `
function broken()
	error("boom")
end
`)
	w := ecs.NewWorld()

	assert.False(t, e.Condition("missing_fn").Check(w), "missing function evaluates false")
	assert.False(t, e.Condition("broken").Check(w), "script error evaluates false")
}

func TestLuaSystemErrorIsNoOp(t *testing.T) {
	e := newTestEngine(t, `
function broken(dt_ms)
	error("boom")
end
`)
	w := ecs.NewWorld()

	assert.NotPanics(t, func() {
		e.System("broken").Update(w, time.Millisecond)
		e.System("missing_fn").Update(w, time.Millisecond)
	})
}

func TestExpose(t *testing.T) {
	e := newTestEngine(t, `
function has_players()
	return player_count() > 0
end
`)
	w := ecs.NewWorld()
	players := 0
	e.Expose("player_count", func() int { return players })

	cond := e.Condition("has_players")
	assert.False(t, cond.Check(w))

	players = 2
	assert.True(t, cond.Check(w))
}

func TestMissingScriptsDirIsUsable(t *testing.T) {
	e, err := NewEngine(filepath.Join(t.TempDir(), "does-not-exist"), zap.NewNop())
	require.NoError(t, err)
	defer e.Close()
}

func TestBadScriptFailsLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.lua"), []byte("function ("), 0644))

	_, err := NewEngine(dir, zap.NewNop())
	assert.Error(t, err)
}
