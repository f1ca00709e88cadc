package timing

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1600*time.Millisecond, cfg.Duration(TitleIn))
	assert.Equal(t, 500*time.Millisecond, cfg.Duration(SubtitleIn))
	assert.Equal(t, 300*time.Millisecond, cfg.Duration(ValueGroupIn))
	assert.Equal(t, 300*time.Millisecond, cfg.Duration(ElementExit))
	assert.Equal(t, 60*time.Millisecond, cfg.Duration(ElementExitDelay))
	assert.Zero(t, cfg.Delay(SubtitleIn))

	assert.Equal(t, 25*time.Millisecond, cfg.ConcealSettle())
	assert.Equal(t, 50*time.Millisecond, cfg.ConcealGrace())
	assert.Equal(t, 500*time.Millisecond, cfg.ExitSettle())
	assert.Equal(t, 100*time.Millisecond, cfg.ReEntryDelay())
	assert.Equal(t, "translateY(-25px)", cfg.ConcealOffset())
}

func TestUnknownPhasePanics(t *testing.T) {
	cfg := Default()
	assert.Panics(t, func() { cfg.Duration(Phase("bogus")) })
	assert.Panics(t, func() { cfg.Delay(Phase("bogus")) })
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(map[Phase]Spec)
		opts    []Option
		wantErr error
	}{
		{
			name:    "zero duration",
			mutate:  func(p map[Phase]Spec) { p[SubtitleIn] = Spec{} },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "negative delay",
			mutate:  func(p map[Phase]Spec) { p[TitleIn] = Spec{Duration: time.Second, Delay: -1} },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "missing phase",
			mutate:  func(p map[Phase]Spec) { delete(p, ElementExit) },
			wantErr: ErrMissingPhase,
		},
		{
			name:    "unknown phase",
			mutate:  func(p map[Phase]Spec) { p["outro"] = Spec{Duration: time.Second} },
			wantErr: ErrUnknownPhase,
		},
		{
			name:    "negative settle",
			opts:    []Option{WithCycle(-time.Millisecond, 0)},
			wantErr: ErrInvalidDuration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			phases := DefaultPhases()
			if tt.mutate != nil {
				tt.mutate(phases)
			}
			_, err := New(phases, tt.opts...)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTransitionsCSS(t *testing.T) {
	assert.Equal(t,
		"opacity 0.15s cubic-bezier(0.4, 0.0, 0.2, 1), transform 0.25s cubic-bezier(0.4, 0.0, 0.2, 1)",
		DefaultTransitions().CSS())
}

func TestConcealSpan(t *testing.T) {
	cfg := Default()
	// 4 units: stagger 75ms, last unit starts at 225ms, +25 settle, +50 grace.
	assert.Equal(t, 300*time.Millisecond, cfg.ConcealSpan(4))
	assert.Equal(t, 75*time.Millisecond, cfg.ConcealSpan(1))
	assert.Zero(t, cfg.ConcealSpan(0))
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
phases:
  title_in: 2s
  subtitle_in: 400
  value_group_in:
    duration: 250ms
    delay: 20ms
cycle:
  exit_settle: 1s
transitions:
  easing: linear
`))
	require.NoError(t, err)

	assert.Equal(t, 2*time.Second, cfg.Duration(TitleIn))
	assert.Equal(t, 400*time.Millisecond, cfg.Duration(SubtitleIn))
	assert.Equal(t, 250*time.Millisecond, cfg.Duration(ValueGroupIn))
	assert.Equal(t, 20*time.Millisecond, cfg.Delay(ValueGroupIn))
	// Untouched values keep their defaults.
	assert.Equal(t, 300*time.Millisecond, cfg.Duration(ElementExit))
	assert.Equal(t, time.Second, cfg.ExitSettle())
	assert.Equal(t, 100*time.Millisecond, cfg.ReEntryDelay())
	assert.Equal(t, "linear", cfg.Transitions().Easing)
	assert.Equal(t, 150*time.Millisecond, cfg.Transitions().Opacity)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("phases: [oops"))
	assert.Error(t, err)

	_, err = Parse([]byte("phases:\n  title_in: 0ms\n"))
	assert.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Parse([]byte("phases:\n  encore: 1s\n"))
	assert.ErrorIs(t, err, ErrUnknownPhase)

	_, err = Parse([]byte("cycle:\n  exit_setle: 1s\n"))
	assert.Error(t, err, "typos in keys are rejected")
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(filepath.Join(dir, "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Duration(TitleIn), cfg.Duration(TitleIn))

	path := filepath.Join(dir, "reveal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phases:\n  element_exit_delay: 90ms\n"), 0o644))

	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Millisecond, cfg.Duration(ElementExitDelay))
}
