package reveal_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/aretw0/reveal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_DeliversSignals(t *testing.T) {
	eng, _, _ := newEngine(t)

	input := strings.Join([]string{
		"# comment",
		"",
		"cycle-animation-finished",
		"entry-animation-finished",
		"bogus",
		"decorative-sub-animation-finished:stickerSlap",
		"state",
		"exit",
		"entry-animation-finished",
	}, "\n")

	var out bytes.Buffer
	r := reveal.NewRunner()
	r.Input = strings.NewReader(input)
	r.Output = &out
	r.Headless = true

	require.NoError(t, r.Run(context.Background(), eng))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	assert.Equal(t, "ignored cycle-animation-finished", lines[0])
	assert.Equal(t, "entry-animation-finished -> scene_two_entering", lines[1])
	assert.Contains(t, lines[2], "unknown signal")
	assert.Equal(t, "decorative-sub-animation-finished:stickerSlap -> scene_two_entering", lines[3])
	assert.Equal(t, "phase=scene_two_entering scene=scene-two cycle=0 ignored=1", lines[4])
}

func TestRunner_Banner(t *testing.T) {
	eng, _, _ := newEngine(t)

	var out bytes.Buffer
	r := &reveal.Runner{
		Input:  strings.NewReader(""),
		Output: &out,
		Renderer: func(s string) (string, error) {
			return "> " + s, nil
		},
	}
	require.NoError(t, r.Run(context.Background(), eng))
	assert.Equal(t, "> --- reveal (runner) ---\n", out.String())
}

func TestRunner_RequiresIO(t *testing.T) {
	eng, _, _ := newEngine(t)
	assert.Error(t, reveal.NewRunner().Run(context.Background(), eng))
}
