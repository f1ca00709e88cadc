package animator_test

import (
	"testing"
	"time"

	"github.com/aretw0/reveal/pkg/adapters/memory"
	"github.com/aretw0/reveal/pkg/animator"
	"github.com/aretw0/reveal/pkg/clock"
	"github.com/aretw0/reveal/pkg/timing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	clock *clock.Virtual
	page  *memory.Page
	anim  *animator.Animator
}

func newFixture(t *testing.T, body *memory.Element) *fixture {
	t.Helper()
	v := clock.NewVirtual()
	return &fixture{
		clock: v,
		page:  memory.NewPage(body, memory.WithClock(v.Now)),
		anim:  animator.New(v, timing.Default()),
	}
}

func subtitlePage(text string) *memory.Element {
	return memory.NewElement("", "",
		memory.NewElement("frame__subtitle", "", memory.NewElement("", text)),
	)
}

func ms(n float64) time.Duration {
	return time.Duration(n * float64(time.Millisecond))
}

func TestDecompose_SplitsCharacters(t *testing.T) {
	f := newFixture(t, subtitlePage("Save big"))

	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")
	require.Equal(t, 8, group.Len())
	assert.Equal(t, "Save big", group.Text())
	for i, u := range group.Units {
		assert.Equal(t, i, u.Index)
	}
	assert.Equal(t, " ", group.Units[4].Element.Text())
}

func TestDecompose_Idempotent(t *testing.T) {
	f := newFixture(t, subtitlePage("Save big"))
	container := f.page.Find("frame__subtitle")

	first := f.anim.Decompose(container, "subtitle")
	second := f.anim.Decompose(container, "subtitle")

	require.Equal(t, first.Len(), second.Len())
	for i := range first.Units {
		assert.Same(t, first.Units[i].Element, second.Units[i].Element)
	}
	assert.Equal(t, "Save big", container.Text())
}

func TestDecompose_ContainerWithoutWords(t *testing.T) {
	f := newFixture(t, memory.NewElement("", "", memory.NewElement("frame__title", "Hi")))
	title := f.page.Find("frame__title")

	group := f.anim.Decompose(title, "title")
	assert.Equal(t, 2, group.Len())
	assert.Equal(t, 2, f.anim.Decompose(title, "title").Len())
}

func TestDecompose_PreservesHighlight(t *testing.T) {
	body := memory.NewElement("", "",
		memory.NewElement("frame__title", "",
			memory.NewElement("", "Go "),
			memory.NewElement("frame__highlight", "fast"),
		),
	)
	f := newFixture(t, body)

	group := f.anim.Decompose(f.page.Find("frame__title"), "title")
	require.Equal(t, 7, group.Len())
	for i, u := range group.Units {
		assert.Equal(t, i >= 3, u.Highlight, "unit %d", i)
	}
}

func TestDecompose_NormalizesCombiningMarks(t *testing.T) {
	// "e" followed by a combining acute accent composes into a single rune.
	f := newFixture(t, subtitlePage("cafe\u0301"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")
	assert.Equal(t, 4, group.Len())
}

func TestDecompose_NilContainer(t *testing.T) {
	f := newFixture(t, memory.NewElement("", ""))
	group := f.anim.Decompose(nil, "missing")
	assert.Zero(t, group.Len())
}

func TestDecomposeAtomic(t *testing.T) {
	body := memory.NewElement("", "",
		memory.NewElement("frame__value-group", "",
			memory.NewElement("frame__dollar-symbol", "$"),
			memory.NewElement("frame__value", "50"),
		),
	)
	f := newFixture(t, body)
	container := f.page.Find("frame__value-group")

	group := f.anim.DecomposeAtomic(container, "value")
	require.Equal(t, 2, group.Len())
	assert.Equal(t, "50", group.Units[1].Element.Text())
	assert.Equal(t, 2, f.anim.DecomposeAtomic(container, "value").Len())
}

func TestRevealIn_StaggerAndOffset(t *testing.T) {
	f := newFixture(t, subtitlePage("Save big"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")
	start := 100 * time.Millisecond

	end := f.anim.RevealIn(group, 500*time.Millisecond, start)
	assert.Equal(t, start+500*time.Millisecond, end)
	assert.Equal(t, 9, f.clock.Pending(), "eight reveals and the reveal completion")

	// Unit 4 becomes visible at start + 4*62.5ms = start + 250ms.
	f.clock.AdvanceTo(start + 250*time.Millisecond - time.Nanosecond)
	assert.Equal(t, "", group.Units[4].Element.Style("opacity"))
	assert.Equal(t, "1", group.Units[3].Element.Style("opacity"))

	f.clock.AdvanceTo(start + 250*time.Millisecond)
	assert.Equal(t, "1", group.Units[4].Element.Style("opacity"))
	assert.Equal(t, "translateY(0)", group.Units[4].Element.Style("transform"))
	assert.Equal(t, "", group.Units[5].Element.Style("opacity"))

	f.clock.Drain()
	visible := f.page.Journal().Where("opacity", "1")
	require.Len(t, visible, 8)
	for i, e := range visible {
		assert.Equal(t, start+time.Duration(i)*ms(62.5), e.At, "unit %d", i)
	}
}

func TestRevealIn_EmptyGroup(t *testing.T) {
	f := newFixture(t, memory.NewElement("", ""))
	empty := f.anim.Decompose(nil, "empty")

	assert.Equal(t, 40*time.Millisecond, f.anim.RevealIn(empty, time.Second, 40*time.Millisecond))
	assert.Zero(t, f.clock.Pending())

	var nilGroup *animator.Group
	assert.Equal(t, time.Duration(0), f.anim.RevealIn(nilGroup, time.Second, 0))
}

func TestRevealOut_ReverseOrderAndResolution(t *testing.T) {
	f := newFixture(t, subtitlePage("abcd"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")

	done := f.anim.RevealOut(group)
	for _, u := range group.Units {
		assert.Equal(t, timing.DefaultTransitions().CSS(), u.Element.Style("transition"))
	}

	// 4 units, ElementExit 300ms: stagger 75ms, resolution at 3*75 + 25 + 50.
	resolveAt := 300 * time.Millisecond
	f.clock.AdvanceTo(resolveAt - time.Nanosecond)
	assert.False(t, done.Done())
	f.clock.AdvanceTo(resolveAt)
	assert.True(t, done.Done())

	faded := f.page.Journal().Where("opacity", "0")
	require.Len(t, faded, 4)
	for k, e := range faded {
		want := group.Units[3-k].Element.(*memory.Element).ID()
		assert.Equal(t, want, e.Element, "fade %d", k)
		assert.Equal(t, time.Duration(k)*75*time.Millisecond, e.At)
	}

	offsets := f.page.Journal().Where("transform", "translateY(-25px)")
	require.Len(t, offsets, 4)
	assert.Equal(t, 25*time.Millisecond, offsets[0].At)
	assert.Equal(t, 250*time.Millisecond, offsets[3].At)
	assert.Equal(t, group.Units[0].Element.(*memory.Element).ID(), offsets[3].Element)
}

func TestRevealOut_EmptyGroupResolvesImmediately(t *testing.T) {
	f := newFixture(t, memory.NewElement("", ""))
	done := f.anim.RevealOut(f.anim.Decompose(nil, "empty"))
	assert.True(t, done.Done())
	assert.Zero(t, f.clock.Pending())
}

func TestRevealOut_Reentrant(t *testing.T) {
	f := newFixture(t, subtitlePage("ab"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")

	first := f.anim.RevealOut(group)
	second := f.anim.RevealOut(group)
	assert.Same(t, first, second)

	f.clock.Drain()
	assert.True(t, first.Done())
	assert.Len(t, f.page.Journal().Where("opacity", "0"), 2, "units are concealed once")

	third := f.anim.RevealOut(group)
	assert.NotSame(t, first, third)
}

func TestRevealOut_WaitsForRunningReveal(t *testing.T) {
	f := newFixture(t, subtitlePage("abcd"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")

	// Last unit becomes visible at 3*400ms = 1200ms.
	f.anim.RevealIn(group, 1600*time.Millisecond, 0)
	f.clock.AdvanceTo(100 * time.Millisecond)

	done := f.anim.RevealOut(group)
	assert.Same(t, done, f.anim.RevealOut(group))
	assert.Empty(t, f.page.Journal().Where("opacity", "0"), "conceal waits for the reveal")

	f.clock.AdvanceTo(1500*time.Millisecond - time.Nanosecond)
	assert.False(t, done.Done())
	f.clock.AdvanceTo(1500 * time.Millisecond)
	assert.True(t, done.Done())

	faded := f.page.Journal().Where("opacity", "0")
	require.Len(t, faded, 4)
	assert.Equal(t, 1200*time.Millisecond, faded[0].At)
	for i, u := range group.Units {
		assert.Equal(t, "0", u.Element.Style("opacity"), "unit %d", i)
		assert.Equal(t, "translateY(-25px)", u.Element.Style("transform"), "unit %d", i)
	}
}

func TestRevealIn_WaitsForRunningConceal(t *testing.T) {
	f := newFixture(t, subtitlePage("ab"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")

	// 2 units: conceal resolves at 150 + 25 + 50 = 225ms.
	hidden := f.anim.RevealOut(group)
	f.anim.RevealIn(group, 200*time.Millisecond, 10*time.Millisecond)

	f.clock.AdvanceTo(225 * time.Millisecond)
	require.True(t, hidden.Done())
	assert.Empty(t, f.page.Journal().Where("opacity", "1"))

	f.clock.Drain()
	visible := f.page.Journal().Where("opacity", "1")
	require.Len(t, visible, 2)
	assert.Equal(t, 235*time.Millisecond, visible[0].At)
	assert.Equal(t, 335*time.Millisecond, visible[1].At)
	for _, u := range group.Units {
		assert.Equal(t, "1", u.Element.Style("opacity"))
	}
}

func TestRevealOut_WaitsForOverlappingReveals(t *testing.T) {
	f := newFixture(t, subtitlePage("ab"))
	group := f.anim.Decompose(f.page.Find("frame__subtitle"), "subtitle")

	// The first reveal finishes at 800ms, the second at 50ms.
	f.anim.RevealIn(group, 1600*time.Millisecond, 0)
	f.anim.RevealIn(group, 100*time.Millisecond, 0)
	done := f.anim.RevealOut(group)

	f.clock.AdvanceTo(100 * time.Millisecond)
	assert.Empty(t, f.page.Journal().Where("opacity", "0"))

	f.clock.Drain()
	assert.True(t, done.Done())
	faded := f.page.Journal().Where("opacity", "0")
	require.NotEmpty(t, faded)
	assert.Equal(t, 800*time.Millisecond, faded[0].At)
	for _, u := range group.Units {
		assert.Equal(t, "0", u.Element.Style("opacity"))
	}
}
