package ports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ContractPageHTML is the page every Page implementation must be able to
// represent for RunPageContract.
const ContractPageHTML = `<!DOCTYPE html>
<html><head><title>contract</title></head>
<body>
<h1 class="frame__title"><span>Hello</span><span class="frame__highlight">World</span></h1>
<p class="frame__subtitle"><span>Save big</span></p>
<p class="frame__subtitle"><span>today</span></p>
</body></html>`

// RunPageContract runs a suite of tests to verify that a Page implementation
// adheres to the defined interface contract. newPage must return a fresh page
// equivalent to ContractPageHTML on every call.
func RunPageContract(t *testing.T, newPage func(t *testing.T) Page) {
	t.Run("Find Missing Returns Nil", func(t *testing.T) {
		page := newPage(t)
		assert.Nil(t, page.Find("frame__does-not-exist"))
		assert.Empty(t, page.FindAll("frame__does-not-exist"))
	})

	t.Run("Find And Children", func(t *testing.T) {
		page := newPage(t)
		title := page.Find("frame__title")
		require.NotNil(t, title)

		words := title.Children()
		require.Len(t, words, 2)
		assert.Equal(t, "Hello", words[0].Text())
		assert.Equal(t, "World", words[1].Text())
		assert.True(t, words[1].HasFlag("frame__highlight"))
		assert.False(t, words[0].HasFlag("frame__highlight"))

		assert.Len(t, page.FindAll("frame__subtitle"), 2)
	})

	t.Run("Split Keeps Structure", func(t *testing.T) {
		page := newPage(t)
		word := page.Find("frame__title").Children()[0]
		assert.Nil(t, word.Units())

		units := word.Split([]string{"H", "e", "l", "l", "o"})
		require.Len(t, units, 5)
		assert.Equal(t, "H", units[0].Text())
		assert.Equal(t, "o", units[4].Text())
		assert.Equal(t, "Hello", word.Text())
		assert.Len(t, word.Units(), 5)
		assert.Empty(t, word.Children(), "units are not reported as children")

		// The container still sees its two words.
		assert.Len(t, page.Find("frame__title").Children(), 2)
	})

	t.Run("Styles", func(t *testing.T) {
		page := newPage(t)
		el := page.Find("frame__subtitle")
		assert.Equal(t, "", el.Style("opacity"))

		el.SetStyle("opacity", "0")
		el.SetStyle("transform", "translateY(-25px)")
		el.SetStyle("opacity", "1")

		assert.Equal(t, "1", el.Style("opacity"))
		assert.Equal(t, "translateY(-25px)", el.Style("transform"))
	})

	t.Run("Root Flags", func(t *testing.T) {
		page := newPage(t)
		root := page.Root()
		require.NotNil(t, root)

		root.AddFlag("scene-one")
		root.AddFlag("scene-one")
		assert.True(t, root.HasFlag("scene-one"))

		root.RemoveFlag("scene-one")
		assert.False(t, root.HasFlag("scene-one"))
		root.RemoveFlag("scene-one")
	})
}
