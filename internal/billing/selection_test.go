package billing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectionRangeFollowsSortedView(t *testing.T) {
	records := make([]rec, 10)
	for i := range records {
		records[i] = rec{id: 100 + i, amount: float64(i)}
	}
	view := ids(recSchema.Sort(records, "amount_desc", "", testNow))

	sel := NewSelection()
	sel.Click(view, 2, ClickPlain)
	sel.Click(view, 5, ClickRange)

	assert.Equal(t, []int{104, 105, 106, 107}, sel.IDs())
	assert.Equal(t, 2, sel.Anchor())
}

func TestSelectionModifiers(t *testing.T) {
	view := []int{10, 20, 30, 40, 50}

	t.Run("plain click replaces", func(t *testing.T) {
		sel := NewSelection()
		sel.SelectAll(view)
		sel.Click(view, 3, ClickPlain)
		assert.Equal(t, []int{40}, sel.IDs())
	})

	t.Run("toggle keeps the rest", func(t *testing.T) {
		sel := NewSelection()
		sel.Click(view, 0, ClickPlain)
		sel.Click(view, 2, ClickToggle)
		assert.Equal(t, []int{10, 30}, sel.IDs())
		sel.Click(view, 0, ClickToggle)
		assert.Equal(t, []int{30}, sel.IDs())
		assert.Equal(t, 0, sel.Anchor())
	})

	t.Run("range backwards unions", func(t *testing.T) {
		sel := NewSelection()
		sel.Click(view, 4, ClickPlain)
		sel.Click(view, 0, ClickToggle)
		sel.Click(view, 2, ClickRange)
		assert.Equal(t, []int{10, 20, 30, 50}, sel.IDs())
	})

	t.Run("range without anchor acts as plain", func(t *testing.T) {
		sel := NewSelection()
		sel.Click(view, 3, ClickRange)
		assert.Equal(t, []int{40}, sel.IDs())
		assert.Equal(t, 3, sel.Anchor())
	})

	t.Run("out of range ignored", func(t *testing.T) {
		sel := NewSelection()
		sel.Click(view, 9, ClickPlain)
		assert.Equal(t, 0, sel.Len())
	})

	t.Run("retain drops filtered ids", func(t *testing.T) {
		sel := NewSelection()
		sel.SelectAll(view)
		sel.Retain([]int{20, 40})
		assert.Equal(t, []int{20, 40}, sel.IDs())
		assert.False(t, sel.Has(10))
	})
}
