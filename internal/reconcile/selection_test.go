package reconcile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pders01/rdash/internal/download"
)

func TestSelectionToggleAndCounts(t *testing.T) {
	s := NewSelection("a")
	s.Load(files("1", "2", "3"))

	assert.Equal(t, Unchecked, s.AllState())
	assert.Equal(t, "0 of 3 files selected", s.Summary())

	s.Toggle("2")
	s.Toggle("nope")
	assert.Equal(t, Indeterminate, s.AllState())
	assert.Equal(t, []string{"2"}, s.Checked())

	s.Toggle("3")
	s.Toggle("1")
	assert.Equal(t, Checked, s.AllState())
	assert.Equal(t, []string{"1", "2", "3"}, s.Checked())
	assert.Equal(t, "3 of 3 files selected", s.Summary())

	s.Toggle("1")
	checked, total := s.Counts()
	assert.Equal(t, 2, checked)
	assert.Equal(t, 3, total)
}

func TestSelectionToggleAll(t *testing.T) {
	s := NewSelection("a")
	s.Load(files("1", "2"))

	s.Toggle("1")
	s.ToggleAll()
	assert.Equal(t, Checked, s.AllState())

	s.ToggleAll()
	assert.Equal(t, Unchecked, s.AllState())
	assert.Empty(t, s.Checked())
}

func TestSelectionLoadHonoursServerChecks(t *testing.T) {
	s := NewSelection("a")
	fs := files("1", "2")
	fs[1].Selected = true
	s.Load(fs)

	assert.True(t, s.Loaded())
	assert.True(t, s.IsChecked("2"))
	assert.False(t, s.IsChecked("1"))
}

func TestSelectionFail(t *testing.T) {
	s := NewSelection("a")
	assert.False(t, s.Loaded())

	s.Fail(errors.New("boom"))
	assert.True(t, s.Loaded())
	assert.EqualError(t, s.Err(), "boom")
	assert.Equal(t, Unchecked, s.AllState())
}

func TestCheckStateString(t *testing.T) {
	assert.Equal(t, "[ ]", Unchecked.String())
	assert.Equal(t, "[-]", Indeterminate.String())
	assert.Equal(t, "[x]", Checked.String())
}

func TestSelectionEmpty(t *testing.T) {
	s := NewSelection(download.ID("a"))
	s.Load(nil)
	s.ToggleAll()
	assert.Equal(t, Unchecked, s.AllState())
	assert.Equal(t, "0 of 0 files selected", s.Summary())
}
