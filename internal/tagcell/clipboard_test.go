package tagcell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsheet/internal/grid"
)

func TestPaste_BlankClears(t *testing.T) {
	for _, text := range []string{"", "   ", "\t\n"} {
		got, ok := Paste(text, Data{Values: []string{"a"}})
		require.True(t, ok, "text %q", text)
		assert.NotNil(t, got.Values)
		assert.Empty(t, got.Values)
	}
}

func TestPaste_DropsLaterDuplicates(t *testing.T) {
	got, ok := Paste("a,a,b", Data{AllowCreation: true})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Values)
}

func TestPaste_KeepsDuplicatesWhenAllowed(t *testing.T) {
	got, ok := Paste(" a , a,b ", Data{AllowCreation: true, AllowDuplicates: true})
	require.True(t, ok)
	assert.Equal(t, []string{"a", "a", "b"}, got.Values)
}

func TestPaste_DropsUnknownWithoutCreation(t *testing.T) {
	d := Data{Options: []OptionInput{Record("x", "", ""), Record("y", "", "")}}
	got, ok := Paste("x,z", d)
	require.True(t, ok)
	assert.Equal(t, []string{"x"}, got.Values)
}

func TestPaste_NothingApplicable(t *testing.T) {
	_, ok := Paste("z", Data{})
	assert.False(t, ok)

	_, ok = Paste("z", Data{Options: Inputs("x")})
	assert.False(t, ok)
}

func TestPaste_PreservesOtherFields(t *testing.T) {
	d := Data{Values: []string{"x"}, Options: Inputs("x", "y"), AllowDuplicates: true}
	got, ok := Paste("y", d)
	require.True(t, ok)
	assert.Equal(t, d.Options, got.Options)
	assert.True(t, got.AllowDuplicates)
	assert.Equal(t, []string{"x"}, d.Values, "input must not be modified")
}

func TestRenderer_OnPasteAndCopyRoundTrip(t *testing.T) {
	r := New()
	c := NewCell(Data{Options: Inputs("a", "b", "c")}, false)

	next, ok := r.OnPaste("c, a", c)
	require.True(t, ok)
	assert.Equal(t, "c,a", r.CopyText(next))
	assert.Equal(t, "c,a", next.CopyData)

	again, ok := r.OnPaste(r.CopyText(next), c)
	require.True(t, ok)
	d, _ := FromCell(again)
	assert.Equal(t, []string{"c", "a"}, d.Values)

	_, ok = r.OnPaste("nope", c)
	assert.False(t, ok)
}

func TestDeletedValue_ClearsValuesAndCopyData(t *testing.T) {
	c := NewCell(Data{Values: []string{"a"}, Options: Inputs("a"), AllowCreation: true}, true)
	require.Equal(t, "a", c.CopyData)

	cleared := DeletedValue(c)
	d, ok := FromCell(cleared)
	require.True(t, ok)
	assert.Equal(t, []string{}, d.Values)
	assert.Equal(t, "", cleared.CopyData)
	assert.True(t, d.AllowCreation)
	assert.Equal(t, Inputs("a"), d.Options)
	assert.True(t, cleared.Readonly)

	orig, _ := FromCell(c)
	assert.Equal(t, []string{"a"}, orig.Values)
}

func TestRenderer_IsMatch(t *testing.T) {
	r := New()
	assert.True(t, r.IsMatch(NewCell(Data{}, false)))
	assert.False(t, r.IsMatch(grid.TextCell("a")))
	assert.False(t, r.IsMatch(grid.Cell{Kind: grid.KindCustom}))
}
