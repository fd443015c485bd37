package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

func sampleSuggestions() []domain.Suggestion {
	return []domain.Suggestion{
		{Label: "Kondapur", Value: "Kondapur"},
		{Label: "Kokapet", Value: "Kokapet"},
		{Label: "Kukatpally", Value: "Kukatpally"},
	}
}

func TestNewSearchInput(t *testing.T) {
	input := NewSearchInput(styles.DefaultStyles())

	require.NotNil(t, input)
	assert.Equal(t, "", input.Value())
	assert.True(t, input.Focused())
	assert.Empty(t, input.Suggestions())
}

func TestNewSearchInput_NilStyles(t *testing.T) {
	input := NewSearchInput(nil)

	require.NotNil(t, input)
	assert.NotNil(t, input.styles)
}

func TestSearchInput_Init(t *testing.T) {
	assert.NotNil(t, NewSearchInput(nil).Init())
}

func TestSearchInput_Update_Typing(t *testing.T) {
	input := NewSearchInput(nil)

	for _, k := range "kond" {
		updated, _ := input.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{k}})
		assert.Equal(t, input, updated)
	}
	assert.Equal(t, "kond", input.Value())

	input.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "kon", input.Value())
}

func TestSearchInput_View(t *testing.T) {
	view := NewSearchInput(nil).View()

	assert.Contains(t, view, "Search")
}

func TestSearchInput_View_WithSuggestions(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetSuggestions(sampleSuggestions(), domain.RecentSuggestions{{Label: "Kokapet", Value: "Kokapet"}})
	input.NextSuggestion()

	view := input.View()

	assert.Contains(t, view, "> Kondapur")
	assert.Contains(t, view, "Kokapet (recent)")
	assert.Contains(t, view, "Kukatpally")
	assert.NotContains(t, view, "Kukatpally (recent)")
}

func TestSearchInput_SetValue(t *testing.T) {
	input := NewSearchInput(nil)

	input.SetValue("hello world")

	assert.Equal(t, "hello world", input.Value())
}

func TestSearchInput_FocusBlur(t *testing.T) {
	input := NewSearchInput(nil)
	assert.True(t, input.Focused())

	input.Blur()
	assert.False(t, input.Focused())

	cmd := input.Focus()
	assert.NotNil(t, cmd)
	assert.True(t, input.Focused())
}

func TestSearchInput_SetWidth(t *testing.T) {
	input := NewSearchInput(nil)
	assert.Equal(t, 50, input.Width())

	input.SetWidth(100)
	assert.Equal(t, 100, input.Width())

	input.SetWidth(10)
	assert.Equal(t, 10, input.Width())
}

func TestSearchInput_Reset(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetValue("some text")
	input.SetSuggestions(sampleSuggestions(), nil)

	input.Reset()

	assert.Equal(t, "", input.Value())
	assert.Empty(t, input.Suggestions())
}

func TestSearchInput_Highlighting(t *testing.T) {
	input := NewSearchInput(nil)

	_, ok := input.Highlighted()
	assert.False(t, ok)

	input.NextSuggestion()
	_, ok = input.Highlighted()
	assert.False(t, ok, "no suggestions to highlight")

	input.SetSuggestions(sampleSuggestions(), nil)
	input.NextSuggestion()
	got, ok := input.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "Kondapur", got.Value)

	input.NextSuggestion()
	input.NextSuggestion()
	input.NextSuggestion()
	got, _ = input.Highlighted()
	assert.Equal(t, "Kondapur", got.Value, "wraps forward")

	input.PrevSuggestion()
	got, _ = input.Highlighted()
	assert.Equal(t, "Kukatpally", got.Value, "wraps backward")
}

func TestSearchInput_PrevSuggestion_FromNone(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetSuggestions(sampleSuggestions(), nil)

	input.PrevSuggestion()

	got, ok := input.Highlighted()
	require.True(t, ok)
	assert.Equal(t, "Kukatpally", got.Value)
}

func TestSearchInput_SetSuggestions_ClearsHighlight(t *testing.T) {
	input := NewSearchInput(nil)
	input.SetSuggestions(sampleSuggestions(), nil)
	input.NextSuggestion()

	input.SetSuggestions(sampleSuggestions()[:1], nil)

	_, ok := input.Highlighted()
	assert.False(t, ok)
}
