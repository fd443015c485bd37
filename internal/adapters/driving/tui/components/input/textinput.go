// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
)

// SearchInput wraps a bubbles textinput with a location suggestion dropdown.
type SearchInput struct {
	textinput   textinput.Model
	styles      *styles.Styles
	width       int
	suggestions []domain.Suggestion
	recent      map[string]struct{}
	highlighted int // -1 when no suggestion is highlighted
}

// NewSearchInput creates a new search input component.
func NewSearchInput(s *styles.Styles) *SearchInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Locality, project or landmark..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 50

	return &SearchInput{
		textinput:   ti,
		styles:      s,
		width:       50,
		highlighted: -1,
	}
}

// Init initialises the search input.
func (s *SearchInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (s *SearchInput) Update(msg tea.Msg) (*SearchInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the search input and any suggestions below it.
func (s *SearchInput) View() string {
	label := s.styles.Title.Render("Search: ")
	input := s.styles.InputField.Render(s.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	line := lipgloss.JoinHorizontal(lipgloss.Center, label, input)

	if len(s.suggestions) == 0 {
		return line
	}

	lines := make([]string, 0, len(s.suggestions)+1)
	lines = append(lines, line)
	for i, sg := range s.suggestions {
		text := sg.Label
		if _, ok := s.recent[sg.Value]; ok {
			text += " (recent)"
		}
		if i == s.highlighted {
			lines = append(lines, s.styles.Selected.Render("  > "+text))
		} else {
			lines = append(lines, s.styles.Muted.Render("    "+text))
		}
	}
	return strings.Join(lines, "\n")
}

// SetSuggestions replaces the dropdown entries. Entries whose value is in
// recent are marked as recently picked.
func (s *SearchInput) SetSuggestions(suggestions []domain.Suggestion, recent domain.RecentSuggestions) {
	s.suggestions = suggestions
	s.recent = make(map[string]struct{}, len(recent))
	for _, r := range recent {
		s.recent[r.Value] = struct{}{}
	}
	s.highlighted = -1
}

// Suggestions returns the dropdown entries.
func (s *SearchInput) Suggestions() []domain.Suggestion {
	return s.suggestions
}

// ClearSuggestions hides the dropdown.
func (s *SearchInput) ClearSuggestions() {
	s.suggestions = nil
	s.recent = nil
	s.highlighted = -1
}

// NextSuggestion highlights the next entry, wrapping around.
func (s *SearchInput) NextSuggestion() {
	if len(s.suggestions) == 0 {
		return
	}
	s.highlighted = (s.highlighted + 1) % len(s.suggestions)
}

// PrevSuggestion highlights the previous entry, wrapping around.
func (s *SearchInput) PrevSuggestion() {
	if len(s.suggestions) == 0 {
		return
	}
	if s.highlighted <= 0 {
		s.highlighted = len(s.suggestions) - 1
		return
	}
	s.highlighted--
}

// Highlighted returns the highlighted suggestion, if any.
func (s *SearchInput) Highlighted() (domain.Suggestion, bool) {
	if s.highlighted < 0 || s.highlighted >= len(s.suggestions) {
		return domain.Suggestion{}, false
	}
	return s.suggestions[s.highlighted], true
}

// Value returns the current input value.
func (s *SearchInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *SearchInput) SetValue(value string) {
	s.textinput.SetValue(value)
	s.textinput.CursorEnd()
}

// Focus sets focus on the input.
func (s *SearchInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *SearchInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *SearchInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *SearchInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *SearchInput) Width() int {
	return s.width
}

// Reset clears the input and its suggestions.
func (s *SearchInput) Reset() {
	s.textinput.Reset()
	s.ClearSuggestions()
}
