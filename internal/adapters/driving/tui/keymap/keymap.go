// Package keymap defines keybindings for the TUI.
package keymap

import (
	"slices"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the previous view.
	Back key.Binding

	// Search submits the search text.
	Search key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select confirms a selection.
	Select key.Binding

	// Cancel cancels the current operation.
	Cancel key.Binding

	// FocusSearch moves focus from the listings back to the search input.
	FocusSearch key.Binding

	// NextSuggestion cycles through location suggestions.
	NextSuggestion key.Binding

	// Favorite likes or unlikes the selected listing.
	Favorite key.Binding

	// Refresh refetches the first page.
	Refresh key.Binding

	// Category cycles the category tab.
	Category key.Binding

	// PrevCategory cycles the category tab backwards.
	PrevCategory key.Binding

	// SubType cycles the property sub-type.
	SubType key.Binding

	// Bedrooms cycles the BHK filter.
	Bedrooms key.Binding

	// Budget cycles the budget band.
	Budget key.Binding

	// Occupancy cycles the occupancy filter.
	Occupancy key.Binding

	// Sort cycles the result ordering.
	Sort key.Binding

	// ClearFilters resets every filter except the city.
	ClearFilters key.Binding

	// Cities opens the city picker.
	Cities key.Binding
}

// DefaultKeyMap returns the default keybindings.
//
//nolint:funlen // one binding per field
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Search: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "search"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		FocusSearch: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		NextSuggestion: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "suggestions"),
		),
		Favorite: key.NewBinding(
			key.WithKeys("f", " "),
			key.WithHelp("f", "like"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Category: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "category"),
		),
		PrevCategory: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous category"),
		),
		SubType: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "type"),
		),
		Bedrooms: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "bedrooms"),
		),
		Budget: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "budget"),
		),
		Occupancy: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "occupancy"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear filters"),
		),
		Cities: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "city"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit, k.Help}
}

// ResultsHelp returns keybindings for the listings view.
func (k *KeyMap) ResultsHelp() []key.Binding {
	return []key.Binding{k.FocusSearch, k.Favorite, k.Refresh, k.Category, k.Back}
}

// FilterHelp returns the filter cycling keybindings.
func (k *KeyMap) FilterHelp() []key.Binding {
	return []key.Binding{k.SubType, k.Bedrooms, k.Budget, k.Occupancy, k.Sort, k.ClearFilters}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Search, k.FocusSearch, k.NextSuggestion, k.Back, k.Cancel},
		{k.Favorite, k.Refresh, k.Category, k.PrevCategory, k.Cities},
		k.FilterHelp(),
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	return slices.Contains(binding.Keys(), keyStr)
}
