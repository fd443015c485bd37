// Package settings provides the settings configuration view for the TUI.
package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
)

// Key constants for key handling.
const (
	keyDown  = "down"
	keyEnter = "enter"
	keyEsc   = "esc"
)

const keyRollback = "favorites.rollback_on_failure"

// View is the settings configuration view. Each row is one dotted
// setting key; values are edited in place and saved one at a time.
type View struct {
	styles          *styles.Styles
	settingsService driving.SettingsService

	settings *domain.AppSettings
	defaults domain.AppSettings
	keys     []string
	err      error
	notice   string

	selected int
	editing  bool
	input    textinput.Model

	width  int
	height int
	ready  bool
}

// NewView creates a new settings view.
func NewView(s *styles.Styles, settingsService driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	input := textinput.New()
	input.CharLimit = 512

	v := &View{
		styles:          s,
		settingsService: settingsService,
		input:           input,
	}
	if settingsService != nil {
		v.keys = settingsService.Keys()
		v.defaults = settingsService.GetDefaults()
	}
	return v
}

// Init initialises the view and loads settings.
func (v *View) Init() tea.Cmd {
	return v.loadSettings()
}

// loadSettings returns a command that loads current settings.
func (v *View) loadSettings() tea.Cmd {
	return func() tea.Msg {
		if v.settingsService == nil {
			return messages.SettingsLoaded{Err: fmt.Errorf("settings service not available")}
		}
		settings, err := v.settingsService.Get()
		return messages.SettingsLoaded{Settings: settings, Err: err}
	}
}

// save returns a command that persists one setting.
func (v *View) save(key, value string) tea.Cmd {
	return func() tea.Msg {
		return messages.SettingsSaved{Key: key, Err: v.settingsService.Set(key, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.SettingsLoaded:
		if msg.Err != nil {
			v.err = msg.Err
		} else {
			v.settings = msg.Settings
			v.err = nil
		}
		return v, nil

	case messages.SettingsSaved:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.notice = fmt.Sprintf("Saved %s. Restart estately to apply.", msg.Key)
		return v, v.loadSettings()

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses for the list or the value editor.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.editing {
		return v.handleEditKeys(msg)
	}

	switch msg.String() {
	case keyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
	case keyDown, "j":
		if v.selected < len(v.keys)-1 {
			v.selected++
		}
	case keyEnter:
		if v.settings == nil || len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		if key == keyRollback {
			return v, v.save(key, strconv.FormatBool(!v.settings.Favorites.RollbackOnFailure))
		}
		v.editing = true
		v.notice = ""
		v.input.SetValue(rawValue(v.settings, key))
		v.input.CursorEnd()
		return v, v.input.Focus()
	case "d":
		if v.settingsService == nil || len(v.keys) == 0 {
			return v, nil
		}
		key := v.keys[v.selected]
		return v, v.save(key, rawValue(&v.defaults, key))
	}

	return v, nil
}

// handleEditKeys handles keys while a value is being edited.
func (v *View) handleEditKeys(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		v.editing = false
		v.input.Blur()
		return v, nil
	case keyEnter:
		v.editing = false
		v.input.Blur()
		return v, v.save(v.keys[v.selected], strings.TrimSpace(v.input.Value()))
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the settings view.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Settings"))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render("Error: " + v.err.Error()))
		b.WriteString("\n\n")
	}

	if v.settings == nil {
		b.WriteString(v.styles.Muted.Render("Loading settings..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	for i, key := range v.keys {
		b.WriteString(v.renderRow(i, key))
		b.WriteString("\n")
	}

	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Success.Render(v.notice))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())
	return b.String()
}

// renderRow renders one key and its value, or the editor for the selected key.
func (v *View) renderRow(index int, key string) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}
	label := fmt.Sprintf("%s%-32s", indicator, key)

	if index == v.selected && v.editing {
		return v.styles.Selected.Render(label) + " " + v.input.View()
	}

	value := displayValue(v.settings, key)
	if rawValue(v.settings, key) != rawValue(&v.defaults, key) {
		value += " (modified)"
	}
	if index == v.selected {
		return v.styles.Selected.Render(label) + " " + v.styles.Normal.Render(value)
	}
	return v.styles.Normal.Render(label) + " " + v.styles.Muted.Render(value)
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	if v.editing {
		return v.styles.Help.Render("[enter] save  [esc] cancel")
	}
	return v.styles.Help.Render("[enter] edit  [d] default  [esc] back")
}

// rawValue returns the editable string form of a setting.
func rawValue(s *domain.AppSettings, key string) string {
	switch key {
	case "api.base_url":
		return s.API.BaseURL
	case "api.timeout_seconds":
		return strconv.Itoa(s.API.TimeoutSeconds)
	case "api.requests_per_second":
		return strconv.Itoa(s.API.RequestsPerSecond)
	case "search.debounce_ms":
		return strconv.Itoa(s.Suggest.DebounceMS)
	case "search.min_query_length":
		return strconv.Itoa(s.Suggest.MinQueryLength)
	case keyRollback:
		return strconv.FormatBool(s.Favorites.RollbackOnFailure)
	case "data.dir":
		return s.Data.Dir
	default:
		return ""
	}
}

// displayValue returns the value as shown in the list.
func displayValue(s *domain.AppSettings, key string) string {
	v := rawValue(s, key)
	if key == "data.dir" && v == "" {
		return "(default)"
	}
	return v
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.input.Width = max(width-40, 20)
}

// Reset returns the view to its list state.
func (v *View) Reset() {
	v.selected = 0
	v.editing = false
	v.input.Blur()
	v.err = nil
	v.notice = ""
}

// Editing reports whether a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
