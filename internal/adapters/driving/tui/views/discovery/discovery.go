// Package discovery provides the listing search view for the TUI.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/estately-cli/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/estately-cli/internal/core/domain"
	"github.com/custodia-labs/estately-cli/internal/core/ports/driving"
)

// Discovery operation names carried by messages.DiscoveryDone.
const (
	OpStart    = "start"
	OpSearch   = "search"
	OpFilter   = "filter"
	OpClear    = "clear"
	OpRefresh  = "refresh"
	OpLoadMore = "load more"
)

// signInHint is shown when liking a listing without a session.
const signInHint = "Sign in with 'estately auth login' to like listings"

// ErrNoDiscoveryService indicates that no discovery service was provided.
var ErrNoDiscoveryService = errors.New("discovery service is required")

var sortOrder = []domain.PriceSort{
	domain.SortRelevance, domain.SortPriceAsc, domain.SortPriceDesc, domain.SortNewest,
}

// photoResolved carries the cover photo of the listing shown in the detail panel.
type photoResolved struct {
	PropertyID string
	URL        string
}

// Detail is the listing detail overlay.
type Detail struct {
	property domain.Property
	photo    string
}

// View is the discovery view: search input with suggestions, category
// tabs, filter chips, a listing list and a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.SearchInput
	list      *list.ResultList
	statusbar *status.Bar

	discovery   driving.DiscoveryService
	suggestions driving.SuggestionService
	photos      driving.PhotoService
	ctx         context.Context

	state       domain.DiscoveryState
	started     bool
	updates     chan domain.DiscoveryState
	done        chan struct{}
	unsubscribe func()

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = typing in the search input, false = navigating listings
	detail     *Detail
}

// NewView creates a new discovery view.
func NewView(
	s *styles.Styles,
	km *keymap.KeyMap,
	discovery driving.DiscoveryService,
	suggestions driving.SuggestionService,
	photos driving.PhotoService,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:      s,
		keymap:      km,
		input:       input.NewSearchInput(s),
		list:        list.NewResultList(s),
		statusbar:   status.NewBar(s, km),
		discovery:   discovery,
		suggestions: suggestions,
		photos:      photos,
		ctx:         context.Background(),
		width:       80,
		height:      24,
		focusInput:  true,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init subscribes to the discovery read model and, on first entry,
// starts the session.
func (v *View) Init() tea.Cmd {
	cmds := []tea.Cmd{v.input.Init()}
	if v.discovery == nil {
		return tea.Batch(append(cmds, func() tea.Msg {
			return messages.ErrorOccurred{Err: ErrNoDiscoveryService}
		})...)
	}

	if v.updates == nil {
		updates := make(chan domain.DiscoveryState, 1)
		v.updates = updates
		v.done = make(chan struct{})
		v.unsubscribe = v.discovery.Subscribe(func(s domain.DiscoveryState) {
			publishLatest(updates, s)
		})
		cmds = append(cmds, v.waitForState())
	}

	if !v.started {
		v.started = true
		v.statusbar.SetState(status.StateLoading)
		cmds = append(cmds, v.run(OpStart, v.discovery.Start))
	} else {
		v.applyState(v.discovery.State())
	}
	return tea.Batch(cmds...)
}

// publishLatest keeps only the newest snapshot buffered. It runs on the
// discovery service's goroutine.
func publishLatest(updates chan domain.DiscoveryState, s domain.DiscoveryState) {
	for {
		select {
		case updates <- s:
			return
		default:
		}
		select {
		case <-updates:
		default:
		}
	}
}

// waitForState blocks until the next read model snapshot.
func (v *View) waitForState() tea.Cmd {
	updates, done := v.updates, v.done
	return func() tea.Msg {
		select {
		case s := <-updates:
			return messages.StateChanged{State: s}
		case <-done:
			return nil
		}
	}
}

// Close stops listening to the discovery read model.
func (v *View) Close() {
	if v.unsubscribe != nil {
		v.unsubscribe()
		v.unsubscribe = nil
	}
	if v.done != nil {
		close(v.done)
		v.done = nil
		v.updates = nil
	}
}

// Update handles messages for the discovery view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.StateChanged:
		v.applyState(msg.State)
		if v.updates == nil {
			return v, nil
		}
		return v, v.waitForState()

	case messages.DiscoveryDone:
		v.handleDone(msg)
		return v, nil

	case messages.SuggestionsLoaded:
		v.handleSuggestions(msg)
		return v, nil

	case messages.FavoriteToggled:
		v.handleFavoriteToggled(msg)
		return v, nil

	case photoResolved:
		if v.detail != nil && v.detail.property.ID == msg.PropertyID {
			v.detail.photo = msg.URL
		}
		return v, nil

	case messages.ErrorOccurred:
		v.setError(msg.Err)
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.discovery == nil {
		if msg.Type == tea.KeyEsc {
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		}
		return v, nil
	}
	if v.detail != nil {
		return v.handleDetailKey(msg)
	}

	if msg.Type == tea.KeyEsc {
		if v.focusInput && len(v.input.Suggestions()) > 0 {
			v.input.ClearSuggestions()
			return v, nil
		}
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	if v.focusInput {
		return v.handleInputKey(msg)
	}
	return v.handleResultsKey(msg)
}

// handleInputKey processes keys while the search input has focus.
func (v *View) handleInputKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "enter":
		text := v.input.Value()
		var cmds []tea.Cmd
		if picked, ok := v.input.Highlighted(); ok {
			text = picked.Label
			v.input.SetValue(text)
			cmds = append(cmds, v.remember(picked))
		}
		v.input.ClearSuggestions()
		v.blurInput()
		v.statusbar.SetState(status.StateLoading)
		cmds = append(cmds, v.run(OpSearch, func(ctx context.Context) error {
			return v.discovery.Search(ctx, text)
		}))
		return v, tea.Batch(cmds...)

	case "down", "ctrl+n":
		if len(v.input.Suggestions()) > 0 {
			v.input.NextSuggestion()
			return v, nil
		}
		if !v.list.IsEmpty() {
			v.blurInput()
		}
		return v, nil

	case "up", "ctrl+p":
		v.input.PrevSuggestion()
		return v, nil

	case "tab":
		v.input.ClearSuggestions()
		v.blurInput()
		return v, nil
	}

	before := v.input.Value()
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	after := v.input.Value()
	if after == before {
		return v, cmd
	}
	return v, tea.Batch(cmd, v.suggest(after))
}

// handleResultsKey processes keys while the listings have focus.
//
//nolint:gocyclo // one case per binding
func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	km := v.keymap
	key := msg.String()
	f := v.state.Filter

	switch {
	case keymap.Matches(key, km.Up), keymap.Matches(key, km.Down),
		key == "g", key == "G", key == "home", key == "end":
		v.list, _ = v.list.Update(msg)
		return v, v.maybeLoadMore()

	case keymap.Matches(key, km.FocusSearch):
		v.focusInput = true
		return v, v.input.Focus()

	case keymap.Matches(key, km.Select):
		p := v.list.SelectedResult()
		if p == nil {
			return v, nil
		}
		v.detail = &Detail{property: *p, photo: p.CoverPhoto()}
		return v, v.resolvePhoto(*p)

	case keymap.Matches(key, km.Favorite):
		p := v.list.SelectedResult()
		if p == nil {
			return v, nil
		}
		return v, v.toggleFavorite(*p)

	case keymap.Matches(key, km.Refresh):
		v.statusbar.SetState(status.StateLoading)
		return v, v.run(OpRefresh, v.discovery.Refresh)

	case keymap.Matches(key, km.Category):
		c := cycle(domain.AllCategories(), f.Category, 1)
		return v, v.applyFilter(domain.FilterUpdate{Category: &c})

	case keymap.Matches(key, km.PrevCategory):
		c := cycle(domain.AllCategories(), f.Category, -1)
		return v, v.applyFilter(domain.FilterUpdate{Category: &c})

	case keymap.Matches(key, km.SubType):
		st := cycle(domain.SubTypesFor(f.PropertyIn), f.SubType, 1)
		return v, v.applyFilter(domain.FilterUpdate{SubType: &st})

	case keymap.Matches(key, km.Bedrooms):
		if domain.IsLandLike(f.SubType) || f.PropertyIn == domain.PropertyInCommercial {
			v.statusbar.SetMessage("Bedrooms do not apply to " + f.SubType)
			return v, nil
		}
		b := cycle(withAny(domain.BedroomCounts()), f.BedroomCount, 1)
		return v, v.applyFilter(domain.FilterUpdate{BedroomCount: &b})

	case keymap.Matches(key, km.Budget):
		if f.PropertyFor != domain.PropertyForSell {
			v.statusbar.SetMessage("Budget applies to listings for sale")
			return v, nil
		}
		b := cycle(withAny(domain.BudgetBands()), f.BudgetBand, 1)
		return v, v.applyFilter(domain.FilterUpdate{BudgetBand: &b})

	case keymap.Matches(key, km.Occupancy):
		o := cycle(withAny(domain.OccupancyOptions(f.PropertyFor, f.SubType)), f.Occupancy, 1)
		return v, v.applyFilter(domain.FilterUpdate{Occupancy: &o})

	case keymap.Matches(key, km.Sort):
		s := cycle(sortOrder, f.PriceSort, 1)
		return v, v.applyFilter(domain.FilterUpdate{PriceSort: &s})

	case keymap.Matches(key, km.ClearFilters):
		v.input.Reset()
		v.statusbar.SetState(status.StateLoading)
		return v, v.run(OpClear, v.discovery.ClearFilters)

	case keymap.Matches(key, km.Cities):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewCities}
		}
	}

	return v, nil
}

// handleDetailKey processes keys while the detail panel is open.
func (v *View) handleDetailKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc, keymap.Matches(key, v.keymap.Select):
		v.detail = nil
		return v, nil
	case keymap.Matches(key, v.keymap.Favorite):
		return v, v.toggleFavorite(v.detail.property)
	}
	return v, nil
}

func (v *View) blurInput() {
	v.focusInput = false
	v.input.Blur()
}

// maybeLoadMore fetches the next page once the last listing is selected.
func (v *View) maybeLoadMore() tea.Cmd {
	if !v.list.AtEnd() || !v.state.HasMore || v.state.Loading {
		return nil
	}
	v.statusbar.SetState(status.StateLoading)
	return v.run(OpLoadMore, v.discovery.LoadMore)
}

// run executes a blocking discovery operation off the update loop.
func (v *View) run(op string, fn func(context.Context) error) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return messages.DiscoveryDone{Op: op, Err: fn(ctx)}
	}
}

func (v *View) applyFilter(u domain.FilterUpdate) tea.Cmd {
	return v.run(OpFilter, func(ctx context.Context) error {
		return v.discovery.ApplyFilter(ctx, u)
	})
}

func (v *View) suggest(text string) tea.Cmd {
	if v.discovery == nil {
		return nil
	}
	ctx := v.ctx
	return func() tea.Msg {
		results, err := v.discovery.Suggest(ctx, text)
		var recent domain.RecentSuggestions
		if v.suggestions != nil {
			recent = v.suggestions.Recent(ctx)
		}
		return messages.SuggestionsLoaded{Text: text, Suggestions: results, Recent: recent, Err: err}
	}
}

func (v *View) remember(s domain.Suggestion) tea.Cmd {
	if v.suggestions == nil {
		return nil
	}
	ctx := v.ctx
	return func() tea.Msg {
		if err := v.suggestions.Remember(ctx, s); err != nil {
			return messages.ErrorOccurred{Err: fmt.Errorf("remember suggestion: %w", err)}
		}
		return nil
	}
}

func (v *View) toggleFavorite(p domain.Property) tea.Cmd {
	ctx := v.ctx
	return func() tea.Msg {
		return messages.FavoriteToggled{PropertyID: p.ID, Err: v.discovery.ToggleFavorite(ctx, p)}
	}
}

func (v *View) resolvePhoto(p domain.Property) tea.Cmd {
	if v.photos == nil {
		return nil
	}
	ctx := v.ctx
	return func() tea.Msg {
		return photoResolved{PropertyID: p.ID, URL: v.photos.Resolve(ctx, p)}
	}
}

// handleDone reports operation errors and picks up the resulting state.
func (v *View) handleDone(msg messages.DiscoveryDone) {
	v.applyState(v.discovery.State())
	if msg.Err != nil && !errors.Is(msg.Err, context.Canceled) {
		v.setError(fmt.Errorf("%s: %w", msg.Op, msg.Err))
	}
}

func (v *View) handleSuggestions(msg messages.SuggestionsLoaded) {
	if msg.Text != v.input.Value() || !v.focusInput {
		return
	}
	if errors.Is(msg.Err, domain.ErrSuperseded) {
		return
	}
	if msg.Err != nil {
		v.statusbar.SetMessage("Suggestions unavailable: " + msg.Err.Error())
		return
	}
	v.input.SetSuggestions(msg.Suggestions, msg.Recent)
}

func (v *View) handleFavoriteToggled(msg messages.FavoriteToggled) {
	v.applyState(v.discovery.State())
	switch {
	case msg.Err == nil:
		if v.state.IsLiked(msg.PropertyID) {
			v.statusbar.SetMessage("Liked")
		} else {
			v.statusbar.SetMessage("Unliked")
		}
	case errors.Is(msg.Err, domain.ErrUnauthenticated):
		v.statusbar.SetMessage(signInHint)
	default:
		v.setError(fmt.Errorf("like: %w", msg.Err))
	}
}

func (v *View) setError(err error) {
	v.err = err
	v.statusbar.SetState(status.StateError)
	v.statusbar.SetMessage(err.Error())
}

// applyState renders a read model snapshot. A new generation means a new
// query, so the selection goes back to the top.
func (v *View) applyState(s domain.DiscoveryState) {
	if s.Generation != v.state.Generation {
		v.list.SetResults(s.Results)
		v.statusbar.SetMessage("")
	} else {
		v.list.ExtendResults(s.Results)
	}
	v.list.SetLiked(s.Liked)
	v.statusbar.SetCity(s.Filter.City)
	v.statusbar.SetResultCount(len(s.Results))
	v.statusbar.SetHasMore(s.HasMore)

	switch {
	case s.Loading:
		v.statusbar.SetState(status.StateLoading)
	case s.Err != nil:
		v.err = s.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(s.Err.Error())
	case s.Status == domain.FetchLoaded:
		if v.statusbar.State() == status.StateError {
			v.statusbar.SetMessage("")
		}
		v.err = nil
		v.statusbar.SetState(status.StateResults)
	default:
		v.statusbar.SetState(status.StateReady)
	}

	if v.input.Value() == "" && s.Filter.SearchText != "" && !v.focusInput {
		v.input.SetValue(s.Filter.SearchText)
	}
	v.state = s
}

// View renders the discovery view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 12)
	sections = append(sections,
		v.styles.Title.Render("Estately")+"  "+v.styles.Muted.Render(v.cityLabel()),
		"",
		v.renderTabs(),
		v.renderChips(),
		"",
		v.input.View(),
		"",
	)

	if v.detail != nil {
		sections = append(sections, v.renderDetail())
	} else {
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) cityLabel() string {
	if v.state.Filter.City == "" {
		return "All cities"
	}
	return v.state.Filter.City
}

// renderTabs renders the category tabs with the active one highlighted.
func (v *View) renderTabs() string {
	tabs := make([]string, 0, 4)
	for _, c := range domain.AllCategories() {
		if c == v.state.Filter.Category {
			tabs = append(tabs, v.styles.Tab.Render(string(c)))
		} else {
			tabs = append(tabs, v.styles.InactiveTab.Render(string(c)))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// renderChips renders the active filter values.
func (v *View) renderChips() string {
	f := v.state.Filter
	chips := []string{
		v.chip("Type", f.SubType),
		v.chip("BHK", f.BedroomCount),
		v.chip("Occupancy", f.Occupancy),
		v.chip("Sort", string(f.PriceSort)),
	}
	if f.PropertyFor == domain.PropertyForSell {
		chips = slices.Insert(chips, 2, v.chip("Budget", f.BudgetBand))
	}
	if f.Category == domain.CategoryCommercial {
		chips = slices.Insert(chips, 0, v.chip("For", string(f.PropertyFor)))
	}
	return strings.Join(chips, "  ")
}

func (v *View) chip(label, value string) string {
	if value == "" {
		value = "any"
	}
	return v.styles.Muted.Render(label+": ") + v.styles.Chip.Render(value)
}

// renderDetail renders the listing detail panel.
func (v *View) renderDetail() string {
	p := v.detail.property
	lines := []string{
		v.styles.Subtitle.Render(p.Name),
		v.styles.Success.Render(domain.FormatPrice(p.Price)),
		v.styles.Normal.Render(list.Details(&p)),
		"",
		v.styles.Muted.Render("Listing: " + p.ID),
	}
	if p.OwnerPhone != "" {
		lines = append(lines, v.styles.Normal.Render("Contact: "+p.OwnerPhone))
	}
	if !p.PostedAt.IsZero() {
		lines = append(lines, v.styles.Muted.Render("Posted: "+p.PostedAt.Format("2 Jan 2006")))
	}
	if v.detail.photo != "" {
		lines = append(lines, v.styles.Muted.Render("Photo: "+v.detail.photo))
	}
	if len(p.Photos) > 1 {
		lines = append(lines, v.styles.Muted.Render(fmt.Sprintf("%d photos", len(p.Photos))))
	}

	like := "[f] like"
	if v.state.IsLiked(p.ID) {
		lines = append(lines, v.styles.Liked.Render("♥ Liked"))
		like = "[f] unlike"
	}
	lines = append(lines, "", v.styles.Help.Render(like+"  [esc] close"))

	return v.styles.Border.Padding(0, 1).Render(strings.Join(lines, "\n"))
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	// Title, tabs, chips, input and status bar take about 12 lines.
	listHeight := height - 12
	if listHeight < 3 {
		listHeight = 3
	}
	v.list.SetDimensions(width, listHeight)
	v.statusbar.SetWidth(width)
}

// Reset returns focus to the search input and closes any overlay.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.ClearSuggestions()
	v.detail = nil
	v.err = nil
}

// State returns the last rendered read model snapshot.
func (v *View) State() domain.DiscoveryState {
	return v.state
}

// Query returns the text in the search input.
func (v *View) Query() string {
	return v.input.Value()
}

// Results returns the listings shown.
func (v *View) Results() []domain.Property {
	return v.list.Results()
}

// SelectedIndex returns the index of the selected listing.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// InputFocused reports whether the search input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// DetailOpen reports whether the detail panel is shown.
func (v *View) DetailOpen() bool {
	return v.detail != nil
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// cycle returns the value after current in options, wrapping around.
// An unknown current value selects the first option.
func cycle[T comparable](options []T, current T, step int) T {
	var zero T
	if len(options) == 0 {
		return zero
	}
	i := slices.Index(options, current)
	if i < 0 {
		return options[0]
	}
	n := len(options)
	return options[((i+step)%n+n)%n]
}

// withAny prepends the empty "any" choice.
func withAny(options []string) []string {
	return append([]string{""}, options...)
}
