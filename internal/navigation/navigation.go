// Package navigation tracks the current screen path, the nav items that
// point at screens, the breadcrumb trail and a bounded route history.
package navigation

import (
	"encoding/json"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/gravitrone/shopos/cli/internal/logging"
	"github.com/gravitrone/shopos/cli/internal/storage"
)

const (
	// AppTitle is appended to every page title.
	AppTitle = "Mechanic Shop OS"
	// MaxRouteHistory caps the in-memory route history.
	MaxRouteHistory = 50
	// PersistedRouteHistory is how many recent routes survive a restart.
	PersistedRouteHistory = 10
	// StorageKey is where route history is persisted.
	StorageKey = "navigation-store"
)

// Item is an entry in the tab bar.
type Item struct {
	ID       string
	Label    string
	Path     string
	Icon     string
	IsActive bool
}

// Breadcrumb is one step of the trail above the content.
type Breadcrumb struct {
	Label    string
	Path     string
	IsActive bool
}

// Options configures a Store.
type Options struct {
	Storage storage.Store
	Logger  *logrus.Entry
}

// Store holds navigation state for one TUI session.
type Store struct {
	current     string
	previous    string
	items       []Item
	breadcrumbs []Breadcrumb
	pageTitle   string
	history     []string

	persist storage.Store
	log     *logrus.Entry
}

type persisted struct {
	RouteHistory []string `json:"route_history"`
}

// New returns an empty store.
func New(opts Options) *Store {
	s := &Store{persist: opts.Storage, log: opts.Logger}
	if s.log == nil {
		s.log = logging.NewLogger("navigation")
	}
	return s
}

// Restore loads the persisted route history.
func (s *Store) Restore() error {
	if s.persist == nil {
		return nil
	}
	raw, err := s.persist.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	var state persisted
	if err := json.Unmarshal(raw, &state); err != nil {
		return err
	}
	s.history = nil
	for i := len(state.RouteHistory) - 1; i >= 0; i-- {
		if path := state.RouteHistory[i]; path != "" {
			s.history = pushRoute(s.history, path)
		}
	}
	return nil
}

// --- Selectors ---

func (s *Store) CurrentPath() string  { return s.current }
func (s *Store) PreviousPath() string { return s.previous }
func (s *Store) PageTitle() string    { return s.pageTitle }

// Items returns a copy of the nav items.
func (s *Store) Items() []Item {
	return append([]Item(nil), s.items...)
}

// Breadcrumbs returns a copy of the breadcrumb trail.
func (s *Store) Breadcrumbs() []Breadcrumb {
	return append([]Breadcrumb(nil), s.breadcrumbs...)
}

// RouteHistory returns visited paths, most recent first.
func (s *Store) RouteHistory() []string {
	return append([]string(nil), s.history...)
}

// --- Mutations ---

// SetCurrentPath moves to path, marks the matching nav item active and
// records the visit.
func (s *Store) SetCurrentPath(path string) {
	if path == "" {
		path = "/"
	}
	if path != s.current {
		s.previous = s.current
	}
	s.current = path
	s.markActive()
	s.history = pushRoute(s.history, path)
	s.save()
}

// SetNavigationItems replaces the nav items.
func (s *Store) SetNavigationItems(items []Item) {
	s.items = append([]Item(nil), items...)
	s.markActive()
}

// SetBreadcrumbs replaces the breadcrumb trail.
func (s *Store) SetBreadcrumbs(crumbs []Breadcrumb) {
	s.breadcrumbs = append([]Breadcrumb(nil), crumbs...)
}

// SetPageTitle stores title and returns the command that sets the terminal
// window title.
func (s *Store) SetPageTitle(title string) tea.Cmd {
	s.pageTitle = strings.TrimSpace(title)
	return tea.SetWindowTitle(s.WindowTitle())
}

// WindowTitle is "{title} - Mechanic Shop OS", or just the app title when
// no page title is set.
func (s *Store) WindowTitle() string {
	if s.pageTitle == "" {
		return AppTitle
	}
	return s.pageTitle + " - " + AppTitle
}

// GoBack returns to the previous path. It reports false when there is none.
func (s *Store) GoBack() (string, bool) {
	if s.previous == "" {
		return "", false
	}
	target := s.previous
	s.SetCurrentPath(target)
	return target, true
}

// ClearRouteHistory forgets every visited path.
func (s *Store) ClearRouteHistory() {
	s.history = nil
	s.save()
}

func (s *Store) markActive() {
	for i := range s.items {
		s.items[i].IsActive = s.items[i].Path == s.current
	}
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	keep := s.history
	if len(keep) > PersistedRouteHistory {
		keep = keep[:PersistedRouteHistory]
	}
	raw, err := json.Marshal(persisted{RouteHistory: keep})
	if err != nil {
		s.log.WithError(err).Error("encode navigation state")
		return
	}
	if err := s.persist.Put(StorageKey, raw); err != nil {
		s.log.WithError(err).Error("persist navigation state")
	}
}

func pushRoute(list []string, path string) []string {
	out := make([]string, 0, min(len(list)+1, MaxRouteHistory))
	out = append(out, path)
	for _, existing := range list {
		if len(out) >= MaxRouteHistory {
			break
		}
		if existing != path {
			out = append(out, existing)
		}
	}
	return out
}

// --- Breadcrumbs ---

// GenerateBreadcrumbsFromPath builds "Home" plus one crumb per path segment.
// labels may override a crumb's label, keyed by the crumb's full path or by
// the bare segment. Only the last crumb is active; Home is active only on
// the root path.
func GenerateBreadcrumbsFromPath(path string, labels map[string]string) []Breadcrumb {
	var segments []string
	for _, seg := range strings.Split(path, "/") {
		if seg != "" {
			segments = append(segments, seg)
		}
	}

	crumbs := make([]Breadcrumb, 0, len(segments)+1)
	crumbs = append(crumbs, Breadcrumb{Label: "Home", Path: "/", IsActive: len(segments) == 0})

	current := ""
	for i, seg := range segments {
		current += "/" + seg
		label, ok := labels[current]
		if !ok {
			label, ok = labels[seg]
		}
		if !ok {
			label = capitalize(seg)
		}
		crumbs = append(crumbs, Breadcrumb{
			Label:    label,
			Path:     current,
			IsActive: i == len(segments)-1,
		})
	}
	return crumbs
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
