// Package selection tracks which entity is selected, the side dock that
// shows it, and the history and recents lists built from past selections.
package selection

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gravitrone/shopos/cli/internal/logging"
	"github.com/gravitrone/shopos/cli/internal/storage"
)

const (
	// MaxHistory caps the selection history.
	MaxHistory = 50
	// MaxRecent caps the recents list.
	MaxRecent = 10
	// StorageKey is where history and recents are persisted.
	StorageKey = "selection-store"
)

// Options configures a Store. Zero values get sensible defaults.
type Options struct {
	Storage storage.Store
	Now     func() time.Time
	Logger  *logrus.Entry
}

// Store is the selection and dock state machine. It is not safe for
// concurrent use; the TUI drives it from its single update loop.
type Store struct {
	current *Item
	history []Item
	recent  []Item
	dock    DockState
	payload *DockPayload

	persist storage.Store
	now     func() time.Time
	log     *logrus.Entry
}

type persisted struct {
	History []Item `json:"history"`
	Recent  []Item `json:"recent"`
}

// New builds a Store with the dock closed on the menu.
func New(opts Options) *Store {
	s := &Store{
		dock:    DockState{Context: ContextMenu, View: ViewMenu},
		persist: opts.Storage,
		now:     opts.Now,
		log:     opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logging.NewLogger("selection")
	}
	return s
}

// Restore loads persisted history and recents. A missing record is not an
// error. Entries of unsupported types are dropped.
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
	s.history = sanitize(state.History, MaxHistory)
	s.recent = sanitize(state.Recent, MaxRecent)
	return nil
}

func sanitize(items []Item, limit int) []Item {
	out := make([]Item, 0, min(len(items), limit))
	for _, item := range items {
		if len(out) >= limit {
			break
		}
		if !CanSelectType(item.Type) || containsEntity(out, item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func containsEntity(list []Item, item Item) bool {
	for _, existing := range list {
		if existing.sameEntity(item) {
			return true
		}
	}
	return false
}

// --- Selectors ---

// Current returns the selected item, or false when nothing is selected.
func (s *Store) Current() (Item, bool) {
	if s.current == nil {
		return Item{}, false
	}
	return *s.current, true
}

// Dock returns the dock state.
func (s *Store) Dock() DockState {
	return s.dock
}

// Payload returns the dock payload, or false when there is none.
func (s *Store) Payload() (DockPayload, bool) {
	if s.payload == nil {
		return DockPayload{}, false
	}
	return *s.payload, true
}

// History returns a copy of the history, most recent first.
func (s *Store) History() []Item {
	return append([]Item(nil), s.history...)
}

// Recent returns a copy of the recents, most recent first.
func (s *Store) Recent() []Item {
	return append([]Item(nil), s.recent...)
}

// --- Selection ---

// SelectItem makes item the current selection and opens the dock on its
// context. It reports false and changes nothing when the type is not
// selectable or the payload variant disagrees with the type.
func (s *Store) SelectItem(item Item) bool {
	if !CanSelectType(item.Type) {
		s.log.WithField("type", item.Type).Warn("rejected selection of unsupported type")
		return false
	}
	if item.Data != nil && item.Data.EntityType() != item.Type {
		s.log.WithFields(logrus.Fields{
			"type":    item.Type,
			"payload": item.Data.EntityType(),
		}).Warn("rejected selection with mismatched payload")
		return false
	}

	prev := s.current
	item.Timestamp = s.now()
	s.current = &item
	s.dock.Context = ContextFromType(item.Type)
	s.dock.View = ViewContext
	s.dock.Data = item.Data
	s.dock.Open = true
	s.payload = payloadFor(item)

	if prev == nil || !prev.sameEntity(item) {
		s.history = pushFront(s.history, item, MaxHistory)
		s.recent = pushFront(s.recent, item, MaxRecent)
		s.save()
	}
	return true
}

// ClearSelection drops the selection and returns the dock to the menu
// without closing it.
func (s *Store) ClearSelection() {
	s.current = nil
	s.payload = nil
	s.dock.Data = nil
	s.dock.Context = ContextMenu
	s.dock.View = ViewMenu
}

// SetDockContext switches the dock independently of the selection. Menu and
// empty contexts replace the dock data with data (nil clears it). Empty
// closes the dock and keeps the payload of a current selection; every other
// context opens it. For a detail context, data becomes the new payload when
// given. A selection that no longer matches the payload is cleared. Unknown
// contexts are ignored.
func (s *Store) SetDockContext(ctx DockContext, data Payload) bool {
	switch ctx {
	case ContextMenu:
		s.dock = DockState{Context: ctx, View: ViewMenu, Data: data, Open: true}
		s.payload = nil
		return true
	case ContextEmpty:
		s.dock = DockState{Context: ctx, View: ViewContext, Data: data, Open: false}
		switch {
		case s.current == nil:
			s.payload = nil
		case s.payload == nil || s.payload.EntityType != s.current.Type:
			s.payload = payloadFor(*s.current)
		}
		return true
	}

	t, ok := TypeFromContext(ctx)
	if !ok {
		s.log.WithField("context", ctx).Warn("ignored unknown dock context")
		return false
	}
	if data != nil && data.EntityType() != t {
		s.log.WithFields(logrus.Fields{
			"context": ctx,
			"payload": data.EntityType(),
		}).Warn("ignored dock context with mismatched payload")
		return false
	}

	s.dock.Context = ctx
	s.dock.View = ViewContext
	s.dock.Open = true
	switch {
	case data != nil:
		s.dock.Data = data
		s.payload = &DockPayload{EntityType: t, EntityID: data.EntityID(), InitialData: data, Source: "dock"}
	case s.payload != nil && s.payload.EntityType == t:
	case s.current != nil && s.current.Type == t:
		s.dock.Data = s.current.Data
		s.payload = payloadFor(*s.current)
	default:
		s.dock.Data = nil
		s.payload = &DockPayload{EntityType: t, Source: "dock"}
	}
	s.dropStaleSelection()
	return true
}

// ToggleDock flips dock visibility.
func (s *Store) ToggleDock() { s.dock.Open = !s.dock.Open }

// OpenDock shows the dock.
func (s *Store) OpenDock() { s.dock.Open = true }

// CloseDock hides the dock.
func (s *Store) CloseDock() { s.dock.Open = false }

// ShowMenu switches the dock to the menu and opens it.
func (s *Store) ShowMenu() {
	s.dock = DockState{Context: ContextMenu, View: ViewMenu, Open: true}
	s.payload = nil
}

// OpenContext shows p in the dock without recording history or recents.
// Use SelectItem when the visit should be tracked.
func (s *Store) OpenContext(p DockPayload) bool {
	if !CanSelectType(p.EntityType) {
		s.log.WithField("type", p.EntityType).Warn("rejected context of unsupported type")
		return false
	}
	if p.InitialData != nil && p.InitialData.EntityType() != p.EntityType {
		s.log.WithField("type", p.EntityType).Warn("rejected context with mismatched payload")
		return false
	}
	s.dock = DockState{
		Context: ContextFromType(p.EntityType),
		View:    ViewContext,
		Data:    p.InitialData,
		Open:    true,
	}
	s.payload = &p
	s.dropStaleSelection()
	return true
}

// ResetDock returns the dock to a closed menu.
func (s *Store) ResetDock() {
	s.dock = DockState{Context: ContextMenu, View: ViewMenu}
	s.payload = nil
}

func payloadFor(item Item) *DockPayload {
	return &DockPayload{
		EntityType:  item.Type,
		EntityID:    item.ID,
		InitialData: item.Data,
		Source:      "selection",
	}
}

// dropStaleSelection clears the selection when the payload now points at a
// different entity.
func (s *Store) dropStaleSelection() {
	if s.current == nil || s.payload == nil {
		return
	}
	if s.current.Type != s.payload.EntityType || (s.payload.EntityID != "" && s.current.ID != s.payload.EntityID) {
		s.current = nil
	}
}

// --- History & Recents ---

// AddToHistory pushes item to the front of the history.
func (s *Store) AddToHistory(item Item) {
	if !CanSelectType(item.Type) {
		return
	}
	s.history = pushFront(s.history, s.stamp(item), MaxHistory)
	s.save()
}

// ClearHistory empties the history.
func (s *Store) ClearHistory() {
	s.history = nil
	s.save()
}

// RemoveFromHistory removes entries with the given id. When types are given
// only entries of those types are removed; otherwise every type matches.
func (s *Store) RemoveFromHistory(id string, types ...EntityType) {
	kept := s.history[:0:0]
	for _, item := range s.history {
		if item.ID == id && matchesType(item.Type, types) {
			continue
		}
		kept = append(kept, item)
	}
	s.history = kept
	s.save()
}

// AddToRecent pushes item to the front of the recents.
func (s *Store) AddToRecent(item Item) {
	if !CanSelectType(item.Type) {
		return
	}
	s.recent = pushFront(s.recent, s.stamp(item), MaxRecent)
	s.save()
}

// ClearRecent empties the recents.
func (s *Store) ClearRecent() {
	s.recent = nil
	s.save()
}

func (s *Store) stamp(item Item) Item {
	if item.Timestamp.IsZero() {
		item.Timestamp = s.now()
	}
	return item
}

func (s *Store) save() {
	if s.persist == nil {
		return
	}
	raw, err := json.Marshal(persisted{History: s.history, Recent: s.recent})
	if err != nil {
		s.log.WithError(err).Error("encode selection state")
		return
	}
	if err := s.persist.Put(StorageKey, raw); err != nil {
		s.log.WithError(err).Error("persist selection state")
	}
}

// pushFront inserts item at the front, removing any entry for the same
// entity and trimming to limit.
func pushFront(list []Item, item Item, limit int) []Item {
	out := make([]Item, 0, min(len(list)+1, limit))
	out = append(out, item)
	for _, existing := range list {
		if len(out) >= limit {
			break
		}
		if existing.sameEntity(item) {
			continue
		}
		out = append(out, existing)
	}
	return out
}

func matchesType(t EntityType, types []EntityType) bool {
	if len(types) == 0 {
		return true
	}
	for _, candidate := range types {
		if candidate == t {
			return true
		}
	}
	return false
}
