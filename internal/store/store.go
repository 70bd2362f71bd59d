// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"errors"
	"sync"
	"time"

	"github.com/jeranaias/parley/internal/model"
)

// ErrSessionNotFound is returned by operations that reference a session id
// that does not exist. Deletion is exempt: deleting an unknown id is an
// idempotent no-op.
var ErrSessionNotFound = errors.New("session not found")

// =============================================================================
// SESSION STORE
// =============================================================================

// Store is the application-state object for chat sessions. It is created
// once at process start and passed by reference to whichever components need
// it; all mutations go through its methods.
//
// The Store is safe for concurrent use.
type Store struct {
	mu sync.Mutex

	// Persisted subset
	sessions         []*model.ChatSession // newest-created first
	currentID        string               // "" = no active session
	sidebarCollapsed bool

	// Ephemeral UI state (never persisted)
	input   string
	loading bool

	// Dirty tracking for explicit write-through. version counts mutations
	// of the persisted subset so stale snapshots can be told apart from
	// the latest one.
	dirty   bool
	version uint64

	// now is the clock used for UpdatedAt stamps; replaceable in tests.
	now func() time.Time
}

// New creates an empty store.
func New() *Store {
	return &Store{now: time.Now}
}

// SetClock replaces the store's clock. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// =============================================================================
// SESSION OPERATIONS
// =============================================================================

// CreateSession allocates a new session seeded with the given messages,
// inserts it at the front of the list, and makes it the current session.
// The title is derived from the first seed message, or defaults to
// "New Chat". Always succeeds. Returns a snapshot copy of the new session.
func (s *Store) CreateSession(initial []model.Message) *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := model.NewChatSession(initial, s.now())
	s.sessions = append([]*model.ChatSession{sess}, s.sessions...)
	s.currentID = sess.ID
	s.markDirty()
	return sess.Clone()
}

// AppendMessage appends a message to the identified session, preserving the
// order of all prior messages and refreshing the session's UpdatedAt. When
// the message is the session's first and its role is user, the title is
// derived from its content.
//
// Returns ErrSessionNotFound for unknown ids; the store is left unchanged.
func (s *Store) AppendMessage(sessionID string, msg model.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.Append(msg, s.now())
	s.markDirty()
	return nil
}

// RenameSession overwrites the session title. No validation is done on the
// title content or length. Returns ErrSessionNotFound for unknown ids.
func (s *Store) RenameSession(sessionID, title string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.find(sessionID)
	if sess == nil {
		return ErrSessionNotFound
	}
	sess.Rename(title, s.now())
	s.markDirty()
	return nil
}

// DeleteSession removes the session from the list. If it was the current
// session, the pointer is reassigned to the new first session, or cleared
// when none remain. Deleting an unknown id leaves the store unchanged.
func (s *Store) DeleteSession(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, sess := range s.sessions {
		if sess.ID == sessionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	s.sessions = append(s.sessions[:idx], s.sessions[idx+1:]...)
	if s.currentID == sessionID {
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		} else {
			s.currentID = ""
		}
	}
	s.markDirty()
}

// =============================================================================
// CURRENT SESSION POINTER
// =============================================================================

// SetCurrentID assigns the active-session pointer directly. No existence
// check is enforced here; startup logic is responsible for selecting a valid
// id.
func (s *Store) SetCurrentID(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentID = id
	s.markDirty()
}

// CurrentID returns the active-session pointer ("" when none).
func (s *Store) CurrentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// Current returns a copy of the active session, or nil when no session is
// active or the pointer is dangling.
func (s *Store) Current() *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.find(s.currentID); sess != nil {
		return sess.Clone()
	}
	return nil
}

// =============================================================================
// READ VIEWS
// =============================================================================

// Session returns a copy of the identified session, or nil if not found.
func (s *Store) Session(id string) *model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess := s.find(id); sess != nil {
		return sess.Clone()
	}
	return nil
}

// Sessions returns copies of all sessions, newest-created first.
func (s *Store) Sessions() []*model.ChatSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		out[i] = sess.Clone()
	}
	return out
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// =============================================================================
// EPHEMERAL UI STATE
// =============================================================================

// SetInput stores the pending (not yet sent) user text. Excluded from the
// persisted subset.
func (s *Store) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Input returns the pending user text.
func (s *Store) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

// SetLoading flags whether a completion request for the current turn is
// outstanding. Excluded from the persisted subset.
func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

// IsLoading reports whether a completion request is outstanding.
func (s *Store) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// ToggleSidebar flips the sidebar-collapse flag. The flag is part of the
// persisted snapshot.
func (s *Store) ToggleSidebar() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebarCollapsed = !s.sidebarCollapsed
	s.markDirty()
}

// IsSidebarCollapsed reports the sidebar-collapse flag.
func (s *Store) IsSidebarCollapsed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sidebarCollapsed
}

// =============================================================================
// DIRTY TRACKING
// =============================================================================

// IsDirty reports whether the persisted subset has changed since the last
// MarkClean.
func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// MarkClean records that the current state has been persisted.
func (s *Store) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

// MarkCleanIf records that the snapshot taken at the given version has been
// persisted. The dirty flag is cleared only when no further mutation happened
// after that snapshot was taken; a stale version leaves the store dirty so a
// later save still picks up the newer state.
func (s *Store) MarkCleanIf(version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.version == version {
		s.dirty = false
	}
}

// =============================================================================
// SNAPSHOT / RESTORE
// =============================================================================

// Snapshot captures the persisted subset of the store state: the session
// list, the current pointer, and the sidebar flag. Input and loading flags
// are ephemeral and excluded.
type Snapshot struct {
	Sessions         []*model.ChatSession `json:"sessions"`
	CurrentChatID    string               `json:"currentChatId"`
	SidebarCollapsed bool                 `json:"isSidebarCollapsed"`

	// Version is the store's mutation counter at capture time. It orders
	// concurrent saves of the same store and is not part of the persisted
	// shape.
	Version uint64 `json:"-"`
}

// Snapshot returns a deep copy of the persisted subset.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make([]*model.ChatSession, len(s.sessions))
	for i, sess := range s.sessions {
		sessions[i] = sess.Clone()
	}
	return Snapshot{
		Sessions:         sessions,
		CurrentChatID:    s.currentID,
		SidebarCollapsed: s.sidebarCollapsed,
		Version:          s.version,
	}
}

// Restore replaces the persisted subset with the snapshot contents. A
// non-empty current pointer that references a session not present in the
// snapshot is repaired to the first session (or cleared when the list is
// empty); an empty pointer is a valid state and survives the round trip
// verbatim. The restored state is considered clean.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = make([]*model.ChatSession, len(snap.Sessions))
	for i, sess := range snap.Sessions {
		s.sessions[i] = sess.Clone()
	}
	s.currentID = snap.CurrentChatID
	s.sidebarCollapsed = snap.SidebarCollapsed

	if s.currentID != "" && s.find(s.currentID) == nil {
		if len(s.sessions) > 0 {
			s.currentID = s.sessions[0].ID
		} else {
			s.currentID = ""
		}
	}
	s.dirty = false
}

// =============================================================================
// HELPERS
// =============================================================================

// markDirty flags the persisted subset as changed and advances the mutation
// counter. Caller must hold s.mu.
func (s *Store) markDirty() {
	s.dirty = true
	s.version++
}

// find returns the live session for id, or nil. Caller must hold s.mu.
func (s *Store) find(id string) *model.ChatSession {
	if id == "" {
		return nil
	}
	for _, sess := range s.sessions {
		if sess.ID == id {
			return sess
		}
	}
	return nil
}
