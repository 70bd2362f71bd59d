// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/jeranaias/parley/internal/store"
	"github.com/jeranaias/parley/internal/util"
)

// SlotFileName is the fixed name of the persistence slot inside the
// application directory.
const SlotFileName = "chat-storage.json"

// =============================================================================
// ERRORS
// =============================================================================

// ErrSlotNotFound is returned by Load when no slot file exists yet.
// Use errors.Is(err, ErrSlotNotFound) to check for this error.
var ErrSlotNotFound = &SlotError{Message: "storage slot not found"}

// ErrSlotCorrupt is returned by Load when the slot file exists but cannot be
// decoded.
var ErrSlotCorrupt = &SlotError{Message: "storage slot corrupt"}

// SlotError represents a slot persistence error.
type SlotError struct {
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *SlotError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *SlotError) Unwrap() error {
	return e.Cause
}

// Is implements errors.Is support for comparing slot errors.
func (e *SlotError) Is(target error) bool {
	t, ok := target.(*SlotError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}

// =============================================================================
// SLOT STORE
// =============================================================================

// SlotStore reads and writes the single persistence slot.
type SlotStore struct {
	// BaseDir is the application directory holding the slot.
	// Default: ~/.parley/
	BaseDir string
}

// NewSlotStore creates a slot store rooted at the default application
// directory, creating it if needed.
func NewSlotStore() (*SlotStore, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewSlotStoreWithDir(filepath.Join(homeDir, ".parley"))
}

// NewSlotStoreWithDir creates a slot store rooted at a custom directory.
func NewSlotStoreWithDir(baseDir string) (*SlotStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &SlotStore{BaseDir: baseDir}, nil
}

// Path returns the full path of the slot file.
func (s *SlotStore) Path() string {
	return filepath.Join(s.BaseDir, SlotFileName)
}

// =============================================================================
// SAVE / LOAD
// =============================================================================

// Save writes the snapshot to the slot file atomically.
func (s *SlotStore) Save(snap store.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return &SlotError{Message: "encode storage slot", Cause: err}
	}

	// RELIABILITY: atomic write with fsync prevents data loss on crash.
	return util.AtomicWriteFile(s.Path(), data, 0644)
}

// Load reads the slot file. Returns ErrSlotNotFound when no slot exists and
// ErrSlotCorrupt when the file cannot be decoded.
func (s *SlotStore) Load() (store.Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return store.Snapshot{}, ErrSlotNotFound
		}
		return store.Snapshot{}, &SlotError{Message: "read storage slot", Cause: err}
	}

	var snap store.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return store.Snapshot{}, &SlotError{Message: ErrSlotCorrupt.Message, Cause: err}
	}
	return snap, nil
}

// LoadOrEmpty reads the slot file, falling back to an empty snapshot when the
// slot is missing or unreadable. The application starts fresh rather than
// refusing to run over a bad slot; the bad file is left in place untouched
// until the next Save overwrites it.
func (s *SlotStore) LoadOrEmpty() store.Snapshot {
	snap, err := s.Load()
	if err != nil {
		return store.Snapshot{}
	}
	return snap
}
