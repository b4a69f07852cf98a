// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the persisted login session.
//
// The session is the pair (user id, access token) returned by the login
// endpoint. It is written exactly once per successful login, read at
// startup to decide which screen to show, and removed on logout. The
// session object is handed to the chat screen explicitly rather than read
// from ambient globals, which keeps the screens testable in isolation.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Session identifies the logged-in user for the lifetime of the client.
type Session struct {
	UserID string `json:"user_id"`
	Token  string `json:"access_token"`
}

// Valid reports whether the session can authenticate requests.
func (s Session) Valid() bool {
	return s.UserID != "" && s.Token != ""
}

// =============================================================================
// SESSION STORE
// =============================================================================

const (
	defaultDirName  = ".datachat"
	sessionFileName = "session.json"

	// Session files hold a bearer token; owner-only access.
	sessionFileMode = 0o600
	sessionDirMode  = 0o700
)

// Store persists the session as a small JSON file under the user's
// config directory.
type Store struct {
	path string
}

// NewStore creates a store rooted at ~/.datachat.
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return NewStoreWithPath(filepath.Join(home, defaultDirName, sessionFileName))
}

// NewStoreWithPath creates a store at an explicit file path (tests).
func NewStoreWithPath(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), sessionDirMode); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the session file location.
func (st *Store) Path() string {
	return st.path
}

// Load reads the persisted session. A missing file is not an error: it
// simply means nobody is logged in and the zero session is returned.
func (st *Store) Load() (Session, error) {
	data, err := os.ReadFile(st.path)
	if err != nil {
		if os.IsNotExist(err) {
			return Session{}, nil
		}
		return Session{}, fmt.Errorf("failed to read session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		// A corrupt session file is treated as logged out rather than
		// wedging the client at startup.
		return Session{}, nil
	}
	return s, nil
}

// Save persists the session atomically: write to a temp file in the same
// directory, then rename over the target.
func (st *Store) Save(s Session) error {
	if !s.Valid() {
		return fmt.Errorf("refusing to persist incomplete session")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	tmp := st.path + ".tmp"
	if err := os.WriteFile(tmp, data, sessionFileMode); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	if err := os.Rename(tmp, st.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an absent session is a
// no-op so logout is idempotent.
func (st *Store) Clear() error {
	if err := os.Remove(st.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
