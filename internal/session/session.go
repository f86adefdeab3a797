// Package session remembers per-project UI state between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/studiowebux/perseus/internal/config"
)

// Version is the current sessions file format
const Version = 1

// State is the UI state of one project root
type State struct {
	ActiveProjectID  string   `json:"active_project_id"`
	SidebarWidth     int      `json:"sidebar_width"`
	SidebarVisible   bool     `json:"sidebar_visible"`
	SelectionID      string   `json:"selection_id,omitempty"`
	CurrentRequestID string   `json:"current_request_id,omitempty"`
	Expanded         []string `json:"expanded"`
	Environment      string   `json:"environment,omitempty"`
	RequestTab       string   `json:"request_tab,omitempty"`
	ResponseTab      string   `json:"response_tab,omitempty"`
}

// ExpandedSet returns Expanded as a lookup set
func (s *State) ExpandedSet() map[string]bool {
	set := make(map[string]bool, len(s.Expanded))
	for _, id := range s.Expanded {
		set[id] = true
	}
	return set
}

type file struct {
	Version  int               `json:"version"`
	Sessions map[string]*State `json:"sessions"`
}

// Manager reads and writes the sessions file
type Manager struct {
	path string
	data file
}

// NewManager creates a manager for path, usually config.SessionFile
func NewManager(path string) *Manager {
	return &Manager{
		path: path,
		data: file{Version: Version, Sessions: make(map[string]*State)},
	}
}

// Load reads the sessions file. A missing file yields an empty store.
func (m *Manager) Load() error {
	data, err := os.ReadFile(m.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read session file: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse session file: %w", err)
	}
	if f.Version != Version {
		return fmt.Errorf("unsupported session file version: %d", f.Version)
	}
	if f.Sessions == nil {
		f.Sessions = make(map[string]*State)
	}
	m.data = f
	return nil
}

// Save writes the sessions file
func (m *Manager) Save() error {
	if err := os.MkdirAll(filepath.Dir(m.path), config.DirPermissions); err != nil {
		return fmt.Errorf("failed to create session directory: %w", err)
	}
	data, err := json.MarshalIndent(m.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := os.WriteFile(m.path, data, config.FilePermissions); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	return nil
}

// Get returns a copy of the state stored for rootKey
func (m *Manager) Get(rootKey string) (State, bool) {
	s, ok := m.data.Sessions[rootKey]
	if !ok || s == nil {
		return State{}, false
	}
	out := *s
	out.Expanded = append([]string(nil), s.Expanded...)
	return out, true
}

// Put stores state for rootKey and saves the file
func (m *Manager) Put(rootKey string, state State) error {
	if strings.TrimSpace(rootKey) == "" {
		return errors.New("session root key is empty")
	}
	m.data.Version = Version
	m.data.Sessions[rootKey] = &state
	return m.Save()
}

// Forget drops the state of rootKey and saves the file
func (m *Manager) Forget(rootKey string) error {
	delete(m.data.Sessions, rootKey)
	return m.Save()
}
