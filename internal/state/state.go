package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mgen/internal/logger"
)

const fileName = "console-state.json"

// ConsoleState holds what the console remembers between invocations.
type ConsoleState struct {
	LastProject string `json:"last_project,omitempty"`
	LastWizard  string `json:"last_wizard,omitempty"`
}

// Load reads the state from dataDir. A missing or unreadable file yields an
// empty state.
func Load(dataDir string) *ConsoleState {
	path := filepath.Join(dataDir, fileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read console state: %v", err)
		}
		return &ConsoleState{}
	}

	var st ConsoleState
	if err := json.Unmarshal(data, &st); err != nil {
		logger.Warn("Failed to parse console state: %v", err)
		return &ConsoleState{}
	}
	return &st
}

// Save writes st to dataDir, creating it if needed.
func Save(dataDir string, st *ConsoleState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling console state: %w", err)
	}

	path := filepath.Join(dataDir, fileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing console state: %w", err)
	}

	logger.Debug("Console state saved to %s", path)
	return nil
}

// ResolveProject picks the explicit project id, falling back to the
// remembered one.
func (st *ConsoleState) ResolveProject(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return st.LastProject
}
