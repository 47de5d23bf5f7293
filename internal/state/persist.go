package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"coindeck/pkg/alerts"
	"coindeck/pkg/portfolio"
)

// PersistedState is the subset of application state that survives restarts:
// preferences, alerts, holdings, the selected instrument and the chart
// window. The snapshot itself is deliberately not persisted; it is refetched
// on the first refresh. There is no schema versioning.
type PersistedState struct {
	Settings   Settings            `json:"settings"`
	Alerts     []alerts.Alert      `json:"alerts"`
	Holdings   []portfolio.Holding `json:"holdings"`
	SelectedID string              `json:"selected_id,omitempty"`
	ChartDays  int                 `json:"chart_days"`
}

// FileStore persists state as an indented JSON document, written whole on
// every mutation and read once at startup.
type FileStore struct {
	path string
}

// NewFileStore constructs a store rooted at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Save writes the state document, creating parent directories as needed.
func (f *FileStore) Save(st PersistedState) error {
	if f == nil || f.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("state: mkdir %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("state: write %s: %w", f.path, err)
	}
	return nil
}

// Load reads the state document. A missing file is not an error; it returns
// nil state, meaning a fresh install.
func (f *FileStore) Load() (*PersistedState, error) {
	if f == nil || f.path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("state: read %s: %w", f.path, err)
	}
	var st PersistedState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("state: decode %s: %w", f.path, err)
	}
	return &st, nil
}
