// Package state persists per-session hook state across hook processes.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const (
	stateVersion  = "1.0"
	stateFileName = "hookify.state.json"
	lockFileName  = ".hookify.state.lock"
)

// sessionState is the on-disk shape of the state file.
type sessionState struct {
	Version string `json:"version"`
	// Sessions maps session ID to the names of rules that already fired.
	Sessions map[string]map[string]bool `json:"sessions"`
}

// Tracker records which once-rules have fired per session. Hook invocations
// are separate processes that can run concurrently, so every read and write
// holds a file lock.
type Tracker struct {
	dir string
}

// NewTracker creates a tracker storing state under projectDir/.claude.
func NewTracker(projectDir string) *Tracker {
	return &Tracker{dir: filepath.Join(projectDir, ".claude")}
}

// HasFired reports whether the rule already fired in the session.
// Any state access problem reads as "not fired": the worst case is a
// once-rule firing twice, which beats failing the hook.
func (t *Tracker) HasFired(sessionID, ruleName string) bool {
	lock := flock.New(t.lockPath())
	if err := lock.RLock(); err != nil {
		return false
	}
	defer lock.Unlock()

	st, err := t.load()
	if err != nil {
		return false
	}

	return st.Sessions[sessionID][ruleName]
}

// MarkFired records that the rule fired in the session.
func (t *Tracker) MarkFired(sessionID, ruleName string) error {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	lock := flock.New(t.lockPath())
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("failed to acquire state lock: %w", err)
	}
	defer lock.Unlock()

	st, err := t.load()
	if err != nil {
		// A corrupt state file starts over rather than wedging every hook.
		st = &sessionState{Version: stateVersion, Sessions: map[string]map[string]bool{}}
	}
	if st.Sessions == nil {
		st.Sessions = map[string]map[string]bool{}
	}
	if st.Sessions[sessionID] == nil {
		st.Sessions[sessionID] = map[string]bool{}
	}
	st.Sessions[sessionID][ruleName] = true

	return t.save(st)
}

func (t *Tracker) statePath() string {
	return filepath.Join(t.dir, stateFileName)
}

func (t *Tracker) lockPath() string {
	return filepath.Join(t.dir, lockFileName)
}

func (t *Tracker) load() (*sessionState, error) {
	data, err := os.ReadFile(t.statePath())
	if os.IsNotExist(err) {
		return &sessionState{Version: stateVersion, Sessions: map[string]map[string]bool{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var st sessionState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}

	return &st, nil
}

func (t *Tracker) save(st *sessionState) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize state: %w", err)
	}

	if err := os.WriteFile(t.statePath(), data, 0o644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}

	return nil
}
