package hook

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionState tracks which skills have already been injected into a
// session, so repeated prompts don't re-send the same guidance.
type SessionState struct {
	SessionID string               `json:"sessionId"`
	CWD       string               `json:"cwd"`
	Injected  map[string]time.Time `json:"injected"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// StateStore persists per-session state under a per-project directory.
// Concurrent hook invocations for the same session are serialized with a
// lock file.
type StateStore struct {
	dir string
}

// NewStateStore returns a store rooted at baseDir (normally
// ~/.claude-skills/state), scoped to the project at cwd.
func NewStateStore(baseDir, cwd string) *StateStore {
	return &StateStore{dir: filepath.Join(baseDir, projectHash(cwd))}
}

// DefaultStateDir returns the base state directory under the home dir.
func DefaultStateDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".claude-skills", "state"), nil
}

// projectHash derives a stable directory name from the project path.
func projectHash(cwd string) string {
	sum := sha256.Sum256([]byte(cwd))
	return hex.EncodeToString(sum[:8])
}

// Dir returns the project-scoped state directory.
func (s *StateStore) Dir() string {
	return s.dir
}

func (s *StateStore) statePath(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".json")
}

func (s *StateStore) lockPath(sessionID string) string {
	return filepath.Join(s.dir, sessionID+".lock")
}

// Load reads the state for a session. A missing file yields a fresh state.
func (s *StateStore) Load(sessionID, cwd string) (*SessionState, error) {
	data, err := os.ReadFile(s.statePath(sessionID))
	if os.IsNotExist(err) {
		return &SessionState{
			SessionID: sessionID,
			CWD:       cwd,
			Injected:  make(map[string]time.Time),
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	var state SessionState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	if state.Injected == nil {
		state.Injected = make(map[string]time.Time)
	}
	return &state, nil
}

// Save writes the state atomically-ish: MarshalIndent to a 0600 file in a
// 0700 directory.
func (s *StateStore) Save(state *SessionState) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}
	if err := os.WriteFile(s.statePath(state.SessionID), data, 0600); err != nil {
		return fmt.Errorf("writing session state: %w", err)
	}
	return nil
}

// WithLock runs fn while holding the session's lock file.
func (s *StateStore) WithLock(sessionID string, fn func() error) error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}

	f, err := os.OpenFile(s.lockPath(sessionID), os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("opening lock file: %w", err)
	}
	defer f.Close()

	if err := lockFile(f); err != nil {
		return fmt.Errorf("acquiring session lock: %w", err)
	}
	defer unlockFile(f)

	return fn()
}
