package app

import (
	"sync"

	"gioui.org/app"

	"github.com/justyntemme/filedrop/internal/ui"
)

// StateOwner holds the display state that worker goroutines update: the
// journal rows and the config error banner. The zone itself is read
// directly on the UI goroutine and is not stored here.
//
// All mutations go through StateOwner methods which hold the mutex.
// The UI reads via GetSnapshot() which returns a copy.
type StateOwner struct {
	mu sync.RWMutex

	journal     []ui.JournalRow
	configError string

	window *app.Window
}

// Snapshot is an immutable view of state for the UI to render
type Snapshot struct {
	Journal     []ui.JournalRow
	ConfigError string
}

// NewStateOwner creates a state owner. window may be nil in tests.
func NewStateOwner(window *app.Window) *StateOwner {
	return &StateOwner{window: window}
}

// GetSnapshot returns a copy for UI rendering
func (s *StateOwner) GetSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	journal := make([]ui.JournalRow, len(s.journal))
	copy(journal, s.journal)
	return Snapshot{
		Journal:     journal,
		ConfigError: s.configError,
	}
}

// SetJournal replaces the displayed journal rows
func (s *StateOwner) SetJournal(rows []ui.JournalRow) {
	s.mu.Lock()
	s.journal = rows
	s.mu.Unlock()
	s.invalidate()
}

// SetConfigError shows msg in the config banner; empty hides it
func (s *StateOwner) SetConfigError(msg string) {
	s.mu.Lock()
	changed := s.configError != msg
	s.configError = msg
	s.mu.Unlock()
	if changed {
		s.invalidate()
	}
}

func (s *StateOwner) invalidate() {
	if s.window != nil {
		s.window.Invalidate()
	}
}
