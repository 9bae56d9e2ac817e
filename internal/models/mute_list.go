package models

import (
	"fmt"
	"sync"
	"time"
)

// MuteList manages temporary silences keyed by user ID. Entries are purely
// in-memory; a restart clears all mutes. Expired entries are evicted lazily
// on the next lookup, there is no background sweep.
type MuteList struct {
	users map[string]time.Time
	mu    sync.Mutex

	now func() time.Time
}

// NewMuteList creates an empty mute list.
func NewMuteList() *MuteList {
	return &MuteList{
		users: make(map[string]time.Time),
		now:   time.Now,
	}
}

// Mute silences a user for the given number of minutes, overwriting any
// existing entry. Zero or negative durations are rejected.
func (m *MuteList) Mute(userID string, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("mute duration must be a positive number of minutes, got %d", minutes)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[userID] = m.now().Add(time.Duration(minutes) * time.Minute)
	return nil
}

// IsMuted reports whether the user is currently muted, evicting the entry if
// it has expired. This lookup is the only eviction path.
func (m *MuteList) IsMuted(userID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	expiry, exists := m.users[userID]
	if !exists {
		return false
	}

	if !m.now().Before(expiry) {
		delete(m.users, userID)
		return false
	}

	return true
}

// Unmute removes a user's mute entry if present.
func (m *MuteList) Unmute(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, userID)
}

// Len returns the number of entries currently held, including entries past
// expiry that have not been looked up yet.
func (m *MuteList) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.users)
}
