package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rubika-guard/internal/logger"
	"rubika-guard/internal/models"
)

// snapshot is the persisted state layout: all user records plus the single
// settings object, written wholesale on every mutation.
type snapshot struct {
	Users    map[string]models.UserRecord `json:"users"`
	Settings models.GroupSettings         `json:"settings"`
}

// Store owns user records and group settings. Every mutating call persists
// the full snapshot before returning; the mutex serializes read-modify-write
// cycles so concurrent events for the same user cannot lose updates.
type Store struct {
	mu   sync.Mutex
	path string
	data snapshot
}

// NewStore loads the snapshot at path, falling back to the default schema if
// the file is absent or corrupt. Corruption never prevents startup.
func NewStore(path string) *Store {
	s := &Store{
		path: path,
		data: snapshot{
			Users:    make(map[string]models.UserRecord),
			Settings: models.DefaultGroupSettings(),
		},
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warningf("Error reading data file %s, starting with defaults: %v", path, err)
		}
		return s
	}

	var loaded snapshot
	if err := json.Unmarshal(raw, &loaded); err != nil {
		logger.Warningf("Data file %s is corrupt, starting with defaults: %v", path, err)
		return s
	}

	if loaded.Users == nil {
		loaded.Users = make(map[string]models.UserRecord)
	}
	loaded.Settings.Normalize()
	s.data = loaded
	return s
}

// save writes the snapshot to disk. Callers must hold s.mu. The write goes
// through a temp file and rename so a crash mid-write cannot corrupt the
// previous snapshot.
func (s *Store) save() error {
	raw, err := json.MarshalIndent(s.data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	tmp := s.path + ".tmp"
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
	}
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// GetUser returns the stored record for a user. The second return value is
// false if the user has never been recorded; the record is then a zero view.
func (s *Store) GetUser(userID string) (models.UserRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data.Users[userID]
	return rec, ok
}

// UpdateUser applies a mutation to a user's record, creating the record
// lazily if absent, and persists before returning. The in-memory state keeps
// the mutation even if the write fails.
func (s *Store) UpdateUser(userID string, mutate func(*models.UserRecord)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data.Users[userID]
	if !ok {
		rec = models.UserRecord{Role: models.RoleMember}
	}
	mutate(&rec)
	s.data.Users[userID] = rec
	return s.save()
}

// IncrementMessages atomically bumps a user's message counter and persists.
func (s *Store) IncrementMessages(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.data.Users[userID]
	if !ok {
		rec = models.UserRecord{Role: models.RoleMember}
	}
	rec.MessagesCount++
	s.data.Users[userID] = rec
	return s.save()
}

// DeleteUser removes a user's record entirely. Deleting an absent user is a
// no-op, not an error.
func (s *Store) DeleteUser(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.data.Users[userID]; !ok {
		return nil
	}
	delete(s.data.Users, userID)
	return s.save()
}

// UserCount returns the number of stored user records.
func (s *Store) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.Users)
}

// Settings returns a copy of the current group settings.
func (s *Store) Settings() models.GroupSettings {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := s.data.Settings
	copied.Filters = make(map[models.FilterKind]bool, len(s.data.Settings.Filters))
	for k, v := range s.data.Settings.Filters {
		copied.Filters[k] = v
	}
	return copied
}

// SetStrictMode toggles strict link handling and persists.
func (s *Store) SetStrictMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Settings.StrictMode = on
	return s.save()
}

// StrictMode reports whether strict link handling is on.
func (s *Store) StrictMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Settings.StrictMode
}

// SetFilter sets one filter flag and persists. Unknown kinds are rejected
// without touching state.
func (s *Store) SetFilter(kind models.FilterKind, on bool) error {
	if !models.IsValidFilterKind(kind) {
		return fmt.Errorf("unknown filter kind: %s", kind)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Settings.Filters[kind] = on
	return s.save()
}

// Filter reports the current state of one filter flag. Unknown kinds read as
// false.
func (s *Store) Filter(kind models.FilterKind) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Settings.Filters[kind]
}

// SetVoiceCall stores the informational voice-call flag and persists.
func (s *Store) SetVoiceCall(active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.Settings.VoiceCallActive = active
	return s.save()
}

// VoiceCall reports the stored voice-call flag.
func (s *Store) VoiceCall() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data.Settings.VoiceCallActive
}
