package models

import "time"

// RoleMember is the default role assigned to every tracked user.
const RoleMember = "member"

// RoleSpecial marks users promoted with the special-admin command. It is local
// bookkeeping only; no transport call is attached to it.
const RoleSpecial = "ویژه"

// UserRecord tracks one user who has ever joined or spoken in the group.
type UserRecord struct {
	Name            string `json:"name"`
	JoinDate        string `json:"join_date"`
	MessagesCount   int    `json:"messages_count"`
	Warnings        int    `json:"warnings"`
	Title           string `json:"title"`
	Role            string `json:"role"`
	OriginalContent string `json:"original_content"`
}

// NewUserRecord returns a zeroed record for a user joining at the given time.
func NewUserRecord(name string, joinedAt time.Time) UserRecord {
	return UserRecord{
		Name:     name,
		JoinDate: joinedAt.Format("2006-01-02 15:04:05"),
		Role:     RoleMember,
	}
}

// FilterKind identifies one of the toggleable media filters.
type FilterKind string

const (
	FilterGif        FilterKind = "gif"
	FilterStory      FilterKind = "story"
	FilterPhoto      FilterKind = "photo"
	FilterVoice      FilterKind = "voice"
	FilterVideo      FilterKind = "video"
	FilterOtherFiles FilterKind = "other_files"
)

// FilterKinds is the closed set of supported filters. Settings always carry
// exactly these six; unknown kinds are rejected at the boundary.
var FilterKinds = []FilterKind{
	FilterGif, FilterStory, FilterPhoto, FilterVoice, FilterVideo, FilterOtherFiles,
}

// IsValidFilterKind reports whether kind belongs to the closed filter set.
func IsValidFilterKind(kind FilterKind) bool {
	for _, k := range FilterKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// GroupSettings is the single settings object shared by all users of a group.
type GroupSettings struct {
	StrictMode      bool                `json:"strict_mode"`
	Filters         map[FilterKind]bool `json:"filters"`
	VoiceCallActive bool                `json:"voice_call_active"`
}

// DefaultGroupSettings returns the default schema: strict mode off, all
// filters off, voice call inactive.
func DefaultGroupSettings() GroupSettings {
	filters := make(map[FilterKind]bool, len(FilterKinds))
	for _, k := range FilterKinds {
		filters[k] = false
	}
	return GroupSettings{Filters: filters}
}

// Normalize fills in filter kinds missing from a loaded snapshot and drops
// unknown ones, keeping the closed six-kind set intact across schema changes.
func (s *GroupSettings) Normalize() {
	normalized := make(map[FilterKind]bool, len(FilterKinds))
	for _, k := range FilterKinds {
		normalized[k] = s.Filters[k]
	}
	s.Filters = normalized
}
