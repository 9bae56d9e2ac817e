package models

import "time"

// Moderation action kinds recorded in the audit trail.
const (
	ActionBan  = "ban"
	ActionMute = "mute"
)

// ModerationRecord stores one moderation action taken by the bot: who was
// banned or muted, in which group, by which admin, and why.
type ModerationRecord struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GroupID   string `gorm:"index;size:64;not null"`
	UserID    string `gorm:"index;size:64;not null"`
	ActorID   string `gorm:"size:64"`
	Action    string `gorm:"size:16;not null"`
	Reason    string `gorm:"type:text"`
	Minutes   int    `gorm:"default:0"`
	CreatedAt time.Time
}
