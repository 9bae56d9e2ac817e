package service

import (
	"rubika-guard/internal/config"
	"rubika-guard/internal/logger"
	"rubika-guard/internal/models"
	"rubika-guard/internal/storage"
)

var (
	store                *storage.Store
	muteList             = models.NewMuteList()
	moderationRepository *storage.ModerationRepository
)

// Initialize initializes the service with configuration and opens the
// snapshot store.
func Initialize(cfg *config.Config) {
	store = storage.NewStore(cfg.Moderation.DataFile)
}

// InitRepositories initializes the audit repository if database is enabled
func InitRepositories() {
	if storage.DB != nil {
		moderationRepository = storage.NewModerationRepository(storage.DB)
		if err := moderationRepository.MigrateTable(); err != nil {
			logger.Warningf("Error migrating ModerationRecord table: %v", err)
		}
	}
}

// Store returns the snapshot-backed user store.
func Store() *storage.Store {
	return store
}

// Mutes returns the in-memory mute list. It is rebuilt empty on restart.
func Mutes() *models.MuteList {
	return muteList
}

// RecordBan writes a ban to the audit trail, best-effort.
func RecordBan(groupID, userID, actorID, reason string) {
	if moderationRepository == nil {
		return
	}
	record := &models.ModerationRecord{
		GroupID: groupID,
		UserID:  userID,
		ActorID: actorID,
		Action:  models.ActionBan,
		Reason:  reason,
	}
	if err := moderationRepository.Create(record); err != nil {
		logger.Warningf("Error recording ban for user %s: %v", userID, err)
	}
}

// RecordMute writes a mute to the audit trail, best-effort.
func RecordMute(groupID, userID, actorID string, minutes int) {
	if moderationRepository == nil {
		return
	}
	record := &models.ModerationRecord{
		GroupID: groupID,
		UserID:  userID,
		ActorID: actorID,
		Action:  models.ActionMute,
		Minutes: minutes,
	}
	if err := moderationRepository.Create(record); err != nil {
		logger.Warningf("Error recording mute for user %s: %v", userID, err)
	}
}
