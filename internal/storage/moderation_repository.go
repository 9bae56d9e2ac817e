package storage

import (
	"rubika-guard/internal/models"

	"gorm.io/gorm"
)

// ModerationRepository handles database operations for ModerationRecord
type ModerationRepository struct {
	db *gorm.DB
}

// NewModerationRepository creates a new ModerationRepository
func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

// MigrateTable ensures the ModerationRecord table exists
func (r *ModerationRepository) MigrateTable() error {
	return r.db.AutoMigrate(&models.ModerationRecord{})
}

// Create inserts a new ModerationRecord
func (r *ModerationRepository) Create(record *models.ModerationRecord) error {
	return r.db.Create(record).Error
}

// GetRecordsByUser returns all recorded actions against a user. Pass an empty
// groupID to search across groups.
func (r *ModerationRepository) GetRecordsByUser(userID, groupID string) ([]*models.ModerationRecord, error) {
	var records []*models.ModerationRecord
	var result *gorm.DB
	if groupID != "" {
		result = r.db.Where("user_id = ? AND group_id = ?", userID, groupID).Find(&records)
	} else {
		result = r.db.Where("user_id = ?", userID).Find(&records)
	}
	return records, result.Error
}

// CountByAction returns how many records exist for an action kind in a group
func (r *ModerationRepository) CountByAction(groupID, action string) (int64, error) {
	var count int64
	result := r.db.Model(&models.ModerationRecord{}).
		Where("group_id = ? AND action = ?", groupID, action).
		Count(&count)
	return count, result.Error
}
