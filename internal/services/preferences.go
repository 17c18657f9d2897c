package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"journeylink_app/internal/models"
)

// PreferenceService reads and writes profile settings
type PreferenceService struct {
	db *gorm.DB
}

func NewPreferenceService(db *gorm.DB) *PreferenceService {
	return &PreferenceService{db: db}
}

// Get returns the saved preference or the defaults
func (s *PreferenceService) Get(ctx context.Context, uid string) (models.UserPreference, error) {
	var pref models.UserPreference
	err := s.db.WithContext(ctx).Where("user_uid = ?", uid).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.DefaultPreference(uid), nil
	}
	if err != nil {
		return models.UserPreference{}, fmt.Errorf("preference of %s: %w", uid, err)
	}
	return pref, nil
}

// Save upserts the preference by user UID
func (s *PreferenceService) Save(ctx context.Context, pref *models.UserPreference) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_uid"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"language", "dark_theme", "channel",
			"whatsapp_target_type", "whatsapp_number", "whatsapp_group_id", "updated_at",
		}),
	}).Create(pref).Error
	if err != nil {
		return fmt.Errorf("save preference of %s: %w", pref.UserUID, err)
	}
	return nil
}
