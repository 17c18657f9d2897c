package tasks

import (
	"context"
	"time"

	"gorm.io/gorm"

	"journeylink_app/internal/models"
)

// Store persists scheduled tasks and their run history
type Store interface {
	Create(ctx context.Context, task *models.ScheduledTask) error
	Due(ctx context.Context, now time.Time) ([]models.ScheduledTask, error)
	Update(ctx context.Context, task models.ScheduledTask, updates map[string]interface{}) error
	RecordRun(ctx context.Context, history *models.ScheduledTaskHistory) error
}

// GormStore keeps tasks in Postgres
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Create(ctx context.Context, task *models.ScheduledTask) error {
	return s.db.WithContext(ctx).Create(task).Error
}

// Due returns active tasks whose due time has passed, oldest first
func (s *GormStore) Due(ctx context.Context, now time.Time) ([]models.ScheduledTask, error) {
	var pending []models.ScheduledTask
	err := s.db.WithContext(ctx).
		Where("status = ? AND due <= ?", models.ScheduledTaskStatusActive, now).
		Order("due asc").
		Find(&pending).Error
	return pending, err
}

func (s *GormStore) Update(ctx context.Context, task models.ScheduledTask, updates map[string]interface{}) error {
	return s.db.WithContext(ctx).Model(&models.ScheduledTask{}).Where("id = ?", task.ID).Updates(updates).Error
}

func (s *GormStore) RecordRun(ctx context.Context, history *models.ScheduledTaskHistory) error {
	return s.db.WithContext(ctx).Create(history).Error
}
