package store

import (
	"context"
	"fmt"

	"kitchen-allocation-api/internal/allocation"
	"kitchen-allocation-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists shifts and tasks with gorm
type GormStore struct {
	db *gorm.DB
}

var _ allocation.Store = (*GormStore)(nil)

// NewGormStore creates a store on db. The schema must already be migrated.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// LoadShifts returns every shift ordered by id
func (s *GormStore) LoadShifts(ctx context.Context) ([]models.Shift, error) {
	var shifts []models.Shift
	if err := s.db.WithContext(ctx).Order("id").Find(&shifts).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch shifts: %w", err)
	}
	return shifts, nil
}

// LoadTasks returns every task ordered by id
func (s *GormStore) LoadTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := s.db.WithContext(ctx).Order("id").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch tasks: %w", err)
	}
	return tasks, nil
}

// SaveShift inserts the shift or overwrites the row with the same id
func (s *GormStore) SaveShift(ctx context.Context, shift *models.Shift) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(shift).Error; err != nil {
		return fmt.Errorf("failed to save shift %d: %w", shift.ID, err)
	}
	return nil
}

// DeleteShift removes the shift row
func (s *GormStore) DeleteShift(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Delete(&models.Shift{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete shift %d: %w", id, err)
	}
	return nil
}

// SaveTask inserts the task or overwrites the row with the same id
func (s *GormStore) SaveTask(ctx context.Context, task *models.Task) error {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(task).Error; err != nil {
		return fmt.Errorf("failed to save task %d: %w", task.ID, err)
	}
	return nil
}

// DeleteTask removes the task row
func (s *GormStore) DeleteTask(ctx context.Context, id int) error {
	if err := s.db.WithContext(ctx).Delete(&models.Task{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return nil
}
