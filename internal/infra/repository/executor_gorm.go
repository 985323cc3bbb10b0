package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/BruksfildServices01/repair-desk/internal/domain/executor"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

var _ domain.Repository = (*ExecutorGormRepository)(nil)

type ExecutorGormRepository struct {
	db *gorm.DB
}

func NewExecutorGormRepository(db *gorm.DB) *ExecutorGormRepository {
	return &ExecutorGormRepository{db: db}
}

func (r *ExecutorGormRepository) ExecutorNameExists(
	ctx context.Context,
	name string,
) (bool, error) {

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Executor{}).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("count executor name: %w", err)
	}
	return count > 0, nil
}

func (r *ExecutorGormRepository) CreateExecutor(
	ctx context.Context,
	e *models.Executor,
) error {

	err := r.db.WithContext(ctx).Create(e).Error
	if httperr.IsUniqueViolation(err) {
		return domain.ErrExecutorExists
	}
	if err != nil {
		return fmt.Errorf("create executor: %w", err)
	}
	return nil
}

func (r *ExecutorGormRepository) ListExecutors(ctx context.Context) ([]models.Executor, error) {
	var list []models.Executor
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list executors: %w", err)
	}
	return list, nil
}
