package executor

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

var ErrExecutorExists = httperr.ErrValidation("executor_exists", "An executor with this name already exists.")

type Repository interface {
	ExecutorNameExists(ctx context.Context, name string) (bool, error)

	// CreateExecutor returns ErrExecutorExists when the unique index on name
	// rejects the insert.
	CreateExecutor(ctx context.Context, e *models.Executor) error

	ListExecutors(ctx context.Context) ([]models.Executor, error)
}

// NormalizeName trims the submitted name and rejects an empty one.
func NormalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", httperr.ErrValidation("missing_field", "name is required.")
	}
	return name, nil
}
