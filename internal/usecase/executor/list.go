package executor

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/executor"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type ListExecutors struct {
	repo domain.Repository
}

func NewListExecutors(repo domain.Repository) *ListExecutors {
	return &ListExecutors{repo: repo}
}

func (uc *ListExecutors) Execute(
	ctx context.Context,
	caller *authz.Identity,
) ([]models.Executor, error) {

	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return uc.repo.ListExecutors(ctx)
}
