package executor

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/executor"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type CreateExecutor struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewCreateExecutor(repo domain.Repository, audit audit.Recorder) *CreateExecutor {
	return &CreateExecutor{repo: repo, audit: audit}
}

// Execute registers a technician. The existence check gives the common
// case a clean error; concurrent duplicates are caught by the unique index
// and reported the same way.
func (uc *CreateExecutor) Execute(
	ctx context.Context,
	caller *authz.Identity,
	name string,
) (*models.Executor, error) {

	if err := authz.Require(caller, authz.RoleAdmin); err != nil {
		return nil, err
	}

	name, err := domain.NormalizeName(name)
	if err != nil {
		return nil, err
	}

	exists, err := uc.repo.ExecutorNameExists(ctx, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrExecutorExists
	}

	e := &models.Executor{Name: name}
	if err := uc.repo.CreateExecutor(ctx, e); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.UserID,
		Action:   "executor_created",
		Entity:   "executor",
		EntityID: &e.ID,
		Metadata: map[string]any{"name": e.Name},
	})

	return e, nil
}
