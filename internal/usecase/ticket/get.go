package ticket

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type GetRequest struct {
	repo domain.Repository
}

func NewGetRequest(repo domain.Repository) *GetRequest {
	return &GetRequest{repo: repo}
}

// Execute returns the ticket with its comments in creation order.
func (uc *GetRequest) Execute(
	ctx context.Context,
	caller *authz.Identity,
	id uint,
) (*models.Request, error) {

	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return uc.repo.GetRequest(ctx, id)
}
