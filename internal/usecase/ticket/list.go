package ticket

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

// ======================================================
// LIST (search)
// ======================================================

type ListRequests struct {
	repo domain.Repository
}

func NewListRequests(repo domain.Repository) *ListRequests {
	return &ListRequests{repo: repo}
}

// Execute returns every ticket, or only those where search is a
// case-sensitive substring of any searchable column. Only the empty string
// means no filter; whitespace is searched for like any other text.
func (uc *ListRequests) Execute(
	ctx context.Context,
	caller *authz.Identity,
	search string,
) ([]models.Request, error) {

	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	return uc.repo.ListRequests(ctx, search)
}

// ======================================================
// LIST FOR CLIENT
// ======================================================

type ListForClient struct {
	repo domain.Repository
}

func NewListForClient(repo domain.Repository) *ListForClient {
	return &ListForClient{repo: repo}
}

// Execute returns the caller's own tickets: those linked to the caller's
// account plus unlinked tickets whose client equals the caller's name.
func (uc *ListForClient) Execute(
	ctx context.Context,
	caller *authz.Identity,
) ([]models.Request, error) {

	if err := authz.Require(caller, authz.RoleUser); err != nil {
		return nil, err
	}
	return uc.repo.ListRequestsForClient(ctx, caller.UserID, caller.Name)
}
