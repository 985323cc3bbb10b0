package ticket

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

// ======================================================
// USE CASE
// ======================================================

type CreateRequest struct {
	repo  domain.Repository
	clock clock.Clock
	audit audit.Recorder
}

func NewCreateRequest(
	repo domain.Repository,
	clk clock.Clock,
	audit audit.Recorder,
) *CreateRequest {
	return &CreateRequest{
		repo:  repo,
		clock: clk,
		audit: audit,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateRequest) Execute(
	ctx context.Context,
	caller *authz.Identity,
	in domain.CreateInput,
) (*models.Request, error) {

	// --------------------------------------------------
	// Guard
	// --------------------------------------------------
	if err := authz.Require(caller, authz.RoleAdmin); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Fields
	// --------------------------------------------------
	req, err := domain.NewRequest(in, uc.clock.Now())
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// request_number (the unique index still decides races)
	// --------------------------------------------------
	exists, err := uc.repo.RequestNumberExists(ctx, req.RequestNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrRequestNumberTaken
	}

	// --------------------------------------------------
	// Owner
	// --------------------------------------------------
	if err := uc.resolveOwner(ctx, req); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Persist
	// --------------------------------------------------
	if err := uc.repo.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	req.Comments = []models.Comment{}
	req.Attachments = []models.Attachment{}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.UserID,
		Action:   "request_created",
		Entity:   "request",
		EntityID: &req.ID,
		Metadata: map[string]any{
			"request_number": req.RequestNumber,
			"status":         req.Status,
		},
	})

	return req, nil
}

// resolveOwner validates an explicit owner, or links the single user whose
// display name equals the client field. Ambiguous names stay unlinked.
func (uc *CreateRequest) resolveOwner(ctx context.Context, req *models.Request) error {
	if req.OwnerID != nil {
		ok, err := uc.repo.UserExists(ctx, *req.OwnerID)
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrValidation("owner_not_found", "owner_id does not reference a user.")
		}
		return nil
	}

	users, err := uc.repo.FindUsersByName(ctx, req.Client)
	if err != nil {
		return err
	}
	if len(users) == 1 {
		id := users[0].ID
		req.OwnerID = &id
	}
	return nil
}
