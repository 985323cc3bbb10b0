package ticket

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type UpdateRequest struct {
	repo  domain.Repository
	clock clock.Clock
	audit audit.Recorder
}

func NewUpdateRequest(
	repo domain.Repository,
	clk clock.Clock,
	audit audit.Recorder,
) *UpdateRequest {
	return &UpdateRequest{
		repo:  repo,
		clock: clk,
		audit: audit,
	}
}

// Execute changes only the fields present in in. An input with no fields
// still reports NotFound for a missing id.
func (uc *UpdateRequest) Execute(
	ctx context.Context,
	caller *authz.Identity,
	id uint,
	in domain.UpdateInput,
) (*models.Request, error) {

	if err := authz.Require(caller, authz.RoleAdmin); err != nil {
		return nil, err
	}

	if in.Empty() {
		return uc.repo.GetRequest(ctx, id)
	}

	var before models.Request
	req, err := uc.repo.UpdateRequest(ctx, id, func(r *models.Request) error {
		before = *r
		return domain.ApplyUpdate(r, in, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.UserID,
		Action:   "request_updated",
		Entity:   "request",
		EntityID: &req.ID,
		Metadata: changes(&before, req),
	})

	return req, nil
}

func changes(before, after *models.Request) map[string]any {
	out := map[string]any{}
	if before.Status != after.Status {
		out["status"] = map[string]string{"from": before.Status, "to": after.Status}
	}
	if before.Description != after.Description {
		out["description"] = true
	}
	if deref(before.AssignedTo) != deref(after.AssignedTo) {
		out["assigned_to"] = map[string]string{"from": deref(before.AssignedTo), "to": deref(after.AssignedTo)}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
