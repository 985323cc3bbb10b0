package ticket

import (
	"context"
	"strings"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	"github.com/BruksfildServices01/repair-desk/internal/clock"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type AddComment struct {
	repo  domain.Repository
	clock clock.Clock
	audit audit.Recorder
}

func NewAddComment(
	repo domain.Repository,
	clk clock.Clock,
	audit audit.Recorder,
) *AddComment {
	return &AddComment{
		repo:  repo,
		clock: clk,
		audit: audit,
	}
}

func (uc *AddComment) Execute(
	ctx context.Context,
	caller *authz.Identity,
	requestID uint,
	text string,
) (*models.Comment, error) {

	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, httperr.ErrValidation("missing_field", "text is required.")
	}

	if _, err := uc.repo.GetRequest(ctx, requestID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:       text,
		DateAdded:  uc.clock.Now(),
		RequestID:  requestID,
		AuthorID:   &caller.UserID,
		AuthorName: caller.Name,
	}
	if err := uc.repo.AddComment(ctx, comment); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.UserID,
		Action:   "comment_added",
		Entity:   "request",
		EntityID: &requestID,
		Metadata: map[string]any{"comment_id": comment.ID},
	})

	return comment, nil
}
