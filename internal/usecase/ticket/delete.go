package ticket

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/storage"
)

type DeleteRequest struct {
	repo  domain.Repository
	store storage.ObjectStore
	audit audit.Recorder
	log   zerolog.Logger
}

func NewDeleteRequest(
	repo domain.Repository,
	store storage.ObjectStore,
	audit audit.Recorder,
	log zerolog.Logger,
) *DeleteRequest {
	return &DeleteRequest{
		repo:  repo,
		store: store,
		audit: audit,
		log:   log,
	}
}

// Execute removes the ticket, its comments and attachment rows in one
// transaction. Stored objects are removed afterwards; a failure there only
// leaves an orphaned object behind and is logged.
func (uc *DeleteRequest) Execute(
	ctx context.Context,
	caller *authz.Identity,
	id uint,
) error {

	if err := authz.Require(caller, authz.RoleAdmin); err != nil {
		return err
	}

	removed, err := uc.repo.DeleteRequest(ctx, id)
	if err != nil {
		return err
	}

	for _, a := range removed {
		if err := uc.store.Delete(ctx, a.ObjectKey); err != nil {
			uc.log.Warn().Err(err).Str("object_key", a.ObjectKey).Uint("request_id", id).Msg("attachment object left behind")
		}
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.UserID,
		Action:   "request_deleted",
		Entity:   "request",
		EntityID: &id,
		Metadata: map[string]any{"attachments": len(removed)},
	})

	return nil
}
