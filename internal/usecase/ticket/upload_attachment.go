package ticket

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/repair-desk/internal/audit"
	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/imaging"
	"github.com/BruksfildServices01/repair-desk/internal/models"
	"github.com/BruksfildServices01/repair-desk/internal/storage"
)

type UploadAttachmentInput struct {
	RequestID uint
	FileName  string
	Data      []byte
}

type UploadAttachment struct {
	repo  domain.Repository
	store storage.ObjectStore
	audit audit.Recorder
	log   zerolog.Logger
}

func NewUploadAttachment(
	repo domain.Repository,
	store storage.ObjectStore,
	audit audit.Recorder,
	log zerolog.Logger,
) *UploadAttachment {
	return &UploadAttachment{
		repo:  repo,
		store: store,
		audit: audit,
		log:   log,
	}
}

func (uc *UploadAttachment) Execute(
	ctx context.Context,
	caller *authz.Identity,
	in UploadAttachmentInput,
) (*models.Attachment, error) {

	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}
	if len(in.Data) == 0 {
		return nil, httperr.ErrValidation("empty_file", "The uploaded file is empty.")
	}

	if _, err := uc.repo.GetRequest(ctx, in.RequestID); err != nil {
		return nil, err
	}

	file, err := imaging.Normalize(path.Base(in.FileName), in.Data)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("requests/%d/%s%s", in.RequestID, uuid.NewString(), strings.ToLower(path.Ext(file.FileName)))
	url, err := uc.store.Put(ctx, key, file.ContentType, file.Data)
	if err != nil {
		return nil, err
	}

	att := &models.Attachment{
		RequestID:   in.RequestID,
		ObjectKey:   key,
		FileName:    file.FileName,
		ContentType: file.ContentType,
		Size:        int64(len(file.Data)),
		URL:         url,
		UploadedBy:  &caller.UserID,
	}
	if err := uc.repo.AddAttachment(ctx, att); err != nil {
		if delErr := uc.store.Delete(ctx, key); delErr != nil {
			uc.log.Warn().Err(delErr).Str("object_key", key).Msg("attachment object left behind")
		}
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		ActorID:  &caller.UserID,
		Action:   "attachment_uploaded",
		Entity:   "request",
		EntityID: &in.RequestID,
		Metadata: map[string]any{"attachment_id": att.ID, "content_type": att.ContentType},
	})

	return att, nil
}
