package ticket

import (
	"context"
	"time"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

type Repository interface {
	// -------- Request --------
	RequestNumberExists(ctx context.Context, number string) (bool, error)
	CreateRequest(ctx context.Context, req *models.Request) error
	GetRequest(ctx context.Context, id uint) (*models.Request, error)

	// UpdateRequest loads the ticket, applies mutate and saves it in one
	// transaction.
	UpdateRequest(ctx context.Context, id uint, mutate func(*models.Request) error) (*models.Request, error)

	// DeleteRequest removes the ticket with its comments and attachment rows
	// and returns the attachments that were removed.
	DeleteRequest(ctx context.Context, id uint) ([]models.Attachment, error)

	ListRequests(ctx context.Context, search string) ([]models.Request, error)
	ListRequestsForClient(ctx context.Context, ownerID uint, clientName string) ([]models.Request, error)

	// -------- Comment --------
	AddComment(ctx context.Context, c *models.Comment) error

	// -------- Attachment --------
	AddAttachment(ctx context.Context, a *models.Attachment) error

	// -------- Owner resolution --------
	FindUsersByName(ctx context.Context, name string) ([]models.User, error)
	UserExists(ctx context.Context, id uint) (bool, error)

	// -------- Statistics --------
	CountRequests(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status Status) (int64, error)
	CompletionSpans(ctx context.Context) ([]CompletionSpan, error)
	CountByIssueType(ctx context.Context) (map[string]int64, error)
}

type CompletionSpan struct {
	DateAdded   time.Time
	CompletedAt time.Time
}

var (
	ErrRequestNotFound    = httperr.ErrNotFound("request_not_found", "Request not found.")
	ErrRequestNumberTaken = httperr.ErrValidation("request_number_taken", "A request with this number already exists.")
)
