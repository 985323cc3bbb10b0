package dto

import (
	"time"

	"github.com/BruksfildServices01/repair-desk/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// Field presence is validated by the use case so errors name the field.
type CreateRequestDTO struct {
	RequestNumber string `json:"request_number"`
	Equipment     string `json:"equipment"`
	IssueType     string `json:"issue_type"`
	Description   string `json:"description"`
	Client        string `json:"client"`
	Status        string `json:"status"`
	OwnerID       *uint  `json:"owner_id"`
}

// UpdateRequestDTO distinguishes an omitted field (nil) from an empty one.
type UpdateRequestDTO struct {
	Status      *string `json:"status"`
	Description *string `json:"description"`
	AssignedTo  *string `json:"assigned_to"`
}

type CommentDTO struct {
	Text string `json:"text"`
}

// ======================================================
// OUTPUT
// ======================================================

type CommentResponseDTO struct {
	ID         uint      `json:"id"`
	Text       string    `json:"text"`
	DateAdded  time.Time `json:"date_added"`
	AuthorID   *uint     `json:"author_id"`
	AuthorName string    `json:"author_name"`
}

type AttachmentResponseDTO struct {
	ID          uint      `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	UploadedBy  *uint     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type RequestResponseDTO struct {
	ID            uint       `json:"id"`
	RequestNumber string     `json:"request_number"`
	DateAdded     time.Time  `json:"date_added"`
	Equipment     string     `json:"equipment"`
	IssueType     string     `json:"issue_type"`
	Description   string     `json:"description"`
	Client        string     `json:"client"`
	Status        string     `json:"status"`
	AssignedTo    *string    `json:"assigned_to"`
	OwnerID       *uint      `json:"owner_id"`
	CompletedAt   *time.Time `json:"completed_at"`

	Comments    []CommentResponseDTO    `json:"comments"`
	Attachments []AttachmentResponseDTO `json:"attachments"`
}

func NewComment(c *models.Comment) CommentResponseDTO {
	return CommentResponseDTO{
		ID:         c.ID,
		Text:       c.Text,
		DateAdded:  c.DateAdded,
		AuthorID:   c.AuthorID,
		AuthorName: c.AuthorName,
	}
}

func NewAttachment(a *models.Attachment) AttachmentResponseDTO {
	return AttachmentResponseDTO{
		ID:          a.ID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         a.URL,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}

// NewRequest always emits comments and attachments as arrays, never null.
func NewRequest(r *models.Request) RequestResponseDTO {
	out := RequestResponseDTO{
		ID:            r.ID,
		RequestNumber: r.RequestNumber,
		DateAdded:     r.DateAdded,
		Equipment:     r.Equipment,
		IssueType:     r.IssueType,
		Description:   r.Description,
		Client:        r.Client,
		Status:        r.Status,
		AssignedTo:    r.AssignedTo,
		OwnerID:       r.OwnerID,
		CompletedAt:   r.CompletedAt,
		Comments:      make([]CommentResponseDTO, 0, len(r.Comments)),
		Attachments:   make([]AttachmentResponseDTO, 0, len(r.Attachments)),
	}
	for i := range r.Comments {
		out.Comments = append(out.Comments, NewComment(&r.Comments[i]))
	}
	for i := range r.Attachments {
		out.Attachments = append(out.Attachments, NewAttachment(&r.Attachments[i]))
	}
	return out
}

func NewRequestList(list []models.Request) []RequestResponseDTO {
	out := make([]RequestResponseDTO, 0, len(list))
	for i := range list {
		out = append(out, NewRequest(&list[i]))
	}
	return out
}
