package ticket

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/models"
)

// ===============================
// Inputs
// ===============================

type CreateInput struct {
	RequestNumber string
	Equipment     string
	IssueType     string
	Description   string
	Client        string
	Status        string
	OwnerID       *uint
}

// UpdateInput carries the only mutable fields. A nil field keeps the stored
// value.
type UpdateInput struct {
	Status      *string
	Description *string
	AssignedTo  *string
}

func (in UpdateInput) Empty() bool {
	return in.Status == nil && in.Description == nil && in.AssignedTo == nil
}

// ===============================
// Domain Actions
// ===============================

// NewRequest validates in and builds the ticket to insert.
func NewRequest(in CreateInput, now time.Time) (*models.Request, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"request_number", &in.RequestNumber},
		{"equipment", &in.Equipment},
		{"issue_type", &in.IssueType},
		{"description", &in.Description},
		{"client", &in.Client},
		{"status", &in.Status},
	}
	for _, f := range fields {
		*f.value = strings.TrimSpace(*f.value)
		if *f.value == "" {
			return nil, httperr.ErrValidation("missing_field", f.name+" is required.")
		}
	}

	status, err := ParseStatus(in.Status)
	if err != nil {
		return nil, err
	}

	req := &models.Request{
		RequestNumber: in.RequestNumber,
		DateAdded:     now,
		Equipment:     in.Equipment,
		IssueType:     in.IssueType,
		Description:   in.Description,
		Client:        in.Client,
		Status:        string(status),
		OwnerID:       in.OwnerID,
	}
	if status.IsDone() {
		req.CompletedAt = &now
	}
	return req, nil
}

// ApplyUpdate mutates req in place. completed_at follows the status: it is
// stamped when the ticket enters done and cleared when it leaves.
func ApplyUpdate(req *models.Request, in UpdateInput, now time.Time) error {
	if in.Status != nil {
		status, err := ParseStatus(*in.Status)
		if err != nil {
			return err
		}
		wasDone := Status(req.Status).IsDone()
		req.Status = string(status)
		switch {
		case status.IsDone() && !wasDone:
			req.CompletedAt = &now
		case !status.IsDone():
			req.CompletedAt = nil
		}
	}

	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc == "" {
			return httperr.ErrValidation("missing_field", "description must not be empty.")
		}
		req.Description = desc
	}

	if in.AssignedTo != nil {
		assignee := strings.TrimSpace(*in.AssignedTo)
		if assignee == "" {
			req.AssignedTo = nil
		} else {
			req.AssignedTo = &assignee
		}
	}

	return nil
}

// SearchColumns are the ticket columns a search term is matched against,
// OR-combined, case-sensitive substring.
var SearchColumns = []string{"request_number", "equipment", "issue_type", "description", "client"}
