package ticket

import (
	"strings"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
)

// ===============================
// Ticket Status
// ===============================

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
)

// labels used by the first deployment of the desk
var legacyLabels = map[string]Status{
	"в ожидании": StatusPending,
	"в работе":   StatusInProgress,
	"выполнено":  StatusDone,
}

func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	switch st := Status(strings.ToLower(s)); st {
	case StatusPending, StatusInProgress, StatusDone, StatusCancelled:
		return st, nil
	}
	if st, ok := legacyLabels[strings.ToLower(s)]; ok {
		return st, nil
	}
	return "", httperr.ErrValidation("invalid_status", "Unknown status: "+s+".")
}

func (s Status) IsDone() bool {
	return s == StatusDone
}

func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusDone, StatusCancelled}
}
