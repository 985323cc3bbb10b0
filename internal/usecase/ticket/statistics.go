package ticket

import (
	"context"

	"github.com/BruksfildServices01/repair-desk/internal/authz"
	domain "github.com/BruksfildServices01/repair-desk/internal/domain/ticket"
)

type Statistics struct {
	TotalRequests     int64
	CompletedRequests int64

	// AverageCompletionSeconds is the mean of completed_at - date_added over
	// done tickets, nil when nothing has been completed.
	AverageCompletionSeconds *float64

	IssueTypes map[string]int64
}

type GetStatistics struct {
	repo domain.Repository
}

func NewGetStatistics(repo domain.Repository) *GetStatistics {
	return &GetStatistics{repo: repo}
}

func (uc *GetStatistics) Execute(
	ctx context.Context,
	caller *authz.Identity,
) (*Statistics, error) {

	if err := authz.RequireAuthenticated(caller); err != nil {
		return nil, err
	}

	total, err := uc.repo.CountRequests(ctx)
	if err != nil {
		return nil, err
	}

	completed, err := uc.repo.CountByStatus(ctx, domain.StatusDone)
	if err != nil {
		return nil, err
	}

	spans, err := uc.repo.CompletionSpans(ctx)
	if err != nil {
		return nil, err
	}

	byType, err := uc.repo.CountByIssueType(ctx)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		TotalRequests:            total,
		CompletedRequests:        completed,
		AverageCompletionSeconds: averageSeconds(spans),
		IssueTypes:               byType,
	}, nil
}

func averageSeconds(spans []domain.CompletionSpan) *float64 {
	if len(spans) == 0 {
		return nil
	}
	var sum float64
	for _, s := range spans {
		sum += s.CompletedAt.Sub(s.DateAdded).Seconds()
	}
	avg := sum / float64(len(spans))
	return &avg
}
