package dto

import ucTicket "github.com/BruksfildServices01/repair-desk/internal/usecase/ticket"

type StatisticsDTO struct {
	TotalRequests     int64 `json:"total_requests"`
	CompletedRequests int64 `json:"completed_requests"`

	// seconds; null until a ticket has been completed
	AverageCompletionTime *float64 `json:"average_completion_time"`

	IssueTypes map[string]int64 `json:"issue_types"`
}

func NewStatistics(st *ucTicket.Statistics) StatisticsDTO {
	issueTypes := st.IssueTypes
	if issueTypes == nil {
		issueTypes = map[string]int64{}
	}
	return StatisticsDTO{
		TotalRequests:         st.TotalRequests,
		CompletedRequests:     st.CompletedRequests,
		AverageCompletionTime: st.AverageCompletionSeconds,
		IssueTypes:            issueTypes,
	}
}
