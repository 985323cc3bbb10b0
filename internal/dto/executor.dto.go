package dto

import (
	"time"

	"github.com/BruksfildServices01/repair-desk/internal/models"
)

// ExecutorDTO binds both JSON and form posts of the add-executor page.
type ExecutorDTO struct {
	Name string `json:"name" form:"name"`
}

type ExecutorResponseDTO struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func NewExecutor(e *models.Executor) ExecutorResponseDTO {
	return ExecutorResponseDTO{ID: e.ID, Name: e.Name, CreatedAt: e.CreatedAt}
}

func NewExecutorList(list []models.Executor) []ExecutorResponseDTO {
	out := make([]ExecutorResponseDTO, 0, len(list))
	for i := range list {
		out = append(out, NewExecutor(&list[i]))
	}
	return out
}
