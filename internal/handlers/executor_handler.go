package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-desk/internal/dto"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/httpresp"
	"github.com/BruksfildServices01/repair-desk/internal/middleware"
	ucExecutor "github.com/BruksfildServices01/repair-desk/internal/usecase/executor"
)

type ExecutorHandler struct {
	create *ucExecutor.CreateExecutor
	list   *ucExecutor.ListExecutors
}

func NewExecutorHandler(
	create *ucExecutor.CreateExecutor,
	list *ucExecutor.ListExecutors,
) *ExecutorHandler {
	return &ExecutorHandler{create: create, list: list}
}

// Create accepts the add-executor form or the same field as JSON.
func (h *ExecutorHandler) Create(c *gin.Context) {
	var req dto.ExecutorDTO
	if err := c.ShouldBind(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	e, err := h.create.Execute(c.Request.Context(), middleware.Identity(c), req.Name)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, dto.NewExecutor(e))
}

func (h *ExecutorHandler) List(c *gin.Context) {
	list, err := h.list.Execute(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewExecutorList(list))
}
