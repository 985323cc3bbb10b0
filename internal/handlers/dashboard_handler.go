package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-desk/internal/dto"
	"github.com/BruksfildServices01/repair-desk/internal/httperr"
	"github.com/BruksfildServices01/repair-desk/internal/httpresp"
	"github.com/BruksfildServices01/repair-desk/internal/middleware"
	ucExecutor "github.com/BruksfildServices01/repair-desk/internal/usecase/executor"
	ucTicket "github.com/BruksfildServices01/repair-desk/internal/usecase/ticket"
)

type DashboardHandler struct {
	stats     *ucTicket.GetStatistics
	forClient *ucTicket.ListForClient
	executors *ucExecutor.ListExecutors
}

func NewDashboardHandler(
	stats *ucTicket.GetStatistics,
	forClient *ucTicket.ListForClient,
	executors *ucExecutor.ListExecutors,
) *DashboardHandler {
	return &DashboardHandler{
		stats:     stats,
		forClient: forClient,
		executors: executors,
	}
}

// Home is the admin dashboard. Other roles are sent to their own tickets.
func (h *DashboardHandler) Home(c *gin.Context) {
	id := middleware.Identity(c)
	if !id.IsAdmin() {
		c.Redirect(http.StatusFound, "/client")
		return
	}

	ctx := c.Request.Context()

	executors, err := h.executors.Execute(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	st, err := h.stats.Execute(ctx, id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"executors":  dto.NewExecutorList(executors),
		"statistics": dto.NewStatistics(st),
	})
}

func (h *DashboardHandler) Client(c *gin.Context) {
	list, err := h.forClient.Execute(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, dto.NewRequestList(list))
}

func (h *DashboardHandler) Statistics(c *gin.Context) {
	st, err := h.stats.Execute(c.Request.Context(), middleware.Identity(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, dto.NewStatistics(st))
}
