package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/repair-desk/internal/httperr"
)

// pathID parses a positive numeric path parameter. A malformed id cannot
// match any row, so it is reported as not found.
func pathID(c *gin.Context, name, notFoundCode string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		httperr.NotFound(c, notFoundCode, "Not found.")
		c.Abort()
		return 0, false
	}
	return uint(id), true
}
