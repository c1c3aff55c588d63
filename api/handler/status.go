package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pagesnap/chromecapture/models"
)

// Status returns the handler for GET /status. It sits outside auth so
// monitoring probes always work.
func Status(version string, startTime time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.StatusResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Version: version,
		})
	}
}
