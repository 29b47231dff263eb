package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const healthBody = "Service is up and running"

// HealthCheck godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "Service is up and running"
// @Router       /health [get]
func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, healthBody)
}
