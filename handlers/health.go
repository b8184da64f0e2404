package handlers

import (
	"net/http"

	"parkhive/utils"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health with the latest dependency health snapshot.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, utils.GetHealthStatus())
}
