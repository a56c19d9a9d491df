package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetHome godoc
// @Summary Service banner
// @Description Returns a simple banner for the API root.
// @Tags home
// @Produce json
// @Success 200 {object} map[string]string
// @Router / [get]
func GetHome(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"service": "clearance-billing-api"})
}
