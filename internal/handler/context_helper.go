package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/gymstack/studio-ops-api/internal/middleware"
)

func studioFromContext(c *gin.Context) string {
	return middleware.StudioID(c)
}
