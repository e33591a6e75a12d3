package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gymstack/studio-ops-api/internal/service"
	"github.com/gymstack/studio-ops-api/pkg/response"
)

// CatalogHandler exposes the read-only coach and class-type lookups.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// Coaches godoc
// @Summary List active coaches
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /coaches [get]
func (h *CatalogHandler) Coaches(c *gin.Context) {
	coaches, err := h.catalog.Coaches(c.Request.Context(), studioFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, coaches, nil)
}

// ClassTypes godoc
// @Summary List active class types
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /class-types [get]
func (h *CatalogHandler) ClassTypes(c *gin.Context) {
	classTypes, err := h.catalog.ClassTypes(c.Request.Context(), studioFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, classTypes, nil)
}
