package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fazeltamana/Portal/internal/service"
	"github.com/fazeltamana/Portal/pkg/response"
)

// CatalogHandler serves the public department and service catalog.
type CatalogHandler struct {
	service *service.CatalogService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: svc}
}

// Departments godoc
// @Summary List departments
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /departments [get]
func (h *CatalogHandler) Departments(c *gin.Context) {
	departments, err := h.service.Departments(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, departments, nil)
}

// Services godoc
// @Summary List services open for applications
// @Tags Catalog
// @Produce json
// @Param department_id query string false "Filter by department"
// @Success 200 {object} response.Envelope
// @Router /services [get]
func (h *CatalogHandler) Services(c *gin.Context) {
	services, err := h.service.Services(c.Request.Context(), c.Query("department_id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, services, nil)
}
