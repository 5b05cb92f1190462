package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/janhq/commerce-api/internal/interfaces/httpserver/responses"
)

// ToolHandler lists the tool catalog.
type ToolHandler struct {
	catalog ToolCatalog
}

func NewToolHandler(catalog ToolCatalog) *ToolHandler {
	return &ToolHandler{catalog: catalog}
}

// List handles GET /v1/tools
// @Summary List tools available to the assistant
// @Tags Tools
// @Produce json
// @Success 200 {object} responses.ToolListResponse
// @Router /v1/tools [get]
func (h *ToolHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, responses.ToolListResponse{
		Object: "list",
		Data:   h.catalog.ToolDefinitions(),
	})
}
