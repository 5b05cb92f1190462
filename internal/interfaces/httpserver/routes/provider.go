package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/commerce-api/internal/interfaces/httpserver/handlers"
	v1 "github.com/janhq/commerce-api/internal/interfaces/httpserver/routes/v1"
)

// Provider coordinates all route registrations.
type Provider struct {
	V1 *v1.Routes
}

// NewProvider constructs the route provider.
func NewProvider(handlerProvider *handlers.Provider) *Provider {
	return &Provider{
		V1: v1.NewRoutes(handlerProvider),
	}
}

// Register attaches all available routes behind the given middleware.
func (p *Provider) Register(engine *gin.Engine, middleware ...gin.HandlerFunc) {
	p.V1.Register(engine, middleware...)
}
