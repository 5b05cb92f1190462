package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/janhq/commerce-api/internal/interfaces/httpserver/handlers"
)

// Routes encapsulates versioned route registration.
type Routes struct {
	handlers *handlers.Provider
}

// NewRoutes builds the v1 route registrar.
func NewRoutes(handlerProvider *handlers.Provider) *Routes {
	return &Routes{
		handlers: handlerProvider,
	}
}

// Register attaches all v1 routes under /v1 prefix.
func (r *Routes) Register(engine *gin.Engine, middleware ...gin.HandlerFunc) {
	group := engine.Group("/v1", middleware...)

	conversations := r.handlers.Conversation
	group.POST("/conversations", conversations.Create)
	group.GET("/conversations/:conversation_id", conversations.Get)
	group.GET("/conversations/:conversation_id/messages", conversations.ListMessages)
	group.POST("/conversations/:conversation_id/messages", conversations.SubmitMessage)
	group.POST("/conversations/:conversation_id/cart/items", conversations.AddCartItem)

	group.POST("/messages/process", r.handlers.Message.Process)
	group.GET("/tools", r.handlers.Tool.List)
}
