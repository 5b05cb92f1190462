package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/domain/assistant"
	"github.com/janhq/commerce-api/internal/infrastructure/auth"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// ConversationHandler exposes conversations, their messages and their cart.
type ConversationHandler struct {
	service AssistantService
	log     zerolog.Logger
}

// NewConversationHandler constructs the handler.
func NewConversationHandler(service AssistantService, log zerolog.Logger) *ConversationHandler {
	return &ConversationHandler{
		service: service,
		log:     log.With().Str("handler", "conversation").Logger(),
	}
}

// Create handles POST /v1/conversations
// @Summary Open a conversation
// @Tags Conversations
// @Accept json
// @Produce json
// @Param X-Tenant-ID header string false "Tenant when auth is disabled"
// @Param request body requests.CreateConversationRequest true "Conversation"
// @Success 201 {object} responses.ConversationResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations [post]
func (h *ConversationHandler) Create(c *gin.Context) {
	var req requests.CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	conv, err := h.service.CreateConversation(c.Request.Context(), assistant.CreateConversationParams{
		TenantID:   auth.TenantID(c),
		AgentID:    req.AgentID,
		CustomerID: req.CustomerID,
		Channel:    req.Channel,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusCreated, responses.MapConversation(conv))
}

// Get handles GET /v1/conversations/:conversation_id
// @Summary Get a conversation
// @Tags Conversations
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Success 200 {object} responses.ConversationResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations/{conversation_id} [get]
func (h *ConversationHandler) Get(c *gin.Context) {
	conv, err := h.service.GetConversation(c.Request.Context(), auth.TenantID(c), c.Param("conversation_id"))
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.MapConversation(conv))
}

// ListMessages handles GET /v1/conversations/:conversation_id/messages
// @Summary List the latest messages of a conversation, oldest first
// @Tags Conversations
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param limit query int false "Maximum messages (default 50)"
// @Success 200 {object} responses.MessageListResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations/{conversation_id}/messages [get]
func (h *ConversationHandler) ListMessages(c *gin.Context) {
	var query requests.ListMessagesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	messages, err := h.service.ListMessages(c.Request.Context(), auth.TenantID(c), c.Param("conversation_id"), query.Limit)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.MapMessages(messages))
}

// SubmitMessage handles POST /v1/conversations/:conversation_id/messages
// @Summary Store a shopper message and answer it
// @Tags Conversations
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.SubmitMessageRequest true "Message"
// @Success 200 {object} assistant.Reply
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Failure 409 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations/{conversation_id}/messages [post]
func (h *ConversationHandler) SubmitMessage(c *gin.Context) {
	var req requests.SubmitMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	reply, err := h.service.SubmitMessage(c.Request.Context(), assistant.ProcessParams{
		Message:          req.Message,
		ConversationID:   c.Param("conversation_id"),
		TenantID:         auth.TenantID(c),
		AgentID:          req.AgentID,
		CustomerID:       req.CustomerID,
		CurrentProductID: req.CurrentProductID,
	})
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, reply)
}

// AddCartItem handles POST /v1/conversations/:conversation_id/cart/items
// @Summary Add a product to the conversation cart
// @Tags Cart
// @Accept json
// @Produce json
// @Param conversation_id path string true "Conversation ID"
// @Param request body requests.AddCartItemRequest true "Item"
// @Success 200 {object} responses.CartResponse
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/conversations/{conversation_id}/cart/items [post]
func (h *ConversationHandler) AddCartItem(c *gin.Context) {
	var req requests.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	cart, err := h.service.AddCartItem(c.Request.Context(), auth.TenantID(c), c.Param("conversation_id"), req.ProductID, req.Variant, req.Quantity)
	if err != nil {
		platformerrors.WriteError(c, err, h.log)
		return
	}
	c.JSON(http.StatusOK, responses.MapCart(cart))
}
