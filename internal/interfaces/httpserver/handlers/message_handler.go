package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/janhq/commerce-api/internal/domain/assistant"
	"github.com/janhq/commerce-api/internal/infrastructure/auth"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// MessageHandler answers messages that the caller has already stored.
type MessageHandler struct {
	service AssistantService
	log     zerolog.Logger
}

// NewMessageHandler constructs the handler.
func NewMessageHandler(service AssistantService, log zerolog.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		log:     log.With().Str("handler", "message").Logger(),
	}
}

// Process handles POST /v1/messages/process
// @Summary Produce the assistant reply to a stored message
// @Description Runs the assistant turn without storing the inbound message.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body requests.ProcessMessageRequest true "Message"
// @Success 200 {object} assistant.Reply
// @Failure 400 {object} platformerrors.HTTPErrorResponse
// @Failure 404 {object} platformerrors.HTTPErrorResponse
// @Router /v1/messages/process [post]
func (h *MessageHandler) Process(c *gin.Context) {
	var req requests.ProcessMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		platformerrors.WriteValidationError(c, err.Error())
		return
	}

	reply, err := h.service.ProcessMessage(c.Request.Context(), assistant.ProcessParams{
		Message:          req.Message,
		ConversationID:   req.ConversationID,
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
