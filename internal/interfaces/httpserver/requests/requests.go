package requests

// CreateConversationRequest opens a conversation with an agent.
type CreateConversationRequest struct {
	AgentID    string `json:"agent_id" binding:"required,notblank"`
	CustomerID string `json:"customer_id,omitempty"`
	Channel    string `json:"channel,omitempty" binding:"omitempty,oneof=web whatsapp instagram messenger"`
}

// SubmitMessageRequest is a shopper message posted to a conversation.
type SubmitMessageRequest struct {
	Message          string `json:"message" binding:"required,notblank"`
	AgentID          string `json:"agent_id,omitempty"`
	CustomerID       string `json:"customer_id,omitempty"`
	CurrentProductID string `json:"current_product_id,omitempty"`
}

// ProcessMessageRequest asks for a reply to a message the caller already stored.
type ProcessMessageRequest struct {
	Message          string `json:"message" binding:"required,notblank"`
	ConversationID   string `json:"conversation_id" binding:"required,notblank"`
	AgentID          string `json:"agent_id" binding:"required,notblank"`
	CustomerID       string `json:"customer_id,omitempty"`
	CurrentProductID string `json:"current_product_id,omitempty"`
}

// AddCartItemRequest applies an add_to_cart action.
type AddCartItemRequest struct {
	ProductID string `json:"product_id" binding:"required,notblank"`
	Variant   string `json:"variant,omitempty"`
	Quantity  int    `json:"quantity" binding:"required,min=1,max=100"`
}

// ListMessagesQuery pages conversation history.
type ListMessagesQuery struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=200"`
}
