package responses

import (
	"time"

	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
)

// ConversationResponse is the public view of a conversation.
type ConversationResponse struct {
	ID               string    `json:"id"`
	AgentID          string    `json:"agent_id"`
	CustomerID       *string   `json:"customer_id,omitempty"`
	Status           string    `json:"status"`
	Channel          string    `json:"channel"`
	EscalationReason *string   `json:"escalation_reason,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// MessageResponse is one stored message.
type MessageResponse struct {
	ID        string         `json:"id"`
	Role      string         `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// MessageListResponse wraps a page of messages.
type MessageListResponse struct {
	Object string            `json:"object"`
	Data   []MessageResponse `json:"data"`
}

// CartResponse is the public view of a cart. Amounts are decimal strings.
type CartResponse struct {
	ID             string             `json:"id"`
	ConversationID string             `json:"conversation_id"`
	Status         string             `json:"status"`
	CheckoutStep   string             `json:"checkout_step,omitempty"`
	Items          []CartItemResponse `json:"items"`
	ItemCount      int                `json:"item_count"`
	Subtotal       string             `json:"subtotal"`
	DiscountCode   string             `json:"discount_code,omitempty"`
	DiscountAmount string             `json:"discount_amount"`
	ShippingCost   string             `json:"shipping_cost"`
	Total          string             `json:"total"`
	PaymentURL     string             `json:"payment_url,omitempty"`
}

// CartItemResponse is one cart line.
type CartItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Variant     string `json:"variant,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	LineTotal   string `json:"line_total"`
}

// ToolListResponse lists the tools offered to the model.
type ToolListResponse struct {
	Object string               `json:"object"`
	Data   []llm.ToolDefinition `json:"data"`
}

func MapConversation(c *conversation.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:               c.ID,
		AgentID:          c.AgentID,
		CustomerID:       c.CustomerID,
		Status:           string(c.Status),
		Channel:          c.Channel,
		EscalationReason: c.EscalationReason,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func MapMessages(messages []conversation.Message) MessageListResponse {
	data := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		data = append(data, MessageResponse{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			Metadata:  m.Metadata,
			CreatedAt: m.CreatedAt,
		})
	}
	return MessageListResponse{Object: "list", Data: data}
}

func MapCart(c *commerce.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, CartItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Variant:     item.Variant,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice.StringFixed(2),
			LineTotal:   item.LineTotal().StringFixed(2),
		})
	}
	return CartResponse{
		ID:             c.ID,
		ConversationID: c.ConversationID,
		Status:         string(c.Status),
		CheckoutStep:   string(c.CheckoutStep),
		Items:          items,
		ItemCount:      c.ItemCount(),
		Subtotal:       c.Subtotal().StringFixed(2),
		DiscountCode:   c.DiscountCode,
		DiscountAmount: c.DiscountAmount.StringFixed(2),
		ShippingCost:   c.ShippingCost.StringFixed(2),
		Total:          c.Total().StringFixed(2),
		PaymentURL:     c.PaymentURL,
	}
}
