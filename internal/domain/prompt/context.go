package prompt

import (
	"fmt"
	"strings"

	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
)

// BuildCustomerContext summarizes the customer profile and the most recent orders.
func BuildCustomerContext(customer *commerce.Customer, orders []commerce.Order) string {
	if customer == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Perfil del cliente\n")
	fmt.Fprintf(&b, "Nombre: %s\n", displayName(customer))
	if customer.Email != "" {
		fmt.Fprintf(&b, "Correo: %s\n", customer.Email)
	}
	if customer.Phone != "" {
		fmt.Fprintf(&b, "Teléfono: %s\n", customer.Phone)
	}
	if customer.DocumentNumber != "" {
		fmt.Fprintf(&b, "Documento: %s %s\n", customer.DocumentType, customer.DocumentNumber)
	}
	if customer.City != "" {
		fmt.Fprintf(&b, "Ciudad: %s\n", customer.City)
	}

	b.WriteString("\n### Últimos pedidos\n")
	if len(orders) == 0 {
		b.WriteString("El cliente no tiene pedidos anteriores.")
		return b.String()
	}
	if len(orders) > MaxOrdersInContext {
		orders = orders[:MaxOrdersInContext]
	}
	for _, o := range orders {
		fmt.Fprintf(&b, "- #%s (%s): %s, total %s\n", o.OrderNumber, o.CreatedAt.Format("2006-01-02"), o.Status, commerce.FormatMoney(o.Total))
	}
	return strings.TrimRight(b.String(), "\n")
}

// BuildCartContext describes the active cart, or states that it is empty.
func BuildCartContext(cart *commerce.Cart) string {
	var b strings.Builder
	b.WriteString("## Carrito actual\n")
	if cart.IsEmpty() {
		b.WriteString("El carrito está vacío.")
		return b.String()
	}

	for _, item := range cart.Items {
		name := item.ProductName
		if item.Variant != "" {
			name = fmt.Sprintf("%s (%s)", name, item.Variant)
		}
		fmt.Fprintf(&b, "- %d x %s [ID: %s] a %s = %s\n", item.Quantity, name, item.ProductID, commerce.FormatMoney(item.UnitPrice), commerce.FormatMoney(item.LineTotal()))
	}
	fmt.Fprintf(&b, "Subtotal: %s\n", commerce.FormatMoney(cart.Subtotal()))
	if cart.DiscountCode != "" {
		fmt.Fprintf(&b, "Descuento (%s): -%s\n", cart.DiscountCode, commerce.FormatMoney(cart.DiscountAmount))
	}
	if cart.ShippingOptionID != nil {
		fmt.Fprintf(&b, "Envío: %s\n", commerce.FormatMoney(cart.ShippingCost))
	}
	fmt.Fprintf(&b, "Total: %s", commerce.FormatMoney(cart.Total()))
	if cart.CheckoutStep != commerce.CheckoutStepNone {
		fmt.Fprintf(&b, "\nEstado del checkout: %s", cart.CheckoutStep)
	}
	return b.String()
}

// BuildConversationHistory turns stored messages, oldest first, into a model history that
// starts with the user and alternates roles. Blank messages are skipped and consecutive
// messages of the same role are merged.
func BuildConversationHistory(messages []conversation.Message) []llm.Message {
	history := make([]llm.Message, 0, len(messages))
	texts := make([]string, 0, len(messages))

	for _, msg := range messages {
		content := strings.TrimSpace(msg.Content)
		if content == "" {
			continue
		}
		var role llm.Role
		switch msg.Role {
		case conversation.RoleUser:
			role = llm.RoleUser
		case conversation.RoleAssistant:
			role = llm.RoleAssistant
		default:
			continue
		}
		if len(history) == 0 && role != llm.RoleUser {
			continue
		}
		if n := len(history); n > 0 && history[n-1].Role == role {
			texts[n-1] += "\n\n" + content
			continue
		}
		history = append(history, llm.Message{Role: role})
		texts = append(texts, content)
	}

	for i := range history {
		history[i].Content = []llm.ContentBlock{{Type: llm.BlockText, Text: texts[i]}}
	}
	return history
}

// Input gathers everything the system prompt is built from.
type Input struct {
	Agent          *agent.Agent
	TenantName     string
	ProductCount   int64
	Customer       *commerce.Customer
	Orders         []commerce.Order
	Cart           *commerce.Cart
	CurrentProduct *commerce.Product
}

// Compose joins the base prompt with the customer and cart context.
func Compose(in Input) string {
	parts := []string{BuildPrompt(in.Agent, in.TenantName, in.ProductCount, in.Customer, in.CurrentProduct)}
	if ctx := BuildCustomerContext(in.Customer, in.Orders); ctx != "" {
		parts = append(parts, ctx)
	}
	parts = append(parts, BuildCartContext(in.Cart))
	return strings.Join(parts, "\n\n")
}
