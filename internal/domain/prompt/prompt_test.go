package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
)

func testAgent() *agent.Agent {
	return &agent.Agent{
		ID:               "a1",
		TenantID:         "t1",
		Name:             "Luna",
		BaseInstructions: "Ayuda a los clientes a encontrar ropa deportiva.",
		Personality:      "Entusiasta",
		Tone:             agent.ToneFriendly,
		UseEmojis:        true,
	}
}

func TestBuildPrompt_ContainsPersonaAndRules(t *testing.T) {
	got := BuildPrompt(testAgent(), "Tienda Sol", 42, nil, nil)

	for _, want := range []string{
		"Eres Luna, el asistente de compras de Tienda Sol.",
		"Ayuda a los clientes a encontrar ropa deportiva.",
		"Personalidad: Entusiasta",
		"Tutea al cliente",
		"Puedes usar emojis",
		"42 productos activos",
		"Nunca inventes stock",
		"identify_customer",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(got, CurrentProductHeading) {
		t.Error("prompt has a current product section without a current product")
	}
}

func TestBuildPrompt_ToneDirectives(t *testing.T) {
	tests := []struct {
		tone agent.Tone
		want string
	}{
		{agent.ToneFormal, "de usted"},
		{agent.ToneFriendly, "Tutea"},
		{agent.ToneNeutral, "cordial y directo"},
	}
	for _, tt := range tests {
		a := testAgent()
		a.Tone = tt.tone
		a.UseEmojis = false
		got := BuildPrompt(a, "Tienda", 1, nil, nil)
		if !strings.Contains(got, tt.want) {
			t.Errorf("tone %q: prompt missing %q", tt.tone, tt.want)
		}
		if !strings.Contains(got, "No uses emojis.") {
			t.Errorf("tone %q: prompt missing emoji restriction", tt.tone)
		}
	}
}

func TestBuildPrompt_CurrentProductFraming(t *testing.T) {
	product := &commerce.Product{
		ID:    "p1",
		Name:  "Camiseta Running",
		Price: decimal.NewFromInt(59900),
		Variants: []commerce.Variant{
			{Name: "S", Stock: 2},
			{Name: "M", Stock: 0},
		},
	}
	customer := &commerce.Customer{ID: "cust-1", Name: "Ana"}

	got := BuildPrompt(testAgent(), "Tienda Sol", 3, customer, product)

	for _, want := range []string{
		CurrentProductHeading,
		"El cliente está viendo actualmente este producto",
		"Camiseta Running",
		"ID: p1",
		"$59.900",
		"S (stock 2), M (stock 0)",
		"Asume que sus preguntas se refieren a este producto",
		"Cliente identificado: Ana (ID: cust-1)",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestBuildCustomerContext(t *testing.T) {
	if got := BuildCustomerContext(nil, nil); got != "" {
		t.Errorf("nil customer = %q, want empty", got)
	}

	customer := &commerce.Customer{ID: "c1", Name: "Ana", Email: "ana@example.com", DocumentType: "CC", DocumentNumber: "123"}
	got := BuildCustomerContext(customer, nil)
	if !strings.Contains(got, "no tiene pedidos anteriores") || !strings.Contains(got, "Documento: CC 123") {
		t.Errorf("unexpected context: %q", got)
	}

	var orders []commerce.Order
	for i := 0; i < 7; i++ {
		orders = append(orders, commerce.Order{
			OrderNumber: string(rune('A' + i)),
			Status:      "entregado",
			Total:       decimal.NewFromInt(1000),
			CreatedAt:   time.Date(2024, 1, i+1, 0, 0, 0, 0, time.UTC),
		})
	}
	got = BuildCustomerContext(customer, orders)
	if n := strings.Count(got, "\n- #"); n != MaxOrdersInContext {
		t.Errorf("listed %d orders, want %d", n, MaxOrdersInContext)
	}
}

func TestBuildCartContext(t *testing.T) {
	if got := BuildCartContext(nil); !strings.Contains(got, "El carrito está vacío.") {
		t.Errorf("nil cart = %q", got)
	}

	optionID := "s1"
	cart := &commerce.Cart{
		Items: []commerce.CartItem{
			{ProductID: "p1", ProductName: "Camiseta", Variant: "M", Quantity: 2, UnitPrice: decimal.NewFromInt(50000)},
		},
		DiscountCode:     "BIENVENIDA",
		DiscountAmount:   decimal.NewFromInt(10000),
		ShippingOptionID: &optionID,
		ShippingCost:     decimal.NewFromInt(12000),
	}
	got := BuildCartContext(cart)
	for _, want := range []string{
		"2 x Camiseta (M) [ID: p1] a $50.000 = $100.000",
		"Subtotal: $100.000",
		"Descuento (BIENVENIDA): -$10.000",
		"Envío: $12.000",
		"Total: $102.000",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("cart context missing %q in %q", want, got)
		}
	}
}

func TestBuildConversationHistory(t *testing.T) {
	msg := func(role conversation.Role, content string) conversation.Message {
		return conversation.Message{Role: role, Content: content}
	}

	got := BuildConversationHistory([]conversation.Message{
		msg(conversation.RoleAssistant, "¡Hola! ¿En qué te ayudo?"),
		msg(conversation.RoleUser, "hola"),
		msg(conversation.RoleUser, "busco tenis"),
		msg(conversation.RoleAssistant, "   "),
		msg(conversation.RoleAssistant, "Tengo estos modelos"),
		msg(conversation.RoleUser, "el segundo"),
	})

	if len(got) != 3 {
		t.Fatalf("len = %d, want 3: %+v", len(got), got)
	}
	wantRoles := []llm.Role{llm.RoleUser, llm.RoleAssistant, llm.RoleUser}
	for i, role := range wantRoles {
		if got[i].Role != role {
			t.Errorf("message %d role = %s, want %s", i, got[i].Role, role)
		}
	}
	if text := got[0].Content[0].Text; text != "hola\n\nbusco tenis" {
		t.Errorf("merged text = %q", text)
	}
	if err := llm.ValidateHistory(got); err != nil {
		t.Errorf("history does not validate: %v", err)
	}
}

func TestCompose_IncludesCartAndCustomer(t *testing.T) {
	got := Compose(Input{
		Agent:        testAgent(),
		TenantName:   "Tienda Sol",
		ProductCount: 1,
		Customer:     &commerce.Customer{ID: "c1", Name: "Ana"},
	})
	if !strings.Contains(got, "## Perfil del cliente") || !strings.Contains(got, "## Carrito actual\nEl carrito está vacío.") {
		t.Errorf("composed prompt missing sections: %q", got)
	}
}
