// Package prompt builds the system prompt and message history sent to the model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/janhq/commerce-api/internal/domain/agent"
	"github.com/janhq/commerce-api/internal/domain/commerce"
)

// CurrentProductHeading opens the section describing the product on screen.
const CurrentProductHeading = "## Producto que el cliente está viendo"

// MaxOrdersInContext caps the orders listed in the customer context.
const MaxOrdersInContext = 5

var businessRules = []string{
	"Nunca inventes stock, variantes ni precios. Usa solo los datos que devuelven las herramientas.",
	"Verifica la disponibilidad con get_product_availability antes de confirmar que un producto está disponible.",
	"Identifica al cliente con identify_customer apenas comparta su correo, teléfono o documento.",
	"Si un producto tiene variantes (talla, color), pregunta cuál quiere antes de agregarlo al carrito.",
	"Para finalizar una compra sigue este orden: start_checkout, confirm_shipping_details y create_payment_link.",
	"Nunca reveles información de otros clientes.",
	"Escala a un humano con escalate_to_human cuando el cliente lo pida o cuando no puedas resolver su solicitud.",
	"Mantén tus respuestas cortas y claras.",
}

// BuildPrompt returns the base system prompt for a turn. customer and currentProduct are optional.
func BuildPrompt(a *agent.Agent, tenantName string, productCount int64, customer *commerce.Customer, currentProduct *commerce.Product) string {
	var b strings.Builder

	name := "el asistente"
	if a != nil && strings.TrimSpace(a.Name) != "" {
		name = a.Name
	}
	fmt.Fprintf(&b, "Eres %s, el asistente de compras de %s.\n", name, tenantName)

	if a != nil && strings.TrimSpace(a.BaseInstructions) != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(a.BaseInstructions))
		b.WriteString("\n")
	}

	b.WriteString("\n## Estilo\n")
	if a != nil && strings.TrimSpace(a.Personality) != "" {
		fmt.Fprintf(&b, "Personalidad: %s\n", strings.TrimSpace(a.Personality))
	}
	b.WriteString(toneDirective(a))
	b.WriteString("\n")
	if a != nil && a.UseEmojis {
		b.WriteString("Puedes usar emojis con moderación.\n")
	} else {
		b.WriteString("No uses emojis.\n")
	}
	language := "español"
	if a != nil && strings.TrimSpace(a.Language) != "" {
		language = a.Language
	}
	fmt.Fprintf(&b, "Responde siempre en %s.\n", language)

	b.WriteString("\n## Catálogo\n")
	if productCount > 0 {
		fmt.Fprintf(&b, "La tienda tiene %d productos activos. Búscalos con search_products; nunca supongas qué hay en el catálogo.\n", productCount)
	} else {
		b.WriteString("La tienda no tiene productos activos en este momento.\n")
	}

	b.WriteString("\n## Reglas\n")
	for i, rule := range businessRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}

	if currentProduct != nil {
		b.WriteString("\n")
		b.WriteString(CurrentProductHeading)
		b.WriteString("\n")
		writeCurrentProduct(&b, currentProduct)
	}

	if customer != nil {
		b.WriteString("\n## Cliente\n")
		fmt.Fprintf(&b, "Cliente identificado: %s (ID: %s). No vuelvas a pedirle sus datos de contacto.\n", displayName(customer), customer.ID)
	}

	return strings.TrimRight(b.String(), "\n")
}

func toneDirective(a *agent.Agent) string {
	if a == nil {
		return "Usa un tono cordial y directo."
	}
	switch a.Tone {
	case agent.ToneFormal:
		return "Trata al cliente de usted y mantén un tono profesional."
	case agent.ToneFriendly:
		return "Tutea al cliente y usa un tono cercano y cálido."
	default:
		return "Usa un tono cordial y directo."
	}
}

func writeCurrentProduct(b *strings.Builder, p *commerce.Product) {
	fmt.Fprintf(b, "El cliente está viendo actualmente este producto:\n")
	fmt.Fprintf(b, "- Nombre: %s\n", p.Name)
	fmt.Fprintf(b, "- ID: %s\n", p.ID)
	fmt.Fprintf(b, "- Precio: %s\n", commerce.FormatMoney(p.Price))
	if p.HasVariants() {
		parts := make([]string, 0, len(p.Variants))
		for _, v := range p.Variants {
			parts = append(parts, fmt.Sprintf("%s (stock %d)", v.Name, v.Stock))
		}
		fmt.Fprintf(b, "- Variantes: %s\n", strings.Join(parts, ", "))
	} else {
		fmt.Fprintf(b, "- Stock: %d\n", p.Stock)
	}
	b.WriteString("Asume que sus preguntas se refieren a este producto a menos que indique otra cosa.\n")
}

func displayName(c *commerce.Customer) string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	return "cliente sin nombre"
}
