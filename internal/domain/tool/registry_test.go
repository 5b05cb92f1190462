package tool

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"github.com/janhq/commerce-api/internal/config"
)

type schemaDoc struct {
	Type                 string                     `json:"type"`
	Properties           map[string]json.RawMessage `json:"properties"`
	Required             []string                   `json:"required"`
	AdditionalProperties *bool                      `json:"additionalProperties"`
}

type propertyDoc struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Enum        []string `json:"enum"`
}

func decodeSchema(t *testing.T, def Definition) schemaDoc {
	t.Helper()
	var doc schemaDoc
	if err := json.Unmarshal(def.InputSchema, &doc); err != nil {
		t.Fatalf("%s: schema is not valid JSON: %v", def.Name, err)
	}
	return doc
}

func property(t *testing.T, doc schemaDoc, name string) propertyDoc {
	t.Helper()
	raw, ok := doc.Properties[name]
	if !ok {
		t.Fatalf("property %s missing", name)
	}
	var p propertyDoc
	if err := json.Unmarshal(raw, &p); err != nil {
		t.Fatalf("property %s: %v", name, err)
	}
	return p
}

func testRegistry() *Registry {
	return NewRegistry(Defaults{DocumentType: "CC", PaymentMethod: "wompi"})
}

func TestRegistry_CatalogMatchesToolNames(t *testing.T) {
	r := testRegistry()

	if err := r.Verify(Names); err != nil {
		t.Fatalf("Verify() = %v", err)
	}
	if len(Names) != 18 {
		t.Errorf("len(Names) = %d, want 18", len(Names))
	}

	var got []string
	for _, def := range r.Definitions() {
		got = append(got, def.Name)
	}
	if !reflect.DeepEqual(got, Names) {
		t.Errorf("definition order = %v, want %v", got, Names)
	}
	if defs := r.ToolDefinitions(); len(defs) != len(Names) {
		t.Errorf("ToolDefinitions() has %d entries", len(defs))
	}
}

func TestRegistry_VerifyReportsDrift(t *testing.T) {
	r := testRegistry()

	err := r.Verify(Names[:len(Names)-1])
	if err == nil || !strings.Contains(err.Error(), "escalate_to_human is registered but not expected") {
		t.Errorf("missing expectation: Verify() = %v", err)
	}

	err = r.Verify(append(append([]string(nil), Names...), "refund_order"))
	if err == nil || !strings.Contains(err.Error(), "refund_order has no registered handler") {
		t.Errorf("missing handler: Verify() = %v", err)
	}

	register(r, GetCart, "duplicate", true, (*Executor).getCart)
	if err := r.Verify(Names); err == nil || !strings.Contains(err.Error(), "get_cart registered twice") {
		t.Errorf("duplicate: Verify() = %v", err)
	}
}

func TestRegistry_SchemasAreClosedObjects(t *testing.T) {
	for _, def := range testRegistry().Definitions() {
		doc := decodeSchema(t, def)
		if doc.Type != "object" {
			t.Errorf("%s: type = %q, want object", def.Name, doc.Type)
		}
		if doc.AdditionalProperties == nil || *doc.AdditionalProperties {
			t.Errorf("%s: additionalProperties must be false", def.Name)
		}
		if strings.Contains(string(def.InputSchema), "$schema") || strings.Contains(string(def.InputSchema), "$ref") {
			t.Errorf("%s: schema must be inline: %s", def.Name, def.InputSchema)
		}
	}
}

func TestRegistry_RequiredFieldsAndDescriptions(t *testing.T) {
	r := testRegistry()

	tests := []struct {
		tool     string
		required []string
	}{
		{AddToCart, []string{"product_id"}},
		{UpdateCartQuantity, []string{"product_id", "quantity"}},
		{SearchProducts, []string{"query"}},
		{ConfirmShippingDetails, []string{"recipient_name", "phone", "address", "city"}},
		{EscalateToHuman, []string{"reason"}},
		{CreatePaymentLink, nil},
		{GetCart, nil},
	}
	for _, tt := range tests {
		def, ok := r.Lookup(tt.tool)
		if !ok {
			t.Fatalf("%s not registered", tt.tool)
		}
		doc := decodeSchema(t, def)
		if len(doc.Required) != len(tt.required) || (len(tt.required) > 0 && !reflect.DeepEqual(doc.Required, tt.required)) {
			t.Errorf("%s: required = %v, want %v", tt.tool, doc.Required, tt.required)
		}
	}

	def, _ := r.Lookup(AddToCart)
	if p := property(t, decodeSchema(t, def), "quantity"); p.Type != "integer" || p.Description == "" {
		t.Errorf("add_to_cart quantity = %+v", p)
	}
}

func TestRegistry_EnumsMatchConfiguration(t *testing.T) {
	r := testRegistry()

	def, _ := r.Lookup(IdentifyCustomer)
	if p := property(t, decodeSchema(t, def), "document_type"); !reflect.DeepEqual(p.Enum, config.DocumentTypes) {
		t.Errorf("document_type enum = %v, want %v", p.Enum, config.DocumentTypes)
	}

	def, _ = r.Lookup(CreatePaymentLink)
	if p := property(t, decodeSchema(t, def), "payment_method"); !reflect.DeepEqual(p.Enum, config.PaymentGateways) {
		t.Errorf("payment_method enum = %v, want %v", p.Enum, config.PaymentGateways)
	}
}

func TestRegistry_RenderableTools(t *testing.T) {
	r := testRegistry()
	renderable := map[string]bool{}
	for _, def := range r.Definitions() {
		if def.Renderable {
			renderable[def.Name] = true
		}
	}
	for _, name := range []string{SearchProducts, ShowProduct, AddToCart, GetCart, RemoveFromCart, UpdateCartQuantity, ApplyDiscount, RenderCheckoutSummary, CreatePaymentLink, EscalateToHuman} {
		if !renderable[name] {
			t.Errorf("%s should render an action", name)
		}
	}
	for _, name := range []string{IdentifyCustomer, GetProductAvailability, StartCheckout, GetShippingOptions, ConfirmShippingDetails, GetStoreInfo, GetOrderStatus, GetCustomerHistory} {
		if renderable[name] {
			t.Errorf("%s should not render an action", name)
		}
	}
}
