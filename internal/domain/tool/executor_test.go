package tool

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/commerce/commercetest"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
	"github.com/janhq/commerce-api/internal/domain/status"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

type fakeConversations struct {
	mu        sync.Mutex
	convs     map[string]conversation.Conversation
	updates   []conversation.StatusUpdate
	customers map[string]string
}

func newFakeConversations() *fakeConversations {
	return &fakeConversations{
		convs: map[string]conversation.Conversation{
			"conv-1": {ID: "conv-1", TenantID: "t1", AgentID: "a1", Status: status.StatusActive},
		},
		customers: map[string]string{},
	}
}

func (f *fakeConversations) Create(ctx context.Context, c *conversation.Conversation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.convs[c.ID] = *c
	return nil
}

func (f *fakeConversations) FindByID(ctx context.Context, tenantID, id string) (*conversation.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.convs[id]
	if !ok || c.TenantID != tenantID {
		return nil, platformerrors.NewError(ctx, platformerrors.LayerRepository, platformerrors.ErrorTypeNotFound, "conversation not found", nil, "")
	}
	return &c, nil
}

func (f *fakeConversations) UpdateStatus(ctx context.Context, tenantID, id string, update conversation.StatusUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.convs[id]
	c.Status = update.Status
	c.EscalationReason = update.EscalationReason
	f.convs[id] = c
	f.updates = append(f.updates, update)
	return nil
}

func (f *fakeConversations) SetCustomer(ctx context.Context, tenantID, id, customerID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.customers[id] = customerID
	return nil
}

type fakeNotifier struct {
	mu      sync.Mutex
	notices []Escalation
	ctxErr  error
}

func (n *fakeNotifier) NotifyEscalation(ctx context.Context, e Escalation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, e)
	n.ctxErr = ctx.Err()
	return nil
}

type testEnv struct {
	executor      *Executor
	store         *commercetest.Store
	conversations *fakeConversations
	notifier      *fakeNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := commercetest.New()
	store.Organizations["t1"] = commerce.Organization{ID: "t1", Name: "Tienda Sol", Currency: "COP", Phone: "6041234567"}
	store.Products["p1"] = commerce.Product{
		ID: "p1", TenantID: "t1", Name: "Camiseta", Price: decimal.NewFromInt(50000), Stock: 10, Active: true,
	}
	store.Products["p2"] = commerce.Product{
		ID: "p2", TenantID: "t1", Name: "Tenis", Price: decimal.NewFromInt(200000), Stock: 3, Active: true,
		Variants: []commerce.Variant{{ID: "v1", ProductID: "p2", Name: "40", Stock: 3}},
	}
	store.Products["p-foreign"] = commerce.Product{
		ID: "p-foreign", TenantID: "t2", Name: "Producto ajeno", Price: decimal.NewFromInt(1000), Stock: 1, Active: true,
	}
	store.Orders = []commerce.Order{
		{ID: "o1", TenantID: "t1", CustomerID: "cust-1", OrderNumber: "1001", Status: "enviado", Total: decimal.NewFromInt(99000), CreatedAt: time.Now()},
		{ID: "o2", TenantID: "t1", CustomerID: "cust-2", OrderNumber: "1002", Status: "pagado", Total: decimal.NewFromInt(10000), CreatedAt: time.Now()},
	}

	conversations := newFakeConversations()
	notifier := &fakeNotifier{}
	registry := NewRegistry(Defaults{DocumentType: "CC", PaymentMethod: "wompi"})
	executor := NewExecutor(registry, Dependencies{
		Store:         store,
		Carts:         commerce.NewCartService(store, &commercetest.PaymentLinks{}),
		Conversations: conversations,
		Notifier:      notifier,
		Timeout:       time.Second,
	}, zerolog.Nop())

	return &testEnv{executor: executor, store: store, conversations: conversations, notifier: notifier}
}

func scope() Scope {
	return Scope{ConversationID: "conv-1", TenantID: "t1"}
}

func TestExecute_UnknownToolTouchesNoStore(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), "drop_database", json.RawMessage(`{}`), scope())

	if result.Success || result.Error != "unknown tool" {
		t.Errorf("result = %+v, want unknown tool failure", result)
	}
	if calls := env.store.CallCount(); calls != 0 {
		t.Errorf("store calls = %d, want 0", calls)
	}
}

func TestExecute_InvalidArguments(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args string
		want string
	}{
		{"missing required", AddToCart, `{"quantity":2}`, "product_id is required"},
		{"below minimum", AddToCart, `{"product_id":"p1","quantity":0}`, "quantity must be at least 1"},
		{"unknown field", ShowProduct, `{"product_id":"p1","color":"red"}`, "unknown field"},
		{"wrong type", ShowProduct, `{"product_id":42}`, "cannot unmarshal"},
		{"not an object", GetCart, `[1,2]`, "cannot unmarshal"},
		{"bad enum", CreatePaymentLink, `{"payment_method":"bitcoin"}`, "payment_method must be one of"},
		{"search limit", SearchProducts, `{"query":"tenis","limit":50}`, "limit must be at most 10"},
		{"no contact data", IdentifyCustomer, `{"name":"Ana"}`, "one of email, phone or document_number is required"},
		{"bad email", IdentifyCustomer, `{"email":"not-an-email"}`, "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			result := env.executor.Execute(context.Background(), tt.tool, json.RawMessage(tt.args), scope())

			if result.Success {
				t.Fatalf("result = %+v, want failure", result)
			}
			if !strings.HasPrefix(result.Error, "invalid arguments for "+tt.tool+": ") {
				t.Errorf("error = %q, want invalid arguments prefix", result.Error)
			}
			if !strings.Contains(result.Error, tt.want) {
				t.Errorf("error = %q, want it to contain %q", result.Error, tt.want)
			}
			if calls := env.store.CallCount(); calls != 0 {
				t.Errorf("store calls = %d, want 0", calls)
			}
		})
	}
}

func TestExecute_AddToCartIsAdvisory(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), AddToCart, json.RawMessage(`{"product_id":"p1","quantity":2}`), scope())

	want := AddToCartInstruction{Type: "add_to_cart", ProductID: "p1", Quantity: 2}
	if !result.Success || result.Error != "" || result.Data != want {
		t.Fatalf("result = %+v, want success with %+v", result, want)
	}
	if got := result.JSON(); got != `{"success":true,"data":{"type":"add_to_cart","product_id":"p1","quantity":2}}` {
		t.Errorf("JSON() = %s", got)
	}
	action, ok := env.executor.Registry().ActionFor(AddToCart, result)
	if !ok || action.Type != AddToCart || action.Data != want {
		t.Errorf("action = %+v, %v", action, ok)
	}
	if len(env.store.Carts) != 0 {
		t.Errorf("carts = %+v, add_to_cart must not write", env.store.Carts)
	}
}

func TestExecute_AppliesDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result := env.executor.Execute(ctx, AddToCart, json.RawMessage(`{"product_id":"p1"}`), scope())
	if data, ok := result.Data.(AddToCartInstruction); !ok || data.Quantity != 1 {
		t.Errorf("add_to_cart data = %+v, want quantity 1", result.Data)
	}

	result = env.executor.Execute(ctx, IdentifyCustomer, json.RawMessage(`{"document_number":"1020304050"}`), scope())
	if data, ok := result.Data.(*CustomerView); !ok || data.DocumentType != "CC" {
		t.Errorf("identify_customer data = %+v, want document type CC", result.Data)
	}

	for _, raw := range []string{``, `null`, `{}`} {
		result = env.executor.Execute(ctx, GetCart, json.RawMessage(raw), scope())
		if !result.Success {
			t.Errorf("get_cart with %q = %+v, want success", raw, result)
		}
	}
}

func TestExecute_ProductOfAnotherTenantIsNotFound(t *testing.T) {
	env := newTestEnv(t)

	for _, tool := range []string{ShowProduct, GetProductAvailability, AddToCart} {
		result := env.executor.Execute(context.Background(), tool, json.RawMessage(`{"product_id":"p-foreign"}`), scope())
		if result.Success || result.Error != "Producto no encontrado" {
			t.Errorf("%s result = %+v, want Producto no encontrado", tool, result)
		}
	}
}

func TestExecute_BusinessRuleViolationsSucceedWithReason(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		tool string
		args string
		want string
	}{
		{AddToCart, `{"product_id":"p2"}`, "requiere seleccionar una variante"},
		{AddToCart, `{"product_id":"p1","quantity":11}`, "Stock insuficiente"},
		{StartCheckout, `{}`, "El carrito está vacío"},
		{GetOrderStatus, `{"order_number":"1001"}`, "identifica al cliente"},
	}
	for _, tt := range tests {
		result := env.executor.Execute(context.Background(), tt.tool, json.RawMessage(tt.args), scope())
		if !result.Success || !strings.Contains(result.Error, tt.want) || result.Data != nil {
			t.Errorf("%s %s = %+v, want success with reason %q", tt.tool, tt.args, result, tt.want)
		}
		if _, ok := env.executor.Registry().ActionFor(tt.tool, result); ok {
			t.Errorf("%s produced an action for a rule violation", tt.tool)
		}
	}
}

func TestExecute_GetCartIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	env.store.Carts["cart-1"] = commerce.Cart{
		ID: "cart-1", TenantID: "t1", ConversationID: "conv-1", Status: commerce.CartStatusActive,
		Items: []commerce.CartItem{
			{ID: "i1", CartID: "cart-1", ProductID: "p1", ProductName: "Camiseta", Quantity: 2, UnitPrice: decimal.NewFromInt(50000)},
		},
	}

	first := env.executor.Execute(context.Background(), GetCart, nil, scope())
	second := env.executor.Execute(context.Background(), GetCart, nil, scope())

	if !first.Success || first.JSON() != second.JSON() {
		t.Errorf("get_cart results differ:\n%s\n%s", first.JSON(), second.JSON())
	}
	view := first.Data.(CartView)
	if view.ItemCount != 2 || !view.Total.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("view = %+v", view)
	}
}

func TestExecute_IdentifyCustomerCarriesCustomerID(t *testing.T) {
	env := newTestEnv(t)

	result := env.executor.Execute(context.Background(), IdentifyCustomer,
		json.RawMessage(`{"name":"Ana","email":"ANA@example.com","phone":"+57 300 123 4567"}`), scope())

	if !result.Success || result.CustomerID == "" {
		t.Fatalf("result = %+v, want success with customer id", result)
	}
	customer := env.store.Customers[result.CustomerID]
	if customer.Email != "ana@example.com" || customer.Phone != "+573001234567" || customer.TenantID != "t1" {
		t.Errorf("stored customer = %+v", customer)
	}
	if env.conversations.customers["conv-1"] != result.CustomerID {
		t.Errorf("conversation customer = %q, want %q", env.conversations.customers["conv-1"], result.CustomerID)
	}

	again := env.executor.Execute(context.Background(), IdentifyCustomer, json.RawMessage(`{"email":"ana@example.com"}`), scope())
	if again.CustomerID != result.CustomerID || again.Data.(*CustomerView).IsNew {
		t.Errorf("second identification = %+v, want the same existing customer", again)
	}
}

func TestExecute_OrderLookupsAreScopedToCustomer(t *testing.T) {
	env := newTestEnv(t)
	s := scope()
	s.CustomerID = "cust-1"

	own := env.executor.Execute(context.Background(), GetOrderStatus, json.RawMessage(`{"order_number":"#1001"}`), s)
	if !own.Success || own.Data.(OrderView).OrderNumber != "1001" {
		t.Errorf("own order = %+v", own)
	}

	foreign := env.executor.Execute(context.Background(), GetOrderStatus, json.RawMessage(`{"order_number":"1002"}`), s)
	if foreign.Success || foreign.Error != "Pedido no encontrado" {
		t.Errorf("foreign order = %+v, want Pedido no encontrado", foreign)
	}

	history := env.executor.Execute(context.Background(), GetCustomerHistory, nil, s)
	if orders := history.Data.(CustomerHistory).Orders; len(orders) != 1 || orders[0].OrderNumber != "1001" {
		t.Errorf("history = %+v", history.Data)
	}
}

func TestExecute_EscalateUpdatesStatusAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	result := env.executor.Execute(ctx, EscalateToHuman, json.RawMessage(`{"reason":"quiere hablar con un asesor"}`), scope())
	cancel()
	env.executor.Wait()

	if !result.Success {
		t.Fatalf("result = %+v", result)
	}
	view := result.Data.(EscalationView)
	if view.Priority != "normal" || view.Status != "escalated" {
		t.Errorf("view = %+v", view)
	}
	if len(env.conversations.updates) != 1 || env.conversations.updates[0].Status != status.StatusEscalated {
		t.Errorf("updates = %+v", env.conversations.updates)
	}
	if len(env.notifier.notices) != 1 || env.notifier.notices[0].Reason != "quiere hablar con un asesor" {
		t.Errorf("notices = %+v", env.notifier.notices)
	}
	if env.notifier.ctxErr != nil {
		t.Errorf("notice context error = %v, want it detached from the turn", env.notifier.ctxErr)
	}

	again := env.executor.Execute(context.Background(), EscalateToHuman, json.RawMessage(`{"reason":"otra vez"}`), scope())
	env.executor.Wait()
	if !again.Data.(EscalationView).AlreadyEscalated || len(env.conversations.updates) != 1 {
		t.Errorf("second escalation = %+v, updates = %d", again, len(env.conversations.updates))
	}
}

func TestExecute_CartToolsWriteThroughStore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	carts := env.executor.carts
	if _, err := carts.AddItem(ctx, "t1", "conv-1", "p1", "", 3); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	result := env.executor.Execute(ctx, UpdateCartQuantity, json.RawMessage(`{"product_id":"p1","quantity":1}`), scope())
	if view, ok := result.Data.(CartView); !ok || view.ItemCount != 1 {
		t.Fatalf("update result = %+v", result)
	}

	result = env.executor.Execute(ctx, RemoveFromCart, json.RawMessage(`{"product_id":"p1"}`), scope())
	if view, ok := result.Data.(CartView); !ok || view.ItemCount != 0 {
		t.Fatalf("remove result = %+v", result)
	}
}

type sanitizerFunc func(tenantID, arguments string) string

func (f sanitizerFunc) SanitizeArguments(tenantID, arguments string) string {
	return f(tenantID, arguments)
}

func TestRun_SanitizesArgumentsPerTenant(t *testing.T) {
	env := newTestEnv(t)
	var tenants, seen []string
	env.executor.sanitizer = sanitizerFunc(func(tenantID, arguments string) string {
		tenants = append(tenants, tenantID)
		seen = append(seen, arguments)
		return "[REDACTED]"
	})

	raw := `{"email":"ana@example.com"}`
	exec := env.executor.Run(context.Background(), llm.ToolCall{ID: "c1", Name: IdentifyCustomer, Input: json.RawMessage(raw)}, scope(), 1)

	if len(tenants) != 1 || tenants[0] != "t1" || seen[0] != raw {
		t.Fatalf("sanitizer calls = %v %v", tenants, seen)
	}
	if string(exec.Arguments) != raw {
		t.Errorf("audit arguments = %s, want the raw input", exec.Arguments)
	}
}
