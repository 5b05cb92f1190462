package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/janhq/commerce-api/internal/domain/assistant"
	"github.com/janhq/commerce-api/internal/domain/commerce"
	"github.com/janhq/commerce-api/internal/domain/conversation"
	"github.com/janhq/commerce-api/internal/domain/llm"
	"github.com/janhq/commerce-api/internal/domain/status"
	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/infrastructure/auth"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/handlers"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/requests"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/responses"
	"github.com/janhq/commerce-api/internal/interfaces/httpserver/routes"
	"github.com/janhq/commerce-api/internal/utils/platformerrors"
)

// MockAssistantService implements handlers.AssistantService with function fields.
type MockAssistantService struct {
	CreateConversationFunc func(ctx context.Context, params assistant.CreateConversationParams) (*conversation.Conversation, error)
	GetConversationFunc    func(ctx context.Context, tenantID, id string) (*conversation.Conversation, error)
	ListMessagesFunc       func(ctx context.Context, tenantID, conversationID string, limit int) ([]conversation.Message, error)
	SubmitMessageFunc      func(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error)
	ProcessMessageFunc     func(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error)
	AddCartItemFunc        func(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*commerce.Cart, error)
}

func (m *MockAssistantService) CreateConversation(ctx context.Context, params assistant.CreateConversationParams) (*conversation.Conversation, error) {
	if m.CreateConversationFunc != nil {
		return m.CreateConversationFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAssistantService) GetConversation(ctx context.Context, tenantID, id string) (*conversation.Conversation, error) {
	if m.GetConversationFunc != nil {
		return m.GetConversationFunc(ctx, tenantID, id)
	}
	return nil, nil
}

func (m *MockAssistantService) ListMessages(ctx context.Context, tenantID, conversationID string, limit int) ([]conversation.Message, error) {
	if m.ListMessagesFunc != nil {
		return m.ListMessagesFunc(ctx, tenantID, conversationID, limit)
	}
	return nil, nil
}

func (m *MockAssistantService) SubmitMessage(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error) {
	if m.SubmitMessageFunc != nil {
		return m.SubmitMessageFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAssistantService) ProcessMessage(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error) {
	if m.ProcessMessageFunc != nil {
		return m.ProcessMessageFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockAssistantService) AddCartItem(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*commerce.Cart, error) {
	if m.AddCartItemFunc != nil {
		return m.AddCartItemFunc(ctx, tenantID, conversationID, productID, variant, quantity)
	}
	return nil, nil
}

type staticCatalog []llm.ToolDefinition

func (s staticCatalog) ToolDefinitions() []llm.ToolDefinition { return s }

func setupRouter(service handlers.AssistantService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	requests.RegisterValidations()

	router := gin.New()
	catalog := staticCatalog{{Name: tool.GetCart, Description: "cart", InputSchema: json.RawMessage(`{"type":"object"}`)}}
	provider := handlers.NewProvider(service, catalog, zerolog.Nop())
	var validator *auth.Validator
	routes.NewProvider(provider).Register(router, validator.Middleware())
	return router
}

func doRequest(router *gin.Engine, method, path, tenant string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if tenant != "" {
		req.Header.Set(auth.TenantHeader, tenant)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func domainError(errorType platformerrors.ErrorType, message string) error {
	return platformerrors.NewError(context.Background(), platformerrors.LayerDomain, errorType, message, nil, "test")
}

func TestCreateConversation(t *testing.T) {
	tests := []struct {
		name       string
		tenant     string
		body       any
		err        error
		wantStatus int
	}{
		{name: "created", tenant: "shop-1", body: map[string]string{"agent_id": "a1", "channel": "whatsapp"}, wantStatus: http.StatusCreated},
		{name: "missing tenant", body: map[string]string{"agent_id": "a1"}, wantStatus: http.StatusBadRequest},
		{name: "blank agent", tenant: "shop-1", body: map[string]string{"agent_id": "  "}, wantStatus: http.StatusBadRequest},
		{name: "unknown channel", tenant: "shop-1", body: map[string]string{"agent_id": "a1", "channel": "fax"}, wantStatus: http.StatusBadRequest},
		{name: "inactive agent", tenant: "shop-1", body: map[string]string{"agent_id": "a1"}, err: domainError(platformerrors.ErrorTypeNotFound, "agent not found"), wantStatus: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got assistant.CreateConversationParams
			service := &MockAssistantService{
				CreateConversationFunc: func(ctx context.Context, params assistant.CreateConversationParams) (*conversation.Conversation, error) {
					got = params
					if tt.err != nil {
						return nil, tt.err
					}
					return &conversation.Conversation{ID: "conv-1", TenantID: params.TenantID, AgentID: params.AgentID, Status: status.StatusActive, Channel: params.Channel}, nil
				},
			}

			w := doRequest(setupRouter(service), http.MethodPost, "/v1/conversations", tt.tenant, tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusCreated {
				return
			}
			if got.TenantID != "shop-1" || got.AgentID != "a1" {
				t.Errorf("params = %+v", got)
			}
			var resp responses.ConversationResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.ID != "conv-1" || resp.Status != "active" || resp.Channel != "whatsapp" {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestSubmitMessage(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		err        error
		wantStatus int
	}{
		{name: "answered", body: map[string]string{"message": "hola", "current_product_id": "p1"}, wantStatus: http.StatusOK},
		{name: "blank message", body: map[string]string{"message": "   "}, wantStatus: http.StatusBadRequest},
		{name: "closed conversation", body: map[string]string{"message": "hola"}, err: domainError(platformerrors.ErrorTypeConflict, "conversation is closed"), wantStatus: http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got assistant.ProcessParams
			service := &MockAssistantService{
				SubmitMessageFunc: func(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error) {
					got = params
					if tt.err != nil {
						return nil, tt.err
					}
					return &assistant.Reply{
						Response: "¡Hola!",
						Actions:  []tool.Action{{Type: tool.ShowProduct, Data: map[string]string{"id": "p1"}}},
						Metadata: assistant.Metadata{Model: "m", Iterations: 1, ToolsUsed: []string{}},
					}, nil
				},
			}

			w := doRequest(setupRouter(service), http.MethodPost, "/v1/conversations/conv-9/messages", "shop-1", tt.body)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}
			if got.ConversationID != "conv-9" || got.TenantID != "shop-1" || got.CurrentProductID != "p1" {
				t.Errorf("params = %+v", got)
			}
			var reply assistant.Reply
			if err := json.Unmarshal(w.Body.Bytes(), &reply); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if reply.Response != "¡Hola!" || len(reply.Actions) != 1 || reply.Metadata.Iterations != 1 {
				t.Errorf("reply = %+v", reply)
			}
		})
	}
}

func TestProcessMessage(t *testing.T) {
	var got assistant.ProcessParams
	service := &MockAssistantService{
		ProcessMessageFunc: func(ctx context.Context, params assistant.ProcessParams) (*assistant.Reply, error) {
			got = params
			return &assistant.Reply{Response: "ok"}, nil
		},
	}
	router := setupRouter(service)

	w := doRequest(router, http.MethodPost, "/v1/messages/process", "shop-1", map[string]string{
		"message": "hola", "conversation_id": "conv-1", "agent_id": "a1", "customer_id": "c1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	want := assistant.ProcessParams{Message: "hola", ConversationID: "conv-1", TenantID: "shop-1", AgentID: "a1", CustomerID: "c1"}
	if got != want {
		t.Errorf("params = %+v, want %+v", got, want)
	}

	w = doRequest(router, http.MethodPost, "/v1/messages/process", "shop-1", map[string]string{"message": "hola"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing ids status = %d, want 400", w.Code)
	}
}

func TestListMessages(t *testing.T) {
	var gotLimit int
	service := &MockAssistantService{
		ListMessagesFunc: func(ctx context.Context, tenantID, conversationID string, limit int) ([]conversation.Message, error) {
			gotLimit = limit
			if conversationID == "missing" {
				return nil, domainError(platformerrors.ErrorTypeNotFound, "conversation not found")
			}
			return []conversation.Message{
				{ID: "m1", Role: conversation.RoleUser, Content: "hola"},
				{ID: "m2", Role: conversation.RoleAssistant, Content: "¡Hola!", Metadata: map[string]any{"iterations": 1}},
			}, nil
		},
	}
	router := setupRouter(service)

	w := doRequest(router, http.MethodGet, "/v1/conversations/conv-1/messages?limit=20", "shop-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	if gotLimit != 20 {
		t.Errorf("limit = %d, want 20", gotLimit)
	}
	var resp responses.MessageListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 2 || resp.Data[0].Role != "user" || resp.Data[1].Role != "assistant" {
		t.Errorf("data = %+v", resp.Data)
	}

	if w := doRequest(router, http.MethodGet, "/v1/conversations/conv-1/messages?limit=500", "shop-1", nil); w.Code != http.StatusBadRequest {
		t.Errorf("oversized limit status = %d, want 400", w.Code)
	}
	if w := doRequest(router, http.MethodGet, "/v1/conversations/missing/messages", "shop-1", nil); w.Code != http.StatusNotFound {
		t.Errorf("missing conversation status = %d, want 404", w.Code)
	}
}

func TestAddCartItem(t *testing.T) {
	service := &MockAssistantService{
		AddCartItemFunc: func(ctx context.Context, tenantID, conversationID, productID, variant string, quantity int) (*commerce.Cart, error) {
			if quantity > 5 {
				return nil, domainError(platformerrors.ErrorTypeValidation, "Solo hay 5 unidades disponibles")
			}
			return &commerce.Cart{
				ID:             "cart-1",
				ConversationID: conversationID,
				Status:         commerce.CartStatusActive,
				Items: []commerce.CartItem{{
					ProductID: productID, ProductName: "Gorra", Variant: variant, Quantity: quantity,
					UnitPrice: decimal.RequireFromString("45000"),
				}},
			}, nil
		},
	}
	router := setupRouter(service)

	w := doRequest(router, http.MethodPost, "/v1/conversations/conv-1/cart/items", "shop-1", map[string]any{"product_id": "p2", "quantity": 2})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d (%s)", w.Code, w.Body.String())
	}
	var cart responses.CartResponse
	if err := json.Unmarshal(w.Body.Bytes(), &cart); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cart.ItemCount != 2 || cart.Subtotal != "90000.00" || cart.Items[0].LineTotal != "90000.00" {
		t.Errorf("cart = %+v", cart)
	}

	w = doRequest(router, http.MethodPost, "/v1/conversations/conv-1/cart/items", "shop-1", map[string]any{"product_id": "p2", "quantity": 9})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("violation status = %d, want 400", w.Code)
	}
	var errBody platformerrors.HTTPErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &errBody); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if errBody.Error.Message != "Solo hay 5 unidades disponibles" {
		t.Errorf("message = %q", errBody.Error.Message)
	}

	if w := doRequest(router, http.MethodPost, "/v1/conversations/conv-1/cart/items", "shop-1", map[string]any{"product_id": "p2", "quantity": 0}); w.Code != http.StatusBadRequest {
		t.Errorf("zero quantity status = %d, want 400", w.Code)
	}
}

func TestListTools(t *testing.T) {
	w := doRequest(setupRouter(&MockAssistantService{}), http.MethodGet, "/v1/tools", "shop-1", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var resp responses.ToolListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Name != tool.GetCart {
		t.Errorf("tools = %+v", resp.Data)
	}
}
