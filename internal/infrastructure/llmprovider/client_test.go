package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/janhq/commerce-api/internal/domain/llm"
)

func TestClient_CreateMessage(t *testing.T) {
	var got llm.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "secret" || r.Header.Get("anthropic-version") != "2023-06-01" {
			t.Errorf("missing auth headers: %v", r.Header)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_1", "type": "message", "role": "assistant", "model": "test-model",
			"stop_reason": "tool_use",
			"content": [
				{"type": "text", "text": "Busco eso."},
				{"type": "tool_use", "id": "toolu_1", "name": "search_products", "input": {"query": "gorra"}}
			],
			"usage": {"input_tokens": 10, "output_tokens": 5}
		}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL + "/", APIKey: "secret"})
	resp, err := client.CreateMessage(context.Background(), llm.Request{
		Model:     "test-model",
		MaxTokens: 128,
		System:    "sys",
		Messages:  []llm.Message{llm.TextMessage(llm.RoleUser, "hola")},
		Tools:     []llm.ToolDefinition{{Name: "search_products", Description: "d", InputSchema: json.RawMessage(`{"type":"object"}`)}},
	})
	if err != nil {
		t.Fatalf("CreateMessage() error = %v", err)
	}

	if got.Model != "test-model" || got.MaxTokens != 128 || got.System != "sys" || len(got.Tools) != 1 {
		t.Errorf("request body = %+v", got)
	}
	calls := resp.ToolCalls()
	if len(calls) != 1 || calls[0].ID != "toolu_1" || string(calls[0].Input) != `{"query": "gorra"}` {
		t.Errorf("tool calls = %+v", calls)
	}
	if texts := resp.Texts(); len(texts) != 1 || texts[0] != "Busco eso." {
		t.Errorf("texts = %v", texts)
	}
	if resp.Usage == nil || resp.Usage.OutputTokens != 5 {
		t.Errorf("usage = %+v", resp.Usage)
	}
}

func TestClient_CreateMessageErrors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantType   string
		wantAuth   bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, 401, "authentication_error", true},
		{"rate limited", http.StatusTooManyRequests, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, 429, "rate_limit_error", false},
		{"overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, 529, "overloaded_error", false},
		{"plain text error", http.StatusBadGateway, `bad gateway`, 502, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewClient(Config{BaseURL: server.URL, APIKey: "k"}).CreateMessage(context.Background(), llm.Request{})
			var providerErr *llm.ProviderError
			if !errors.As(err, &providerErr) {
				t.Fatalf("error = %v, want *llm.ProviderError", err)
			}
			if providerErr.StatusCode != tt.wantStatus || providerErr.Type != tt.wantType || providerErr.IsAuth() != tt.wantAuth {
				t.Errorf("provider error = %+v", providerErr)
			}
		})
	}
}

func TestClient_MalformedBodyAndTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("slow") != "" {
			time.Sleep(200 * time.Millisecond)
		}
		_, _ = w.Write([]byte(`{"content": [`))
	}))
	defer server.Close()

	_, err := NewClient(Config{BaseURL: server.URL}).CreateMessage(context.Background(), llm.Request{})
	var providerErr *llm.ProviderError
	if !errors.As(err, &providerErr) || providerErr.Err == nil {
		t.Errorf("malformed body error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	client := NewClient(Config{BaseURL: server.URL})
	client.httpClient.SetQueryParam("slow", "1")
	_, err = client.CreateMessage(ctx, llm.Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("timeout error = %v, want context.DeadlineExceeded", err)
	}
	if !llm.Classify(err).IsRetryable() {
		t.Error("timeouts must be retryable")
	}
}
