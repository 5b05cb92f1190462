package llm

import (
	"context"
	"encoding/json"
)

// Provider performs a single call to the Messages API. Retries belong to Gateway.
type Provider interface {
	CreateMessage(ctx context.Context, req Request) (*Response, error)
}

// Role of a message author.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Request mirrors the Messages API request body.
type Request struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []Message        `json:"messages"`
	Tools     []ToolDefinition `json:"tools,omitempty"`
}

// Message is one turn of the conversation sent to the model.
type Message struct {
	Role    Role           `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is the union of text, tool_use and tool_result blocks.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// ToolDefinition declares a tool the model may call.
type ToolDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Response captures the Messages API response.
type Response struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       Role           `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      *Usage         `json:"usage,omitempty"`
}

// Usage contains token accounting metadata.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// ToolCall is a tool_use block lifted out of a response.
type ToolCall struct {
	ID    string
	Name  string
	Input json.RawMessage
}

// TextMessage builds a single text block message.
func TextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{{Type: BlockText, Text: text}}}
}

// ToolResultBlock builds the tool_result block answering callID.
func ToolResultBlock(callID, content string, isError bool) ContentBlock {
	return ContentBlock{
		Type:      BlockToolResult,
		ToolUseID: callID,
		Content:   content,
		IsError:   isError,
	}
}

// Texts returns the text blocks of the response, in order.
func (r *Response) Texts() []string {
	var texts []string
	for _, block := range r.Content {
		if block.Type == BlockText {
			texts = append(texts, block.Text)
		}
	}
	return texts
}

// ToolCalls returns the tool_use blocks of the response, in emission order.
func (r *Response) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, block := range r.Content {
		if block.Type == BlockToolUse {
			calls = append(calls, ToolCall{ID: block.ID, Name: block.Name, Input: block.Input})
		}
	}
	return calls
}

// AssistantMessage echoes the response back as history for the next request.
func (r *Response) AssistantMessage() Message {
	content := make([]ContentBlock, len(r.Content))
	copy(content, r.Content)
	for i := range content {
		if content[i].Type == BlockToolUse && len(content[i].Input) == 0 {
			content[i].Input = json.RawMessage(`{}`)
		}
	}
	return Message{Role: RoleAssistant, Content: content}
}
