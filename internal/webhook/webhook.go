package webhook

import "time"

// EventEscalationRequested is sent when the assistant hands a conversation to a human.
const EventEscalationRequested = "conversation.escalation_requested"

// Payload is the structure sent to the escalation webhook.
type Payload struct {
	Event          string `json:"event"`
	TenantID       string `json:"tenant_id"`
	ConversationID string `json:"conversation_id"`
	CustomerID     string `json:"customer_id,omitempty"`
	Reason         string `json:"reason"`
	Priority       string `json:"priority"`
	RequestedAt    string `json:"requested_at"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339)
}
