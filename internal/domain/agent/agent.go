package agent

import (
	"context"
	"time"
)

// Tone selects how the assistant addresses the shopper.
type Tone string

const (
	ToneFormal   Tone = "formal"
	ToneFriendly Tone = "friendly"
	ToneNeutral  Tone = "neutral"
)

// Agent is the per-tenant persona of the shopping assistant.
type Agent struct {
	ID               string
	TenantID         string
	Name             string
	BaseInstructions string
	Personality      string
	Tone             Tone
	Language         string
	UseEmojis        bool
	Active           bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Repository reads agents.
type Repository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Agent, error)
}
