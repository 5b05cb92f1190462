package entities

import (
	"time"

	"github.com/janhq/commerce-api/internal/domain/agent"
)

// Agent is the database row of an assistant persona.
type Agent struct {
	ID               string    `gorm:"type:varchar(36);primaryKey"`
	TenantID         string    `gorm:"type:varchar(64);index;not null"`
	Name             string    `gorm:"type:varchar(128);not null"`
	BaseInstructions string    `gorm:"type:text"`
	Personality      string    `gorm:"type:text"`
	Tone             string    `gorm:"type:varchar(20);not null;default:'neutral'"`
	Language         string    `gorm:"type:varchar(16);not null;default:'es'"`
	UseEmojis        bool      `gorm:"not null;default:false"`
	Active           bool      `gorm:"not null;default:true"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

// TableName specifies the table name for Agent.
func (Agent) TableName() string {
	return "agents"
}

// EtoD converts the row to the domain model.
func (a *Agent) EtoD() *agent.Agent {
	return &agent.Agent{
		ID:               a.ID,
		TenantID:         a.TenantID,
		Name:             a.Name,
		BaseInstructions: a.BaseInstructions,
		Personality:      a.Personality,
		Tone:             agent.Tone(a.Tone),
		Language:         a.Language,
		UseEmojis:        a.UseEmojis,
		Active:           a.Active,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}

// NewSchemaAgent creates a row from the domain model.
func NewSchemaAgent(a *agent.Agent) *Agent {
	return &Agent{
		ID:               a.ID,
		TenantID:         a.TenantID,
		Name:             a.Name,
		BaseInstructions: a.BaseInstructions,
		Personality:      a.Personality,
		Tone:             string(a.Tone),
		Language:         a.Language,
		UseEmojis:        a.UseEmojis,
		Active:           a.Active,
		CreatedAt:        a.CreatedAt,
		UpdatedAt:        a.UpdatedAt,
	}
}
