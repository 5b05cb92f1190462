package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"github.com/janhq/commerce-api/internal/domain/tool"
)

// ToolExecution persists each tool invocation of a turn.
type ToolExecution struct {
	ID             string         `gorm:"type:varchar(36);primaryKey"`
	TenantID       string         `gorm:"type:varchar(64);index;not null"`
	ConversationID string         `gorm:"type:varchar(36);index;not null"`
	MessageID      string         `gorm:"type:varchar(36);index"`
	CallID         string         `gorm:"type:varchar(64)"`
	ToolName       string         `gorm:"type:varchar(64);index"`
	Arguments      datatypes.JSON `gorm:"type:jsonb"`
	Result         datatypes.JSON `gorm:"type:jsonb"`
	Status         string         `gorm:"type:varchar(32)"`
	ErrorMessage   string         `gorm:"type:text"`
	ExecutionOrder int
	DurationMS     int64
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// TableName specifies the table name for ToolExecution.
func (ToolExecution) TableName() string {
	return "tool_executions"
}

// NewSchemaToolExecution creates a row from an execution record.
func NewSchemaToolExecution(e *tool.Execution) *ToolExecution {
	row := &ToolExecution{
		ID:             e.ID,
		TenantID:       e.TenantID,
		ConversationID: e.ConversationID,
		MessageID:      e.MessageID,
		CallID:         e.CallID,
		ToolName:       e.ToolName,
		Result:         datatypes.JSON(e.Result.JSON()),
		Status:         e.Outcome,
		ErrorMessage:   e.Result.Error,
		ExecutionOrder: e.ExecutionOrder,
		DurationMS:     e.Duration.Milliseconds(),
		CreatedAt:      e.CreatedAt,
	}
	if json.Valid(e.Arguments) {
		row.Arguments = datatypes.JSON(e.Arguments)
	} else if raw, err := json.Marshal(string(e.Arguments)); err == nil {
		row.Arguments = datatypes.JSON(raw)
	}
	return row
}
