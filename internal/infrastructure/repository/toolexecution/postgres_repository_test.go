package toolexecution

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/janhq/commerce-api/internal/domain/tool"
	"github.com/janhq/commerce-api/internal/infrastructure/database/databasetest"
)

func TestRepository_SaveExecutions(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(databasetest.Open(t))

	executions := []tool.Execution{
		{
			TenantID: "t1", ConversationID: "conv-1", MessageID: "m1", CallID: "call_1", ToolName: tool.GetCart,
			Arguments: json.RawMessage(`{}`), Result: tool.Result{Success: true, Data: map[string]int{"items": 0}},
			Outcome: tool.OutcomeSuccess, ExecutionOrder: 1, Duration: 12 * time.Millisecond,
		},
		{
			TenantID: "t1", ConversationID: "conv-1", MessageID: "m1", CallID: "call_2", ToolName: tool.ShowProduct,
			Arguments: json.RawMessage(`not json`), Result: tool.Result{Error: "invalid arguments"},
			Outcome: tool.OutcomeInvalid, ExecutionOrder: 2,
		},
	}
	require.NoError(t, repo.SaveExecutions(ctx, executions))
	require.NoError(t, repo.SaveExecutions(ctx, nil))
	assert.NotEmpty(t, executions[0].ID)

	rows, err := repo.ListByConversation(ctx, "t1", "conv-1")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "call_1", rows[0].CallID)
	assert.Equal(t, int64(12), rows[0].DurationMS)
	assert.JSONEq(t, `{"success":true,"data":{"items":0}}`, string(rows[0].Result))
	assert.JSONEq(t, `"not json"`, string(rows[1].Arguments))
	assert.Equal(t, "invalid arguments", rows[1].ErrorMessage)
	assert.Equal(t, tool.OutcomeInvalid, rows[1].Status)
}
