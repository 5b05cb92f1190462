package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()

	before := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("get_cart", "success"))
	r.RecordToolCall("get_cart", "success", 0.01)
	if got := testutil.ToFloat64(ToolCallsTotal.WithLabelValues("get_cart", "success")); got != before+1 {
		t.Errorf("tool_calls_total = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(ModelCallsTotal.WithLabelValues("m", "exhausted"))
	r.RecordModelCall("m", "exhausted", 3, 4.2)
	if got := testutil.ToFloat64(ModelCallsTotal.WithLabelValues("m", "exhausted")); got != before+1 {
		t.Errorf("model_calls_total = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(TurnsTotal.WithLabelValues("completed"))
	r.RecordTurn("completed", 2, 1.5)
	if got := testutil.ToFloat64(TurnsTotal.WithLabelValues("completed")); got != before+1 {
		t.Errorf("turns_total = %v, want %v", got, before+1)
	}

	before = testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/v1/tools", "200"))
	RecordRequest("GET", "/v1/tools", 200, 0.003)
	if got := testutil.ToFloat64(RequestsTotal.WithLabelValues("GET", "/v1/tools", "200")); got != before+1 {
		t.Errorf("requests_total = %v, want %v", got, before+1)
	}
}
