package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/janhq/commerce-api"

// GetTracer returns the tracer for spans opened at the service edge.
func GetTracer() trace.Tracer {
	return otel.Tracer(tracerName)
}
