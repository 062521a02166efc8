package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns OpenTelemetry tracing middleware. Spans are named
// "METHOD route_pattern" and error responses are marked with an error
// status.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	return otelgin.Middleware(serviceName)
}

// TracingEnrichment annotates the server span with the request ID and,
// for error responses, an error status. It must be registered after
// Tracing so it runs before the span ends.
func TracingEnrichment() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := c.GetString(RequestIDHeader); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			span.SetStatus(codes.Error, http.StatusText(status))
			span.SetAttributes(attribute.Int("http.status_code", status))
		}
	}
}

// TracingActorInjector adds the authenticated actor to the current
// span. Place after the JWT middleware.
func TracingActorInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if actor, ok := GetActor(c); ok {
				span.SetAttributes(
					attribute.String("member_id", actor.MemberID.String()),
					attribute.String("house_id", actor.HouseID.String()),
				)
			}
		}
		c.Next()
	}
}
