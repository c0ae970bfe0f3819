package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns otelgin followed by a handler that tags the server span
// with the request id and caller identity once the rest of the chain has run.
// otelgin ends its span on return, so the tagging has to live inside the chain.
func Tracing(serviceName string, enabled bool) gin.HandlersChain {
	if !enabled {
		return nil
	}
	return gin.HandlersChain{otelgin.Middleware(serviceName), enrichSpan}
}

func enrichSpan(c *gin.Context) {
	span := trace.SpanFromContext(c.Request.Context())
	c.Next()
	if !span.IsRecording() {
		return
	}

	if id := GetRequestID(c); id != "" {
		span.SetAttributes(attribute.String("request_id", id))
	}
	if caller, ok := GetCaller(c); ok {
		span.SetAttributes(
			attribute.String("tenant_id", caller.TenantID.String()),
			attribute.String("organization_id", caller.OrganizationID.String()),
			attribute.String("user_id", caller.UserID.String()),
		)
	}
	if status := c.Writer.Status(); status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}
