package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestTracing_Disabled(t *testing.T) {
	assert.Empty(t, Tracing("invoicing", false))
}

func TestTracing_EnrichesServerSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	caller := invoice.Caller{TenantID: uuid.New(), OrganizationID: uuid.New(), UserID: uuid.New()}
	router := gin.New()
	router.Use(RequestID())
	router.Use(Tracing("invoicing", true)...)
	router.GET("/invoices/:id", withCaller(caller), func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/invoices/42", nil)
	req.Header.Set(RequestIDHeader, "req-trace")
	router.ServeHTTP(w, req)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	attrs := map[attribute.Key]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "req-trace", attrs["request_id"])
	assert.Equal(t, caller.TenantID.String(), attrs["tenant_id"])
	assert.Equal(t, caller.UserID.String(), attrs["user_id"])
	assert.Equal(t, codes.Error, spans[0].Status().Code)
}
