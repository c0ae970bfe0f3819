package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/ever-co/invoicing/internal/domain/invoice"
	"github.com/ever-co/invoicing/internal/interfaces/http/dto"
	"github.com/ever-co/invoicing/internal/interfaces/http/middleware"
	"github.com/ever-co/invoicing/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var validatorOnce sync.Once

func init() {
	gin.SetMode(gin.TestMode)
}

func testCaller(perms ...invoice.Permission) invoice.Caller {
	return testutil.Caller(perms...)
}

// newTestRouter mounts registrar under /api/v1 with caller injected in place of JWT auth.
// A zero caller leaves the request unauthenticated.
func newTestRouter(t *testing.T, caller invoice.Caller, register func(gin.IRouter)) *gin.Engine {
	t.Helper()
	validatorOnce.Do(func() { require.NoError(t, middleware.SetupValidator()) })

	r := gin.New()
	r.Use(middleware.RequestID())
	api := r.Group("/api/v1")
	if caller.TenantID != uuid.Nil {
		api.Use(func(c *gin.Context) {
			c.Set(middleware.CallerKey, caller)
			c.Next()
		})
	}
	register(api)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()
	return testutil.DecodeEnvelope(t, w)
}

func stringsReader(s string) io.Reader { return strings.NewReader(s) }
