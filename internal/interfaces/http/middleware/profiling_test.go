package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestProfiling_LabelsRequestContext(t *testing.T) {
	var route, method string
	router := gin.New()
	router.Use(Profiling(true))
	router.GET("/invoices/download/:id", func(c *gin.Context) {
		route, _ = pprof.Label(c.Request.Context(), "route")
		method, _ = pprof.Label(c.Request.Context(), "method")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/invoices/download/7", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/invoices/download/:id", route)
	assert.Equal(t, http.MethodGet, method)
}

func TestProfiling_Disabled(t *testing.T) {
	router := gin.New()
	router.Use(Profiling(false))
	router.GET("/", func(c *gin.Context) {
		_, ok := pprof.Label(c.Request.Context(), "route")
		assert.False(t, ok)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
