package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.NotNil(t, r)
	assert.Equal(t, "v1", r.apiVersion)
	assert.Empty(t, r.api)
	assert.Empty(t, r.root)
}

func TestRouterWithAPIVersion(t *testing.T) {
	r := NewRouter(gin.New(), WithAPIVersion("v2"))
	assert.Equal(t, "v2", r.apiVersion)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	pong := func(c *gin.Context) { c.String(http.StatusOK, "pong") }
	r.Register(NewRouteGroup("/test").GET("/ping", pong))
	r.RegisterRoot(NewRouteGroup("/hooks").POST("", pong))
	r.Setup()

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/test/ping"},
		{http.MethodPost, "/hooks"},
	} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusOK, w.Code, tc.path)
		assert.Equal(t, "pong", w.Body.String())
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test/ping", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouteGroup_MiddlewareAndSubgroups(t *testing.T) {
	engine := gin.New()
	var order []string
	mark := func(name string) gin.HandlerFunc {
		return func(c *gin.Context) {
			order = append(order, name)
			c.Next()
		}
	}

	group := NewRouteGroup("/webhooks").Use(mark("group"))
	group.Group("/compliance").Use(mark("sub")).
		POST("/shop-redact", func(c *gin.Context) { c.Status(http.StatusOK) })

	NewRouter(engine).RegisterRoot(group).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/compliance/shop-redact", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"group", "sub"}, order)

	order = nil
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/webhooks/compliance/shop-redact", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, order, "group middleware does not run for unmatched routes")
}
