package router

import (
	"github.com/ever-co/invoicing/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouteRegistrar mounts a handler's routes on a group
type RouteRegistrar interface {
	RegisterRoutes(r gin.IRouter)
}

// Router mounts registrars in three tiers: the engine root, the public API
// group and the authenticated API group.
type Router struct {
	engine      *gin.Engine
	apiVersion  string
	publicMW    []gin.HandlerFunc
	protectedMW []gin.HandlerFunc
	root        []RouteRegistrar
	public      []RouteRegistrar
	protected   []RouteRegistrar
	swagger     *middleware.SwaggerConfig
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithPublicMiddleware adds middleware to the unauthenticated API group
func WithPublicMiddleware(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.publicMW = append(r.publicMW, mw...)
	}
}

// WithAuth adds middleware to the authenticated API group. The first handler
// is expected to establish the caller.
func WithAuth(mw ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.protectedMW = append(r.protectedMW, mw...)
	}
}

// WithSwagger serves the API docs at /swagger behind cfg
func WithSwagger(cfg middleware.SwaggerConfig) RouterOption {
	return func(r *Router) {
		r.swagger = &cfg
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root adds registrars mounted on the engine itself, outside /api
func (r *Router) Root(registrars ...RouteRegistrar) *Router {
	r.root = append(r.root, registrars...)
	return r
}

// Public adds registrars that need no authentication
func (r *Router) Public(registrars ...RouteRegistrar) *Router {
	r.public = append(r.public, registrars...)
	return r
}

// Protected adds registrars behind the auth middleware
func (r *Router) Protected(registrars ...RouteRegistrar) *Router {
	r.protected = append(r.protected, registrars...)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	for _, registrar := range r.root {
		registrar.RegisterRoutes(r.engine)
	}

	if r.swagger != nil {
		r.engine.GET("/swagger/*any",
			middleware.SwaggerProtection(*r.swagger),
			ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.engine.Group("/api/" + r.apiVersion)

	public := api.Group("")
	public.Use(r.publicMW...)
	for _, registrar := range r.public {
		registrar.RegisterRoutes(public)
	}

	protected := api.Group("")
	protected.Use(r.protectedMW...)
	for _, registrar := range r.protected {
		registrar.RegisterRoutes(protected)
	}
}
