package routes

import (
	"clementus360/doit/handlers"
	"clementus360/doit/middleware"
	"clementus360/doit/types"
	"net/http"
)

// RegisterAllRoutes registers all application routes. current reports the
// signed-in identity for routes that require one.
func RegisterAllRoutes(mux *http.ServeMux, h *handlers.Handler, current func() *types.Identity) {
	RegisterTaskRoutes(mux, h)
	RegisterCategoryRoutes(mux, h)
	RegisterAuthRoutes(mux, h)
	RegisterReportRoutes(mux, h, current)
	RegisterEventRoutes(mux, h)
}

// NewRouter builds the full HTTP handler with the standard middleware.
func NewRouter(h *handlers.Handler, current func() *types.Identity) http.Handler {
	mux := http.NewServeMux()
	RegisterAllRoutes(mux, h, current)

	return middleware.Chain(
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)(mux)
}
