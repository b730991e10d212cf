package routes

import (
	"clementus360/doit/handlers"
	"clementus360/doit/middleware"
	"clementus360/doit/types"
	"net/http"
)

func RegisterAuthRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("GET /session", h.GetSessionHandler)
	mux.HandleFunc("POST /auth/signin", h.SignInHandler)
	mux.HandleFunc("POST /auth/signup", h.SignUpHandler)
	mux.HandleFunc("POST /auth/signout", h.SignOutHandler)
	mux.HandleFunc("GET /auth/oauth", h.OAuthHandler)
	mux.HandleFunc("GET /auth/callback", h.OAuthCallbackHandler)
}

func RegisterReportRoutes(mux *http.ServeMux, h *handlers.Handler, current func() *types.Identity) {
	mux.HandleFunc("GET /report", h.GetReportHandler)
	mux.Handle("POST /report/upload", middleware.RequireIdentity(current)(http.HandlerFunc(h.UploadReportHandler)))
}

func RegisterEventRoutes(mux *http.ServeMux, h *handlers.Handler) {
	mux.HandleFunc("GET /events", h.EventsHandler)
}
