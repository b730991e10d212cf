package handlers

import (
	"clementus360/doit/supabase"
	"clementus360/doit/types"
	"encoding/json"
	"errors"
	"net/http"
)

const authUnavailable = "Sign-in is not configured"

func (h *Handler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	ident := h.store.Snapshot().Identity
	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success:       true,
		Authenticated: ident != nil,
		Identity:      ident,
	})
}

func (h *Handler) decodeCredentials(w http.ResponseWriter, r *http.Request) (types.Credentials, bool) {
	var creds types.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		h.log.Error("Failed to decode credentials JSON:", err)
		writeError(w, "Invalid JSON body", http.StatusBadRequest)
		return creds, false
	}
	if creds.Email == "" || creds.Password == "" {
		writeError(w, "Email and password are required", http.StatusBadRequest)
		return creds, false
	}
	return creds, true
}

func (h *Handler) SignInHandler(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, authUnavailable, http.StatusServiceUnavailable)
		return
	}
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	ident, err := h.sessions.SignIn(r.Context(), creds.Email, creds.Password)
	if err != nil {
		h.log.WithError(err).Warn("Sign in failed")
		writeError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success:       true,
		Authenticated: true,
		Identity:      ident,
	})
}

func (h *Handler) SignUpHandler(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, authUnavailable, http.StatusServiceUnavailable)
		return
	}
	creds, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	ident, err := h.sessions.SignUp(r.Context(), creds.Email, creds.Password)
	switch {
	case errors.Is(err, supabase.ErrConfirmationRequired):
		writeJSON(w, http.StatusAccepted, types.SessionResponse{
			Success: true,
			Message: err.Error(),
		})
		return
	case err != nil:
		h.log.WithError(err).Warn("Sign up failed")
		writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusCreated, types.SessionResponse{
		Success:       true,
		Authenticated: true,
		Identity:      ident,
	})
}

func (h *Handler) SignOutHandler(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, authUnavailable, http.StatusServiceUnavailable)
		return
	}

	// the local session is gone either way, so a server error is only logged
	if err := h.sessions.SignOut(r.Context()); err != nil {
		h.log.WithError(err).Warn("Sign out reported an error")
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success: true,
		Message: "Signed out",
	})
}

func (h *Handler) OAuthHandler(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, authUnavailable, http.StatusServiceUnavailable)
		return
	}

	provider := r.URL.Query().Get("provider")
	if provider == "" {
		writeError(w, "Missing provider", http.StatusBadRequest)
		return
	}

	url, err := h.sessions.OAuthURL(provider)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, supabase.ErrUnsupportedProvider) {
			status = http.StatusBadRequest
		}
		h.log.WithError(err).Warn("OAuth start failed")
		writeJSON(w, status, types.OAuthResponse{ErrorMessage: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, types.OAuthResponse{
		Success: true,
		URL:     url,
	})
}

func (h *Handler) OAuthCallbackHandler(w http.ResponseWriter, r *http.Request) {
	if h.sessions == nil {
		writeError(w, authUnavailable, http.StatusServiceUnavailable)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, "Missing code", http.StatusBadRequest)
		return
	}

	ident, err := h.sessions.ExchangeCode(r.Context(), code)
	if err != nil {
		h.log.WithError(err).Warn("OAuth callback failed")
		writeError(w, err.Error(), http.StatusUnauthorized)
		return
	}

	writeJSON(w, http.StatusOK, types.SessionResponse{
		Success:       true,
		Authenticated: true,
		Identity:      ident,
	})
}
