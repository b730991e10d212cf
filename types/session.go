package types

import "time"

// Identity is an authenticated user session used to scope remote data.
type Identity struct {
	UserID       string    `json:"user_id"`
	Email        string    `json:"email,omitempty"`
	AccessToken  string    `json:"-"`
	RefreshToken string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at,omitempty"`
}

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	Success       bool      `json:"success"`
	Authenticated bool      `json:"authenticated"`
	Identity      *Identity `json:"identity,omitempty"`
	Message       string    `json:"message,omitempty"`
	ErrorMessage  string    `json:"error,omitempty"`
}

type OAuthResponse struct {
	Success      bool   `json:"success"`
	URL          string `json:"url,omitempty"`
	ErrorMessage string `json:"error,omitempty"`
}
