package supabase

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// SubjectFromToken returns the sub claim of an access token. The signature
// is not checked here; the Supabase API verifies it on every request.
func SubjectFromToken(accessToken string) (string, error) {
	token, _, err := new(jwt.Parser).ParseUnverified(accessToken, jwt.MapClaims{})
	if err != nil {
		return "", fmt.Errorf("invalid JWT format: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid JWT claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("missing sub in token")
	}
	return sub, nil
}

// GenerateTestJWT signs a short lived user token with the project secret.
// Handy for local development against a Supabase instance and for tests.
func GenerateTestJWT(userID, secret string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"aud":  "authenticated",
		"role": "authenticated",
		"exp":  time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
