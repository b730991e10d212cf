package supabase

import (
	"clementus360/doit/config"
	"clementus360/doit/types"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/supabase-community/gotrue-go"
	gotypes "github.com/supabase-community/gotrue-go/types"
)

var (
	// ErrConfirmationRequired means the account was created but cannot sign
	// in until the emailed confirmation link is followed.
	ErrConfirmationRequired = errors.New("check your email for the confirmation link")

	ErrUnsupportedProvider = errors.New("unsupported OAuth provider")
	ErrNoPendingOAuth      = errors.New("no OAuth sign-in in progress")
	ErrMissingCredentials  = errors.New("email and password are required")
)

var oauthProviders = map[string]gotypes.Provider{
	"google": gotypes.ProviderGoogle,
	"github": gotypes.ProviderGitHub,
}

// Gateway tracks the current session against Supabase Auth and notifies
// listeners on every sign-in and sign-out.
type Gateway struct {
	auth gotrue.Client
	log  *logrus.Entry

	mu        sync.Mutex
	current   *types.Identity
	verifier  string
	listeners map[int]func(*types.Identity)
	next      int
}

// NewGateway talks to the auth endpoint of the project at apiURL.
func NewGateway(apiURL, apiKey string) (*Gateway, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}
	authURL := strings.TrimSuffix(apiURL, "/") + "/auth/v1"
	return NewGatewayWithAuth(gotrue.New("", apiKey).WithCustomGoTrueURL(authURL)), nil
}

func NewGatewayWithAuth(auth gotrue.Client) *Gateway {
	return &Gateway{
		auth:      auth,
		log:       config.Component("auth"),
		listeners: make(map[int]func(*types.Identity)),
	}
}

// Current returns a copy of the signed-in identity, or nil.
func (g *Gateway) Current() *types.Identity {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.current == nil {
		return nil
	}
	cp := *g.current
	return &cp
}

func (g *Gateway) OnChange(fn func(*types.Identity)) func() {
	g.mu.Lock()
	defer g.mu.Unlock()

	id := g.next
	g.next++
	g.listeners[id] = fn

	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.listeners, id)
	}
}

func (g *Gateway) setCurrent(ident *types.Identity) {
	g.mu.Lock()
	g.current = ident
	fns := make([]func(*types.Identity), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.mu.Unlock()

	for _, fn := range fns {
		if ident == nil {
			fn(nil)
			continue
		}
		cp := *ident
		fn(&cp)
	}
}

func (g *Gateway) SignIn(ctx context.Context, email, password string) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := g.auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in failed: %w", err)
	}
	return g.adopt(resp.Session)
}

// SignUp creates an account. When the project requires email confirmation
// no session is returned and ErrConfirmationRequired is reported instead.
func (g *Gateway) SignUp(ctx context.Context, email, password string) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	resp, err := g.auth.Signup(gotypes.SignupRequest{Email: email, Password: password})
	if err != nil {
		return nil, fmt.Errorf("sign up failed: %w", err)
	}
	if resp.AccessToken == "" {
		g.log.WithField("email", email).Info("Account created, waiting for email confirmation")
		return nil, ErrConfirmationRequired
	}
	return g.adopt(resp.Session)
}

// SignOut ends the session. The local session is dropped even if the
// server call fails.
func (g *Gateway) SignOut(ctx context.Context) error {
	cur := g.Current()
	if cur == nil {
		return nil
	}

	var err error
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = ctxErr
	} else if logoutErr := g.auth.WithToken(cur.AccessToken).Logout(); logoutErr != nil {
		err = fmt.Errorf("sign out failed: %w", logoutErr)
	}
	if err != nil {
		g.log.WithError(err).Warn("Server sign out failed, clearing local session")
	}

	g.setCurrent(nil)
	return err
}

// OAuthURL starts a PKCE sign-in with provider and returns the URL the user
// should open. The verifier is kept until ExchangeCode.
func (g *Gateway) OAuthURL(provider string) (string, error) {
	p, ok := oauthProviders[strings.ToLower(provider)]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	resp, err := g.auth.Authorize(gotypes.AuthorizeRequest{
		Provider: p,
		FlowType: gotypes.FlowPKCE,
	})
	if err != nil {
		return "", fmt.Errorf("failed to start OAuth sign-in: %w", err)
	}

	g.mu.Lock()
	g.verifier = resp.Verifier
	g.mu.Unlock()

	return resp.AuthorizationURL, nil
}

// ExchangeCode finishes the sign-in started by OAuthURL.
func (g *Gateway) ExchangeCode(ctx context.Context, code string) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	verifier := g.verifier
	g.verifier = ""
	g.mu.Unlock()

	if verifier == "" {
		return nil, ErrNoPendingOAuth
	}

	resp, err := g.auth.Token(gotypes.TokenRequest{
		GrantType:    "pkce",
		Code:         code,
		CodeVerifier: verifier,
	})
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}
	return g.adopt(resp.Session)
}

// Restore resumes a session from a refresh token saved earlier.
func (g *Gateway) Restore(ctx context.Context, refreshToken string) (*types.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is empty")
	}

	resp, err := g.auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("session restore failed: %w", err)
	}
	return g.adopt(resp.Session)
}

func (g *Gateway) adopt(sess gotypes.Session) (*types.Identity, error) {
	ident, err := identityFromSession(sess)
	if err != nil {
		return nil, err
	}
	g.log.WithField("user_id", ident.UserID).Info("Signed in")
	g.setCurrent(ident)

	cp := *ident
	return &cp, nil
}

func identityFromSession(sess gotypes.Session) (*types.Identity, error) {
	if sess.AccessToken == "" {
		return nil, fmt.Errorf("session has no access token")
	}

	userID := ""
	if sess.User.ID != uuid.Nil {
		userID = sess.User.ID.String()
	} else {
		sub, err := SubjectFromToken(sess.AccessToken)
		if err != nil {
			return nil, err
		}
		userID = sub
	}

	ident := &types.Identity{
		UserID:       userID,
		Email:        sess.User.Email,
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
	}
	switch {
	case sess.ExpiresAt > 0:
		ident.ExpiresAt = time.Unix(sess.ExpiresAt, 0)
	case sess.ExpiresIn > 0:
		ident.ExpiresAt = time.Now().Add(time.Duration(sess.ExpiresIn) * time.Second)
	}
	return ident, nil
}
