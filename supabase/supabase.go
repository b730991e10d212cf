package supabase

import (
	"errors"
	"fmt"
	"sync"

	"github.com/supabase-community/supabase-go"
)

// ErrNotSignedIn is returned when a remote call is made without an access token.
var ErrNotSignedIn = errors.New("not signed in")

// userClients hands out clients that act as a signed-in user, so row level
// security applies to every request. The last client is reused while the
// access token stays the same.
type userClients struct {
	apiURL string
	apiKey string

	mu     sync.Mutex
	token  string
	client *supabase.Client
}

func (u *userClients) forToken(accessToken string) (*supabase.Client, error) {
	if accessToken == "" {
		return nil, ErrNotSignedIn
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	if u.client != nil && u.token == accessToken {
		return u.client, nil
	}

	client, err := supabase.NewClient(u.apiURL, u.apiKey, &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + accessToken,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Supabase client: %w", err)
	}

	u.token = accessToken
	u.client = client
	return client, nil
}
