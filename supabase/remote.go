package supabase

import (
	"clementus360/doit/types"
	"context"
	"fmt"

	"github.com/supabase-community/supabase-go"
)

const (
	tasksTable      = "tasks"
	categoriesTable = "categories"
)

// Remote stores tasks and categories in the project's PostgREST API. It
// implements store.Remote.
type Remote struct {
	clients *userClients
}

func NewRemote(apiURL, apiKey string) (*Remote, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}
	return &Remote{clients: &userClients{apiURL: apiURL, apiKey: apiKey}}, nil
}

func (r *Remote) clientFor(ctx context.Context, ident types.Identity) (*supabase.Client, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if ident.UserID == "" {
		return nil, ErrNotSignedIn
	}
	return r.clients.forToken(ident.AccessToken)
}
