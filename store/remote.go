package store

import (
	"clementus360/doit/types"
	"context"
)

// Remote is the hosted persistence the store mirrors into while a user is
// signed in. Every call is scoped to the given identity.
type Remote interface {
	// ListTasks returns the user's tasks ordered by position ascending.
	ListTasks(ctx context.Context, ident types.Identity) ([]types.Task, error)
	// InsertTask persists a new task and returns it with the assigned id.
	InsertTask(ctx context.Context, ident types.Identity, task types.Task) (types.Task, error)
	UpdateTask(ctx context.Context, ident types.Identity, id string, fields map[string]any) error
	DeleteTask(ctx context.Context, ident types.Identity, id string) error
	DeleteCompletedTasks(ctx context.Context, ident types.Identity) error
	// UpsertTasks overwrites every given record in one call.
	UpsertTasks(ctx context.Context, ident types.Identity, tasks []types.Task) error

	ListCategories(ctx context.Context, ident types.Identity) ([]string, error)
	InsertCategory(ctx context.Context, ident types.Identity, name string) error
	DeleteCategory(ctx context.Context, ident types.Identity, name string) error
}

// SessionSource resolves the current identity and reports sign-in/out.
type SessionSource interface {
	// Current returns the signed-in identity, or nil in guest mode.
	Current() *types.Identity
	// OnChange registers fn to run after every sign-in or sign-out and
	// returns a function that removes it.
	OnChange(fn func(*types.Identity)) func()
}

// Celebrator is notified when a task becomes completed.
type Celebrator interface {
	Fire()
}
