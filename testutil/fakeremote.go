// Package testutil provides in-memory fakes of the external collaborators.
package testutil

import (
	"clementus360/doit/types"
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"
)

// ErrRemoteDown is a convenient error to inject into FakeRemote.
var ErrRemoteDown = errors.New("remote unavailable")

// Call records one method invocation on FakeRemote.
type Call struct {
	Method string
	UserID string
	Arg    string
}

// FakeRemote is an in-memory implementation of store.Remote. Data is kept
// per user id so cross-user leaks show up in tests.
type FakeRemote struct {
	mu         sync.Mutex
	tasks      map[string][]types.Task // userID -> tasks
	categories map[string][]string
	nextID     int
	calls      []Call

	// InsertDelay holds every InsertTask call before it touches the data,
	// so concurrent inserts overlap.
	InsertDelay time.Duration

	// Error injection
	ListTasksErr      error
	InsertTaskErr     error
	UpdateTaskErr     error
	DeleteTaskErr     error
	DeleteCompleteErr error
	UpsertTasksErr    error
	ListCategoriesErr error
	InsertCategoryErr error
	DeleteCategoryErr error
}

func NewFakeRemote() *FakeRemote {
	return &FakeRemote{
		tasks:      make(map[string][]types.Task),
		categories: make(map[string][]string),
	}
}

// AddTask stores a task for userID, keeping whatever id and position it has.
func (f *FakeRemote) AddTask(userID string, t types.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[userID] = append(f.tasks[userID], t)
}

// AddCategory stores a category name for userID.
func (f *FakeRemote) AddCategory(userID, name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categories[userID] = append(f.categories[userID], name)
}

// Tasks returns the stored tasks of userID ordered by position.
func (f *FakeRemote) Tasks(userID string) []types.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sortedLocked(userID)
}

func (f *FakeRemote) CategoryNames(userID string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.categories[userID])
}

// Calls returns every recorded call in order.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls)
}

// Methods returns the method names of every recorded call in order.
func (f *FakeRemote) Methods() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.Method
	}
	return names
}

func (f *FakeRemote) record(method string, ident types.Identity, arg string) {
	f.calls = append(f.calls, Call{Method: method, UserID: ident.UserID, Arg: arg})
}

func (f *FakeRemote) sortedLocked(userID string) []types.Task {
	out := slices.Clone(f.tasks[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (f *FakeRemote) ListTasks(ctx context.Context, ident types.Identity) ([]types.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks", ident, "")
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.sortedLocked(ident.UserID), nil
}

func (f *FakeRemote) InsertTask(ctx context.Context, ident types.Identity, task types.Task) (types.Task, error) {
	if f.InsertDelay > 0 {
		select {
		case <-time.After(f.InsertDelay):
		case <-ctx.Done():
			return types.Task{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("InsertTask", ident, task.Text)
	if f.InsertTaskErr != nil {
		return types.Task{}, f.InsertTaskErr
	}
	f.nextID++
	task.ID = fmt.Sprintf("remote-%d", f.nextID)
	f.tasks[ident.UserID] = append(f.tasks[ident.UserID], task)
	return task, nil
}

func (f *FakeRemote) UpdateTask(ctx context.Context, ident types.Identity, id string, fields map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask", ident, id)
	if f.UpdateTaskErr != nil {
		return f.UpdateTaskErr
	}
	for i, t := range f.tasks[ident.UserID] {
		if t.ID != id {
			continue
		}
		if v, ok := fields["completed"].(bool); ok {
			f.tasks[ident.UserID][i].Completed = v
		}
		if v, ok := fields["text"].(string); ok {
			f.tasks[ident.UserID][i].Text = v
		}
		if v, ok := fields["category"].(string); ok {
			f.tasks[ident.UserID][i].Category = v
		}
		if v, ok := fields["position"].(int); ok {
			f.tasks[ident.UserID][i].Position = v
		}
	}
	return nil
}

func (f *FakeRemote) DeleteTask(ctx context.Context, ident types.Identity, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask", ident, id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.tasks[ident.UserID] = slices.DeleteFunc(f.tasks[ident.UserID], func(t types.Task) bool { return t.ID == id })
	return nil
}

func (f *FakeRemote) DeleteCompletedTasks(ctx context.Context, ident types.Identity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteCompletedTasks", ident, "")
	if f.DeleteCompleteErr != nil {
		return f.DeleteCompleteErr
	}
	f.tasks[ident.UserID] = slices.DeleteFunc(f.tasks[ident.UserID], func(t types.Task) bool { return t.Completed })
	return nil
}

func (f *FakeRemote) UpsertTasks(ctx context.Context, ident types.Identity, tasks []types.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpsertTasks", ident, fmt.Sprint(len(tasks)))
	if f.UpsertTasksErr != nil {
		return f.UpsertTasksErr
	}
	for _, t := range tasks {
		i := slices.IndexFunc(f.tasks[ident.UserID], func(existing types.Task) bool { return existing.ID == t.ID })
		if i < 0 {
			f.tasks[ident.UserID] = append(f.tasks[ident.UserID], t)
			continue
		}
		f.tasks[ident.UserID][i] = t
	}
	return nil
}

func (f *FakeRemote) ListCategories(ctx context.Context, ident types.Identity) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListCategories", ident, "")
	if f.ListCategoriesErr != nil {
		return nil, f.ListCategoriesErr
	}
	return slices.Clone(f.categories[ident.UserID]), nil
}

func (f *FakeRemote) InsertCategory(ctx context.Context, ident types.Identity, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("InsertCategory", ident, name)
	if f.InsertCategoryErr != nil {
		return f.InsertCategoryErr
	}
	f.categories[ident.UserID] = append(f.categories[ident.UserID], name)
	return nil
}

func (f *FakeRemote) DeleteCategory(ctx context.Context, ident types.Identity, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteCategory", ident, name)
	if f.DeleteCategoryErr != nil {
		return f.DeleteCategoryErr
	}
	f.categories[ident.UserID] = slices.DeleteFunc(f.categories[ident.UserID], func(n string) bool { return n == name })
	return nil
}
