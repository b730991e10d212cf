package handlers

import (
	"bufio"
	"bytes"
	"clementus360/doit/celebrate"
	"clementus360/doit/store"
	"clementus360/doit/supabase"
	"clementus360/doit/testutil"
	"clementus360/doit/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("local-%d", n)
	}
}

// fakeSessions signs in without a network and notifies the store through
// the embedded FakeSession.
type fakeSessions struct {
	*testutil.FakeSession

	ident     *types.Identity
	signInErr error
	signUpErr error
	oauthErr  error
	verifier  bool
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{
		FakeSession: testutil.NewFakeSession(),
		ident:       &types.Identity{UserID: "user-bob", Email: "bob@example.com", AccessToken: "secret-token"},
	}
}

func (f *fakeSessions) SignIn(ctx context.Context, email, password string) (*types.Identity, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	f.Set(f.ident)
	cp := *f.ident
	return &cp, nil
}

func (f *fakeSessions) SignUp(ctx context.Context, email, password string) (*types.Identity, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.SignIn(ctx, email, password)
}

func (f *fakeSessions) SignOut(ctx context.Context) error {
	f.Set(nil)
	return nil
}

func (f *fakeSessions) OAuthURL(provider string) (string, error) {
	if f.oauthErr != nil {
		return "", f.oauthErr
	}
	if provider != "google" && provider != "github" {
		return "", supabase.ErrUnsupportedProvider
	}
	f.verifier = true
	return "https://auth.example/authorize?provider=" + provider, nil
}

func (f *fakeSessions) ExchangeCode(ctx context.Context, code string) (*types.Identity, error) {
	if !f.verifier {
		return nil, supabase.ErrNoPendingOAuth
	}
	f.verifier = false
	return f.SignIn(ctx, "", "")
}

type fakeUploader struct {
	err   error
	ident types.Identity
	data  []byte
}

func (f *fakeUploader) Upload(ctx context.Context, ident types.Identity, r io.Reader) (string, string, error) {
	f.ident = ident
	f.data, _ = io.ReadAll(r)
	if f.err != nil {
		return "", "", f.err
	}
	return ident.UserID + "/report.pdf", "https://files.example/signed", nil
}

type env struct {
	h        *Handler
	store    *store.Store
	remote   *testutil.FakeRemote
	sessions *fakeSessions
	uploader *fakeUploader
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		remote:   testutil.NewFakeRemote(),
		sessions: newFakeSessions(),
		uploader: &fakeUploader{},
	}
	e.store = store.New(e.remote, store.WithIDGenerator(sequentialIDs()))
	t.Cleanup(e.store.Attach(context.Background(), e.sessions))
	e.h = New(Deps{
		Store:    e.store,
		Sessions: e.sessions,
		Uploader: e.uploader,
	})
	return e
}

func call(fn http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestGetTasks(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.GetTasksHandler, http.MethodGet, "/tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[types.GetTasksResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, 2, resp.Total)

	rec = call(e.h.GetTasksHandler, http.MethodGet, "/tasks?search=EXPLORE", "")
	resp = decode[types.GetTasksResponse](t, rec)
	require.Len(t, resp.Tasks, 1)
	assert.Equal(t, "Explore the DoIt dashboard", resp.Tasks[0].Text)

	rec = call(e.h.GetTasksHandler, http.MethodGet, "/tasks?category=Work", "")
	assert.Contains(t, rec.Body.String(), `"tasks":[]`)
}

func TestCreateTask(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.CreateTaskHandler, http.MethodPost, "/tasks/create", `{"text":"Ship it","category":"Work"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[types.TaskResponse](t, rec)
	assert.Equal(t, "Ship it", resp.Task.Text)
	assert.Equal(t, 2, resp.Task.Position)

	assert.Len(t, e.store.Snapshot().Tasks, 3)
}

func TestCreateTaskRejected(t *testing.T) {
	e := newEnv(t)

	for name, body := range map[string]string{
		"blank text":       `{"text":"   "}`,
		"unknown category": `{"text":"x","category":"Nope"}`,
		"bad json":         `{"text":`,
	} {
		t.Run(name, func(t *testing.T) {
			rec := call(e.h.CreateTaskHandler, http.MethodPost, "/tasks/create", body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.False(t, decode[types.MessageResponse](t, rec).Success)
		})
	}
	assert.Len(t, e.store.Snapshot().Tasks, 2)
}

func TestToggleTask(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.ToggleTaskHandler, http.MethodPatch, "/tasks/toggle", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e.h.ToggleTaskHandler, http.MethodPatch, "/tasks/toggle?id=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(e.h.ToggleTaskHandler, http.MethodPatch, "/tasks/toggle?id=local-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, e.store.Snapshot().Tasks[0].Completed)
}

func TestDeleteTask(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.DeleteTaskHandler, http.MethodDelete, "/tasks/delete?id=nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(e.h.DeleteTaskHandler, http.MethodDelete, "/tasks/delete?id=local-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	tasks := e.store.Snapshot().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "local-2", tasks[0].ID)
}

func TestReorderTasks(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.ReorderTasksHandler, http.MethodPut, "/tasks/reorder", `{"ids":["local-1"]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e.h.ReorderTasksHandler, http.MethodPut, "/tasks/reorder", `{"ids":["local-2","local-1"]}`)
	require.Equal(t, http.StatusOK, rec.Code)

	tasks := e.store.Snapshot().Tasks
	assert.Equal(t, "local-2", tasks[0].ID)
	assert.Equal(t, 0, tasks[0].Position)
}

func TestClearCompleted(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.ClearCompletedHandler, http.MethodDelete, "/tasks/completed", "")
	require.Equal(t, http.StatusOK, rec.Code)

	tasks := e.store.Snapshot().Tasks
	require.Len(t, tasks, 1)
	assert.False(t, tasks[0].Completed)
}

func TestCategories(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.GetCategoriesHandler, http.MethodGet, "/categories", "")
	assert.Equal(t, []string{"Personal", "Work", "Urgent"}, decode[types.GetCategoriesResponse](t, rec).Categories)

	rec = call(e.h.CreateCategoryHandler, http.MethodPost, "/categories/create", `{"name":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e.h.CreateCategoryHandler, http.MethodPost, "/categories/create", `{"name":"Groceries"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, decode[types.GetCategoriesResponse](t, rec).Categories, "Groceries")

	rec = call(e.h.DeleteCategoryHandler, http.MethodDelete, "/categories/delete?name=Work", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e.h.DeleteCategoryHandler, http.MethodDelete, "/categories/delete?name=Gym", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(e.h.DeleteCategoryHandler, http.MethodDelete, "/categories/delete?name=Groceries", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, e.store.Categories(), "Groceries")
}

func TestSignInSwitchesStore(t *testing.T) {
	e := newEnv(t)
	e.remote.AddTask("user-bob", types.Task{ID: "r1", Text: "Remote task", Category: "Work"})

	rec := call(e.h.SignInHandler, http.MethodPost, "/auth/signin", `{"email":"bob@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret-token")

	rec = call(e.h.GetSessionHandler, http.MethodGet, "/session", "")
	resp := decode[types.SessionResponse](t, rec)
	assert.True(t, resp.Authenticated)
	assert.Equal(t, "user-bob", resp.Identity.UserID)

	tasks := e.store.Snapshot().Tasks
	require.Len(t, tasks, 1)
	assert.Equal(t, "Remote task", tasks[0].Text)
}

func TestSignInFailure(t *testing.T) {
	e := newEnv(t)
	e.sessions.signInErr = errors.New("invalid login credentials")

	rec := call(e.h.SignInHandler, http.MethodPost, "/auth/signin", `{"email":"bob@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid login credentials")
	assert.False(t, e.store.Snapshot().Authenticated())

	rec = call(e.h.SignInHandler, http.MethodPost, "/auth/signin", `{"email":"bob@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSignUpNeedsConfirmation(t *testing.T) {
	e := newEnv(t)
	e.sessions.signUpErr = supabase.ErrConfirmationRequired

	rec := call(e.h.SignUpHandler, http.MethodPost, "/auth/signup", `{"email":"new@example.com","password":"pw"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)
	resp := decode[types.SessionResponse](t, rec)
	assert.True(t, resp.Success)
	assert.False(t, resp.Authenticated)
	assert.Contains(t, resp.Message, "check your email")
}

func TestSignOutReturnsToGuest(t *testing.T) {
	e := newEnv(t)
	call(e.h.SignInHandler, http.MethodPost, "/auth/signin", `{"email":"bob@example.com","password":"pw"}`)
	require.True(t, e.store.Snapshot().Authenticated())

	rec := call(e.h.SignOutHandler, http.MethodPost, "/auth/signout", "")
	require.Equal(t, http.StatusOK, rec.Code)

	snap := e.store.Snapshot()
	assert.False(t, snap.Authenticated())
	assert.Len(t, snap.Tasks, 2)
}

func TestOAuthEndpoints(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.OAuthHandler, http.MethodGet, "/auth/oauth?provider=myspace", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e.h.OAuthCallbackHandler, http.MethodGet, "/auth/callback", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(e.h.OAuthCallbackHandler, http.MethodGet, "/auth/callback?code=abc", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = call(e.h.OAuthHandler, http.MethodGet, "/auth/oauth?provider=github", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decode[types.OAuthResponse](t, rec).URL, "provider=github")

	rec = call(e.h.OAuthCallbackHandler, http.MethodGet, "/auth/callback?code=abc", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, e.store.Snapshot().Authenticated())
}

func TestAuthWithoutSessions(t *testing.T) {
	h := New(Deps{Store: store.New(nil)})

	for _, fn := range []http.HandlerFunc{h.SignInHandler, h.SignUpHandler, h.SignOutHandler, h.OAuthHandler, h.OAuthCallbackHandler} {
		rec := call(fn, http.MethodPost, "/", `{}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	}
}

func TestGetReport(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.GetReportHandler, http.MethodGet, "/report", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "doit-report.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))
}

func TestUploadReport(t *testing.T) {
	e := newEnv(t)

	rec := call(e.h.UploadReportHandler, http.MethodPost, "/report/upload", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	call(e.h.SignInHandler, http.MethodPost, "/auth/signin", `{"email":"bob@example.com","password":"pw"}`)

	rec = call(e.h.UploadReportHandler, http.MethodPost, "/report/upload", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[types.ReportUploadResponse](t, rec)
	assert.Equal(t, "user-bob/report.pdf", resp.Path)
	assert.Equal(t, "https://files.example/signed", resp.URL)
	assert.Equal(t, "secret-token", e.uploader.ident.AccessToken)
	assert.True(t, bytes.HasPrefix(e.uploader.data, []byte("%PDF")))

	e.uploader.err = errors.New("bucket not found")
	rec = call(e.h.UploadReportHandler, http.MethodPost, "/report/upload", "")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestUploadReportNotConfigured(t *testing.T) {
	h := New(Deps{Store: store.New(nil)})

	rec := call(h.UploadReportHandler, http.MethodPost, "/report/upload", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type sseEvent struct {
	name string
	data string
}

func readEvent(t *testing.T, r *bufio.Reader) sseEvent {
	t.Helper()
	var ev sseEvent
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case line == "":
			if ev.name != "" {
				return ev
			}
		case strings.HasPrefix(line, "event: "):
			ev.name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			ev.data = strings.TrimPrefix(line, "data: ")
		}
	}
}

func TestEventsStream(t *testing.T) {
	e := newEnv(t)
	b := celebrate.NewBroadcaster()
	e.h.celebrations = b

	srv := httptest.NewServer(http.HandlerFunc(e.h.EventsHandler))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)

	ev := readEvent(t, r)
	assert.Equal(t, "state", ev.name)
	var state stateEvent
	require.NoError(t, json.Unmarshal([]byte(ev.data), &state))
	assert.Len(t, state.Tasks, 2)
	assert.False(t, state.Authenticated)

	e.store.Add(context.Background(), "Streamed", "Work")
	ev = readEvent(t, r)
	assert.Equal(t, "state", ev.name)
	assert.Contains(t, ev.data, "Streamed")

	b.Fire()
	ev = readEvent(t, r)
	assert.Equal(t, "celebrate", ev.name)
	assert.Contains(t, ev.data, `"at"`)
}

func TestEventsStreamOmitsIdentity(t *testing.T) {
	e := newEnv(t)
	rec := call(e.h.SignInHandler, http.MethodPost, "/auth/signin", `{"email":"bob@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	srv := httptest.NewServer(http.HandlerFunc(e.h.EventsHandler))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := (&http.Client{Timeout: 5 * time.Second}).Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	ev := readEvent(t, bufio.NewReader(resp.Body))
	require.Equal(t, "state", ev.name)

	var state stateEvent
	require.NoError(t, json.Unmarshal([]byte(ev.data), &state))
	assert.True(t, state.Authenticated)
	assert.NotContains(t, ev.data, "bob@example.com")
	assert.NotContains(t, ev.data, "user-bob")
	assert.NotContains(t, ev.data, "secret-token")
}
