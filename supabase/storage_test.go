package supabase

import (
	"clementus360/doit/types"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportUploader(t *testing.T) {
	var (
		mu       sync.Mutex
		uploaded []byte
		headers  http.Header
		paths    []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		paths = append(paths, r.URL.Path)

		switch {
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/sign/"):
			_, _ = io.WriteString(w, `{"signedURL":"/object/sign/reports/user-1/report.pdf?token=abc"}`)
		case strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
			uploaded, _ = io.ReadAll(r.Body)
			headers = r.Header.Clone()
			_, _ = io.WriteString(w, `{"Key":"reports/user-1/report.pdf"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	u, err := NewReportUploader(srv.URL, "anon-key", "reports")
	require.NoError(t, err)
	u.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	path, signed, err := u.Upload(context.Background(), testIdent, strings.NewReader("%PDF-1.3 test"))
	require.NoError(t, err)

	assert.Equal(t, "user-1/report-20260304-050607.pdf", path)
	assert.Equal(t, srv.URL+"/storage/v1/object/sign/reports/user-1/report.pdf?token=abc", signed)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "%PDF-1.3 test", string(uploaded))
	assert.Equal(t, "application/pdf", headers.Get("Content-Type"))
	assert.Equal(t, "Bearer token-1", headers.Get("Authorization"))
	assert.Equal(t, "true", headers.Get("x-upsert"))
	assert.Equal(t, []string{
		"/storage/v1/object/reports/user-1/report-20260304-050607.pdf",
		"/storage/v1/object/sign/reports/user-1/report-20260304-050607.pdf",
	}, paths)
}

func TestReportUploaderRequiresSignedInUser(t *testing.T) {
	u, err := NewReportUploader("http://localhost:1", "anon-key", "reports")
	require.NoError(t, err)

	_, _, err = u.Upload(context.Background(), types.Identity{}, strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrNotSignedIn)
}

func TestNewReportUploaderRequiresBucket(t *testing.T) {
	_, err := NewReportUploader("http://localhost", "key", "")
	assert.Error(t, err)
}
