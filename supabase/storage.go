package supabase

import (
	"clementus360/doit/types"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
)

const signedURLExpiry = 3600 // seconds

// ReportUploader stores rendered reports in a Storage bucket under the
// owner's user id.
type ReportUploader struct {
	storageURL string
	apiKey     string
	bucket     string
	now        func() time.Time
}

func NewReportUploader(apiURL, apiKey, bucket string) (*ReportUploader, error) {
	if apiURL == "" || apiKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is missing")
	}
	if bucket == "" {
		return nil, fmt.Errorf("report bucket is not configured")
	}
	return &ReportUploader{
		storageURL: strings.TrimSuffix(apiURL, "/") + "/storage/v1",
		apiKey:     apiKey,
		bucket:     bucket,
		now:        time.Now,
	}, nil
}

// storageClient returns a fresh client acting as the user. File options are
// set as sticky transport headers, so clients are not shared between calls.
func (u *ReportUploader) storageClient(accessToken string) *storage_go.Client {
	return storage_go.NewClient(u.storageURL, accessToken, map[string]string{"apikey": u.apiKey})
}

// Upload writes the PDF read from r and returns its object path and a
// signed download URL.
func (u *ReportUploader) Upload(ctx context.Context, ident types.Identity, r io.Reader) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	if ident.UserID == "" || ident.AccessToken == "" {
		return "", "", ErrNotSignedIn
	}

	path := fmt.Sprintf("%s/report-%s.pdf", ident.UserID, u.now().UTC().Format("20060102-150405"))
	contentType := "application/pdf"
	upsert := true

	_, err := u.storageClient(ident.AccessToken).UploadFile(u.bucket, path, r, storage_go.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to upload report: %w", err)
	}

	signed, err := u.storageClient(ident.AccessToken).CreateSignedUrl(u.bucket, path, signedURLExpiry)
	if err != nil {
		return path, "", fmt.Errorf("failed to sign report URL: %w", err)
	}
	return path, signed.SignedURL, nil
}
