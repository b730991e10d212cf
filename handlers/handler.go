// Package handlers exposes the task store over a JSON HTTP API.
package handlers

import (
	"clementus360/doit/celebrate"
	"clementus360/doit/config"
	"clementus360/doit/report"
	"clementus360/doit/store"
	"clementus360/doit/types"
	"context"
	"io"

	"github.com/sirupsen/logrus"
)

// Sessions is the sign-in surface the auth endpoints drive.
type Sessions interface {
	Current() *types.Identity
	SignIn(ctx context.Context, email, password string) (*types.Identity, error)
	SignUp(ctx context.Context, email, password string) (*types.Identity, error)
	SignOut(ctx context.Context) error
	OAuthURL(provider string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*types.Identity, error)
}

// ReportUploader stores a rendered report for a signed-in user and returns
// the object path and a download URL.
type ReportUploader interface {
	Upload(ctx context.Context, ident types.Identity, r io.Reader) (string, string, error)
}

// Deps are the collaborators behind the API. Sessions, Uploader and
// Celebrations may be nil; the endpoints that need them then answer 503.
type Deps struct {
	Store        *store.Store
	Sessions     Sessions
	Renderer     report.Renderer
	Uploader     ReportUploader
	Celebrations *celebrate.Broadcaster
	ReportTitle  string
}

type Handler struct {
	store        *store.Store
	sessions     Sessions
	renderer     report.Renderer
	uploader     ReportUploader
	celebrations *celebrate.Broadcaster
	reportTitle  string
	log          *logrus.Entry
}

func New(d Deps) *Handler {
	h := &Handler{
		store:        d.Store,
		sessions:     d.Sessions,
		renderer:     d.Renderer,
		uploader:     d.Uploader,
		celebrations: d.Celebrations,
		reportTitle:  d.ReportTitle,
		log:          config.Component("http"),
	}
	if h.renderer == nil {
		h.renderer = report.NewPDFRenderer()
	}
	if h.reportTitle == "" {
		h.reportTitle = "DoIt. Daily Report"
	}
	return h
}
