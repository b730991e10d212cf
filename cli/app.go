package cli

import (
	"clementus360/doit/celebrate"
	"clementus360/doit/config"
	"clementus360/doit/handlers"
	"clementus360/doit/store"
	"clementus360/doit/supabase"
	"clementus360/doit/types"
	"context"
	"fmt"
)

// app wires the store to the optional Supabase services.
type app struct {
	settings     config.Settings
	store        *store.Store
	gateway      *supabase.Gateway
	uploader     *supabase.ReportUploader
	celebrations *celebrate.Broadcaster
	detach       func()
}

func newApp(ctx context.Context, s config.Settings) (*app, error) {
	log := config.Component("app")
	a := &app{
		settings:     s,
		celebrations: celebrate.NewBroadcaster(),
		detach:       func() {},
	}

	opts := []store.Option{store.WithCelebrator(a.celebrations)}
	if len(s.Seed) > 0 {
		opts = append(opts, store.WithSeed(seedTasks(s.Seed)))
	}
	if s.DefaultCategory != "" {
		opts = append(opts, store.WithDefaultCategory(s.DefaultCategory))
	}

	var remote store.Remote
	if s.HasRemote() {
		r, err := supabase.NewRemote(s.SupabaseURL, s.SupabaseKey)
		if err != nil {
			return nil, fmt.Errorf("remote store: %w", err)
		}
		remote = r

		g, err := supabase.NewGateway(s.SupabaseURL, s.SupabaseKey)
		if err != nil {
			return nil, fmt.Errorf("session gateway: %w", err)
		}
		a.gateway = g

		u, err := supabase.NewReportUploader(s.SupabaseURL, s.SupabaseKey, s.ReportBucket)
		if err != nil {
			log.WithError(err).Warn("Report uploads disabled")
		} else {
			a.uploader = u
		}
	} else {
		log.Info("Supabase is not configured, running in guest mode only")
	}

	a.store = store.New(remote, opts...)

	if a.gateway != nil {
		a.detach = a.store.Attach(ctx, a.gateway)
		if s.RefreshToken != "" {
			if _, err := a.gateway.Restore(ctx, s.RefreshToken); err != nil {
				log.WithError(err).Warn("Could not restore saved session, staying in guest mode")
			}
		}
	}
	return a, nil
}

func seedTasks(seed []config.SeedTask) []types.Task {
	tasks := make([]types.Task, len(seed))
	for i, t := range seed {
		tasks[i] = types.Task{Text: t.Text, Completed: t.Completed, Category: t.Category}
	}
	return tasks
}

func (a *app) currentIdentity() *types.Identity {
	return a.store.Snapshot().Identity
}

func (a *app) handlerDeps() handlers.Deps {
	d := handlers.Deps{
		Store:        a.store,
		Celebrations: a.celebrations,
		ReportTitle:  a.settings.ReportTitle,
	}
	// typed nils would defeat the handlers' nil checks
	if a.gateway != nil {
		d.Sessions = a.gateway
	}
	if a.uploader != nil {
		d.Uploader = a.uploader
	}
	return d
}

func (a *app) Close() {
	a.detach()
}
