package cli

import (
	"context"
	"fmt"

	"github.com/creditcastor/division/internal/division/service"
	"github.com/creditcastor/division/internal/division/storage/sqlite"
	"github.com/creditcastor/division/internal/telemetry"
)

// openStore opens the SQLite database and assembles the service stores.
func openStore(opts *RootOptions) (*sqlite.Store, service.Stores, error) {
	store, err := sqlite.Open(opts.DBPath)
	if err != nil {
		return nil, service.Stores{}, fmt.Errorf("open database %s: %w", opts.DBPath, err)
	}
	stores := service.Stores{Projects: store, Journal: store}
	return store, stores, nil
}

// loadService restores the project actor from an opened store.
func loadService(ctx context.Context, opts *RootOptions, store *sqlite.Store, stores service.Stores, projectID string) (*service.Service, error) {
	svcOpts := []service.Option{}
	if opts.Verbose {
		svcOpts = append(svcOpts, service.WithTelemetry(telemetry.NewEmitter(store)))
	}
	svc, err := service.Load(ctx, projectID, stores, svcOpts...)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", projectID, err)
	}
	return svc, nil
}
