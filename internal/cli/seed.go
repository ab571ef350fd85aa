package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/creditcastor/division/internal/division/domain/machine"
	"github.com/creditcastor/division/internal/division/fixture"
	"github.com/creditcastor/division/internal/division/storage"
)

// NewSeedCommand creates the seed command.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Create a project from a fixture file",
		Long: `Load a YAML fixture describing the project, its participants and
lots, then replay its scripted events through the state machine.

Example:
  division seed --db ./division.db fixtures/residence.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runSeed(cmd *cobra.Command, opts *RootOptions, path string) error {
	doc, err := fixture.ParseFile(path)
	if err != nil {
		return err
	}
	projectContext, events, err := doc.Build(nil)
	if err != nil {
		return fmt.Errorf("build fixture: %w", err)
	}

	store, stores, err := openStore(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	record := storage.ProjectRecord{
		ID:        projectContext.ProjectID,
		State:     machine.Initial(),
		Context:   projectContext,
		UpdatedAt: time.Now().UTC(),
	}
	if err := store.SaveProject(ctx, record); err != nil {
		return fmt.Errorf("save project: %w", err)
	}

	svc, err := loadService(ctx, opts, store, stores, projectContext.ProjectID)
	if err != nil {
		return err
	}
	for i, evt := range events {
		if err := svc.Dispatch(ctx, evt); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, evt.EventType(), err)
		}
		if opts.Verbose {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s -> %s\n", evt.EventType(), svc.State().Value())
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded project %s (%s) in state %s\n",
		projectContext.ProjectID, projectContext.Name, svc.State().Value())
	return nil
}
