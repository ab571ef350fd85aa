package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creditcastor/division/internal/division/domain/event"
	"github.com/creditcastor/division/internal/division/fixture"
)

// NewDispatchCommand creates the dispatch command.
func NewDispatchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dispatch <project-id> <event.yaml>",
		Short: "Apply one event to a project",
		Long: `Read a single event from a YAML file and dispatch it to the
project's state machine. Pass "-" to read the event from stdin.

Example:
  division dispatch prj-1 events/deed-signed.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDispatch(cmd, rootOpts, args[0], args[1])
		},
	}
	return cmd
}

func runDispatch(cmd *cobra.Command, opts *RootOptions, projectID, path string) error {
	evt, err := parseEventArg(path)
	if err != nil {
		return err
	}

	store, stores, err := openStore(opts)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	svc, err := loadService(ctx, opts, store, stores, projectID)
	if err != nil {
		return err
	}
	before := svc.State().Value()
	if err := svc.Dispatch(ctx, evt); err != nil {
		return fmt.Errorf("dispatch %s: %w", evt.EventType(), err)
	}
	after := svc.State().Value()
	if before == after {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no transition (state %s)\n", evt.EventType(), after)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", evt.EventType(), before, after)
	return nil
}

func parseEventArg(path string) (event.Event, error) {
	if path == "-" {
		return fixture.ParseEvent(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open event file: %w", err)
	}
	defer f.Close()
	return fixture.ParseEvent(f)
}
