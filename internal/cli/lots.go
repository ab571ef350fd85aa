package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// NewLotsCommand creates the lots command.
func NewLotsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lots <project-id>",
		Short: "List the project's lots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLots(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runLots(cmd *cobra.Command, opts *RootOptions, projectID string) error {
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
	snapshot := svc.Snapshot()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOT\tORIGIN\tSTATUS\tOWNER\tSURFACE\tPORTAGE")
	for _, lot := range snapshot.Lots {
		portage := ""
		if lot.HeldForPortage {
			portage = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			lot.ID, lot.Origin, lot.Status, lot.Owner, lot.Surface, portage)
	}
	return w.Flush()
}
