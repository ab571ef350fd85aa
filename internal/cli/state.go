package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

// NewStateCommand creates the state command.
func NewStateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state <project-id>",
		Short: "Show project state and recorded milestones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runState(cmd, rootOpts, args[0])
		},
	}
	return cmd
}

func runState(cmd *cobra.Command, opts *RootOptions, projectID string) error {
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

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "project:  %s\n", snapshot.ProjectID)
	fmt.Fprintf(out, "name:     %s\n", snapshot.Name)
	fmt.Fprintf(out, "state:    %s\n", svc.State().Value())
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	m := snapshot.Milestones
	printDate(w, "compromis", m.CompromisDate)
	printDate(w, "bank deadline", m.BankDeadline)
	printDate(w, "deed", m.DeedDate)
	printDate(w, "registration", m.RegistrationDate)
	if m.PrecadReference != "" {
		fmt.Fprintf(w, "precad reference\t%s\n", m.PrecadReference)
	}
	printDate(w, "precad requested", m.PrecadRequestedAt)
	printDate(w, "precad approved", m.PrecadApprovalDate)
	printDate(w, "acte de base", m.ActeDeBaseDate)
	printDate(w, "transcription", m.TranscriptionDate)
	if m.ACPEnterpriseNumber != "" {
		fmt.Fprintf(w, "acp number\t%s\n", m.ACPEnterpriseNumber)
	}
	printDate(w, "permit requested", m.PermitRequestedAt)
	printDate(w, "permit granted", m.PermitGrantDate)
	printDate(w, "permit enacted", m.PermitEnactmentDate)
	printDate(w, "first sale", m.FirstSaleAt)
	return w.Flush()
}

func printDate(w *tabwriter.Writer, label string, value *time.Time) {
	if value == nil {
		return
	}
	fmt.Fprintf(w, "%s\t%s\n", label, value.Format("2006-01-02"))
}
