package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/creditcastor/division/internal/division/domain/payback"
	"github.com/creditcastor/division/internal/division/domain/project"
	"github.com/creditcastor/division/internal/division/domain/query"
)

// NewPaybacksCommand creates the paybacks command.
func NewPaybacksCommand(rootOpts *RootOptions) *cobra.Command {
	var method string
	var participantID string
	cmd := &cobra.Command{
		Use:   "paybacks <project-id>",
		Short: "Show redistribution of copropriété sale proceeds",
		Long: `Compute each founder's share of the proceeds from sales made by
the copropriété entity. The surface method splits each sale by owned
surface among founders present at the sale date. The tenure method
splits by months of participation and includes newcomers.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPaybacks(cmd, rootOpts, args[0], method, participantID)
		},
	}
	cmd.Flags().StringVar(&method, "method", "surface", "redistribution method (surface|tenure)")
	cmd.Flags().StringVar(&participantID, "participant", "", "restrict output to one participant")
	return cmd
}

func runPaybacks(cmd *cobra.Command, opts *RootOptions, projectID, method, participantID string) error {
	if method != "surface" && method != "tenure" {
		return fmt.Errorf("invalid method %q: must be surface or tenure", method)
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
	snapshot := svc.Snapshot()

	sales := snapshot.CoproSales()
	if len(sales) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no copropriété sales recorded")
		return nil
	}

	participants := snapshot.Participants
	if participantID != "" {
		p, ok := query.ParticipantByID(snapshot, participantID)
		if !ok {
			return fmt.Errorf("unknown participant %q", participantID)
		}
		participants = []project.Participant{p}
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICIPANT\tSALE\tSHARE\tAMOUNT")
	for _, p := range participants {
		var entries []payback.Entry
		switch method {
		case "surface":
			entries = payback.BySurface(p, sales, snapshot.Participants, snapshot.Lots, snapshot.Milestones.DeedDate)
		case "tenure":
			entries = payback.ByTenure(p, sales, snapshot.Participants, snapshot.Milestones.DeedDate)
		}
		total := decimal.Zero
		for _, entry := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.Name, entry.SaleID, entry.Share, entry.Amount)
			total = total.Add(entry.Amount)
		}
		if len(entries) > 1 {
			fmt.Fprintf(w, "%s\ttotal\t\t%s\n", p.Name, total)
		}
	}
	return w.Flush()
}
