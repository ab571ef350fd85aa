package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/creditcastor/division/internal/division/domain/project"
)

// NewSalesCommand creates the sales command.
func NewSalesCommand(rootOpts *RootOptions) *cobra.Command {
	var breakdown bool
	cmd := &cobra.Command{
		Use:   "sales <project-id>",
		Short: "List completed sales",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSales(cmd, rootOpts, args[0], breakdown)
		},
	}
	cmd.Flags().BoolVar(&breakdown, "breakdown", false, "show price composition per sale")
	return cmd
}

func runSales(cmd *cobra.Command, opts *RootOptions, projectID string, breakdown bool) error {
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
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SALE\tTYPE\tLOT\tSELLER\tBUYER\tDATE\tAMOUNT")
	for _, sale := range snapshot.Sales {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sale.ID, sale.Type, sale.LotID, sale.SellerID, sale.BuyerID,
			sale.SaleDate.Format("2006-01-02"), sale.Amount)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if !breakdown {
		return nil
	}
	for _, sale := range snapshot.Sales {
		fmt.Fprintln(out)
		printBreakdown(out, sale)
	}
	return nil
}

func printBreakdown(out io.Writer, sale project.Sale) {
	fmt.Fprintf(out, "%s (%s)\n", sale.ID, sale.Type)
	switch {
	case sale.Portage != nil:
		b := sale.Portage
		fmt.Fprintf(out, "  base acquisition  %s\n", b.BaseCost)
		fmt.Fprintf(out, "  carrying costs    %s\n", b.CarryingCosts)
		fmt.Fprintf(out, "  registration      %s\n", b.RegistrationRecovery)
		fmt.Fprintf(out, "  shared costs      %s\n", b.SharedCostRecovery)
		if !b.IndexationAddOn.IsZero() {
			fmt.Fprintf(out, "  indexation        %s\n", b.IndexationAddOn)
		}
		if !b.RenovationAddOn.IsZero() {
			fmt.Fprintf(out, "  renovation        %s\n", b.RenovationAddOn)
		}
		fmt.Fprintf(out, "  total             %s\n", b.Total)
	case sale.Copro != nil:
		b := sale.Copro
		fmt.Fprintf(out, "  base per sqm      %s\n", b.BaseCostPerSqm)
		fmt.Fprintf(out, "  compensation      %s\n", b.CompensationPerSqm)
		fmt.Fprintf(out, "  surface           %s\n", b.Surface)
		fmt.Fprintf(out, "  total             %s\n", b.Total)
	case sale.Classic != nil:
		b := sale.Classic
		fmt.Fprintf(out, "  proposed          %s\n", b.ProposedPrice)
		fmt.Fprintf(out, "  cap               %s\n", b.PriceCap)
		fmt.Fprintf(out, "  final             %s\n", b.FinalPrice)
	}
}
