package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gstreport/internal/domain"
)

func newSplitCmd(log *zap.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "split",
		Short:   "Compute the CGST/SGST or IGST split for an amount",
		Example: `  gstctl split --supplier 27AAPFU0939F1ZV --customer 29AAGCB7383J1Z4 --amount 25000 --rate 18`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			supplier, _ := cmd.Flags().GetString("supplier")
			customer, _ := cmd.Flags().GetString("customer")
			amountStr, _ := cmd.Flags().GetString("amount")
			rateStr, _ := cmd.Flags().GetString("rate")

			amount, err := domain.ParseMoney(amountStr)
			if err != nil {
				return err
			}
			rate, err := domain.ParseRate(rateStr)
			if err != nil {
				return err
			}

			tb, err := calculatorFor(cmd).ComputeSplit(supplier, customer, amount, rate)
			if err != nil {
				return err
			}
			log.Debug("computed split", zap.String("type", string(tb.Type)), zap.Stringer("total", tb.Total()))

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintf(tw, "Supply type\t%s\t\n", tb.Type)
			fmt.Fprintf(tw, "Taxable value\t%s\t\n", tb.TaxableValue)
			fmt.Fprintf(tw, "Rate (%%)\t%s\t\n", tb.Rate)
			fmt.Fprintf(tw, "CGST\t%s\t\n", tb.CentralTax)
			fmt.Fprintf(tw, "SGST\t%s\t\n", tb.StateTax)
			fmt.Fprintf(tw, "IGST\t%s\t\n", tb.IntegratedTax)
			fmt.Fprintf(tw, "Total tax\t%s\t\n", tb.Total())
			return tw.Flush()
		},
	}

	cmd.Flags().String("supplier", "", "Supplier GSTIN")
	cmd.Flags().String("customer", "", "Customer GSTIN")
	cmd.Flags().String("amount", "", "Taxable value in rupees, at most two decimals")
	cmd.Flags().String("rate", "", "GST rate in percent")
	for _, f := range []string{"supplier", "customer", "amount", "rate"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}
