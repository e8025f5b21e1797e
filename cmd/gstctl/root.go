package main

import (
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gstreport/internal/gstin"
	"gstreport/internal/taxcalc"
)

func newRootCmd(out io.Writer, log *zap.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "gstctl",
		Short: "GST identifier checks, tax splits and periodic returns from the command line",
		Long: `gstctl runs the GST engine without a server or database.

It validates GSTINs, splits tax into CGST/SGST or IGST, and builds
GSTR-1 or GSTR-2 summaries from a CSV file of invoices.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)
	root.PersistentFlags().Bool("checksum", false, "Also verify the GSTIN check character")

	root.AddCommand(
		newGSTINCmd(log),
		newSplitCmd(log),
		newReportCmd(log),
		newVersionCmd(),
	)
	return root
}

// calculatorFor honours the persistent --checksum flag.
func calculatorFor(cmd *cobra.Command) *taxcalc.Calculator {
	verify, _ := cmd.Flags().GetBool("checksum")
	return taxcalc.New(gstin.Validator{VerifyChecksum: verify})
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the gstctl version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("gstctl %s\n", version)
		},
	}
}
