package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newGSTINCmd(log *zap.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "gstin <gstin>...",
		Short: "Validate one or more GSTINs",
		Example: `  gstctl gstin 27AAPFU0939F1ZV
  gstctl gstin --checksum 27AAPFU0939F1ZV 29AAGCB7383J1Z4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := calculatorFor(cmd).Validator
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GSTIN\tVALID\tDETAIL")

			invalid := 0
			for _, id := range args {
				res := v.Validate(id)
				detail := res.StateName
				if !res.Valid {
					invalid++
					detail = res.Reason
				}
				fmt.Fprintf(tw, "%s\t%t\t%s\n", id, res.Valid, detail)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			log.Debug("validated identifiers", zap.Int("count", len(args)), zap.Int("invalid", invalid))
			if invalid > 0 {
				return fmt.Errorf("%d of %d identifiers are invalid", invalid, len(args))
			}
			return nil
		},
	}
}
