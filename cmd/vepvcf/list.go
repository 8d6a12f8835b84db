package main

import (
	"github.com/spf13/cobra"

	"github.com/inodb/vepvcf/internal/output"
)

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <file.vcf|->",
		Short: "List records as \"index chrom pos ids ref alts\"",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0])
			if err != nil {
				return err
			}

			w := output.NewSummaryWriter(cmd.OutOrStdout())
			for i, s := range doc.ListSummaries() {
				if err := w.Write(i, s); err != nil {
					return err
				}
			}
			return w.Flush()
		},
	}
}
