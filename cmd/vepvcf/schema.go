package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/vepvcf/internal/document"
)

func newSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <file.vcf|->",
		Short: "Print the CSQ fields declared in the header",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load(args[0])
			if err != nil {
				return err
			}

			fields := doc.SchemaFields()
			if len(fields) == 0 {
				return fmt.Errorf("%s: %w", args[0], document.ErrSchemaUnavailable)
			}
			for i, f := range fields {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, f)
			}
			return nil
		},
	}
}
