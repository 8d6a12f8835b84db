package main

import (
	"errors"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vepvcf/internal/document"
	"github.com/inodb/vepvcf/internal/output"
)

func newCSQCmd(a *app) *cobra.Command {
	var (
		allColumns bool
		allRecords bool
	)

	cmd := &cobra.Command{
		Use:   "csq <file.vcf|-> [index]",
		Short: "Print the decoded CSQ annotations of a record",
		Long: `Print the CSQ annotations of the record at index (0-based) as a
tab-separated table, one line per allele/transcript group. Only the first
csq.columns fields are shown unless --all-columns is set; fields missing from
a group are printed as csq.missing.`,
		Example: `  vepvcf csq annotated.vcf 0
  vepvcf csq --columns 4 annotated.vcf 12
  vepvcf csq --all annotated.vcf.gz`,
		Args: usageArgs(func(cmd *cobra.Command, args []string) error {
			if allRecords {
				return cobra.ExactArgs(1)(cmd, args)
			}
			return cobra.ExactArgs(2)(cmd, args)
		}),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := -1
			if !allRecords {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 0 {
					return usageErrorf("invalid record index %q", args[1])
				}
				index = n
			}

			doc, err := a.load(args[0])
			if err != nil {
				return err
			}

			n := viper.GetInt(keyCSQColumns)
			if allColumns {
				n = 0
			}
			tw := output.NewTabWriter(cmd.OutOrStdout(),
				output.LeadingColumns(doc.SchemaFields(), n),
				viper.GetString(keyCSQMissing))

			if allRecords {
				return writeAllRecords(doc, tw, viper.GetInt(keyExportWorkers))
			}

			rows, err := doc.Annotations(index)
			if err != nil {
				return err
			}
			if err := tw.WriteHeader(); err != nil {
				return err
			}
			v, _ := doc.Record(index)
			for _, row := range rows {
				if err := tw.Write(index, v, row); err != nil {
					return err
				}
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Int("columns", 8, "Number of leading CSQ fields to show (0 for all)")
	cmd.Flags().BoolVar(&allColumns, "all-columns", false, "Show every CSQ field")
	cmd.Flags().BoolVar(&allRecords, "all", false, "Print the annotations of every annotated record")
	_ = viper.BindPFlag(keyCSQColumns, cmd.Flags().Lookup("columns"))

	return cmd
}

// writeAllRecords prints every annotated record, prefixed with its index and
// location. Records without a CSQ key are skipped.
func writeAllRecords(doc *document.Document, tw *output.TabWriter, workers int) error {
	tw.ShowRecord()
	if err := tw.WriteHeader(); err != nil {
		return err
	}

	err := doc.AnnotateAll(workers, func(r document.WorkResult) error {
		if errors.Is(r.Err, document.ErrNoAnnotationPresent) {
			return nil
		}
		if r.Err != nil {
			return r.Err
		}
		for _, row := range r.Rows {
			if err := tw.Write(r.Index, r.Variant, row); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return tw.Flush()
}
