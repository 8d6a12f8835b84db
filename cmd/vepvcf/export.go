package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vepvcf/internal/document"
	"github.com/inodb/vepvcf/internal/duckdb"
)

// exportBatchSize is the number of records appended per DuckDB batch.
const exportBatchSize = 1000

func newExportCmd(a *app) *cobra.Command {
	var (
		dbPath string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "export <file.vcf>",
		Short: "Write decoded CSQ values to a DuckDB database",
		Long: `Decode the CSQ annotations of every record and store them in the
csq_values table of a DuckDB database, one row per record, group and field.
The input file's size and modification time are recorded in source_files;
an export that is already up to date is skipped unless --force is given.`,
		Example: `  vepvcf export annotated.vcf --db csq.duckdb
  duckdb csq.duckdb "SELECT DISTINCT record_index FROM csq_values WHERE field='SYMBOL' AND value='KRAS'"`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if path == "-" {
				return usageErrorf("export needs a file path, not stdin")
			}
			if dbPath == "" {
				return usageErrorf("--db is required")
			}

			fp, err := duckdb.StatFile(path)
			if err != nil {
				return err
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if !force {
				current, err := store.SourceCurrent(fp)
				if err != nil {
					return err
				}
				if current {
					a.logger.Info("export is up to date", zap.String("path", path), zap.String("db", dbPath))
					return nil
				}
			}

			doc, err := a.load(path)
			if err != nil {
				return err
			}

			n, err := exportDocument(store, doc, viper.GetInt(keyExportWorkers))
			if err != nil {
				return err
			}
			if err := store.RecordSource(fp, doc.RecordCount()); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d annotated records to %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database file to write")
	cmd.Flags().Int("workers", 0, "Decode workers (0 for one per CPU)")
	cmd.Flags().BoolVar(&force, "force", false, "Re-export even if the database is up to date")
	_ = viper.BindPFlag(keyExportWorkers, cmd.Flags().Lookup("workers"))

	return cmd
}

// exportDocument replaces the store's CSQ values with those of doc and
// returns the number of annotated records written.
func exportDocument(store *duckdb.Store, doc *document.Document, workers int) (int, error) {
	if err := store.ClearCSQValues(); err != nil {
		return 0, fmt.Errorf("clear previous export: %w", err)
	}

	schema := doc.SchemaFields()
	batch := make([]duckdb.RecordRows, 0, exportBatchSize)
	written := 0

	err := doc.AnnotateAll(workers, func(r document.WorkResult) error {
		if errors.Is(r.Err, document.ErrNoAnnotationPresent) {
			return nil
		}
		if r.Err != nil {
			return r.Err
		}

		batch = append(batch, duckdb.RecordRows{Index: r.Index, Variant: r.Variant, Rows: r.Rows})
		written++
		if len(batch) == exportBatchSize {
			if err := store.WriteRecordRows(batch, schema); err != nil {
				return err
			}
			batch = batch[:0]
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := store.WriteRecordRows(batch, schema); err != nil {
		return 0, err
	}
	return written, nil
}
