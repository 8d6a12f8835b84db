// Package main provides the vepvcf command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds state shared by all subcommands.
type app struct {
	cfgFile   string
	keepGoing bool
	logger    *zap.Logger
}

// usageError marks errors caused by invalid arguments or flags.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// usageArgs wraps a cobra positional-args validator so its failures map to
// ExitUsage.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	a := &app{logger: zap.NewNop()}
	defer func() { _ = a.logger.Sync() }()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		var ue *usageError
		if errors.As(err, &ue) {
			fmt.Fprintf(stderr, "Run 'vepvcf --help' for usage.\n")
			return ExitUsage
		}
		return ExitError
	}
	return ExitSuccess
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vepvcf",
		Short: "Inspect CSQ annotations in VEP-annotated VCF files",
		Long: `vepvcf reads a VCF annotated by Ensembl VEP, derives the CSQ field layout
from its INFO header and decodes the per-record CSQ annotations.`,
		Example: `  vepvcf list annotated.vcf
  vepvcf csq annotated.vcf 0
  vepvcf csq --all --all-columns annotated.vcf.gz
  vepvcf export annotated.vcf --db csq.duckdb`,
		Version:       fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unknown command %q", args[0])
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usageErrorf("a command is required")
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(a.cfgFile); err != nil {
				return err
			}
			logger, err := newLogger(viper.GetString("log.level"))
			if err != nil {
				return &usageError{err: err}
			}
			a.logger = logger
			return nil
		},
	}
	cmd.SetVersionTemplate("vepvcf version {{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "Config file (default ~/.vepvcf.yaml)")
	flags.String("log-level", "info", "Log level: debug, info, warn, error")
	flags.BoolVar(&a.keepGoing, "keep-going", false, "Log ingestion errors and continue with the remaining lines")
	_ = viper.BindPFlag("log.level", flags.Lookup("log-level"))

	cmd.AddCommand(newListCmd(a))
	cmd.AddCommand(newCSQCmd(a))
	cmd.AddCommand(newSchemaCmd(a))
	cmd.AddCommand(newExportCmd(a))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// newLogger builds a stderr logger for the given level name.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	cfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}
