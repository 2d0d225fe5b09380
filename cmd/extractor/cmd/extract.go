package cmd

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statement-extractor/cmd/extractor/config"
	"statement-extractor/internal/reporter"
	"statement-extractor/pkg/logger"
)

// outputFs is where report files are written
var outputFs afero.Fs = afero.NewOsFs()

func newExtractCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <pdf>...",
		Short: "Extract transactions from statement PDFs",
		Long: `Extract reads each statement PDF, detects its layout and writes the
transactions to <output>/<name>.<format> for every requested format. A short
summary of each statement is printed to stdout.

Files are processed concurrently. A file that fails does not stop the others;
the exit code reflects the most severe failure.

Examples:
  # CSV and JSON into ./output
  extractor extract statement.pdf

  # Several statements, every file format
  extractor extract oct.pdf nov.pdf --formats csv,json,xlsx -o reports

  # Tag lender transfers and payments
  extractor extract oct.pdf --keywords lenders.json`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, v, args)
		},
	}

	cmd.Flags().StringP(config.KeyOutput, "o", "output", "output directory")
	cmd.Flags().StringP(config.KeyKeywords, "k", "", "lender keywords JSON file (optional)")
	cmd.Flags().StringSlice(config.KeyFormats, []string{"csv", "json"}, "output formats: csv, json, xlsx, console")
	cmd.Flags().Int(config.KeyConcurrency, 4, "number of files extracted at once")
	cmd.Flags().String(config.KeyCurrency, "USD", "currency used in the printed summary")

	return cmd
}

func runExtract(cmd *cobra.Command, v *viper.Viper, paths []string) error {
	settings := config.FromViper(v)
	if err := settings.Validate(); err != nil {
		return err
	}

	log, _ := logger.WithRun(logger.GetGlobalLogger().WithComponent("cli"))
	log.WithFields(logger.Fields{
		"files":   len(paths),
		"output":  settings.OutputDir,
		"formats": settings.Formats,
	}).Debug("Starting extraction")

	service, err := config.CreateService(settings, log)
	if err != nil {
		return err
	}
	tagger, err := config.CreateTagger(settings)
	if err != nil {
		return err
	}
	reportConfig, err := config.CreateReportConfig(settings)
	if err != nil {
		return err
	}
	generator, err := reporter.NewReportGenerator(reportConfig, log)
	if err != nil {
		return err
	}

	batch := service.ExtractFiles(cmd.Context(), paths, settings.Concurrency)

	out := cmd.OutOrStdout()
	for _, f := range batch.Files {
		if f.Err != nil {
			continue
		}

		ts := tagger.Tag(f.Result.Statement)
		written, err := generator.WriteFiles(outputFs, settings.OutputDir, reporter.OutputStem(f.Path), ts)
		if err != nil {
			return err
		}

		fmt.Fprintf(out, "\n%s (%s layout, %d pages)\n", f.Path, f.Result.Layout, f.Result.Pages)
		if err := generator.Generate(ts, reporter.FormatConsole, out); err != nil {
			return err
		}
		for _, path := range written {
			fmt.Fprintf(out, "Wrote: %s\n", path)
		}
	}

	log.Debug(batch.Stats.String())

	if summary := batch.Summary(); summary != nil {
		return summary
	}
	return nil
}
