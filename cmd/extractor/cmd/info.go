package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statement-extractor/cmd/extractor/config"
	"statement-extractor/pkg/logger"
)

func newInfoCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info <pdf>...",
		Short: "Show which statement layout a PDF uses",
		Long: `Info opens each PDF and reports the statement layout that recognizes
its first page, without extracting transactions.

Example:
  extractor info statement.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, v, args)
		},
	}
}

func runInfo(cmd *cobra.Command, v *viper.Viper, paths []string) error {
	service, err := config.CreateService(config.FromViper(v), logger.GetGlobalLogger())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, path := range paths {
		name, ok, err := service.DetectFile(cmd.Context(), path)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(out, "%s: not supported (known layouts: %v)\n", path, service.Layouts())
			continue
		}
		fmt.Fprintf(out, "%s: %s\n", path, name)
	}
	return nil
}
