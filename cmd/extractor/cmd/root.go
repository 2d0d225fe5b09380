package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statement-extractor/cmd/extractor/config"
	"statement-extractor/internal/api"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// rootCmd is the command run by main
var rootCmd = newRootCmd(viper.GetViper())

// newRootCmd builds the command tree over v. Flags, the --config file, a
// local .env file and STMTX_ variables all resolve through v.
func newRootCmd(v *viper.Viper) *cobra.Command {
	var cfgFile string

	root := &cobra.Command{
		Use:   "extractor",
		Short: "Bank statement transaction extractor",
		Long: `Extractor reads bank statement PDFs and writes their transactions as
CSV, JSON or XLSX, with a short summary on the terminal. Transactions can be
tagged with lender names from a keywords file.

Examples:
  extractor extract statement.pdf
  extractor extract oct.pdf nov.pdf --formats csv,json,xlsx -o reports
  extractor extract oct.pdf --keywords lenders.json
  extractor info statement.pdf
  extractor serve --addr :8080`,
		Version:       getVersionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(v, cfgFile); err != nil {
				return err
			}
			return initLogging(v)
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (optional)")
	root.PersistentFlags().BoolP(config.KeyVerbose, "v", false, "verbose output")
	root.PersistentFlags().String(config.KeyLogLevel, string(logger.WarnLevel), "log level: debug, info, warn, error")
	root.PersistentFlags().String(config.KeyLogFormat, string(logger.TextFormat), "log format: text, json")

	v.BindPFlag(config.KeyVerbose, root.PersistentFlags().Lookup(config.KeyVerbose))
	v.BindPFlag(config.KeyLogLevel, root.PersistentFlags().Lookup(config.KeyLogLevel))
	v.BindPFlag(config.KeyLogFormat, root.PersistentFlags().Lookup(config.KeyLogFormat))
	config.SetDefaults(v)

	root.AddCommand(newExtractCmd(v), newInfoCmd(v), newServeCmd(v))
	return root
}

// Execute runs the root command with ctx
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// initConfig loads .env and the config file, then enables STMTX_ variables
func initConfig(v *viper.Viper, cfgFile string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return apperrors.ConfigurationError(apperrors.CodeInvalidConfig, ".env", ".env", err)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return apperrors.ConfigurationError(apperrors.CodeInvalidConfig, "config", cfgFile, err).
				WithSuggestion("check that the config file exists and is valid YAML, JSON or TOML")
		}
	}

	v.SetEnvPrefix("STMTX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return nil
}

func initLogging(v *viper.Viper) error {
	l, err := logger.NewLogger(config.CreateLoggerConfig(config.FromViper(v)))
	if err != nil {
		return apperrors.ConfigurationError(apperrors.CodeInvalidConfig, config.KeyLogLevel, v.GetString(config.KeyLogLevel), err)
	}
	logger.SetGlobalLogger(l)

	if v.ConfigFileUsed() != "" {
		l.WithField("file", v.ConfigFileUsed()).Debug("Using config file")
	}
	return nil
}

// bindFlags binds a command's own flags at run time, so commands that share
// a flag name do not overwrite each other's binding
func bindFlags(v *viper.Viper) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return v.BindPFlags(cmd.Flags())
	}
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	api.Version = v
	rootCmd.Version = getVersionString()
}

func getVersionString() string {
	if version == "dev" {
		return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
	}
	return version
}
