package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"statement-extractor/internal/api"
	"statement-extractor/internal/extractor"
	"statement-extractor/internal/layouts"
	"statement-extractor/internal/lender"
	"statement-extractor/internal/reporter"
	apperrors "statement-extractor/pkg/errors"
	"statement-extractor/pkg/logger"
)

// Keys shared by flags, the config file and STMTX_ environment variables
const (
	KeyVerbose     = "verbose"
	KeyLogLevel    = "log-level"
	KeyLogFormat   = "log-format"
	KeyOutput      = "output"
	KeyKeywords    = "keywords"
	KeyFormats     = "formats"
	KeyConcurrency = "concurrency"
	KeyCurrency    = "currency"
	KeyAddr        = "addr"
)

// Settings is the resolved command-line configuration
type Settings struct {
	Verbose     bool
	LogLevel    string
	LogFormat   string
	OutputDir   string
	Keywords    string
	Formats     []string
	Concurrency int
	Currency    string
	Addr        string
}

// SetDefaults registers the defaults used when neither a flag, the config
// file nor the environment sets a key
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, string(logger.WarnLevel))
	v.SetDefault(KeyLogFormat, string(logger.TextFormat))
	v.SetDefault(KeyOutput, "output")
	v.SetDefault(KeyFormats, []string{"csv", "json"})
	v.SetDefault(KeyConcurrency, extractor.DefaultConfig().MaxConcurrency)
	v.SetDefault(KeyCurrency, "USD")
	v.SetDefault(KeyAddr, ":8080")
}

// FromViper reads Settings from v
func FromViper(v *viper.Viper) *Settings {
	return &Settings{
		Verbose:     v.GetBool(KeyVerbose),
		LogLevel:    v.GetString(KeyLogLevel),
		LogFormat:   v.GetString(KeyLogFormat),
		OutputDir:   v.GetString(KeyOutput),
		Keywords:    v.GetString(KeyKeywords),
		Formats:     v.GetStringSlice(KeyFormats),
		Concurrency: v.GetInt(KeyConcurrency),
		Currency:    strings.ToUpper(v.GetString(KeyCurrency)),
		Addr:        v.GetString(KeyAddr),
	}
}

// Validate checks the settings that do not need a component to validate them
func (s *Settings) Validate() error {
	if strings.TrimSpace(s.OutputDir) == "" {
		return apperrors.ConfigurationError(apperrors.CodeMissingConfig, KeyOutput, s.OutputDir, nil)
	}
	if s.Concurrency < 1 {
		return apperrors.ConfigurationError(apperrors.CodeInvalidConfig, KeyConcurrency, s.Concurrency,
			fmt.Errorf("must be at least 1"))
	}
	return nil
}

// CreateLoggerConfig creates the logger configuration. Verbose forces debug
// level with caller info.
func CreateLoggerConfig(s *Settings) *logger.Config {
	if s.Verbose {
		cfg := logger.DebugConfig()
		cfg.Format = logger.Format(strings.ToLower(s.LogFormat))
		return cfg
	}

	cfg := logger.DefaultConfig()
	cfg.Level = logger.Level(strings.ToLower(s.LogLevel))
	cfg.Format = logger.Format(strings.ToLower(s.LogFormat))
	return cfg
}

// CreateExtractorConfig creates the extraction service configuration
func CreateExtractorConfig(s *Settings) (*extractor.Config, error) {
	cfg := extractor.DefaultConfig()
	cfg.MaxConcurrency = s.Concurrency
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// CreateRegistry creates the layout registry for cfg
func CreateRegistry(cfg *extractor.Config) *layouts.Registry {
	return extractor.DefaultRegistry(cfg)
}

// CreateService wires the registry and the extraction service
func CreateService(s *Settings, log logger.Logger) (*extractor.Service, error) {
	cfg, err := CreateExtractorConfig(s)
	if err != nil {
		return nil, err
	}

	service, err := extractor.NewService(CreateRegistry(cfg), cfg)
	if err != nil {
		return nil, err
	}
	return service.WithLogger(log), nil
}

// CreateReportConfig creates the report configuration from the format
// names and currency in s
func CreateReportConfig(s *Settings) (*reporter.ReportConfig, error) {
	formats, err := reporter.ParseFormats(s.Formats)
	if err != nil {
		return nil, err
	}

	cfg := reporter.DefaultReportConfig()
	if len(formats) > 0 {
		cfg.Formats = formats
	}
	if s.Currency != "" {
		cfg.Currency = s.Currency
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.ConfigurationError(apperrors.CodeInvalidConfig, KeyFormats, s.Formats, err)
	}
	return cfg, nil
}

// CreateTagger loads the keywords file named in s. Without one the tagger
// matches nothing and reports stay untagged.
func CreateTagger(s *Settings) (*lender.Tagger, error) {
	if strings.TrimSpace(s.Keywords) == "" {
		return lender.NewTagger(nil), nil
	}

	kw, err := lender.LoadKeywords(s.Keywords)
	if err != nil {
		return nil, err
	}
	return lender.NewTagger(kw), nil
}

// CreateServerConfig creates the HTTP server configuration
func CreateServerConfig(s *Settings) (*api.Config, error) {
	if strings.TrimSpace(s.Addr) == "" {
		return nil, apperrors.ConfigurationError(apperrors.CodeMissingConfig, KeyAddr, s.Addr, nil)
	}
	return api.DefaultConfig(), nil
}
