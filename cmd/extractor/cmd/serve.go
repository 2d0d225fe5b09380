package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"statement-extractor/cmd/extractor/config"
	"statement-extractor/internal/api"
	"statement-extractor/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve extraction over HTTP",
		Long: `Serve starts an HTTP server with two routes:

  GET  /api/health
  POST /api/extract   multipart "file" (PDF) or repeated "pages" form values

Responses use the same JSON document as the json output format.

Example:
  extractor serve --addr :8080 --keywords lenders.json`,
		Args:    cobra.NoArgs,
		PreRunE: bindFlags(v),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), v)
		},
	}

	cmd.Flags().String(config.KeyAddr, ":8080", "listen address")
	cmd.Flags().StringP(config.KeyKeywords, "k", "", "lender keywords JSON file (optional)")

	return cmd
}

func runServe(ctx context.Context, v *viper.Viper) error {
	settings := config.FromViper(v)
	log := logger.GetGlobalLogger()

	service, err := config.CreateService(settings, log)
	if err != nil {
		return err
	}
	tagger, err := config.CreateTagger(settings)
	if err != nil {
		return err
	}
	serverConfig, err := config.CreateServerConfig(settings)
	if err != nil {
		return err
	}

	server, err := api.NewServer(service, tagger, serverConfig, log)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Listen(settings.Addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
