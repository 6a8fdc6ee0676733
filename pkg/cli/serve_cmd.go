package cli

import (
	"github.com/spf13/cobra"

	"sqlgen/internal/api"
	appwire "sqlgen/internal/app"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and HTML form",
		Long: "Serves the JSON API under /v1 and the HTML form under / using the metadata\n" +
			"given by --metadata. Stops on SIGINT or SIGTERM.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			cfg.Metadata = a.metadata
			cfg.Mode = a.mode
			if cmd.Flags().Changed("addr") {
				cfg.ListenAddr = addr
			}

			application, err := appwire.New(cmd.Context(), appwire.Deps{Cfg: &cfg, Logger: a.logger, Loader: a.loader()})
			if err != nil {
				return err
			}
			return api.Serve(cmd.Context(), cfg.ListenAddr, application.Handler, a.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "Listen address (default from LISTEN_ADDR)")

	return cmd
}
