package cli

import (
	"log/slog"

	"github.com/spf13/cobra"
)

func newServeCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the analysis API over HTTP",
		Long: `serve exposes the analyzer over HTTP:

  POST /api/v1/analyze          analyze a tshark JSON export (query: ssid, bssid)
  GET  /api/v1/reports          list stored reports (query: limit)
  GET  /api/v1/reports/{id}     fetch one report (query: format=json|csv|table|pdf)
  GET  /metrics                 Prometheus metrics
  GET  /healthz                 liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			application, err := st.newApp(true)
			if err != nil {
				return err
			}
			defer st.closeApp(application)

			slog.Info("apcaps starting", "version", st.version, "db", st.cfg.DBPath)
			return application.Serve(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&st.cfg.Addr, "addr", st.cfg.Addr, "Listen address")
	cmd.Flags().Float64Var(&st.cfg.RateLimit, "rate-limit", st.cfg.RateLimit, "Sustained analyze requests per second per client")
	cmd.Flags().IntVar(&st.cfg.RateBurst, "rate-burst", st.cfg.RateBurst, "Analyze request burst per client")
	cmd.Flags().Int64Var(&st.cfg.MaxBodyBytes, "max-body", st.cfg.MaxBodyBytes, "Largest accepted analyze request body, in bytes")
	return cmd
}
