package cmd

import (
	"context"

	"reviewmsg/pkg/errors"
	"reviewmsg/pkg/logger"
	"reviewmsg/pkg/server"
	"reviewmsg/pkg/shops"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the shop URL lookup endpoint",
	Long: `Run the HTTP server answering POST /update_shop_url with the review URL of
a shop. Shops come from the local SQLite store, seeded from the config file
(or the stock shops) on first start. Metrics are exposed on /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		store, err := shops.Open(cfg.Server.DBPath)
		if err != nil {
			return errors.StorageError("opening shop store", err)
		}
		defer store.Close()

		n, err := store.Seed(context.Background(), cfg.SeedShops())
		if err != nil {
			return errors.StorageError("seeding shop store", err)
		}
		if n > 0 {
			logger.Info().Int("count", n).Msg("seeded shop store")
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		srvCfg := server.DefaultConfig
		srvCfg.Addr = cfg.Server.ListenAddr
		if serveAddr != "" {
			srvCfg.Addr = serveAddr
		}
		srv := server.New(srvCfg, server.NewHandler(store, reg))

		logger.Info().Str("addr", srvCfg.Addr).Str("db", cfg.Server.DBPath).Msg("listening")
		return server.RunWithGracefulShutdown(srv, srvCfg.ShutdownTimeout)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides server.listen_addr)")
}
