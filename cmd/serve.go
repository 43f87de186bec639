package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/seqgeo/argplace/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the coordinate synthesis HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if servePort > 0 {
			cfg.Server.Port = servePort
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		regions, err := loadRegions()
		if err != nil {
			return err
		}

		srv := server.New(st, initDetector(), cfg, regions)
		return srv.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "override configured HTTP port")
	rootCmd.AddCommand(serveCmd)
}
