package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spigell/blacktable/internal/server"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the pipelines over HTTP",
	Args:  cobra.NoArgs,
	Run: func(_ *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		s := start(ctx)

		s.logger.Info("starting the server",
			zap.String("version", version),
			zap.String("provider", s.svc.Provider().Name()),
			zap.String("model", s.svc.Provider().Model()),
		)

		if err := server.New(s.svc, s.cfg.Server, s.logger).Listen(ctx); err != nil {
			s.logger.Fatal("serving", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}
