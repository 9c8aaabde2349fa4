package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Digital-Shane/trailer-tidy/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var listenAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the trailer HTTP API",
	Long: `Serve the trailer API:

  GET  /api/Trailer/Trailers?searchText=...
  POST /api/Trailer/SendTrailer?searchText=...&emailAddress=...
  GET  /health`,
	Args: cobra.NoArgs,
	RunE: runServeCommand,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (overrides config listen_addr)")
}

func runServeCommand(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	addr := a.cfg.ListenAddr
	if listenAddr != "" {
		addr = listenAddr
	}

	gin.SetMode(gin.ReleaseMode)
	handler := server.NewHandler(a.aggregator, a.notifier, a.logger)
	srv := server.New(addr, handler, a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.Run(ctx)
}
