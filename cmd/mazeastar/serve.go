package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdrpinto/mazeastar/internal/vizweb"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the visualizer HTTP server",
	Long:  `Serves a step-by-step A* visualizer on random mazes, plus Prometheus metrics at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr := cfg.Server.Addr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}

		server := vizweb.NewServer(logger, cfg.PollInterval, cfg.Render.CellSize)
		defer server.Close()

		srv := &http.Server{
			Addr:    addr,
			Handler: server.Handler(),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting visualizer", "addr", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown failed", "error", err)
				return srv.Close()
			}
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("addr", "a", ":8080", "Address to listen on")
}
