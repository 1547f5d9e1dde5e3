package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MeKo-Tech/ioprof/internal/server"
	"github.com/spf13/cobra"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP server exposing live profiling reports",
	Long: `Start an HTTP server that profiles its own requests and reports on them.

The server provides the following endpoints:
  GET  /health             - Health check endpoint
  GET  /report?format=...  - Report of everything profiled so far
  GET  /profiling          - Whether profiling is switched on
  POST /profiling/enable   - Switch profiling on
  POST /profiling/disable  - Switch profiling off
  GET  /ws/report          - WebSocket stream of the report
  GET  /demo               - Profiled request doing simulated SQL and cache work
  GET  /metrics            - Prometheus metrics

Examples:
  ioprof serve
  ioprof serve --port 8080
  ioprof serve --host 0.0.0.0 --port 3000 --stream-interval 250`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get configuration from centralized system (includes CLI flags, config file, env vars, and defaults)
		cfg := GetConfig()
		serverConfig := cfg.ToServerConfig()

		if cmd.Flags().Changed("host") {
			serverConfig.Host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			serverConfig.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("cors-origin") {
			serverConfig.CORSOrigin, _ = cmd.Flags().GetString("cors-origin")
		}
		if cmd.Flags().Changed("timeout") {
			serverConfig.TimeoutSec, _ = cmd.Flags().GetInt("timeout")
		}
		if cmd.Flags().Changed("stream-interval") {
			ms, _ := cmd.Flags().GetInt("stream-interval")
			serverConfig.StreamInterval = time.Duration(ms) * time.Millisecond
		}
		if cmd.Flags().Changed("metrics") {
			serverConfig.MetricsEnabled, _ = cmd.Flags().GetBool("metrics")
		}
		if cmd.Flags().Changed("demo-scale") {
			serverConfig.DemoScale, _ = cmd.Flags().GetFloat64("demo-scale")
		}

		shutdownTimeout := cfg.Server.ShutdownTimeout
		if cmd.Flags().Changed("shutdown-timeout") {
			shutdownTimeout, _ = cmd.Flags().GetInt("shutdown-timeout")
		}

		// Validate port number
		if serverConfig.Port < 1 || serverConfig.Port > 65535 {
			return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", serverConfig.Port)
		}
		if serverConfig.TimeoutSec <= 0 {
			return fmt.Errorf("invalid timeout: %d (must be positive)", serverConfig.TimeoutSec)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		profServer := server.NewServer(serverConfig)

		httpServer := &http.Server{
			Addr:              fmt.Sprintf("%s:%d", serverConfig.Host, serverConfig.Port),
			Handler:           profServer.Handler(),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       time.Duration(serverConfig.TimeoutSec) * time.Second,
		}

		go func() {
			slog.Info("Starting profiling server", "host", serverConfig.Host, "port", serverConfig.Port)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Server error", "error", err)
				cancel()
			}
		}()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
		defer signal.Stop(sigChan)

		select {
		case sig := <-sigChan:
			slog.Info("Received shutdown signal", "signal", sig.String())
		case <-ctx.Done():
			slog.Info("Context cancelled, initiating shutdown")
		}

		slog.Info("Starting graceful shutdown", "timeout", fmt.Sprintf("%ds", shutdownTimeout))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(shutdownTimeout)*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server shutdown error", "error", err)
		} else {
			slog.Info("HTTP server shutdown completed")
		}

		final := profServer.RunReport()
		slog.Info("Final run report",
			"categories", len(final.Categories),
			"io_ms", final.IOTime(),
			"total_ms", final.Script.TotalTime)

		slog.Info("Graceful shutdown completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 8080, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int("timeout", 30, "request read timeout in seconds")
	serveCmd.Flags().Int("shutdown-timeout", 10, "shutdown timeout in seconds")
	serveCmd.Flags().Int("stream-interval", 1000, "websocket report interval in milliseconds")
	serveCmd.Flags().Bool("metrics", true, "expose Prometheus metrics on /metrics")
	serveCmd.Flags().Float64("demo-scale", 1.0, "multiplier applied to the pauses of /demo")
}
