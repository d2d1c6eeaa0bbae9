package commands

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/recipescan/internal/logger"
	"github.com/jmylchreest/recipescan/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the extraction HTTP API",
	Long: `Run an HTTP server exposing recipe extraction.

Endpoints:
  POST /v1/extract         {"url": "..."} or {"html": "...", "url": "..."}
  GET  /healthz

With --store set, the pending URL endpoints are enabled:
  GET|PUT|DELETE /v1/pending
  POST           /v1/pending/scan

Examples:
  recipescan serve --addr :8080
  recipescan serve --store redis --redis-addr cache:6379`,
	Args: cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		rootCmd.PersistentPreRun(cmd, args)
		bindStoreFlags(cmd.Flags())
	},
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	flags := serveCmd.Flags()
	flags.String("addr", server.DefaultAddr, "listen address")
	flags.Duration("request-timeout", 2*time.Minute, "per-request deadline")
	flags.String("max-request-body", "10MiB", "max request body size")
	flags.StringSlice("cors-origin", nil, "allowed CORS origins (default: any)")
	addStoreFlags(flags, "none")

	_ = viper.BindPFlag("server_addr", flags.Lookup("addr"))
	_ = viper.BindPFlag("request_timeout", flags.Lookup("request-timeout"))
	_ = viper.BindPFlag("max_request_body", flags.Lookup("max-request-body"))
	_ = viper.BindPFlag("cors_origins", flags.Lookup("cors-origin"))
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	scanner, err := newScanner()
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		return err
	}
	defer func() { _ = scanner.Close() }()

	maxBody, err := parseSize(viper.GetString("max_request_body"))
	if err != nil {
		logError("invalid max-request-body: %v", err)
		return err
	}

	store, closeStore, err := openStore(context.Background())
	if err != nil {
		logger.Error("failed to open pending store", "error", err)
		return err
	}
	defer closeStore()

	srv := server.New(scanner, server.Config{
		Addr:           viper.GetString("server_addr"),
		RequestTimeout: viper.GetDuration("request_timeout"),
		MaxRequestBody: int64(maxBody),
		AllowOrigins:   viper.GetStringSlice("cors_origins"),
		Debug:          viper.GetBool("debug"),
		Pending:        store,
	})

	logger.Info("starting server",
		"addr", viper.GetString("server_addr"),
		"detectors", scanner.Detectors(),
		"pending_store", viper.GetString("store"))

	return srv.Run(ctx)
}
