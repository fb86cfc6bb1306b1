package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/vango-dev/memodom/internal/config"
	"github.com/vango-dev/memodom/pkg/remote"
	"github.com/vango-dev/memodom/pkg/vdom"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Host board sessions over websocket",
		Long: `Serve the demo board to websocket peers.

Every connection on /ws gets its own driver whose change lists are
streamed as binary frames. Prometheus metrics are served on /metrics.

Examples:
  memodom serve
  memodom serve --addr=127.0.0.1:9000
  memodom serve --config=memodom.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Listen address (default from config)")

	return cmd
}

// newServer builds the remote server described by cfg.
func newServer(cfg *config.Config, reg *prometheus.Registry) *remote.Server {
	return remote.NewServer(remote.ServerConfig{
		Root: func() vdom.Renderer {
			return newBoard("todo", "read the docs")
		},
		ReadTimeout:     cfg.ReadTimeout(),
		WriteTimeout:    cfg.WriteTimeout(),
		ReadBufferSize:  cfg.Server.ReadBufferSize,
		WriteBufferSize: cfg.Server.WriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return cfg.OriginAllowed(r.Header.Get("Origin"), r.Host)
		},
		Registry:  reg,
		Namespace: cfg.Metrics.Namespace,
		Logger:    cfg.Logger(os.Stderr),
	})
}

func runServe(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := newServer(cfg, prometheus.NewRegistry())
	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	printBanner()
	fmt.Println("  serve")
	fmt.Println()
	info("Sessions: ws://%s/ws", cfg.Server.Addr)
	info("Metrics:  http://%s/metrics", cfg.Server.Addr)
	fmt.Println()

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Println("\n\n  Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	success("Stopped with %d active sessions", srv.ActiveSessions())
	return nil
}
