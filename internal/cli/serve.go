package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/claimcheck/internal/server"
)

const shutdownTimeout = 10 * time.Second

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the fact-check API over HTTP",
	Long: `Serve exposes the pipeline as a JSON API:

  POST /api/fact-check   {"query": "..."}
  GET  /api/fact-check?q=...
  GET  /healthz

Every well-formed request gets HTTP 200 with the response envelope, including
status "error" responses. Malformed requests get HTTP 400.

Example:
  claimcheck serve --addr :8080
  CLAIMCHECK_CACHE_ENABLED=true claimcheck serve --redis-addr localhost:6379`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default from server.addr)")
	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}

	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.pipeline, server.Options{
		Addr:           cfg.Server.Addr,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		Logger:         logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(srv.ListenAndServe)

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if a.suggester.IsEnabled() {
		g.Go(func() error {
			checkCtx, cancel := context.WithTimeout(gctx, 10*time.Second)
			defer cancel()
			a.checkSuggestions(checkCtx, logger)
			return nil
		})
	}

	return g.Wait()
}
