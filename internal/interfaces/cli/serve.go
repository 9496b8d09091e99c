package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	httpserver "github.com/turtacn/TalentScreen/internal/interfaces/http"
	"github.com/turtacn/TalentScreen/internal/interfaces/http/handlers"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the evaluation HTTP API",
		Long:  "Starts the evaluation API server: submission evaluation and report\nendpoints, health probes, and the Prometheus scrape endpoint.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			log, err := newLogger(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := NewRuntime(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer rt.Close()

			checkers := []handlers.HealthChecker{poolChecker{rt.Pool}}
			if rt.Redis != nil {
				checkers = append(checkers, redisChecker{rt.Redis})
			}

			router := httpserver.NewRouter(httpserver.RouterConfig{
				EvaluationHandler: handlers.NewEvaluationHandler(rt.Evaluation, log),
				HealthHandler:     handlers.NewHealthHandler(Version, checkers...),
				Logger:            log,
				Metrics:           rt.Metrics,
			})
			srv := httpserver.NewServer(cfg.Server, router, log)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				log.Info("shutdown signal received")
				return srv.Stop(context.Background())
			}
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "HTTP port (overrides config)")
	return cmd
}

type poolChecker struct {
	pool interface {
		Ping(ctx context.Context) error
	}
}

func (c poolChecker) Name() string                          { return "postgres" }
func (c poolChecker) HealthCheck(ctx context.Context) error { return c.pool.Ping(ctx) }

type redisChecker struct {
	client interface {
		HealthCheck(ctx context.Context) error
	}
}

func (c redisChecker) Name() string                          { return "redis" }
func (c redisChecker) HealthCheck(ctx context.Context) error { return c.client.HealthCheck(ctx) }
