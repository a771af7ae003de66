package api

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"railviz/internal/capability"
	"railviz/internal/config"
	"railviz/internal/metrics"
	"railviz/internal/planner"
	"railviz/internal/refdata"
	"railviz/internal/sequencer"
	"railviz/internal/session"
)

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the journey-visualization API server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "listen",
				Usage: "listen address, overrides LISTEN_ADDR",
			},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if listen := c.String("listen"); listen != "" {
				cfg.ListenAddr = listen
			}
			return serve(cfg)
		},
	}
}

func serve(cfg *config.Config) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	ref, err := refdata.Load(ctx, cfg)
	if err != nil {
		return err
	}

	var collector *metrics.Collector
	var metricsSrv *http.Server
	if cfg.MetricsAddr != "" {
		collector = metrics.NewCollector()
		metricsSrv = collector.Serve(cfg.MetricsAddr)
	}

	loader := capability.NewLoader(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.LogNATSSubjects, capabilityMetrics(collector))
	defer loader.Shutdown()

	seq := sequencer.New(func(ctx context.Context) (sequencer.Capability, error) {
		pub, err := loader.Load(ctx)
		if err != nil {
			return nil, err
		}
		return pub, nil
	}, cfg.PlaybackCompression, cfg.PlaybackTick, cfg.Location, sequencerMetrics(collector))

	client := planner.NewClient(cfg.PlannerBaseURL, cfg.PlannerTimeout)
	sess := session.New(ref, client, seq, collector, cfg.ViewportPadding)
	defer sess.Close()

	srv := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: New(sess, collector).Router(),
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("api listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("api shutdown error")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("metrics shutdown error")
		}
	}
	return nil
}

// The collector is optional; a typed nil inside an interface would dodge the
// callee's nil checks, so wrap the conversion.

func capabilityMetrics(c *metrics.Collector) capability.Metrics {
	if c == nil {
		return nil
	}
	return c
}

func sequencerMetrics(c *metrics.Collector) sequencer.Metrics {
	if c == nil {
		return nil
	}
	return c
}
