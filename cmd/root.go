// Package cmd wires dltcat's configuration, logging, metrics, tracing and
// the ingest pipeline together behind a single cobra command, grounded on
// the teacher's cmd/root.go NewCommand/runRoot shape.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/USA-RedDragon/configulator"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"

	"github.com/dlt-toolkit/dlthub/ingest"
	"github.com/dlt-toolkit/dlthub/internal/config"
	"github.com/dlt-toolkit/dlthub/internal/logging"
	"github.com/dlt-toolkit/dlthub/internal/metrics"
)

// NewCommand builds the dltcat root command.
func NewCommand(version, commit string) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "dltcat",
		Short:   "Decode a DLT UDP stream into tagged, line-indexed text",
		Version: fmt.Sprintf("%s (%s)", version, commit),
		RunE:    runRoot,
	}
	c := configulator.New[config.Config]().Default(config.Default())
	cmd.SetContext(c.ToContext(context.Background()))
	registerFlags(cmd)
	return cmd
}

func registerFlags(cmd *cobra.Command) {
	cmd.Flags().String("bind", "", "address to bind the UDP socket to")
	cmd.Flags().Uint16("port", 0, "UDP port to listen on")
	cmd.Flags().String("tag", "", "tag prefix for output lines")
	cmd.Flags().String("ecu-id", "", "ECU id used for synthesized storage headers")
	cmd.Flags().String("out", "", "output file path")
	cmd.Flags().Bool("append", false, "append to an existing output file instead of truncating it")
	cmd.Flags().String("log-level", "", "debug|info|warn|error")
}

func runRoot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	c, err := configulator.FromContext[config.Config](ctx)
	if err != nil {
		return fmt.Errorf("dltcat: loading config context: %w", err)
	}
	cfg, err := c.Load()
	if err != nil {
		return fmt.Errorf("dltcat: loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	tp := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tp)
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("dltcat: shutting down tracer provider", "error", err)
		}
	}()

	runCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, groupCtx := errgroup.WithContext(runCtx)

	var m ingest.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		collected := metrics.New(reg)
		m = collected
		server := metrics.NewServer(cfg.Metrics.ListenAddr, reg)
		g.Go(func() error {
			return server.Run(groupCtx)
		})
	}

	var socketCfg ingest.SocketConfig
	socketCfg.BindAddr = cfg.Bind
	socketCfg.Port = cfg.Port
	if cfg.Multicast != nil {
		socketCfg.Multicast = &ingest.MulticastConfig{
			MultiAddr: cfg.Multicast.MultiAddr,
			Interface: cfg.Multicast.Interface,
		}
	}

	progress := make(chan ingest.ProgressResult, 16)
	g.Go(func() error {
		for p := range progress {
			if p.Err != nil {
				log.Error("dltcat: indexing error", "error", p.Err)
				continue
			}
			log.Debug("dltcat: progress", "event", p.Progress.String())
		}
		return nil
	})

	g.Go(func() error {
		defer close(progress)
		return ingest.IndexFromSocket(groupCtx, ingest.Params{
			Socket:        socketCfg,
			Append:        cfg.Append,
			Tag:           cfg.Tag,
			ECUID:         cfg.ECUID,
			OutPath:       cfg.OutPath,
			InitialLineNr: cfg.InitialLineNr,
			ChunkLines:    cfg.ChunkLines,
			ChunkBytes:    cfg.ChunkBytes,
			Metrics:       m,
			Logger:        log,
		}, progress)
	})

	return g.Wait()
}
