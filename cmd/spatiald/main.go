// Command spatiald is the spatial audio control daemon. It keeps the scene,
// talks OSC to the audio engine and serves the operator API.
//
// Usage:
//
//	spatiald -config spatiald.yaml
//	SPATIAL_ENGINE_HOST=192.168.1.20 spatiald
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/chabad360/osc-spatial/api"
	"github.com/chabad360/osc-spatial/config"
	"github.com/chabad360/osc-spatial/control"
	"github.com/chabad360/osc-spatial/engine"
	"github.com/chabad360/osc-spatial/heartbeat"
	"github.com/chabad360/osc-spatial/mixer"
	"github.com/chabad360/osc-spatial/osc"
	"github.com/chabad360/osc-spatial/scene"
	"github.com/chabad360/osc-spatial/snapshot"
	"github.com/chabad360/osc-spatial/speakers"
	"github.com/chabad360/osc-spatial/zone"
)

func main() {
	configPath := flag.String("config", "", "path to spatiald.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "spatiald:", err)
		os.Exit(2)
	}
	level, _ := cfg.Level()
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, cfg); err != nil {
		logger.Error("spatiald: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	backend, prefs, err := snapshot.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("open snapshots: %w", err)
	}
	store := snapshot.NewStore(backend, prefs, snapshot.WithLogger(logger))
	defer store.Close()

	client, err := osc.NewClient(cfg.Engine.Port)
	if err != nil {
		return fmt.Errorf("osc client: %w", err)
	}
	defer client.Close()
	if cfg.Engine.Host != "" {
		if err := client.SetHost(cfg.Engine.Host); err != nil {
			logger.Warn("engine host ignored", "host", cfg.Engine.Host, "error", err)
		}
	}

	zones, err := zone.New(cfg.Scene.Radius, cfg.Scene.AngleBound,
		zone.WithRenderer(zone.RendererFunc(func(m []zone.Marker) {
			logger.Debug("zone markers rebuilt", "count", len(m))
		})))
	if err != nil {
		return err
	}
	if err := zones.SetCount(cfg.Scene.Zones); err != nil {
		return err
	}
	sc, err := scene.New(cfg.Scene.Objects, cfg.Scene.Labels, zones)
	if err != nil {
		return err
	}

	monitor := heartbeat.New(client,
		heartbeat.WithInterval(cfg.Heartbeat.Interval),
		heartbeat.WithTimeout(cfg.Heartbeat.Timeout),
		heartbeat.WithLogger(logger))
	inputs := mixer.NewMeterBank(engine.AddrChannelIn, 1, cfg.Meters.Inputs, mixer.FloorDB, logger)
	outputs := mixer.NewMeterBank(engine.AddrChannelOut, 1, cfg.Meters.Outputs, mixer.FloorDB, logger)
	master := mixer.NewMeterBank(engine.AddrChannelOut, cfg.Meters.Master, 1, mixer.MasterFloorDB, logger)

	dispatcher := &osc.Dispatcher{Logger: logger}
	for _, bind := range []func(*osc.Dispatcher) error{monitor.Bind, inputs.Bind, outputs.Bind, master.Bind} {
		if err := bind(dispatcher); err != nil {
			return err
		}
	}

	opts := []control.Option{
		control.WithTransmitter(client),
		control.WithStore(store),
		control.WithMonitor(monitor),
		control.WithMeters(inputs, outputs),
		control.WithMasterMeter(master),
		control.WithSoloBank(mixer.NewSoloBank(cfg.Meters.Inputs)),
		control.WithSpeakers(speakers.NewLayout(cfg.Speakers.Bounds, cfg.Speakers.Max)),
		control.WithBurstDelay(cfg.BurstDelay),
		control.WithOuterRadius(cfg.Scene.OuterRadius),
		control.WithLogger(logger),
	}
	if *cfg.Autoload {
		opts = append(opts, control.WithAutoload(cfg.StartupDelay))
	}
	ctrl, err := control.New(sc, opts...)
	if err != nil {
		return err
	}

	oscServer := &osc.Server{Addr: cfg.Engine.Listen, Dispatcher: dispatcher, Logger: logger}
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Listen,
		Handler:           api.New(ctrl, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(ctx) })
	g.Go(func() error { return monitor.Run(ctx) })
	g.Go(func() error { return oscServer.ListenAndServe(ctx) })
	g.Go(func() error {
		logger.Info("http listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info("spatiald started",
		"engine", client.Remote(),
		"osc", cfg.Engine.Listen,
		"storage", cfg.Storage.Backend)
	return g.Wait()
}
