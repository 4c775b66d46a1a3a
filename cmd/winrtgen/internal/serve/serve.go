package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"winrtgen/config"
	"winrtgen/explore"
	"winrtgen/logging"
	"winrtgen/metadata"
)

// Cmd runs the explorer HTTP server over the manifest's metadata.
type Cmd struct {
	Manifest string `arg:"" optional:"" default:"winrtgen.toml" help:"Path to the TOML manifest."`
	Addr     string `help:"Listen address." default:"127.0.0.1:8091" short:"a"`
}

func (c *Cmd) Run() error {
	cfg, err := config.Load(c.Manifest)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.Log.Verbose, cfg.Log.JSON)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	store, err := metadata.LoadFile(cfg.Metadata)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return explore.NewServer(store, cfg.Namespaces, log).Run(ctx, c.Addr)
}
