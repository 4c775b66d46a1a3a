package check

import (
	"context"
	"fmt"

	"winrtgen"
	"winrtgen/config"
	"winrtgen/logging"
	"winrtgen/metadata"
	"winrtgen/rust"
)

// Cmd runs the full pipeline, rendering included, and discards the output.
type Cmd struct {
	Manifest string `arg:"" optional:"" default:"winrtgen.toml" help:"Path to the TOML manifest."`
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

	built, err := winrtgen.Compose(context.Background(), store, winrtgen.Options{
		Namespaces: cfg.Namespaces,
		Log:        log,
	})
	if err != nil {
		return err
	}

	rendered := rust.Render(built)

	total := 0
	for _, ns := range built {
		fmt.Printf("✓ %s (%d declarations)\n", ns.Name, len(ns.Decls))
		total += len(ns.Decls)
	}
	fmt.Printf("✓ %d declarations render to %d bytes\n", total, len(rendered))
	return nil
}
