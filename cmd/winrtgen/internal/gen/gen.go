package gen

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cockroachdb/errors"

	"winrtgen"
	"winrtgen/config"
	"winrtgen/logging"
	"winrtgen/metadata"
	"winrtgen/sink"
	"winrtgen/watch"
)

type Cmd struct {
	Manifest string `arg:"" optional:"" default:"winrtgen.toml" help:"Path to the TOML manifest."`
	Watch    bool   `help:"Watch the metadata document and regenerate on change." short:"w"`
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

	out := sink.NewFilesystemSink(cfg.Output.Dir)
	out.Overwrite = !cfg.Output.NoClobber

	run := func(ctx context.Context) error {
		store, err := metadata.LoadFile(cfg.Metadata)
		if err != nil {
			return err
		}
		_, err = winrtgen.Generate(ctx, store, out, winrtgen.Options{
			Namespaces: cfg.Namespaces,
			File:       cfg.Output.File,
			Report:     cfg.Output.Report,
			Log:        log,
		})
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		return err
	}
	if !c.Watch {
		return nil
	}

	err = watch.Run(ctx, cfg.Metadata, cfg.Watch.Debounce, log, run)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
