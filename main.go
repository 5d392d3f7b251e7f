package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dave/odt/config"
	"github.com/dave/odt/globals"
)

func main() {
	if err := Main(); err != nil {
		log.Fatalf("%v", err)
	}
}

func Main() error {

	resume := flag.Bool("resume", false, "continue from the last checkpoint")
	configFile := flag.String("config", "", "config file (default ./odt.yaml if present)")
	version := flag.Bool("version", false, "show version")
	flag.Parse()

	if *version {
		fmt.Println(globals.VERSION)
		return nil
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger, err := cfg.Log.Logger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := &Builder{
		Config: cfg,
		Resume: *resume,
		Log:    logger,
		Out:    os.Stdout,
	}
	if _, err := b.Build(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Warnf("interrupted, run again with -resume to continue from the last checkpoint")
		}
		return fmt.Errorf("building elevation profile: %w", err)
	}
	return nil
}
