package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"photo-sorter/internal/config"
	"photo-sorter/internal/geocoder"
	"photo-sorter/internal/logger"
	"photo-sorter/internal/metadata"
	"photo-sorter/internal/service"

	"github.com/rs/zerolog/log"
)

func main() {
	dir := flag.String("dir", "", "folder with the photos to sort (prompted for when empty)")
	configPath := flag.String("config", "./configs", "folder holding app.env")
	dryRun := flag.Bool("dry-run", false, "log where each photo would go without moving anything")
	flag.Parse()

	config, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	if *dir == "" {
		*dir, err = promptDir(os.Stdin, os.Stdout, config.DefaultPhotoDir)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if err := checkDir(*dir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := run(config, *dir, *dryRun); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg config.Config, dir string, dryRun bool) error {
	logg, closer, err := logger.New(cfg.LogLevel, cfg.LogFile, os.Stdout)
	if err != nil {
		return err
	}
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize layers
	geo, err := geocoder.FromConfig(cfg, logg)
	if err != nil {
		return err
	}

	extractor := metadata.NewExtractor(logg)
	resolver := service.NewPlaceResolverService(geo, logg)
	organizer := service.NewOrganizerService(extractor, resolver, logg, service.WithDryRun(dryRun))
	sorter := service.NewSorterService(organizer, logg)

	if _, err := sorter.Sort(ctx, dir); err != nil {
		logg.Error().Err(err).Str("folder", dir).Msg("sort failed")
		return err
	}
	return nil
}
