// Command gpsprobe prints what each GPS strategy reads from the given photos,
// and optionally the folder the sorter would pick for them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"photo-sorter/internal/config"
	"photo-sorter/internal/geocoder"
	"photo-sorter/internal/metadata"
	"photo-sorter/internal/service"

	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type probe struct {
	File       string
	Strategies map[string]metadata.Result
	Folder     string
}

func main() {
	resolve := flag.Bool("resolve", false, "reverse geocode the first coordinate found")
	configPath := flag.String("config", "./configs", "folder holding app.env")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: gpsprobe [-resolve] [-config dir] photo.jpg...")
		os.Exit(2)
	}

	var resolver *service.PlaceResolverService
	if *resolve {
		config, err := config.LoadConfig(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot load config")
		}
		geo, err := geocoder.FromConfig(config, zerolog.Nop())
		if err != nil {
			log.Fatal().Err(err).Msg("cannot build geocoder")
		}
		resolver = service.NewPlaceResolverService(geo, zerolog.Nop())
	}

	strategies := []metadata.Strategy{metadata.TagStrategy{}, metadata.IFDStrategy{}}
	failed := false

	for _, file := range flag.Args() {
		p := probe{File: file, Strategies: make(map[string]metadata.Result)}

		var coord *metadata.Result
		for _, s := range strategies {
			res, err := s.Lookup(file)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", file, err)
				failed = true
				break
			}
			p.Strategies[s.Name()] = res
			if coord == nil && res.Status == metadata.StatusFound {
				coord = &res
			}
		}

		if resolver != nil && coord != nil {
			c := coord.Coordinate
			p.Folder = service.FolderFor(c, resolver.Lookup(context.Background(), c))
		}

		pretty.Println(p)
	}

	if failed {
		os.Exit(1)
	}
}
