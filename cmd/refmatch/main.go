package main

import (
	"log"
	"os"

	cli "github.com/urfave/cli/v2"

	"github.com/biorefs/refmatch/matchapi"
	"github.com/biorefs/refmatch/parsing"
	"github.com/biorefs/refmatch/render"
)

func main() {
	app := &cli.App{
		Name:            "refmatch",
		Usage:           "Identify which reference genome a BAM/SAM/CRAM/VCF/dict sequence dictionary belongs to",
		HideHelpCommand: true,
		Version:         "0.1.0dev",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "catalog",
				Aliases:  []string{"c"},
				Usage:    "Catalog JSON file listing known reference genomes",
				Required: true,
				Category: "Required",
			},
			&cli.StringFlag{
				Name:     "format",
				Aliases:  []string{"f"},
				Usage:    "Output format: text, json, or tsv",
				Value:    "text",
				Category: "Optional",
			},
			&cli.StringFlag{
				Name:     "config",
				Usage:    "Matching config YAML file overriding the default scoring weights",
				Category: "Optional",
			},
			&cli.BoolFlag{
				Name:     "verbose",
				Aliases:  []string{"v"},
				Usage:    "Accepted by every command; no command reads it, so it adds no output",
				Category: "Optional",
			},
		},
		Commands: []*cli.Command{
			identifyCommand(),
			scoreCommand(),
			catalogCommand(),
			serveCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.New(os.Stderr, "", 0).Fatal(err)
	}
}

// loadCatalog reads the --catalog flag and decodes it into the slice of
// references plus the index the matcher needs.
func loadCatalog(Cctx *cli.Context) ([]*matchapi.KnownReference, *matchapi.CatalogIndex) {
	logger := log.New(os.Stderr, "", 0)

	f, err := os.Open(Cctx.String("catalog"))
	if err != nil {
		logger.Fatalf("failed to open catalog file: %v", err)
	}
	defer f.Close()

	refs, idx, err := matchapi.LoadCatalog(f)
	if err != nil {
		logger.Fatalf("failed to load catalog: %v", err)
	}
	return refs, idx
}

// loadConfig reads --config if set, otherwise returns the default
// matching weights.
func loadConfig(Cctx *cli.Context) matchapi.MatchingConfig {
	logger := log.New(os.Stderr, "", 0)

	path := Cctx.String("config")
	if path == "" {
		return matchapi.DefaultMatchingConfig()
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Fatalf("failed to open config file: %v", err)
	}
	defer f.Close()

	cfg, err := matchapi.LoadMatchingConfig(f)
	if err != nil {
		logger.Fatalf("failed to parse config file: %v", err)
	}
	return cfg
}

// parseInput opens the named file (or reads stdin for "-") and parses
// it into a QueryHeader, auto-detecting the format unless --input-format
// overrides detection.
func parseInput(Cctx *cli.Context, path string) *matchapi.QueryHeader {
	logger := log.New(os.Stderr, "", 0)

	var f *os.File
	if path == "-" {
		f = os.Stdin
	} else {
		var err error
		f, err = os.Open(path)
		if err != nil {
			logger.Fatalf("failed to open input file: %v", err)
		}
		defer f.Close()
	}

	inputFormat := Cctx.String("input-format")
	var query *matchapi.QueryHeader
	var err error
	if inputFormat != "" {
		query, err = parsing.ParseAs(parsing.Format(inputFormat), path, f)
	} else {
		query, err = parsing.Parse(path, f)
	}
	if err != nil {
		logger.Fatalf("failed to parse input: %v", err)
	}
	return query
}

func writeResults(Cctx *cli.Context, query *matchapi.QueryHeader, results []matchapi.MatchResult) error {
	switch Cctx.String("format") {
	case "json":
		return render.JSON(os.Stdout, results)
	case "tsv":
		return render.TSV(os.Stdout, results)
	default:
		return render.Text(os.Stdout, query, results)
	}
}

func identifyCommand() *cli.Command {
	return &cli.Command{
		Name:      "identify",
		Usage:     "Score an input header against every reference in the catalog and rank the matches",
		ArgsUsage: "<input-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input-format",
				Usage:    "Force the input format instead of auto-detecting it (sam, bam, cram, dict, fai, vcf, ncbi_report, tsv)",
				Category: "Optional",
			},
		},
		Action: func(Cctx *cli.Context) error {
			if Cctx.Args().Len() != 1 {
				return cli.Exit("identify requires exactly one input file argument", 1)
			}

			_, idx := loadCatalog(Cctx)
			cfg := loadConfig(Cctx)
			query := parseInput(Cctx, Cctx.Args().First())

			results, err := matchapi.FindMatches(query, idx, cfg)
			if err != nil {
				return cli.Exit(err, 1)
			}
			return writeResults(Cctx, query, results)
		},
	}
}

func scoreCommand() *cli.Command {
	return &cli.Command{
		Name:      "score",
		Usage:     "Score an input header against exactly one named catalog reference",
		ArgsUsage: "<input-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input-format",
				Usage:    "Force the input format instead of auto-detecting it",
				Category: "Optional",
			},
			&cli.StringFlag{
				Name:     "reference",
				Aliases:  []string{"r"},
				Usage:    "ID of the catalog reference to score against",
				Required: true,
				Category: "Required",
			},
		},
		Action: func(Cctx *cli.Context) error {
			if Cctx.Args().Len() != 1 {
				return cli.Exit("score requires exactly one input file argument", 1)
			}

			refs, _ := loadCatalog(Cctx)
			cfg := loadConfig(Cctx)
			query := parseInput(Cctx, Cctx.Args().First())

			refID := Cctx.String("reference")
			var ref *matchapi.KnownReference
			for _, candidate := range refs {
				if candidate.ID == refID {
					ref = candidate
					break
				}
			}
			if ref == nil {
				return cli.Exit("unknown reference id: "+refID, 1)
			}

			result, err := matchapi.Score(query, ref, cfg)
			if err != nil {
				return cli.Exit(err, 1)
			}
			return writeResults(Cctx, query, []matchapi.MatchResult{result})
		},
	}
}

func catalogCommand() *cli.Command {
	return &cli.Command{
		Name:  "catalog",
		Usage: "Inspect the loaded catalog",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List every reference in the catalog",
				Action: func(Cctx *cli.Context) error {
					refs, _ := loadCatalog(Cctx)
					for _, ref := range refs {
						log.New(os.Stdout, "", 0).Printf("%s\t%s\t%s\t%d contigs", ref.ID, ref.DisplayName, ref.Assembly, len(ref.Contigs))
					}
					return nil
				},
			},
			{
				Name:      "show",
				Usage:     "Show the contigs of one catalog reference",
				ArgsUsage: "<reference-id>",
				Action: func(Cctx *cli.Context) error {
					if Cctx.Args().Len() != 1 {
						return cli.Exit("catalog show requires exactly one reference id argument", 1)
					}
					refs, _ := loadCatalog(Cctx)
					id := Cctx.Args().First()
					out := log.New(os.Stdout, "", 0)
					for _, ref := range refs {
						if ref.ID != id {
							continue
						}
						out.Printf("%s (%s, %s)", ref.ID, ref.DisplayName, ref.Assembly)
						for _, c := range ref.Contigs {
							out.Printf("  %s\t%d\t%s", c.Name, c.Length, c.MD5)
						}
						return nil
					}
					return cli.Exit("unknown reference id: "+id, 1)
				},
			},
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the matching engine over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "addr",
				Usage:    "Address to listen on",
				Value:    ":8080",
				Category: "Optional",
			},
		},
		Action: func(Cctx *cli.Context) error {
			return runServer(Cctx)
		},
	}
}
