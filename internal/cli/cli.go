package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/concertvenues/concertvenues/internal/config"
	"github.com/concertvenues/concertvenues/internal/logger"
	"github.com/concertvenues/concertvenues/internal/pipeline"
	"github.com/concertvenues/concertvenues/internal/scraper"
	"github.com/concertvenues/concertvenues/internal/site"
	"github.com/concertvenues/concertvenues/internal/store"
)

var (
	flagConfig  string
	flagVenue   string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "concertvenues",
		Short: "Aggregate venue event listings into a static concert calendar",
		Long: `Scrapes upcoming events from independent London venue websites into
one SQLite database, then generates a static calendar site from it.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if flagVerbose {
				logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
			}
		},
	}

	cmd.PersistentFlags().StringVar(&flagConfig, "config", config.DefaultPath, "Path to config.toml")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	scrapeCmd := &cobra.Command{
		Use:   "scrape",
		Short: "Run scrapers and update the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := setup()
			if err != nil {
				return err
			}
			return runScrape(cmd, cfg, st)
		},
	}
	scrapeCmd.Flags().StringVar(&flagVenue, "venue", "", "Only scrape this venue (by its key in config.toml)")

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the static website from the database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := setup()
			if err != nil {
				return err
			}
			return runGenerate(cmd, cfg, st)
		},
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Scrape all venues then generate the site",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, st, err := setup()
			if err != nil {
				return err
			}
			if err := runScrape(cmd, cfg, st); err != nil {
				return err
			}
			return runGenerate(cmd, cfg, st)
		},
	}
	runCmd.Flags().StringVar(&flagVenue, "venue", "", "Only scrape this venue (by its key in config.toml)")

	cmd.AddCommand(scrapeCmd, generateCmd, runCmd)
	return cmd
}

// setup performs the fatal-on-failure part of every command: config load
// and store open.
func setup() (*config.Config, *store.Store, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, nil, err
	}
	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	return cfg, st, nil
}

func runScrape(cmd *cobra.Command, cfg *config.Config, st *store.Store) error {
	targets, err := selectTargets(cfg)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		cmd.Println("No enabled scrapers found. Check your config.toml [venues] section.")
		return nil
	}

	report := pipeline.Run(cmd.Context(), st, targets)

	for _, res := range report.Results {
		switch {
		case res.Status == pipeline.StatusSucceeded:
			cmd.Printf("%s: %d events saved.\n", res.VenueName, res.Events)
		case res.Unsupported:
			cmd.Printf("%s: UNSUPPORTED (%v)\n", res.VenueName, res.Err)
		default:
			cmd.Printf("%s: FAILED (%v)\n", res.VenueName, res.Err)
		}
	}
	if report.Pruned > 0 {
		cmd.Printf("Cleaned up %d past events from the database.\n", report.Pruned)
	}
	return nil
}

// selectTargets intersects the scraper registry with the enabled config
// sections, or picks the single venue named by --venue.
func selectTargets(cfg *config.Config) ([]pipeline.Target, error) {
	enabled := cfg.EnabledVenues()

	keys := make([]string, 0, len(enabled))
	if flagVenue != "" {
		if _, ok := scraper.New(flagVenue, scraper.Config{}); !ok {
			return nil, fmt.Errorf("no scraper registered for venue %q (available: %s)",
				flagVenue, strings.Join(scraper.Keys(), ", "))
		}
		keys = append(keys, flagVenue)
	} else {
		for key := range enabled {
			keys = append(keys, key)
		}
		sort.Strings(keys)
	}

	var targets []pipeline.Target
	for _, key := range keys {
		venueCfg := cfg.Venues[key]
		sc, ok := scraper.New(key, scraper.Config{URL: venueCfg.URL, City: venueCfg.City})
		if !ok {
			logger.Warn("no scraper registered for configured venue", logger.Fields{"venue": key})
			continue
		}
		targets = append(targets, pipeline.Target{
			Scraper: sc,
			City:    venueCfg.City,
			URL:     venueCfg.URL,
		})
	}
	return targets, nil
}

func runGenerate(cmd *cobra.Command, cfg *config.Config, st *store.Store) error {
	if err := site.Build(st, cfg); err != nil {
		return err
	}
	cmd.Printf("Site generated in '%s/'.\n", cfg.Site.OutputDir)
	return nil
}
