// Package cli provides the apicatalog commands.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonwraymond/apicatalog/catalog"
	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/jonwraymond/apicatalog/discovery"
	"github.com/jonwraymond/apicatalog/internal/config"
	"github.com/jonwraymond/apicatalog/internal/logging"
)

// ErrNoCatalog is returned when no catalog file is configured.
var ErrNoCatalog = errors.New("no catalog configured: set catalog_path or --catalog")

type app struct {
	cfgFile      string
	verbose      bool
	catalogPath  string
	dependencies string

	cfg *config.Config
	log *zap.Logger
}

// NewRootCommand builds the apicatalog command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "apicatalog",
		Short: "Search and plan against an API operation catalog",
		Long: `apicatalog indexes a catalog of API operations for natural-language search,
groups operations into CRUD resources, and resolves creation plans from a
resource dependency graph.

Examples:
  apicatalog search "create http load balancer" --catalog catalog.yaml
  apicatalog plan virtual http_loadbalancer --cost
  apicatalog report virtual origin_pool --mode dependents
  apicatalog serve --transport http --addr :8080`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./apicatalog.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVar(&a.catalogPath, "catalog", "", "catalog file, overrides catalog_path")
	flags.StringVar(&a.dependencies, "dependencies", "", "dependency graph file, overrides dependency_path")

	root.AddCommand(
		a.newServeCommand(),
		a.newSearchCommand(),
		a.newDescribeCommand(),
		a.newPlanCommand(),
		a.newReportCommand(),
		a.newCostCommand(),
		a.newStatsCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.catalogPath != "" {
		cfg.CatalogPath = a.catalogPath
	}
	if a.dependencies != "" {
		cfg.DependencyPath = a.dependencies
	}

	logCfg := cfg.Logging
	if a.verbose {
		logCfg = logging.Verbose(logCfg)
	}
	log, err := logging.New(logCfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// discovery builds the engine from the loaded configuration.
func (a *app) discovery() (*discovery.Discovery, error) {
	if a.cfg.CatalogPath == "" {
		return nil, ErrNoCatalog
	}

	var graph *dependency.Graph
	if a.cfg.DependencyPath != "" {
		g, err := dependency.LoadFile(a.cfg.DependencyPath)
		if err != nil {
			return nil, err
		}
		a.log.Debug("dependency graph loaded",
			zap.String("path", a.cfg.DependencyPath),
			zap.Int("resources", g.Len()))
		graph = g
	}

	minScore := a.cfg.Search.MinScore
	return discovery.New(discovery.Options{
		Loader:       catalog.NewFileLoader(a.cfg.CatalogPath),
		Graph:        graph,
		Logger:       a.log,
		Index:        a.cfg.IndexOptions(),
		Match:        a.cfg.MatchOptions(),
		DefaultLimit: a.cfg.Search.DefaultLimit,
		MaxLimit:     a.cfg.Search.MaxLimit,
		MinScore:     &minScore,
		BM25Config:   a.cfg.BM25Config(),
		HybridAlpha:  a.cfg.Search.HybridAlpha,
		Cost:         a.cfg.CostConfig(),
	})
}

// withDiscovery runs fn against a freshly built engine and closes it after.
func (a *app) withDiscovery(fn func(*discovery.Discovery) error) error {
	disc, err := a.discovery()
	if err != nil {
		return err
	}
	defer disc.Close()
	return fn(disc)
}

func printJSON(cmd *cobra.Command, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
	return err
}
