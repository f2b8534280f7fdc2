package cli

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonwraymond/apicatalog/dependency"
	"github.com/jonwraymond/apicatalog/discovery"
	"github.com/jonwraymond/apicatalog/registry"
	"github.com/jonwraymond/apicatalog/tooldoc"
)

func (a *app) newServeCommand() *cobra.Command {
	var transport, addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog metatools over MCP",
		Long: `Serve the catalog to MCP clients over stdio (default) or streamable HTTP.

Logs never go to stdout; in stdio mode stdout carries protocol traffic only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if transport == "" {
				transport = a.cfg.Server.Transport
			}
			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			if transport == "stdio" && a.cfg.Logging.Output == "stdout" {
				return fmt.Errorf("logging.output must not be stdout when serving over stdio")
			}

			return a.withDiscovery(func(disc *discovery.Discovery) error {
				reg, err := registry.New(disc, registry.Config{
					ServerInfo: registry.ServerInfo{
						Name:    a.cfg.Server.Name,
						Version: a.cfg.Server.Version,
					},
					Logger: a.log,
				})
				if err != nil {
					return err
				}
				if err := reg.HealthCheck(cmd.Context()); err != nil {
					return err
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
				defer stop()
				switch transport {
				case "stdio":
					return registry.ServeStdio(ctx, reg)
				case "http":
					return registry.ListenAndServe(ctx, addr, reg)
				default:
					return fmt.Errorf("unknown transport %q", transport)
				}
			})
		},
	}
	cmd.Flags().StringVarP(&transport, "transport", "t", "", "stdio or http (default from config)")
	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address (default from config)")
	return cmd
}

func (a *app) newSearchCommand() *cobra.Command {
	var (
		opts     discovery.SearchOptions
		mode     string
		minScore float64
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the catalog",
		Long: `Rank catalog operations against a natural-language query.

Examples:
  apicatalog search "create dns zone"
  apicatalog search "origin pool" --mode hybrid --domain virtual
  apicatalog search "http lb" --deps --exclude-dangerous`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("min-score") {
				opts.MinScore = &minScore
			}
			q := strings.Join(args, " ")
			return a.withDiscovery(func(disc *discovery.Discovery) error {
				var (
					results discovery.Results
					err     error
				)
				switch mode {
				case registry.ModeLexical:
					results, err = disc.SearchTools(q, opts)
				case registry.ModeBM25:
					results, err = disc.SearchDescriptions(q, opts)
				case registry.ModeHybrid:
					results, err = disc.SearchHybrid(q, opts)
				default:
					return fmt.Errorf("unknown mode %q", mode)
				}
				if err != nil {
					return err
				}
				return printJSON(cmd, registry.SearchResponse{
					Query:   q,
					Mode:    mode,
					Count:   len(results),
					Results: results,
				})
			})
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.Limit, "limit", "n", 0, "maximum results (default from config)")
	f.StringSliceVar(&opts.Domains, "domain", nil, "restrict to domains")
	f.StringSliceVar(&opts.Operations, "operation", nil, "restrict to operations")
	f.Float64Var(&minScore, "min-score", 0, "minimum score")
	f.BoolVar(&opts.ExcludeDangerous, "exclude-dangerous", false, "drop high danger operations")
	f.BoolVar(&opts.IncludeDependencies, "deps", false, "attach prerequisite hints to create operations")
	f.StringVarP(&mode, "mode", "m", registry.ModeLexical, "lexical, bm25 or hybrid")
	return cmd
}

func (a *app) newDescribeCommand() *cobra.Command {
	var detail string
	cmd := &cobra.Command{
		Use:   "describe <tool>",
		Short: "Describe one catalog operation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := tooldoc.ParseDetailLevel(detail)
			if err != nil {
				return err
			}
			return a.withDiscovery(func(disc *discovery.Discovery) error {
				doc, err := disc.DescribeTool(args[0], level)
				if err != nil {
					return err
				}
				return printJSON(cmd, doc)
			})
		},
	}
	cmd.Flags().StringVarP(&detail, "detail", "d", string(tooldoc.DetailSchema), "summary, schema or full")
	return cmd
}

func (a *app) newPlanCommand() *cobra.Command {
	var (
		opts     dependency.ResolveOptions
		withCost bool
	)
	cmd := &cobra.Command{
		Use:   "plan <domain> <resource>",
		Short: "Build a creation plan for a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Domain, opts.Resource = args[0], args[1]
			return a.withDiscovery(func(disc *discovery.Discovery) error {
				resp := registry.PlanResponse{PlanResult: disc.ResolveDependencies(opts)}
				if withCost && resp.Success {
					pc, err := disc.EstimateWorkflowCost(resp.Plan, true)
					if err != nil {
						return err
					}
					resp.Cost = &pc
				}
				return printJSON(cmd, resp)
			})
		},
	}
	f := cmd.Flags()
	f.StringSliceVar(&opts.ExistingResources, "existing", nil, "resources that already exist (domain/resource)")
	f.BoolVar(&opts.IncludeOptional, "optional", false, "include optional prerequisites")
	f.IntVar(&opts.MaxDepth, "max-depth", 0, "traversal depth bound (default 10)")
	f.BoolVar(&opts.ExpandAlternatives, "alternatives", false, "expand one-of choices into branches")
	f.BoolVar(&withCost, "cost", false, "attach a cost estimate")
	return cmd
}

func (a *app) newReportCommand() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "report <domain> <resource>",
		Short: "Report the dependencies of a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := dependency.ParseReportMode(mode)
			if err != nil {
				return err
			}
			return a.withDiscovery(func(disc *discovery.Discovery) error {
				return printJSON(cmd, disc.DependencyReport(args[0], args[1], m))
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", string(dependency.ModeFull),
		"prerequisites, dependents, oneOf, subscriptions, creationOrder or full")
	return cmd
}

func (a *app) newCostCommand() *cobra.Command {
	var detailed bool
	cmd := &cobra.Command{
		Use:   "cost <tool>...",
		Short: "Estimate the cost of calling catalog operations",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDiscovery(func(disc *discovery.Discovery) error {
				batch, err := disc.EstimateMultipleToolsCost(args, detailed)
				if err != nil {
					return err
				}
				return printJSON(cmd, batch)
			})
		},
	}
	cmd.Flags().BoolVarP(&detailed, "detailed", "d", false, "include per-tool breakdowns")
	return cmd
}

func (a *app) newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print index, consolidation and dependency statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withDiscovery(func(disc *discovery.Discovery) error {
				stats, err := disc.Stats()
				if err != nil {
					return err
				}
				return printJSON(cmd, stats)
			})
		},
	}
}
