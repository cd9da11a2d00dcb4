package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"go-classgraph-neo4j/internal/config"
	"go-classgraph-neo4j/internal/export"
	"go-classgraph-neo4j/internal/gosource"
	"go-classgraph-neo4j/internal/graphdb"
	"go-classgraph-neo4j/internal/hierarchy"
	"go-classgraph-neo4j/internal/rules"
	"go-classgraph-neo4j/internal/scan"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type app struct {
	configPath    string
	goDir         string
	fallbackRules string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "classgraph",
		Short:         "Build a taint-annotated class graph",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "YAML config file")
	pf.StringVar(&a.goDir, "go-dir", "", "scan the Go module in this directory instead of a catalog file")
	pf.StringVar(&a.fallbackRules, "fallback-rules", "", "second rule file tried for unclassified methods")

	root.AddCommand(a.newLoadCmd(), a.newExportCmd(), a.newResolveCmd())
	return root
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	lvl, _ := cfg.Level()
	a.cfg = cfg
	a.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(a.logger)
	return nil
}

func (a *app) newLoadCmd() *cobra.Command {
	var clean bool
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Scan classes and load them into Neo4j",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			res, err := a.scan(ctx)
			if err != nil {
				return err
			}
			if a.cfg.Neo4j.Password == "" {
				return fmt.Errorf("neo4j password is required (CLASSGRAPH_NEO4J_PASSWORD)")
			}
			loader, err := graphdb.NewLoader(ctx, a.cfg.Neo4j.URI, a.cfg.Neo4j.User, a.cfg.Neo4j.Password, graphdb.Options{
				Database:  a.cfg.Neo4j.Database,
				BatchSize: a.cfg.Neo4j.BatchSize,
				Logger:    a.logger,
			})
			if err != nil {
				return err
			}
			defer loader.Close(ctx)

			if clean {
				if err := loader.CleanGraph(ctx); err != nil {
					return err
				}
			}
			if err := loader.CreateIndexes(ctx); err != nil {
				return err
			}
			if err := loader.LoadAll(ctx, res.Nodes); err != nil {
				return err
			}

			a.logger.Info("graph loaded into neo4j")
			a.logger.Info("useful cypher queries",
				"sinks", "MATCH (c:Class)-[:HAS]-(m:Method {isSink: true}) RETURN c.name, m.name",
				"hierarchy", "MATCH p=(c:Class {name: $name})-[:EXTEND*]->(s:Class) RETURN p",
				"implementors", "MATCH (c:Class)-[:INTERFACE]->(i:Class {isInterface: true}) RETURN c.name, i.name",
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&clean, "clean", false, "remove existing class graph before loading")
	return cmd
}

func (a *app) newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Scan classes and write CSV files for bulk import",
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := a.scan(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = a.cfg.Output.Dir
			}
			w := &export.Writer{Dir: out, Logger: a.logger}
			return w.WriteAll(res.Nodes)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory (default from config)")
	return cmd
}

func (a *app) newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CLASS METHOD",
		Short: "Print the rule a method resolves to",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, repo, err := a.inputs()
			if err != nil {
				return err
			}
			cls, ok := catalog.Class(args[0])
			if !ok {
				return fmt.Errorf("class %s not in catalog", args[0])
			}
			ancestors := hierarchy.NewWalker(catalog, 0).Closure(cls)
			rule, ok := rules.Resolve(cls.Name, args[1], ancestors, repo)
			out := cmd.OutOrStdout()
			if !ok {
				fmt.Fprintf(out, "%s.%s: no rule\n", args[0], args[1])
				return nil
			}
			fmt.Fprintf(out, "%s.%s: %s (from %s)\n", args[0], args[1], rule.Kind, rule.Class)
			return nil
		},
	}
}

// inputs loads the class catalog and the rule table.
func (a *app) inputs() (*scan.Catalog, *rules.Table, error) {
	var repo *rules.Table
	if a.cfg.Scan.Rules != "" {
		t, err := rules.LoadFile(a.cfg.Scan.Rules)
		if err != nil {
			return nil, nil, err
		}
		repo = t
	} else {
		a.logger.Warn("no rule file configured; every method stays unclassified")
		repo = rules.NewTable()
	}

	if a.goDir != "" {
		absDir, err := filepath.Abs(a.goDir)
		if err != nil {
			return nil, nil, err
		}
		modulePath, err := detectModulePath(absDir)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot detect Go module: %w", err)
		}
		a.logger.Info("loading go packages", "module", modulePath, "dir", absDir)
		c := gosource.NewCollector(modulePath)
		if err := c.Load(absDir, "./..."); err != nil {
			return nil, nil, fmt.Errorf("failed to load packages: %w", err)
		}
		catalog, err := c.Catalog()
		return catalog, repo, err
	}
	if a.cfg.Scan.Catalog == "" {
		return nil, nil, fmt.Errorf("no catalog configured (scan.catalog or --go-dir)")
	}
	catalog, err := scan.LoadCatalogFile(a.cfg.Scan.Catalog, a.cfg.Scan.RootType)
	return catalog, repo, err
}

func (a *app) scan(ctx context.Context) (*scan.Result, error) {
	catalog, repo, err := a.inputs()
	if err != nil {
		return nil, err
	}
	a.logger.Info("inputs ready", "classes", catalog.Len(), "rules", repo.Len())

	metrics := scan.NewMetrics()
	d := scan.NewDriver(catalog, repo, scan.Options{
		Workers:   a.cfg.Scan.Workers,
		CacheSize: a.cfg.Scan.CacheSize,
		Logger:    a.logger,
		Metrics:   metrics,
	})
	res, err := d.Run(ctx, nil)
	if err != nil {
		return nil, err
	}
	if a.fallbackRules != "" {
		extra, err := rules.LoadFile(a.fallbackRules)
		if err != nil {
			return nil, err
		}
		d.Reresolve(res, extra)
	}
	if path := a.cfg.Output.Metrics; path != "" {
		if err := metrics.WriteFile(path); err != nil {
			return nil, fmt.Errorf("write metrics: %w", err)
		}
	}
	return res, nil
}

// detectModulePath reads the go.mod file in dir and returns the module path.
func detectModulePath(dir string) (string, error) {
	gomod := filepath.Join(dir, "go.mod")
	data, err := os.ReadFile(gomod)
	if err != nil {
		return "", fmt.Errorf("cannot read go.mod: %w", err)
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "module ") {
			return strings.TrimSpace(strings.TrimPrefix(line, "module")), nil
		}
	}
	return "", fmt.Errorf("module directive not found in go.mod")
}
