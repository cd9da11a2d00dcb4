// Package scan builds class nodes for a whole catalog in parallel.
package scan

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"go-classgraph-neo4j/internal/builder"
	"go-classgraph-neo4j/internal/hierarchy"
	"go-classgraph-neo4j/internal/model"
	"go-classgraph-neo4j/internal/rules"
)

// Options configures a Driver.
type Options struct {
	Workers   int // <= 0 means 1
	CacheSize int // closure cache entries, 0 disables
	Methods   builder.MethodFactory
	Logger    *slog.Logger
	Metrics   *Metrics
}

// Driver runs one forward pass over a catalog.
type Driver struct {
	catalog hierarchy.Catalog
	builder *builder.Builder
	workers int
	logger  *slog.Logger
	metrics *Metrics
}

// NewDriver wires a Builder over catalog and repo.
func NewDriver(catalog hierarchy.Catalog, repo rules.Repository, opts Options) *Driver {
	walker := hierarchy.NewWalker(catalog, opts.CacheSize)
	d := &Driver{
		catalog: catalog,
		builder: builder.New(catalog, walker, repo, opts.Methods),
		workers: opts.Workers,
		logger:  opts.Logger,
		metrics: opts.Metrics,
	}
	if d.workers <= 0 {
		d.workers = 1
	}
	if d.logger == nil {
		d.logger = slog.Default()
	}
	return d
}

// Result holds the nodes of one scan in input order.
type Result struct {
	Nodes  []*model.ClassNode
	byName map[string]*model.ClassNode
}

// Node returns the node named name.
func (r *Result) Node(name string) (*model.ClassNode, bool) {
	n, ok := r.byName[name]
	return n, ok
}

// Unclassified returns methods no rule has initialized, grouped by class.
func (r *Result) Unclassified() map[string][]*model.MethodNode {
	out := make(map[string][]*model.MethodNode)
	for _, n := range r.Nodes {
		for _, m := range n.Methods() {
			if !m.IsRuleInitialized {
				out[n.Name] = append(out[n.Name], m)
			}
		}
	}
	return out
}

// Run builds a node for each name. Every name must be in the catalog and
// appear once; a nil slice selects all classes of a *Catalog.
func (d *Driver) Run(ctx context.Context, names []string) (*Result, error) {
	if names == nil {
		if c, ok := d.catalog.(*Catalog); ok {
			names = c.Names()
		}
	}
	res := &Result{
		Nodes:  make([]*model.ClassNode, len(names)),
		byName: make(map[string]*model.ClassNode, len(names)),
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			return nil, fmt.Errorf("class %s scheduled twice", name)
		}
		seen[name] = true
	}

	d.logger.Info("building class nodes", "classes", len(names), "workers", d.workers)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			cls, ok := d.catalog.Class(name)
			if !ok {
				return fmt.Errorf("class %s not in catalog", name)
			}
			node, err := d.builder.Build(cls)
			if err != nil {
				return fmt.Errorf("build %s: %w", name, err)
			}
			res.Nodes[i] = node
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, n := range res.Nodes {
		res.byName[n.Name] = n
		if d.metrics != nil {
			d.metrics.observe(n)
		}
	}
	d.logger.Info("class nodes built", "classes", len(res.Nodes))
	return res, nil
}

// Reresolve retries rule resolution against repo for methods that are
// still unclassified. It returns the number of methods classified.
func (d *Driver) Reresolve(res *Result, repo rules.Repository) int {
	total := 0
	for _, n := range res.Nodes {
		cls, ok := d.catalog.Class(n.Name)
		if !ok {
			continue
		}
		done := d.builder.Reclassify(n, cls, repo)
		total += len(done)
		if d.metrics != nil {
			for _, m := range done {
				d.metrics.reclassified(m)
			}
		}
	}
	d.logger.Info("re-resolved methods", "classified", total)
	return total
}
