// Package graphdb loads class nodes into Neo4j using batched UNWIND queries.
package graphdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"go-classgraph-neo4j/internal/model"
)

const defaultBatchSize = 1000

// Loader writes class and method nodes and their relationships.
type Loader struct {
	driver    neo4j.DriverWithContext
	database  string
	batchSize int
	logger    *slog.Logger
}

// Options configures a Loader.
type Options struct {
	Database  string
	BatchSize int
	Logger    *slog.Logger
}

// NewLoader connects to Neo4j and verifies connectivity.
func NewLoader(ctx context.Context, uri, user, password string, opts Options) (*Loader, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("neo4j unreachable: %w", err)
	}
	l := &Loader{
		driver:    driver,
		database:  opts.Database,
		batchSize: opts.BatchSize,
		logger:    opts.Logger,
	}
	if l.batchSize <= 0 {
		l.batchSize = defaultBatchSize
	}
	if l.logger == nil {
		l.logger = slog.Default()
	}
	return l, nil
}

// Close releases the underlying driver.
func (l *Loader) Close(ctx context.Context) error {
	return l.driver.Close(ctx)
}

func (l *Loader) runCypher(ctx context.Context, cypher string, params map[string]any) error {
	var opts []neo4j.ExecuteQueryConfigurationOption
	if l.database != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(l.database))
	}
	_, err := neo4j.ExecuteQuery(ctx, l.driver, cypher, params, neo4j.EagerResultTransformer, opts...)
	return err
}

// runBatches runs cypher once per chunk of rows, bound to $batch.
func (l *Loader) runBatches(ctx context.Context, cypher string, rows []map[string]any) error {
	for _, chunk := range chunks(rows, l.batchSize) {
		if err := l.runCypher(ctx, cypher, map[string]any{"batch": chunk}); err != nil {
			return err
		}
	}
	return nil
}

// CleanGraph removes previously loaded Class and Method nodes.
func (l *Loader) CleanGraph(ctx context.Context) error {
	l.logger.Info("cleaning existing class graph")
	queries := []string{
		"MATCH ()-[r:EXTEND]->() DELETE r",
		"MATCH ()-[r:HAS]->() DELETE r",
		"MATCH ()-[r:INTERFACE]->() DELETE r",
		"MATCH (n:Method) DETACH DELETE n",
		"MATCH (n:Class) DETACH DELETE n",
	}
	for _, q := range queries {
		if err := l.runCypher(ctx, q, nil); err != nil {
			return fmt.Errorf("clean graph: %w", err)
		}
	}
	return nil
}

// CreateIndexes ensures the lookup keys are indexed.
func (l *Loader) CreateIndexes(ctx context.Context) error {
	l.logger.Info("creating indexes")
	indexes := []string{
		"CREATE CONSTRAINT class_name IF NOT EXISTS FOR (n:Class) REQUIRE n.name IS UNIQUE",
		"CREATE INDEX class_id IF NOT EXISTS FOR (n:Class) ON (n.uuid)",
		"CREATE INDEX method_id IF NOT EXISTS FOR (n:Method) ON (n.uuid)",
	}
	for _, q := range indexes {
		if err := l.runCypher(ctx, q, nil); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// LoadAll writes nodes then relationships.
func (l *Loader) LoadAll(ctx context.Context, nodes []*model.ClassNode) error {
	steps := []struct {
		what string
		fn   func(context.Context, []*model.ClassNode) error
	}{
		{"classes", l.LoadClasses},
		{"methods", l.LoadMethods},
		{"extend edges", l.LoadExtends},
		{"interface edges", l.LoadInterfaces},
	}
	for _, s := range steps {
		if err := s.fn(ctx, nodes); err != nil {
			return fmt.Errorf("load %s: %w", s.what, err)
		}
	}
	return nil
}

// LoadClasses upserts Class nodes keyed by name.
func (l *Loader) LoadClasses(ctx context.Context, nodes []*model.ClassNode) error {
	rows := ClassParams(nodes)
	l.logger.Info("loading classes", "count", len(rows))
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MERGE (n:Class {name: row.name})
		 SET n.uuid = row.uuid, n.type = 'Class', n.superClass = row.super_class,
		     n.interfaces = row.interfaces, n.isInterface = row.is_interface,
		     n.hasSuperClass = row.has_super_class, n.hasInterfaces = row.has_interfaces,
		     n.fields = row.fields`,
		rows,
	)
}

// LoadMethods upserts Method nodes and their HAS edges.
func (l *Loader) LoadMethods(ctx context.Context, nodes []*model.ClassNode) error {
	rows := MethodParams(nodes)
	l.logger.Info("loading methods", "count", len(rows))
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MATCH (c:Class {name: row.class_name})
		 MERGE (m:Method {uuid: row.uuid})
		 SET m.name = row.name, m.signature = row.signature, m.classname = row.class_name,
		     m.isSink = row.is_sink, m.isSource = row.is_source, m.isIgnore = row.is_ignore,
		     m.isPolluted = row.is_polluted, m.pollutedPosition = row.polluted_positions,
		     m.actions = row.actions, m.isInitialed = row.is_initialized,
		     m.actionInitialed = row.is_action_initialized
		 MERGE (c)-[h:HAS {uuid: row.edge_uuid}]-(m)`,
		rows,
	)
}

// LoadExtends creates EXTEND edges between loaded classes.
func (l *Loader) LoadExtends(ctx context.Context, nodes []*model.ClassNode) error {
	rows := ExtendParams(nodes)
	l.logger.Info("loading extend edges", "count", len(rows))
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MATCH (s:Class {name: row.source}), (t:Class {name: row.target})
		 MERGE (s)-[r:EXTEND]->(t)
		 SET r.uuid = row.uuid`,
		rows,
	)
}

// LoadInterfaces creates INTERFACE edges in both directions.
func (l *Loader) LoadInterfaces(ctx context.Context, nodes []*model.ClassNode) error {
	rows := InterfaceParams(nodes)
	l.logger.Info("loading interface edges", "count", len(rows))
	return l.runBatches(ctx,
		`UNWIND $batch AS row
		 MATCH (s:Class {name: row.source}), (t:Class {name: row.target})
		 MERGE (s)-[a:INTERFACE]->(t)
		 MERGE (t)-[b:INTERFACE]->(s)
		 SET a.uuid = row.uuid`,
		rows,
	)
}
