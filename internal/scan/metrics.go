package scan

import (
	"github.com/prometheus/client_golang/prometheus"

	"go-classgraph-neo4j/internal/model"
)

// Metrics counts what a scan produced. Each scan owns its registry.
type Metrics struct {
	Registry *prometheus.Registry

	classes *prometheus.CounterVec
	methods *prometheus.CounterVec
}

// NewMetrics registers the scan counters on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		classes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classgraph",
			Name:      "classes_total",
			Help:      "Classes built, by type.",
		}, []string{"type"}),
		methods: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "classgraph",
			Name:      "methods_total",
			Help:      "Methods built, by resolved classification.",
		}, []string{"kind"}),
	}
	m.Registry.MustRegister(m.classes, m.methods)
	return m
}

func (m *Metrics) observe(node *model.ClassNode) {
	if node.IsInterface {
		m.classes.WithLabelValues("interface").Inc()
	} else {
		m.classes.WithLabelValues("class").Inc()
	}
	for _, meth := range node.Methods() {
		m.methods.WithLabelValues(methodKind(meth)).Inc()
	}
}

func (m *Metrics) reclassified(meth *model.MethodNode) {
	m.methods.WithLabelValues("reclassified_" + methodKind(meth)).Inc()
}

func methodKind(m *model.MethodNode) string {
	switch {
	case !m.IsRuleInitialized:
		return "unclassified"
	case m.IsSink:
		return "sink"
	case m.IsSource:
		return "source"
	case m.IsIgnore:
		return "ignore"
	}
	return "know"
}

// WriteFile writes the counters in the Prometheus text format.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.Registry)
}
