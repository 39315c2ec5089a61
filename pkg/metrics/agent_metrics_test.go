package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAgentMetricsRegistersAll(t *testing.T) {
	reg := NewRegistry(false)
	m := NewMetricFactory(NewPromRegistry(reg)).NewAgentMetrics()

	m.Exports.WithLabelValues("cpu", "success").Inc()
	m.Exports.WithLabelValues("cpu", "failure").Add(2)
	m.CollectErrors.WithLabelValues("mem").Inc()
	m.ExportDuration.WithLabelValues("cpu").Observe(0.01)
	m.CollectDuration.WithLabelValues("mem").Observe(0.02)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exports.WithLabelValues("cpu", "success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Exports.WithLabelValues("cpu", "failure")))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"agent_collect_errors_total",
		"agent_collect_duration_seconds",
		"agent_exports_total",
		"agent_export_duration_seconds",
	}, names)
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	f := NewMetricFactory(NewPromRegistry(NewRegistry(false)))
	f.NewAgentExportsTotal()
	assert.Panics(t, func() { f.NewAgentExportsTotal() })
}
