package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestRecordAssignment(t *testing.T) {
	m := Get()
	require.Same(t, m, Get())

	before := testutil.ToFloat64(m.AssignmentsTotal.WithLabelValues(OUTCOME_ASSIGNED, "control"))
	m.RecordAssignment(OUTCOME_ASSIGNED, "control", time.Now())
	m.RecordAssignment(OUTCOME_ASSIGNED, "control", time.Now())
	after := testutil.ToFloat64(m.AssignmentsTotal.WithLabelValues(OUTCOME_ASSIGNED, "control"))
	require.Equal(t, before+2, after)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.RecordAssignment(OUTCOME_ERROR, "", time.Now())
	m.RecordRenderError()
	m.RecordRequest("/v1/assign", "200", time.Millisecond)
}
