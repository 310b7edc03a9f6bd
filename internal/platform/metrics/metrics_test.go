package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	dErrors "studyhub/pkg/domain-errors"
)

func TestRecordOperation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.RecordOperation("group", "join", nil)
	m.RecordOperation("group", "join", dErrors.New(dErrors.CodeNotAllowed, "already a member"))
	m.RecordOperation("group", "join", dErrors.Wrap(errors.New("down"), dErrors.CodeInternal, "failed"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("group", "join", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("group", "join", "rejected")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("group", "join", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.InvariantRejections.WithLabelValues("group", "not_allowed")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementUsersCreated()
		m.IncrementSessionsStarted()
		m.RecordOperation("user", "create", nil)
		m.RecordEvent("user_created", nil)
	})
}
