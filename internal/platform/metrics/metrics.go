package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	dErrors "studyhub/pkg/domain-errors"
)

// Metrics holds the application-level Prometheus metrics. A nil *Metrics is valid
// and records nothing, so concepts built without metrics need no guards.
type Metrics struct {
	UsersCreated        prometheus.Counter
	SessionsStarted     prometheus.Counter
	Operations          *prometheus.CounterVec
	InvariantRejections *prometheus.CounterVec
	EventsPublished     *prometheus.CounterVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "studyhub_users_created_total",
			Help: "Total number of users created",
		}),
		SessionsStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "studyhub_sessions_started_total",
			Help: "Total number of sessions started by login",
		}),
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studyhub_concept_operations_total",
			Help: "Concept operations by outcome (ok, rejected, error)",
		}, []string{"concept", "operation", "outcome"}),
		InvariantRejections: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studyhub_invariant_rejections_total",
			Help: "Operations refused by a concept invariant, by error code",
		}, []string{"concept", "code"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "studyhub_events_published_total",
			Help: "Activity events handed to the publisher, by result",
		}, []string{"type", "result"}),
	}
}

func (m *Metrics) IncrementUsersCreated() {
	if m == nil {
		return
	}
	m.UsersCreated.Inc()
}

func (m *Metrics) IncrementSessionsStarted() {
	if m == nil {
		return
	}
	m.SessionsStarted.Inc()
}

// RecordOperation counts one concept operation. Coded errors other than internal
// ones count as invariant rejections.
func (m *Metrics) RecordOperation(concept, operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		var de *dErrors.Error
		if errors.As(err, &de) && de.Code != dErrors.CodeInternal {
			outcome = "rejected"
			m.InvariantRejections.WithLabelValues(concept, string(de.Code)).Inc()
		} else {
			outcome = "error"
		}
	}
	m.Operations.WithLabelValues(concept, operation, outcome).Inc()
}

func (m *Metrics) RecordEvent(eventType string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(eventType, result).Inc()
}
