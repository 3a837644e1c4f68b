package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginStarted      = "started"
	LoginSucceeded    = "succeeded"
	LoginUnverified   = "unverified"
	LoginFailed       = "failed"
	LoginInvalidState = "invalid_state"
)

// Metrics holds all Prometheus metrics for the application
type Metrics struct {
	registry *prometheus.Registry

	IdentitiesCreated prometheus.Counter
	LoginAttempts     *prometheus.CounterVec
	SolverDispatches  *prometheus.CounterVec
	RequestOutcomes   *prometheus.CounterVec
}

// New creates a private registry with process/Go collectors and all
// application metrics registered on it.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IdentitiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "solver_gateway_identities_created_total",
			Help: "Total number of identities created on first login",
		}),
		LoginAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_gateway_login_attempts_total",
			Help: "Login flow steps by outcome",
		}, []string{"outcome"}),
		SolverDispatches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_gateway_solver_dispatches_total",
			Help: "Solver invocations by route and result",
		}, []string{"route", "result"}),
		RequestOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "solver_gateway_request_outcomes_total",
			Help: "Handled requests by outcome",
		}, []string{"outcome"}),
	}
}

// IdentityCreated increments the identities created counter by 1
func (m *Metrics) IdentityCreated() {
	m.IdentitiesCreated.Inc()
}

func (m *Metrics) LoginAttempt(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SolverDispatch(route, result string) {
	m.SolverDispatches.WithLabelValues(route, result).Inc()
}

func (m *Metrics) RequestOutcome(outcome string) {
	m.RequestOutcomes.WithLabelValues(outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
