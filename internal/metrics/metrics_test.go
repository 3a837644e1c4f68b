package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.IdentityCreated()
	m.LoginAttempt(LoginSucceeded)
	m.LoginAttempt(LoginSucceeded)
	m.SolverDispatch("public", "ok")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.IdentitiesCreated))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues(LoginSucceeded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SolverDispatches.WithLabelValues("public", "ok")))
}

func TestMetrics_IndependentRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.IdentityCreated()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "solver_gateway_identities_created_total 1")
}
