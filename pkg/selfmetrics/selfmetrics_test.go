package selfmetrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cuemby/netvisor/pkg/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerServesPrometheusText(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/selfmetrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "netvisor_handlers_running")
}

func TestSubscribeCountsBrokerEvents(t *testing.T) {
	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	Subscribe(broker)

	broker.Publish(&events.Event{Type: events.EventBucketRotated, SchemaKey: "flow"})

	require.Eventually(t, func() bool {
		w := httptest.NewRecorder()
		Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/selfmetrics", nil))
		return w.Code == http.StatusOK && strings.Contains(w.Body.String(), `netvisor_bucket_rotations_total{schema_key="flow"} 1`)
	}, time.Second, 10*time.Millisecond)
}
