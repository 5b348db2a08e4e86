package metric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantileEmptyOmitsFields(t *testing.T) {
	q := NewQuantile("flow", []string{"payload_size"}, "")
	j := JSONTree{}
	q.ToJSON(j)
	assert.Empty(t, j)
}

func TestQuantileReportsApproximateMedian(t *testing.T) {
	q := NewQuantile("flow", []string{"payload_size"}, "")
	for i := 1; i <= 100; i++ {
		q.Update(float64(i))
	}
	j := JSONTree{}
	q.ToJSON(j)

	inner := j["payload_size"].(map[string]interface{})
	p50 := inner["p50"].(float64)
	assert.InDelta(t, 50, p50, 3)
}

func TestQuantileMerge(t *testing.T) {
	a := NewQuantile("flow", []string{"payload_size"}, "")
	a.Update(10)
	b := NewQuantile("flow", []string{"payload_size"}, "")
	b.Update(1000)

	require.NoError(t, a.Merge(b))
	j := JSONTree{}
	a.ToJSON(j)
	inner := j["payload_size"].(map[string]interface{})
	assert.InDelta(t, 1000, inner["p99"].(float64), 50)
}

func TestQuantileToPrometheus(t *testing.T) {
	q := NewQuantile("flow", []string{"payload_size"}, "payload size bytes")
	q.Update(1500)
	var b strings.Builder
	q.ToPrometheus(&b, nil)
	out := b.String()
	assert.Contains(t, out, `quantile="0.5"`)
	assert.Contains(t, out, "flow_payload_size_count")
	assert.Contains(t, out, "flow_payload_size_sum")
}
