package metric

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLiveReflectsUnrolledCounter(t *testing.T) {
	r := NewRate("flow", []string{"event_rate"}, "")
	r.Add(5)
	r.Add(3)
	assert.EqualValues(t, 8, r.Live())
}

func TestRateTickResetsLiveAndFeedsSketch(t *testing.T) {
	r := NewRate("flow", []string{"event_rate"}, "")
	r.Add(100)
	r.tick()
	assert.EqualValues(t, 0, r.Live())

	j := JSONTree{}
	r.ToJSON(j, false)
	inner := j["event_rate"].(map[string]interface{})
	assert.InDelta(t, 100, inner["p50"].(float64), 2)
}

func TestRateIdleTickContributesZeroSample(t *testing.T) {
	r := NewRate("flow", []string{"event_rate"}, "")
	r.Add(100)
	r.tick()
	r.tick() // idle second: contributes an explicit zero

	j := JSONTree{}
	r.ToJSON(j, false)
	inner := j["event_rate"].(map[string]interface{})
	p50 := inner["p50"].(float64)
	assert.GreaterOrEqual(t, p50, 0.0)
	assert.Less(t, p50, 100.0)
}

func TestRateToJSONIncludesLiveOnlyWhenRequested(t *testing.T) {
	r := NewRate("flow", []string{"event_rate"}, "")
	r.Add(10)

	j := JSONTree{}
	r.ToJSON(j, false)
	assert.Nil(t, j["event_rate"])

	j2 := JSONTree{}
	r.ToJSON(j2, true)
	inner := j2["event_rate"].(map[string]interface{})
	assert.EqualValues(t, 10, inner["live"])
}

func TestRateToJSONOmitsQuantilesBeforeFirstTick(t *testing.T) {
	r := NewRate("flow", []string{"event_rate"}, "")
	j := JSONTree{}
	r.ToJSON(j, true)
	inner := j["event_rate"].(map[string]interface{})
	_, hasP50 := inner["p50"]
	assert.False(t, hasP50)
	assert.EqualValues(t, 0, inner["live"])
}

func TestRateMerge(t *testing.T) {
	a := NewRate("flow", []string{"event_rate"}, "")
	a.Add(10)
	a.tick()

	b := NewRate("flow", []string{"event_rate"}, "")
	b.Add(1000)
	b.tick()

	require.NoError(t, a.Merge(b))
	var buf strings.Builder
	a.ToPrometheus(&buf, nil)
	assert.Contains(t, buf.String(), "flow_event_rate")
}

func TestRateStartStopQuiesces(t *testing.T) {
	r := NewRate("flow", []string{"event_rate"}, "")
	r.Start()
	r.Add(1)
	r.Stop()
}
