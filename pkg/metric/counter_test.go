package metric

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounterAddIncAndValue(t *testing.T) {
	c := NewCounter("flow", []string{"total"}, "total events")
	c.Inc()
	c.Add(41)
	assert.EqualValues(t, 42, c.Value())
}

func TestCounterConcurrentAdd(t *testing.T) {
	c := NewCounter("flow", []string{"total"}, "total events")
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				c.Inc()
			}
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 50000, c.Value())
}

func TestCounterMerge(t *testing.T) {
	a := NewCounter("flow", []string{"total"}, "")
	a.Add(10)
	b := NewCounter("flow", []string{"total"}, "")
	b.Add(5)
	a.Merge(b)
	assert.EqualValues(t, 15, a.Value())
}

func TestCounterToJSON(t *testing.T) {
	c := NewCounter("flow", []string{"tcp"}, "")
	c.Add(3)
	j := JSONTree{}
	c.ToJSON(j)
	assert.EqualValues(t, 3, j["tcp"])
}

func TestCounterToPrometheus(t *testing.T) {
	c := NewCounter("flow", []string{"tcp"}, "tcp packets")
	c.Add(7)
	var b strings.Builder
	c.ToPrometheus(&b, nil)
	out := b.String()
	assert.Contains(t, out, "# HELP flow_tcp tcp packets")
	assert.Contains(t, out, "# TYPE flow_tcp gauge")
	assert.Contains(t, out, "flow_tcp{} 7")
}
