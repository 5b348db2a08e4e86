package metric

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardinalityEstimateApproximatesDistinctCount(t *testing.T) {
	c := NewCardinality("flow", []string{"dst_ips_out"}, "")
	for i := 0; i < 1000; i++ {
		c.Update([]byte(fmt.Sprintf("10.0.%d.%d", i/256, i%256)))
	}
	est := c.Estimate()
	assert.InEpsilon(t, 1000, float64(est), 0.1)
}

func TestCardinalityRepeatedKeyDoesNotInflate(t *testing.T) {
	c := NewCardinality("flow", []string{"dst_ips_out"}, "")
	for i := 0; i < 500; i++ {
		c.Update([]byte("10.0.0.1"))
	}
	assert.LessOrEqual(t, c.Estimate(), uint64(2))
}

func TestCardinalityMerge(t *testing.T) {
	a := NewCardinality("flow", []string{"dst_ips_out"}, "")
	a.Update([]byte("10.0.0.1"))
	a.Update([]byte("10.0.0.2"))

	b := NewCardinality("flow", []string{"dst_ips_out"}, "")
	b.Update([]byte("10.0.0.3"))

	require.NoError(t, a.Merge(b))
	assert.EqualValues(t, 3, a.Estimate())
}

func TestCardinalityToPrometheus(t *testing.T) {
	c := NewCardinality("flow", []string{"dst_ips_out"}, "distinct destination IPs")
	c.Update([]byte("10.0.0.1"))
	var b strings.Builder
	c.ToPrometheus(&b, nil)
	assert.Contains(t, b.String(), "# TYPE flow_dst_ips_out gauge")
}
