package metric

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityNaming(t *testing.T) {
	id := Identity{SchemaKey: "flow", Name: []string{"top_src_ips", "bytes"}, Help: "help text"}
	assert.Equal(t, "flow_top_src_ips_bytes", id.BaseNameSnake())
	assert.Equal(t, "flow_top_src_ips_bytes_sum", id.PromName("sum"))
}

func TestRenderLabelsOrderingAndPrecedence(t *testing.T) {
	SetStaticLabels(LabelMap{"region": "us-east-1", "az": "a"})
	defer SetStaticLabels(nil)

	id := Identity{SchemaKey: "flow", Name: []string{"total"}}
	got := id.NameSnake(LabelMap{"iface": "eth0"}, nil, [2]string{"quantile", "0.5"})
	assert.Equal(t, `flow_total{az="a",region="us-east-1",iface="eth0",quantile="0.5"}`, got)
}

func TestJSONTreeAssignPathNested(t *testing.T) {
	j := JSONTree{}
	j.AssignPath([]string{"top_src_ips", "bytes", "p50"}, 1.5)
	j.AssignPath([]string{"top_src_ips", "bytes", "p99"}, 9.9)

	inner := j["top_src_ips"].(map[string]interface{})["bytes"].(map[string]interface{})
	assert.Equal(t, 1.5, inner["p50"])
	assert.Equal(t, 9.9, inner["p99"])
}

func TestKindPromType(t *testing.T) {
	assert.Equal(t, "gauge", KindCounter.PromType())
	assert.Equal(t, "gauge", KindCardinality.PromType())
	assert.Equal(t, "summary", KindRate.PromType())
	assert.Equal(t, "summary", KindQuantile.PromType())
	assert.Equal(t, "summary", KindHistogram.PromType())
	assert.Equal(t, "untyped", Kind("bogus").PromType())
}
