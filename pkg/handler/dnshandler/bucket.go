// Package dnshandler implements the dns schema (spec §6): query/response
// counters, a qname cardinality estimate, a top-K of the most frequently
// queried names, and a quantile sketch over wire sizes. Grounded on
// pkg/dns's miekg/dns-based transaction decoding.
package dnshandler

import (
	"time"

	"github.com/cuemby/netvisor/pkg/bucket"
	"github.com/cuemby/netvisor/pkg/metric"
	"github.com/cuemby/netvisor/pkg/types"
)

const schemaKey = "dns"

// Bucket is the dns handler's concrete window aggregate.
type Bucket struct {
	bucket.Base

	queries   *metric.Counter
	responses *metric.Counter
	truncated *metric.Counter
	nxdomain  *metric.Counter

	qnameCardinality *metric.Cardinality
	topQnames        *metric.TopK
	wireSize         *metric.Quantile
}

// NewFactory returns a ringmgr.Factory[*Bucket].
func NewFactory(topn int) func() *Bucket {
	return func() *Bucket { return newBucket(topn) }
}

func newBucket(topn int) *Bucket {
	if topn <= 0 {
		topn = 10
	}
	return &Bucket{
		Base:             bucket.NewBase(time.Now()),
		queries:          metric.NewCounter(schemaKey, []string{"queries"}, "Count of DNS queries observed"),
		responses:        metric.NewCounter(schemaKey, []string{"responses"}, "Count of DNS responses observed"),
		truncated:        metric.NewCounter(schemaKey, []string{"truncated"}, "Count of truncated DNS messages"),
		nxdomain:         metric.NewCounter(schemaKey, []string{"nxdomain"}, "Count of NXDOMAIN responses"),
		qnameCardinality: metric.NewCardinality(schemaKey, []string{"cardinality", "qname"}, "Estimated distinct query names"),
		topQnames:        metric.NewTopK(schemaKey, []string{"top_qname"}, "Top queried names by transaction count", topn),
		wireSize:         metric.NewQuantile(schemaKey, []string{"wire_size"}, "Distribution of DNS message wire sizes"),
	}
}

// OnEvent implements bucket.Bucket. event must be a types.DNSTransaction.
func (b *Bucket) OnEvent(event interface{}, deep bool) {
	tx, ok := event.(types.DNSTransaction)
	if !ok {
		return
	}
	b.Base.RecordEvent(deep)

	if tx.Flags.IsQuery {
		b.queries.Inc()
	}
	if tx.Flags.IsResponse {
		b.responses.Inc()
		if tx.RCode == 3 { // NXDOMAIN
			b.nxdomain.Inc()
		}
	}
	if tx.Flags.Truncated {
		b.truncated.Inc()
	}

	if !deep {
		return
	}

	if tx.QName != "" {
		b.qnameCardinality.Update([]byte(tx.QName))
		b.topQnames.Update(tx.QName, 1)
	}
	b.wireSize.Update(float64(tx.WireSize))
}

// Merge implements bucket.Bucket.
func (b *Bucket) Merge(other bucket.Bucket) error {
	o, ok := other.(*Bucket)
	if !ok {
		return nil
	}
	ne, ns := o.EventData()
	b.Base.MergeEventData(ne, ns)

	b.queries.Merge(o.queries)
	b.responses.Merge(o.responses)
	b.truncated.Merge(o.truncated)
	b.nxdomain.Merge(o.nxdomain)

	if err := b.qnameCardinality.Merge(o.qnameCardinality); err != nil {
		return err
	}
	b.topQnames.Merge(o.topQnames)
	return b.wireSize.Merge(o.wireSize)
}

// ToJSON implements bucket.Bucket.
func (b *Bucket) ToJSON(j metric.JSONTree) {
	b.queries.ToJSON(j)
	b.responses.ToJSON(j)
	b.truncated.ToJSON(j)
	b.nxdomain.ToJSON(j)
	b.qnameCardinality.ToJSON(j)
	b.topQnames.ToJSON(j)
	b.wireSize.ToJSON(j)
}

// ToPrometheus implements bucket.Bucket.
func (b *Bucket) ToPrometheus(w metric.Writer, extra metric.LabelMap) {
	b.queries.ToPrometheus(w, extra)
	b.responses.ToPrometheus(w, extra)
	b.truncated.ToPrometheus(w, extra)
	b.nxdomain.ToPrometheus(w, extra)
	b.qnameCardinality.ToPrometheus(w, extra)
	b.topQnames.ToPrometheus(w, extra)
	b.wireSize.ToPrometheus(w, extra)
}
