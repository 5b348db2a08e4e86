package dns

import (
	"fmt"
	"time"

	"github.com/cuemby/netvisor/pkg/types"
	"github.com/miekg/dns"
)

// DecodeQuery unpacks a raw DNS query message into a types.DNSTransaction
// with HasReply false. The dns handler calls this when it observes a
// query with no matching response yet.
func DecodeQuery(wire []byte, ts time.Time) (types.DNSTransaction, error) {
	msg := new(dns.Msg)
	if err := msg.Unpack(wire); err != nil {
		return types.DNSTransaction{}, fmt.Errorf("dns: unpack query: %w", err)
	}

	tx := types.DNSTransaction{
		Timestamp: ts,
		WireSize:  len(wire),
		RCode:     -1,
		Flags: types.DNSFlags{
			IsQuery:      true,
			RecursionReq: msg.RecursionDesired,
			Truncated:    msg.Truncated,
		},
	}
	if len(msg.Question) > 0 {
		q := msg.Question[0]
		tx.QName = normalizeName(q.Name)
		tx.QType = q.Qtype
	}
	return tx, nil
}

// DecodeResponse unpacks a raw DNS response message and merges it into an
// existing transaction started by DecodeQuery, or starts a fresh
// transaction if the query was never observed (e.g. capture started
// mid-stream).
func DecodeResponse(wire []byte, ts time.Time, tx types.DNSTransaction) (types.DNSTransaction, error) {
	msg := new(dns.Msg)
	if err := msg.Unpack(wire); err != nil {
		return types.DNSTransaction{}, fmt.Errorf("dns: unpack response: %w", err)
	}

	tx.HasReply = true
	tx.RCode = msg.Rcode
	tx.Flags.IsResponse = true
	if msg.Truncated {
		tx.Flags.Truncated = true
	}
	if tx.QName == "" && len(msg.Question) > 0 {
		q := msg.Question[0]
		tx.QName = normalizeName(q.Name)
		tx.QType = q.Qtype
	}
	// WireSize reflects the larger of query/response for payload-size
	// sketches.
	if len(wire) > tx.WireSize {
		tx.WireSize = len(wire)
	}
	return tx, nil
}

// normalizeName strips the trailing root-zone dot miekg/dns always
// appends, so cardinality/top-K primitives key on the same string a
// human would type.
func normalizeName(name string) string {
	if len(name) > 1 && name[len(name)-1] == '.' {
		return name[:len(name)-1]
	}
	return name
}

// QTypeString renders a DNS query type as its conventional mnemonic
// (A, AAAA, MX, ...), falling back to the numeric form for types
// miekg/dns has no mnemonic for.
func QTypeString(qtype uint16) string {
	if name, ok := dns.TypeToString[qtype]; ok {
		return name
	}
	return fmt.Sprintf("TYPE%d", qtype)
}
