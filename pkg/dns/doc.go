/*
Package dns decodes raw DNS messages off the wire into the
types.DNSTransaction shape the dns handler's bucket consumes (spec §6's
on_dns_transaction callback).

Decoding is built on github.com/miekg/dns, the same library the rest of
the pktvisor-derived handler stack uses for message parsing. This package
only extracts the fields the metrics pipeline cares about (qname, qtype,
rcode, wire size, flags) — full zone/record semantics are out of scope
(spec §1 Non-goals: packet parsing/dissection is the tap's job, not the
core's).
*/
package dns
