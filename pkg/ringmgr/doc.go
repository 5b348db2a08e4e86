/*
Package ringmgr implements the metrics manager of spec §4.3: a generic
ring of time-bucketed aggregates, a rotation timer, the ingest protocol
(deep-sample decision, event-data bookkeeping, dispatch into the live
bucket), and the snapshot-read protocol (single-bucket and window-merged
views).

Manager is generic over the handler's concrete bucket.Bucket
implementation, matching the C++ source's AbstractMetricsManager<Bucket>
template (original_source/src/handlers/pcap/PcapStreamHandler.h): each
handler package (pcaphandler, flowhandler, dnshandler) instantiates
Manager with its own bucket type and a Factory that constructs it.

Rotation never touches primitive state (spec §4.3): it only swaps which
bucket is "live" under a brief ring write lock. Ingest never acquires
that same write lock; it takes the ring read lock just long enough to
grab a reference to the current live bucket, then does all of its work
through that bucket's own locking.
*/
package ringmgr
