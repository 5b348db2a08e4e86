/*
Package bucket defines the Bucket contract shared by every handler's
window aggregate (spec §3, §4.2) and a Base type implementing the fields
common to all buckets: start/end timestamps, the num_events/num_samples
event-data pair under a shared lock, and the read-only flag set once at
rotation.

Concrete buckets (pkg/handler/pcaphandler, flowhandler, dnshandler) embed
Base and add their own metric.* primitive fields; the ring manager
(pkg/ringmgr) operates only through the Bucket interface, so it is generic
over any handler's bucket type.
*/
package bucket
