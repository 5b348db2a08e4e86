/*
Package health reports whether a handler's ring manager is running, for
the admin HTTP server's /healthz endpoint.

A Checker is anything that can report a current Result; pkg/adminapi
collects one Checker per registered handler and aggregates them into a
single healthy/unhealthy response. This mirrors the teacher's container
health-check Checker interface, narrowed to the one condition that
matters for a metrics pipeline: is the handler's manager in the Running
state (spec §4.3's state machine), or has it stopped/errored.
*/
package health
