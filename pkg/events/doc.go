/*
Package events provides an in-memory event broker for netvisor's
lifecycle notifications: bucket rotations, handler start/stop, and
configuration errors.

The broker is a lightweight, non-blocking pub/sub bus: publishers never
wait on subscribers, and slow subscribers drop events rather than stall
the publisher (acceptable here since these are operational notifications,
not metrics data itself; metrics correctness never depends on an event
being delivered).

# Usage

	broker := events.NewBroker()
	broker.Start()
	defer broker.Stop()

	sub := broker.Subscribe()
	defer broker.Unsubscribe(sub)

	go func() {
		for ev := range sub {
			log.Info().Str("schema_key", ev.SchemaKey).Msg(string(ev.Type))
		}
	}()

	broker.Publish(&events.Event{
		Type:      events.EventBucketRotated,
		SchemaKey: "flow",
		Message:   "rotated live bucket",
	})

This package has no dependency on pkg/ringmgr: the manager holds a
*Broker reference and publishes into it, keeping the event types in one
place regardless of how many handler kinds exist.
*/
package events
