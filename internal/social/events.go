package social

import "context"

// EventSink receives events after the transaction that produced them has
// committed. The ledger's own events table stays authoritative; a sink
// failure is logged and never undoes the operation.
type EventSink interface {
	Publish(ctx context.Context, events []*Event) error
	Close() error
}
