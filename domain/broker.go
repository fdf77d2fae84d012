package domain

// Subscriber is one live connection from the broker's point of view. Send
// must be bounded: it returns ErrSendTimeout when the peer cannot accept the
// payload in time and ErrConnectionClosed after the transport is gone.
type Subscriber interface {
	ID() string
	Send(payload []byte) error
	// Kill force-closes the underlying transport. The broker calls it for
	// peers that time out on Send so one dead receiver cannot stall a group.
	Kill(reason string)
}

// Broker is the group registry: a named broadcast channel per group, with
// membership changes and publishes serialized per group. It is constructed
// once at process start and injected into every component that fans out.
//
// Publish to a group with no members is a no-op returning zero; late
// broadcasts after a disconnect are expected and harmless. Join and Leave are
// idempotent.
type Broker interface {
	Join(group string, sub Subscriber) error
	Leave(group, subID string)
	Member(group, subID string) bool
	Publish(group string, event *OutboundEvent) (int, error)
}
