// Package broker implements the group registry: named broadcast channels
// holding live connections. The in-memory implementation is the default; an
// AMQP-backed one exists for running more than one process.
package broker

import (
	"errors"
	"log"
	"sync"

	"github.com/socialchat/backend/domain"
)

// Memory is the process-wide group registry. Membership changes take the
// write lock; a publish snapshots the member set under the read lock and
// sends with the lock released, so joins and leaves during an in-flight
// publish neither deadlock nor crash.
type Memory struct {
	mu     sync.RWMutex
	groups map[string]map[string]domain.Subscriber
}

func NewMemory() *Memory {
	return &Memory{
		groups: make(map[string]map[string]domain.Subscriber),
	}
}

func (m *Memory) Join(group string, sub domain.Subscriber) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.groups[group]
	if !ok {
		members = make(map[string]domain.Subscriber)
		m.groups[group] = members
	}

	members[sub.ID()] = sub

	return nil
}

func (m *Memory) Leave(group, subID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	members, ok := m.groups[group]
	if !ok {
		return
	}

	delete(members, subID)

	if len(members) == 0 {
		delete(m.groups, group)
	}
}

func (m *Memory) Member(group, subID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	members, ok := m.groups[group]
	if !ok {
		return false
	}

	_, ok = members[subID]

	return ok
}

func (m *Memory) Publish(group string, event *domain.OutboundEvent) (int, error) {
	payload, err := event.Encode()
	if err != nil {
		return 0, err
	}

	m.mu.RLock()
	subs := make([]domain.Subscriber, 0, len(m.groups[group]))
	for _, sub := range m.groups[group] {
		subs = append(subs, sub)
	}
	m.mu.RUnlock()

	var delivered int

	for _, sub := range subs {
		if err := sub.Send(payload); err != nil {
			if errors.Is(err, domain.ErrSendTimeout) {
				log.Printf("err: publish %s to group %s: dead peer %s, evicting", event.Type, group, sub.ID())
				sub.Kill("send timeout")
			}

			continue
		}

		delivered++
	}

	return delivered, nil
}
