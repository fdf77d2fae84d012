package broker

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/socialchat/backend/domain"
)

const groupExchange = "groups"

// AMQP is the distributed group registry backend. Each group is a routing key
// on a direct exchange; each joined connection gets an exclusive auto-deleted
// queue bound to that key, so a group disappears with its last member, same
// as the in-memory policy.
type AMQP struct {
	conn *amqp.Connection

	pubMu sync.Mutex
	pub   *amqp.Channel

	mu   sync.Mutex
	subs map[string]map[string]*amqpSubscription
}

type amqpSubscription struct {
	sub domain.Subscriber
	ch  *amqp.Channel
}

func NewAMQP(conn *amqp.Connection) (*AMQP, error) {
	pub, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open publish channel: %w", err)
	}

	err = pub.ExchangeDeclare(
		groupExchange,       // name
		amqp.ExchangeDirect, // type
		true,                // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	return &AMQP{
		conn: conn,
		pub:  pub,
		subs: make(map[string]map[string]*amqpSubscription),
	}, nil
}

func (b *AMQP) Join(group string, sub domain.Subscriber) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if members, ok := b.subs[group]; ok {
		if _, joined := members[sub.ID()]; joined {
			return nil
		}
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("open channel: %w", err)
	}

	q, err := ch.QueueDeclare(
		"",    // name: broker-generated, exclusive per connection
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("declare queue: %w", err)
	}

	if err = ch.QueueBind(q.Name, group, groupExchange, false, nil); err != nil {
		ch.Close()
		return fmt.Errorf("bind queue to exchange: %w", err)
	}

	msgs, err := ch.Consume(
		q.Name, // queue
		"",     // consumer
		false,  // auto-ack
		false,  // exclusive
		false,  // no-local
		false,  // no-wait
		nil,    // args
	)
	if err != nil {
		ch.Close()
		return fmt.Errorf("consume: %w", err)
	}

	if b.subs[group] == nil {
		b.subs[group] = make(map[string]*amqpSubscription)
	}

	b.subs[group][sub.ID()] = &amqpSubscription{sub: sub, ch: ch}

	go deliver(group, sub, msgs)

	return nil
}

// deliver pushes broker messages into the connection until the channel closes
// or the peer stops accepting writes.
func deliver(group string, sub domain.Subscriber, msgs <-chan amqp.Delivery) {
	for d := range msgs {
		if err := sub.Send(d.Body); err != nil {
			d.Reject(false)

			if errors.Is(err, domain.ErrSendTimeout) {
				log.Printf("err: deliver group %s: dead peer %s, evicting", group, sub.ID())
				sub.Kill("send timeout")
			}

			if errors.Is(err, domain.ErrConnectionClosed) || errors.Is(err, domain.ErrSendTimeout) {
				return
			}

			continue
		}

		if err := d.Ack(false); err != nil {
			log.Printf("err: ack delivery for %s: %s", sub.ID(), err)
		}
	}
}

func (b *AMQP) Leave(group, subID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	members, ok := b.subs[group]
	if !ok {
		return
	}

	s, ok := members[subID]
	if !ok {
		return
	}

	// Closing the channel drops the exclusive queue and ends the consumer.
	s.ch.Close()

	delete(members, subID)

	if len(members) == 0 {
		delete(b.subs, group)
	}
}

func (b *AMQP) Member(group, subID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	members, ok := b.subs[group]
	if !ok {
		return false
	}

	_, ok = members[subID]

	return ok
}

// Publish fans the event out through the exchange. The returned count is the
// number of local members of the group; consumers on other processes are not
// observable from here.
func (b *AMQP) Publish(group string, event *domain.OutboundEvent) (int, error) {
	payload, err := event.Encode()
	if err != nil {
		return 0, err
	}

	b.pubMu.Lock()
	err = b.pub.PublishWithContext(context.Background(),
		groupExchange, // exchange
		group,         // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        payload,
		})
	b.pubMu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("publish to group %s: %w", group, err)
	}

	b.mu.Lock()
	local := len(b.subs[group])
	b.mu.Unlock()

	return local, nil
}
