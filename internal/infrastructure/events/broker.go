package events

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/giftguide/backend/internal/domain"
)

// subscriberBuffer is how many events a slow subscriber may lag behind
const subscriberBuffer = 16

// Broker fans cart events out to in-process subscribers such as SSE streams.
// A subscriber whose buffer is full misses the event instead of blocking
// the publisher.
type Broker struct {
	mu     sync.RWMutex
	subs   map[int]chan domain.CartEvent
	nextID int
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan domain.CartEvent)}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel.
func (b *Broker) Subscribe() (<-chan domain.CartEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan domain.CartEvent, subscriberBuffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every current subscriber
func (b *Broker) Publish(ctx context.Context, event domain.CartEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			log.Printf("[Events] subscriber %d is full, dropping %s", id, event.Name)
		}
	}
	return nil
}

// Subscribers returns the number of active subscribers
func (b *Broker) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Multi publishes to several publishers in order
type Multi []domain.EventPublisher

// Publish sends the event to every publisher and joins their errors
func (m Multi) Publish(ctx context.Context, event domain.CartEvent) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
