package testutil

import (
	"context"
	"sync"

	"github.com/invoicebuild/invoicebuild/internal/types"
	"github.com/invoicebuild/invoicebuild/internal/webhook/publisher"
)

// InMemoryPublisher records published events for assertions
type InMemoryPublisher struct {
	mu     sync.RWMutex
	events []*types.DomainEvent
	err    error
}

var _ publisher.EventPublisher = (*InMemoryPublisher)(nil)

func NewInMemoryEventPublisher() *InMemoryPublisher {
	return &InMemoryPublisher{}
}

func (p *InMemoryPublisher) Publish(ctx context.Context, event *types.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *InMemoryPublisher) Close() error {
	return nil
}

// FailWith makes every following Publish return err
func (p *InMemoryPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// GetEvents returns all published events
func (p *InMemoryPublisher) GetEvents() []*types.DomainEvent {
	p.mu.RLock()
	defer p.mu.RUnlock()
	events := make([]*types.DomainEvent, len(p.events))
	copy(events, p.events)
	return events
}

// EventNames returns the names of the published events in order
func (p *InMemoryPublisher) EventNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.EventName)
	}
	return names
}

func (p *InMemoryPublisher) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
	p.err = nil
}
