package mykafka

import (
	"context"
	"sync"
	"time"

	"github.com/Skotchmaster/workout_tracker/pkg/logging"
)

const DefaultPublishBudget = 2 * time.Second

// Background hands each event to its own goroutine with a context detached
// from the caller and bounded by budget. PublishEvent never blocks and never
// fails; delivery errors are logged through the caller's logger.
type Background struct {
	next   Publisher
	budget time.Duration
	wg     sync.WaitGroup
}

func NewBackground(next Publisher, budget time.Duration) *Background {
	if budget <= 0 {
		budget = DefaultPublishBudget
	}
	return &Background{next: next, budget: budget}
}

func (b *Background) PublishEvent(ctx context.Context, topic, key string, event any) error {
	detached := context.WithoutCancel(ctx)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()

		ctx, cancel := context.WithTimeout(detached, b.budget)
		defer cancel()

		if err := b.next.PublishEvent(ctx, topic, key, event); err != nil {
			logging.FromContext(ctx).Error("publish_failed", "topic", topic, "key", key, "error", err)
		}
	}()
	return nil
}

// Close waits for in-flight events, then closes the wrapped publisher.
func (b *Background) Close() error {
	b.wg.Wait()
	return b.next.Close()
}
