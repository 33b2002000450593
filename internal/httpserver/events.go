package httpserver

import (
	"context"

	"github.com/Skotchmaster/workout_tracker/pkg/logging"
	"github.com/Skotchmaster/workout_tracker/pkg/mykafka"
)

// publish sends a best-effort event. A failure is logged and never reaches the client.
func publish(ctx context.Context, p mykafka.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(ctx).Error("publish_failed", "topic", topic, "type", event["type"], "error", err)
	}
}
