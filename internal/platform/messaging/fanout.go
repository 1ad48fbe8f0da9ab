package messaging

import (
	"context"

	eventsv1 "securevote/contracts/events/v1"
)

type Publisher interface {
	Publish(ctx context.Context, topic string, event eventsv1.Envelope) error
}

// Fanout publishes to each publisher in order and stops at the first failure,
// so the relay retries the row on its next cycle.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, topic string, event eventsv1.Envelope) error {
	for _, publisher := range f {
		if err := publisher.Publish(ctx, topic, event); err != nil {
			return err
		}
	}
	return nil
}
