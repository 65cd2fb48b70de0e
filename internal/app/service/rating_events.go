package service

import "context"

const RatingSubmittedEvent = "rating.submitted"

// JSONPublisher publishes arbitrary JSON payloads (see pkg/rabbitmq).
type JSONPublisher interface {
	PublishJSON(ctx context.Context, v interface{}) error
}

type ratingEnvelope struct {
	Type string      `json:"type"`
	Data RatingEvent `json:"data"`
}

type queueRatingPublisher struct {
	queue JSONPublisher
}

// NewQueueRatingPublisher wraps rating events in a typed envelope and
// hands them to the queue.
func NewQueueRatingPublisher(queue JSONPublisher) RatingEventPublisher {
	return &queueRatingPublisher{queue: queue}
}

func (p *queueRatingPublisher) PublishRatingSubmitted(ctx context.Context, event RatingEvent) error {
	return p.queue.PublishJSON(ctx, ratingEnvelope{Type: RatingSubmittedEvent, Data: event})
}
