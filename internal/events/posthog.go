package events

import (
	"feather-api/internal/logger"

	"github.com/posthog/posthog-go"
)

// PostHogSink ships events to PostHog. Enqueue is asynchronous; a full
// or failed queue is logged and dropped, never surfaced to the caller.
type PostHogSink struct {
	client posthog.Client
}

func NewPostHogSink(apiKey, host string) (*PostHogSink, error) {
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: host})
	if err != nil {
		return nil, err
	}
	return &PostHogSink{client: client}, nil
}

func (s *PostHogSink) Track(distinctID, event string, properties map[string]any) {
	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}

	err := s.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: props,
	})
	if err != nil {
		logger.Warn("posthog enqueue failed", map[string]any{
			"event": event,
			"error": err.Error(),
		})
	}
}

func (s *PostHogSink) Close() error {
	return s.client.Close()
}
