package notify

import (
	"context"
	"time"

	"storyreel/types"
)

// Publisher sends a JSON-encoded value under a key
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// PartPublished is the event written to the notifications topic
type PartPublished struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
}

// Kafka publishes every message to a topic as a PartPublished event
type Kafka struct {
	pub Publisher
	now func() time.Time
}

// NewKafka creates a topic notifier on top of a publisher
func NewKafka(pub Publisher) *Kafka {
	return &Kafka{pub: pub, now: time.Now}
}

// Send publishes msg keyed by its title
func (k *Kafka) Send(ctx context.Context, msg types.Message) error {
	return k.pub.PublishJSON(ctx, msg.Title, PartPublished{
		Title:       msg.Title,
		URL:         msg.URL,
		PublishedAt: k.now().UTC(),
	})
}
