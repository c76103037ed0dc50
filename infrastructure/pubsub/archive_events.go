package pubsub

import (
	"context"

	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"

	"cloud.google.com/go/pubsub"
)

// NewPubSub creates the Google Pub/Sub client. Callers treat a nil
// client as "event publishing disabled" rather than a startup failure.
func NewPubSub(ctx context.Context, projectID string) (*pubsub.Client, error) {
	if projectID == "" {
		return nil, nil
	}
	return pubsub.NewClient(ctx, projectID)
}

// ArchiveEventPublisher pushes archive lifecycle events to a Pub/Sub topic.
type ArchiveEventPublisher struct {
	client *pubsub.Client
	topic  string
}

func NewArchiveEventPublisher(client *pubsub.Client, topic string) *ArchiveEventPublisher {
	return &ArchiveEventPublisher{client: client, topic: topic}
}

var _ repository.IEventPublisher = &ArchiveEventPublisher{}

func (p *ArchiveEventPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.client == nil {
		return nil
	}

	topic := p.client.Topic(p.topic)

	// Create the topic if it doesn't exist.
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topic).Info("Topic doesn't exist - creating it")
		if _, err = p.client.CreateTopic(ctx, p.topic); err != nil {
			return err
		}
	}

	serverId, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}

	logger.GetLogger().WithField("server ID", serverId).Debug("Archive event published")
	return nil
}
