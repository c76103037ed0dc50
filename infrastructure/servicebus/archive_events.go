package servicebus

import (
	"context"

	"post-archiver/domain/repository"
	"post-archiver/infrastructure/logger"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
)

// NewServiceBus creates the Azure Service Bus client using the default
// credential chain. Callers treat a nil client as "event publishing
// disabled" rather than a startup failure.
func NewServiceBus(_ context.Context, namespace string) (*azservicebus.Client, error) {
	if namespace == "" {
		return nil, nil
	}
	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, err
	}
	return azservicebus.NewClient(namespace, cred, nil)
}

// ArchiveEventPublisher pushes archive lifecycle events to a Service Bus queue.
type ArchiveEventPublisher struct {
	client *azservicebus.Client
	queue  string
}

func NewArchiveEventPublisher(client *azservicebus.Client, queue string) *ArchiveEventPublisher {
	return &ArchiveEventPublisher{client: client, queue: queue}
}

var _ repository.IEventPublisher = &ArchiveEventPublisher{}

func (p *ArchiveEventPublisher) Publish(ctx context.Context, payload []byte) error {
	if p.client == nil {
		return nil
	}

	sender, err := p.client.NewSender(p.queue, nil)
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	defer func(sender *azservicebus.Sender, ctx context.Context) {
		if err := sender.Close(ctx); err != nil {
			logger.GetLogger().
				WithField("error", err).
				Error("Error while closing sender.")
		}
	}(sender, context.Background())

	sbMessage := &azservicebus.Message{Body: payload}
	if err = sender.SendMessage(ctx, sbMessage, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}
