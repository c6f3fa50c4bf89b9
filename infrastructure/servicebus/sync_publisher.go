package servicebus

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"

	"creator-os/domain/model"
	"creator-os/domain/repository"
	"creator-os/infrastructure/logger"
)

// SyncPublisher sends finished sync events to a Service Bus queue. A nil client disables it.
type SyncPublisher struct {
	AzservicebusClient *azservicebus.Client
	queue              string

	mu     sync.Mutex
	sender *azservicebus.Sender
}

func NewSyncPublisher(azServiceBusClient *azservicebus.Client, queue string) repository.ISyncPublisher {
	return &SyncPublisher{AzservicebusClient: azServiceBusClient, queue: queue}
}

func (p *SyncPublisher) PublishSyncEvent(ctx context.Context, event *model.SyncEvent) error {
	if p.AzservicebusClient == nil || p.queue == "" || event == nil {
		return nil
	}
	sender, err := p.getSender()
	if err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while making new sender service bus.")
		return err
	}
	msg, err := newMessage(event)
	if err != nil {
		return err
	}
	if err := sender.SendMessage(ctx, msg, nil); err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while sending message.")
		return err
	}
	return nil
}

func (p *SyncPublisher) getSender() (*azservicebus.Sender, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sender != nil {
		return p.sender, nil
	}
	sender, err := p.AzservicebusClient.NewSender(p.queue, nil)
	if err != nil {
		return nil, err
	}
	p.sender = sender
	return sender, nil
}

// Close releases the sender.
func (p *SyncPublisher) Close(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sender == nil {
		return
	}
	if err := p.sender.Close(ctx); err != nil {
		logger.GetLogger().
			WithField("error", err).
			Error("Error while closing sender.")
	}
	p.sender = nil
}

func newMessage(event *model.SyncEvent) (*azservicebus.Message, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	contentType := "application/json"
	subject := event.Type + "." + event.Status
	return &azservicebus.Message{
		Body:        body,
		ContentType: &contentType,
		Subject:     &subject,
		ApplicationProperties: map[string]interface{}{
			"competitor_id": event.CompetitorID,
			"action":        event.Action,
		},
	}, nil
}
