package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"cloud.google.com/go/pubsub"

	"creator-os/domain/model"
	"creator-os/domain/repository"
	"creator-os/infrastructure/logger"
)

// SyncPublisher publishes finished sync events to a Pub/Sub topic.
// The topic is created on first use when missing. A nil client disables publishing.
type SyncPublisher struct {
	PubSubClient *pubsub.Client
	topicName    string

	mu    sync.Mutex
	topic *pubsub.Topic
	// lookup resolves the topic; a failed lookup is retried on the next publish.
	lookup func(ctx context.Context) (*pubsub.Topic, error)
}

func NewSyncPublisher(pubSubClient *pubsub.Client, topicName string) repository.ISyncPublisher {
	p := &SyncPublisher{PubSubClient: pubSubClient, topicName: topicName}
	p.lookup = p.lookupTopic
	return p
}

func (p *SyncPublisher) PublishSyncEvent(ctx context.Context, event *model.SyncEvent) error {
	if p.PubSubClient == nil || p.topicName == "" || event == nil {
		return nil
	}
	topic, err := p.ensureTopic(ctx)
	if err != nil {
		return err
	}
	msg, err := newMessage(event)
	if err != nil {
		return err
	}
	serverID, err := topic.Publish(ctx, msg).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server ID", serverID).WithField("competitor_id", event.CompetitorID).Debug("Sync event published")
	return nil
}

func (p *SyncPublisher) ensureTopic(ctx context.Context) (*pubsub.Topic, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		return p.topic, nil
	}
	topic, err := p.lookup(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve topic %s: %w", p.topicName, err)
	}
	p.topic = topic
	return topic, nil
}

func (p *SyncPublisher) lookupTopic(ctx context.Context) (*pubsub.Topic, error) {
	topic := p.PubSubClient.Topic(p.topicName)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return nil, err
	}
	if !exists {
		logger.GetLogger().WithField("topic", p.topicName).Info("Topic doesn't exist - creating it")
		return p.PubSubClient.CreateTopic(ctx, p.topicName)
	}
	return topic, nil
}

// Stop flushes pending messages.
func (p *SyncPublisher) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.topic != nil {
		p.topic.Stop()
	}
}

func newMessage(event *model.SyncEvent) (*pubsub.Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return &pubsub.Message{
		Data: payload,
		Attributes: map[string]string{
			"type":          event.Type,
			"action":        event.Action,
			"status":        event.Status,
			"competitor_id": event.CompetitorID,
		},
	}, nil
}
