// Package notify publishes task notifications on a Redis pub/sub channel.
package notify

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"task-gateway/domain"
)

// Publisher sends notifications to the channel matching its topic name.
type Publisher struct {
	client *redis.Client
	topic  string
	logger *log.Logger
}

// NewPublisher creates a publisher for topic.
func NewPublisher(client *redis.Client, topic string, logger *log.Logger) *Publisher {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Publisher{client: client, topic: topic, logger: logger}
}

// Publish wraps payload in a notification envelope and publishes it. When no
// active channel matches the topic the call is a logged no-op.
func (p *Publisher) Publish(ctx context.Context, action string, payload any) error {
	channel, err := p.resolve(ctx)
	if err != nil {
		return err
	}
	if channel == "" {
		p.logger.WithField("topic", p.topic).Warn("notification topic not found")
		return nil
	}
	data, err := sonic.Marshal(domain.Notification{Subject: domain.SubjectFor(action), Message: payload})
	if err != nil {
		return err
	}
	if err := p.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	p.logger.WithFields(log.Fields{"channel": channel, "action": action}).Debug("notification published")
	return nil
}

// resolve lists the active channels and returns the one named after the topic,
// or else the first whose name contains it. Nothing is cached.
func (p *Publisher) resolve(ctx context.Context) (string, error) {
	channels, err := p.client.PubSubChannels(ctx, "*").Result()
	if err != nil {
		return "", fmt.Errorf("list topics: %w", err)
	}
	sort.Strings(channels)
	match := ""
	for _, ch := range channels {
		if ch == p.topic {
			return ch, nil
		}
		if match == "" && strings.Contains(ch, p.topic) {
			match = ch
		}
	}
	return match, nil
}
