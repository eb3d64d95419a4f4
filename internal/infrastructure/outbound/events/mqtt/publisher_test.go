package mqtt

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	model "simple-social-service/internal/domain/models"
	"simple-social-service/internal/infrastructure/logger"
	"simple-social-service/internal/infrastructure/outbound/metrics/prometheus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPublisher(cfg Config) *Publisher {
	return New(cfg, logger.New("test"), prometheus.NewPrometheusMetricsProvider())
}

func TestNew_Defaults(t *testing.T) {
	p := newTestPublisher(Config{Broker: "tcp://localhost:1883"})

	assert.Equal(t, DefaultTopicPrefix, p.cfg.TopicPrefix)
	assert.True(t, strings.HasPrefix(p.cfg.ClientID, "simple-social-"))
	assert.Equal(t, "simple-social/posts/created", p.PostCreatedTopic())
}

func TestNew_CustomConfig(t *testing.T) {
	p := newTestPublisher(Config{
		Broker:      "tcp://broker.example.com:1883",
		ClientID:    "api-1",
		TopicPrefix: "feed",
	})

	assert.Equal(t, "api-1", p.cfg.ClientID)
	assert.Equal(t, "feed/posts/created", p.PostCreatedTopic())
}

func TestConnect_MissingBroker(t *testing.T) {
	p := newTestPublisher(Config{})
	require.Error(t, p.Connect())
}

func TestPublishPostCreated_NotConnected(t *testing.T) {
	p := newTestPublisher(Config{Broker: "tcp://localhost:1883"})

	err := p.PublishPostCreated(context.Background(), &model.Post{ID: 1, User: "alice", CreatedAt: time.Now()})
	assert.True(t, errors.Is(err, ErrNotConnected))
}

func TestClose_NeverConnected(t *testing.T) {
	p := newTestPublisher(Config{Broker: "tcp://localhost:1883"})
	assert.NoError(t, p.Close())
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.PublishPostCreated(context.Background(), &model.Post{ID: 1}))
	assert.NoError(t, p.Close())
}
