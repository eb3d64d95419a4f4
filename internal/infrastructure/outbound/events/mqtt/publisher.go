// Package mqtt publishes post lifecycle events to an MQTT broker so downstream workers
// (thumbnailing, moderation) can react without the API waiting on them.
package mqtt

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	model "simple-social-service/internal/domain/models"
	ports "simple-social-service/internal/domain/ports/output"
	"simple-social-service/internal/domain/ports/output/events"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

var _ events.Publisher = (*Publisher)(nil)

const (
	DefaultTopicPrefix = "simple-social"

	postCreatedTopic = "posts/created"
	publishQoS       = 1
	connectTimeout   = 30 * time.Second
	publishTimeout   = 10 * time.Second
)

var ErrNotConnected = errors.New("not connected")

type Config struct {
	// Broker is the broker URL, e.g. "tcp://mosquitto:1883".
	Broker   string
	Username string
	Password string
	UseTLS   bool
	// ClientID defaults to a random id when empty.
	ClientID string
	// TopicPrefix defaults to DefaultTopicPrefix.
	TopicPrefix string
}

type PostCreatedEvent struct {
	ID        int64     `json:"id"`
	User      string    `json:"user"`
	Text      string    `json:"text"`
	ImageRef  string    `json:"image_ref"`
	CreatedAt time.Time `json:"created_at"`
}

type Publisher struct {
	cfg     Config
	client  paho.Client
	log     ports.Logger
	metrics ports.MetricsProvider
}

func New(cfg Config, log ports.Logger, metrics ports.MetricsProvider) *Publisher {
	if cfg.TopicPrefix == "" {
		cfg.TopicPrefix = DefaultTopicPrefix
	}
	if cfg.ClientID == "" {
		cfg.ClientID = "simple-social-" + uuid.NewString()
	}
	return &Publisher{cfg: cfg, log: log, metrics: metrics}
}

// Connect dials the broker. The client reconnects on its own afterwards.
func (p *Publisher) Connect() error {
	if p.cfg.Broker == "" {
		return errors.New("broker URL is required")
	}

	opts := paho.NewClientOptions().
		AddBroker(p.cfg.Broker).
		SetClientID(p.cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetMaxReconnectInterval(2 * time.Minute).
		SetKeepAlive(60 * time.Second).
		SetPingTimeout(10 * time.Second).
		SetCleanSession(true).
		SetOnConnectHandler(func(paho.Client) {
			p.log.Info("Connected to MQTT broker", slog.String("broker", p.cfg.Broker))
		}).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			p.log.Warn("MQTT connection lost", slog.String("error", err.Error()))
		})

	if p.cfg.Username != "" {
		opts.SetUsername(p.cfg.Username)
	}
	if p.cfg.Password != "" {
		opts.SetPassword(p.cfg.Password)
	}
	if p.cfg.UseTLS {
		opts.SetTLSConfig(&tls.Config{MinVersion: tls.VersionTLS12})
	}

	p.client = paho.NewClient(opts)

	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errors.New("connection timeout")
	}
	if token.Error() != nil {
		return fmt.Errorf("connecting to broker: %w", token.Error())
	}
	return nil
}

func (p *Publisher) PostCreatedTopic() string {
	return p.cfg.TopicPrefix + "/" + postCreatedTopic
}

func (p *Publisher) PublishPostCreated(ctx context.Context, post *model.Post) error {
	topic := p.PostCreatedTopic()
	if p.client == nil || !p.client.IsConnected() {
		p.metrics.IncrementEventsPublished(topic, false)
		return ErrNotConnected
	}

	payload, err := json.Marshal(PostCreatedEvent{
		ID:        post.ID,
		User:      post.User,
		Text:      post.Text,
		ImageRef:  post.ImageRef,
		CreatedAt: post.CreatedAt,
	})
	if err != nil {
		p.metrics.IncrementEventsPublished(topic, false)
		return fmt.Errorf("encoding post created event: %w", err)
	}

	token := p.client.Publish(topic, publishQoS, false, payload)

	timer := time.NewTimer(publishTimeout)
	defer timer.Stop()
	select {
	case <-token.Done():
	case <-ctx.Done():
		p.metrics.IncrementEventsPublished(topic, false)
		return ctx.Err()
	case <-timer.C:
		p.metrics.IncrementEventsPublished(topic, false)
		return errors.New("timeout publishing to MQTT")
	}
	if err := token.Error(); err != nil {
		p.metrics.IncrementEventsPublished(topic, false)
		return fmt.Errorf("publishing post created event: %w", err)
	}

	p.metrics.IncrementEventsPublished(topic, true)
	p.log.Debug("Published post created event", slog.String("topic", topic), slog.Int64("post_id", post.ID))
	return nil
}

func (p *Publisher) Close() error {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(1000)
	}
	return nil
}
