//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"

	"hn_reader/internal/domain"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishCompleted() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-completed",
		RoutingKey: "test-routing-key-completed",
		QueueName:  "test-queue-completed",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	stats := &domain.RefreshStats{
		Category:   domain.Top,
		Generation: 3,
		Listed:     500,
		Cards:      30,
		Ready:      28,
		Abandoned:  2,
		Duration:   2 * time.Second,
	}

	err = pub.Publish(s.ctx, stats)
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received RefreshEvent
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(EventRefreshCompleted, received.Type)
	s.Equal(domain.Top, received.Category)
	s.Equal(uint64(3), received.Generation)
	s.Equal(28, received.Stats.Ready)
	s.Equal(2, received.Stats.Abandoned)
	s.Equal(received.ID, msg.MessageId)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishFailed() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-failed",
		RoutingKey: "test-routing-key-failed",
		QueueName:  "test-queue-failed",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, &domain.RefreshStats{Category: domain.New, Generation: 1, ListError: "unexpected status: 503"})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received RefreshEvent
	err = json.Unmarshal(msg.Body, &received)
	s.NoError(err)
	s.Equal(EventRefreshFailed, received.Type)
	s.Equal(EventRefreshFailed, msg.Type)
	s.Equal("unexpected status: 503", received.Stats.ListError)
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessageFormat() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-format",
		RoutingKey: "test-routing-key-format",
		QueueName:  "test-queue-format",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, &domain.RefreshStats{Category: domain.Best, Generation: 9, Offset: 30})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)

	var raw map[string]any
	err = json.Unmarshal(msg.Body, &raw)
	s.NoError(err)
	s.Equal("best", raw["category"])
	s.Contains(raw, "id")
	s.Contains(raw, "timestamp")
	s.Contains(raw, "stats")
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-persist",
		RoutingKey: "test-routing-key-persist",
		QueueName:  "test-queue-persist",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	err = pub.Publish(s.ctx, &domain.RefreshStats{Category: domain.Top, Generation: 1})
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}