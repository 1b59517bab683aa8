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

	"job_seeker/internal/domain"
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

func (s *RabbitMQIntegrationSuite) config(name string) Config {
	return Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-routing-key-" + name,
		QueueName:  "test-queue-" + name,
	}
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	pub, err := NewRabbitMQ(s.config("connect"), s.logger)
	s.NoError(err)
	s.NotNil(pub)

	s.NoError(pub.Close())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_PublishApproved() {
	cfg := s.config("approved")
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	defer pub.Close()

	listing := &domain.Listing{
		ID:          7,
		Title:       "Analista de Bioinformática",
		Company:     "Genoma SA",
		Location:    "Remote (USA)",
		Link:        "https://jobs/4",
		Description: "Pipelines NGS em Python.",
		Source:      "linkedin",
		PublishedAt: "07/01/2024",
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}

	s.NoError(pub.Publish(s.ctx, listing))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	s.Equal("application/json", msg.ContentType)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
	s.NotEmpty(msg.MessageId)

	var received ListingMessage
	s.NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(ActionApproved, received.Action)
	s.Equal(msg.MessageId, received.ID)
	s.Equal("https://jobs/4", received.Listing.Link)
	s.Equal("07/01/2024", received.Listing.PublishedAt)
	s.Equal("Remote (USA)", received.Listing.Location)
	s.False(received.Timestamp.IsZero())
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
