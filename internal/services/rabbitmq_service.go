package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/onegreenvn/campaign-mailer-backend/internal/config"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

type RabbitMQService struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewRabbitMQService(cfg *config.RabbitMQConfig) (*RabbitMQService, error) {
	conn, err := amqp.Dial(cfg.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	service := &RabbitMQService{
		conn:    conn,
		channel: channel,
	}

	for _, queueName := range []string{config.CampaignLogsQueue, config.CampaignEventsQueue} {
		if err := service.DeclareQueue(queueName); err != nil {
			service.Close()
			return nil, err
		}
	}

	logrus.Info("RabbitMQ service initialized successfully")
	return service, nil
}

// DeclareQueue declares a durable queue
func (s *RabbitMQService) DeclareQueue(queueName string) error {
	_, err := s.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}
	return nil
}

// PublishMessage publishes a JSON message to the specified queue
func (s *RabbitMQService) PublishMessage(ctx context.Context, queueName string, message interface{}) error {
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = s.channel.PublishWithContext(
		ctx,
		"",        // exchange
		queueName, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}

	logrus.Debugf("Message published to queue %s", queueName)
	return nil
}

// Consume registers an auto-ack consumer on the queue
func (s *RabbitMQService) Consume(queueName string) (<-chan amqp.Delivery, error) {
	msgs, err := s.channel.Consume(
		queueName, // queue
		"",        // consumer
		true,      // auto-ack
		false,     // exclusive
		false,     // no-local
		false,     // no-wait
		nil,       // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register consumer: %w", err)
	}
	return msgs, nil
}

// Close closes the RabbitMQ connection
func (s *RabbitMQService) Close() error {
	if s.channel != nil {
		if err := s.channel.Close(); err != nil {
			logrus.Warnf("Error closing channel: %v", err)
		}
	}
	if s.conn != nil {
		if err := s.conn.Close(); err != nil {
			logrus.Warnf("Error closing connection: %v", err)
		}
	}
	return nil
}
