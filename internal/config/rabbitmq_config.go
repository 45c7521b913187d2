package config

import "fmt"

// Queue names shared by the producer and consumer sides
const (
	CampaignLogsQueue   = "campaign_logs"
	CampaignEventsQueue = "campaign_events"
)

// RabbitMQConfig holds broker connection settings
type RabbitMQConfig struct {
	Host string
	Port string
	User string
	Pass string
}

// GetRabbitMQConfig returns RabbitMQ configuration from environment variables
func GetRabbitMQConfig() *RabbitMQConfig {
	return &RabbitMQConfig{
		Host: getEnv("RABBITMQ_HOST", "localhost"),
		Port: getEnv("RABBITMQ_PORT", "5672"),
		User: getEnv("RABBITMQ_USER", "guest"),
		Pass: getEnv("RABBITMQ_PASS", "guest"),
	}
}

// URL builds the AMQP connection URL (guest user automatically uses / vhost)
func (c *RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/", c.User, c.Pass, c.Host, c.Port)
}
