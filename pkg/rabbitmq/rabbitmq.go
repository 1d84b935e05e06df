package rabbitmq

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"customerapi/internal/models"

	amqp "github.com/streadway/amqp"
)

// DefaultQueue is the queue customer events are routed to when Config.Queue is empty.
const DefaultQueue = "customer_events"

// Client holds the RabbitMQ connection and channel.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
	logger  *slog.Logger
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL    string
	Queue  string
	Logger *slog.Logger
}

// NewClient connects to RabbitMQ, opens a channel and declares the
// durable customer event queue.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Queue == "" {
		cfg.Queue = DefaultQueue
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if _, err := declareQueue(ch, cfg.Queue); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", cfg.Queue, err)
	}

	cfg.Logger.Info("RabbitMQ client connected", "queue", cfg.Queue)

	return &Client{
		conn:    conn,
		channel: ch,
		queue:   cfg.Queue,
		logger:  cfg.Logger,
	}, nil
}

func declareQueue(ch *amqp.Channel, name string) (amqp.Queue, error) {
	return ch.QueueDeclare(
		name,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
}

// Close closes the RabbitMQ channel and connection.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Publish sends body to the client's queue through the default exchange as a
// persistent JSON message.
func (c *Client) Publish(body []byte) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	err := c.channel.Publish(
		"",      // default exchange
		c.queue, // routing key: the queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish message: %w", err)
	}
	return nil
}

// PublishCustomerCreated publishes a customer.created event.
func (c *Client) PublishCustomerCreated(event models.CustomerCreatedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal customer event: %w", err)
	}
	if err := c.Publish(body); err != nil {
		return err
	}
	c.logger.Debug("Sent customer created event", "event_id", event.EventID, "customer_id", event.CustomerID)
	return nil
}

// ConsumeCustomerEvents registers a consumer on the client's queue and hands
// every delivery body to handle in a background goroutine. Messages are acked
// when handle returns nil and rejected without requeue otherwise, so a
// message that cannot be decoded is not redelivered forever.
func (c *Client) ConsumeCustomerEvents(handle func(body []byte) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	msgs, err := c.channel.Consume(
		c.queue,
		"",    // consumer tag
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("Waiting for customer events", "queue", c.queue)

	go func() {
		for msg := range msgs {
			c.handleDelivery(msg, handle)
		}
		c.logger.Info("Customer event consumer stopped", "queue", c.queue)
	}()

	return nil
}

func (c *Client) handleDelivery(msg amqp.Delivery, handle func(body []byte) error) {
	if err := handle(msg.Body); err != nil {
		c.logger.Error("Error processing message", "delivery_tag", msg.DeliveryTag, "error", err)
		if nackErr := msg.Nack(false, false); nackErr != nil {
			c.logger.Error("Error nacking message", "delivery_tag", msg.DeliveryTag, "error", nackErr)
		}
		return
	}
	if ackErr := msg.Ack(false); ackErr != nil {
		c.logger.Error("Error acking message", "delivery_tag", msg.DeliveryTag, "error", ackErr)
	}
}
