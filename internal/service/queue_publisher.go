// Package service provides functions to publish domain events to RabbitMQ.
// Errors are logged and returned so callers can ignore failures without
// interrupting the main request flow.
package service

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	q "github.com/BnamoRS/ecommerce-api/internal/queue"
)

// PublishReviewEvent publishes a ReviewEvent to the review.events queue.
// Messages are marked persistent so they survive a broker restart. The
// function never panics; any error is logged and returned so the caller
// can choose to ignore it, which the review handlers do: a broker outage
// must not fail a committed review transaction.
func PublishReviewEvent(ctx context.Context, logger *zap.Logger, event q.ReviewEvent) error {
	conn, err := amqp.Dial(q.BrokerURL())
	if err != nil {
		logger.Warn("rabbitmq: dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		logger.Warn("rabbitmq: channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(q.QueueName, true, false, false, false, nil); err != nil {
		logger.Warn("rabbitmq: queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		logger.Warn("rabbitmq: marshal event failed", zap.Error(err))
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	err = ch.PublishWithContext(pubCtx, "", q.QueueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		logger.Warn("rabbitmq: publish failed", zap.Error(err), zap.String("type", event.Type))
		return err
	}
	return nil
}
