package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/shaiso/Resonance/internal/domain"
)

// Топология событий.
const (
	// ExchangeJobs — topic exchange переходов статуса задач.
	ExchangeJobs = "resonance.jobs"
)

// MessageType — тип события.
type MessageType string

const (
	// MessageTypeTransition — переход статуса задачи.
	MessageTypeTransition MessageType = "job.transition"
)

// Message — событие для публикации.
type Message struct {
	// ID — уникальный идентификатор сообщения.
	ID string `json:"id"`

	// Type — тип события.
	Type MessageType `json:"type"`

	// Payload — полезная нагрузка.
	Payload any `json:"payload"`

	// Timestamp — время создания.
	Timestamp time.Time `json:"timestamp"`
}

// TransitionPayload — payload перехода статуса.
type TransitionPayload struct {
	JobID    uuid.UUID        `json:"job_id"`
	CaseName string           `json:"case_name"`
	Handle   domain.JobHandle `json:"handle"`
	From     domain.JobStatus `json:"from,omitempty"`
	To       domain.JobStatus `json:"to"`
}

// Publisher публикует события переходов статуса в RabbitMQ.
//
// Публикация — best effort: события дополняют пайплайн, но не являются
// его частью; ошибка публикации логируется и не прерывает выполнение.
type Publisher struct {
	conn   *Connection
	logger *slog.Logger
}

// NewPublisher создаёт Publisher и объявляет exchange.
func NewPublisher(conn *Connection, logger *slog.Logger) (*Publisher, error) {
	err := conn.WithChannel(func(ch *amqp.Channel) error {
		return ch.ExchangeDeclare(
			ExchangeJobs,
			"topic",
			true,  // durable
			false, // auto-delete
			false, // internal
			false, // no-wait
			nil,
		)
	})
	if err != nil {
		return nil, fmt.Errorf("declare exchange %s: %w", ExchangeJobs, err)
	}

	return &Publisher{conn: conn, logger: logger}, nil
}

// PublishTransition публикует переход статуса задачи.
// Routing key: job.<новый статус в нижнем регистре>.
func (p *Publisher) PublishTransition(ctx context.Context, payload TransitionPayload) error {
	msg := &Message{
		ID:        uuid.New().String(),
		Type:      MessageTypeTransition,
		Payload:   payload,
		Timestamp: time.Now(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	routingKey := "job." + strings.ToLower(payload.To.String())

	return p.conn.WithChannel(func(ch *amqp.Channel) error {
		err := ch.PublishWithContext(
			ctx,
			ExchangeJobs,
			routingKey,
			false,
			false,
			amqp.Publishing{
				ContentType:  "application/json",
				DeliveryMode: amqp.Persistent,
				MessageId:    msg.ID,
				Timestamp:    msg.Timestamp,
				Body:         body,
			},
		)
		if err != nil {
			return fmt.Errorf("publish to %s/%s: %w", ExchangeJobs, routingKey, err)
		}

		p.logger.Debug("published transition",
			"routing_key", routingKey,
			"job_id", payload.JobID,
			"to", payload.To.String(),
		)
		return nil
	})
}
