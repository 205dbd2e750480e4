package produce

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	UploadEventExchange = "upload.events"

	UploadCommittedQueue      = "upload.committed"
	UploadCommittedRoutingKey = "upload.committed"

	UploadEvictedQueue      = "upload.evicted"
	UploadEvictedRoutingKey = "upload.evicted"
)

// UploadCommittedMessage is published after an upload is fully committed.
type UploadCommittedMessage struct {
	RecordID   string `json:"record_id"`
	OwnerID    string `json:"owner_id"`
	FileName   string `json:"file_name"`
	TotalCount int    `json:"total_count"`
	Timestamp  int64  `json:"timestamp"`
}

// UploadEvictedMessage is published for each record removed by retention.
type UploadEvictedMessage struct {
	RecordID  string `json:"record_id"`
	OwnerID   string `json:"owner_id"`
	Timestamp int64  `json:"timestamp"`
}

// UploadEventService publishes upload lifecycle events for downstream
// consumers. Publishing is best-effort; callers never fail an upload on it.
type UploadEventService struct {
	channel *amqp.Channel
}

func InitUploadEventService(channel *amqp.Channel) *UploadEventService {
	service := &UploadEventService{
		channel: channel,
	}

	err := channel.ExchangeDeclare(
		UploadEventExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		panic("Failed to declare Upload event exchange: " + err.Error())
	}

	for queue, key := range map[string]string{
		UploadCommittedQueue: UploadCommittedRoutingKey,
		UploadEvictedQueue:   UploadEvictedRoutingKey,
	} {
		_, err = channel.QueueDeclare(
			queue,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			panic("Failed to declare queue " + queue + ": " + err.Error())
		}

		err = channel.QueueBind(queue, key, UploadEventExchange, false, nil)
		if err != nil {
			panic("Failed to bind queue " + queue + ": " + err.Error())
		}
	}

	return service
}

func (s *UploadEventService) PublishCommitted(ctx context.Context, msg UploadCommittedMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, UploadCommittedRoutingKey, msg)
}

func (s *UploadEventService) PublishEvicted(ctx context.Context, msg UploadEvictedMessage) error {
	msg.Timestamp = time.Now().Unix()
	return s.publish(ctx, UploadEvictedRoutingKey, msg)
}

func (s *UploadEventService) publish(ctx context.Context, routingKey string, msg interface{}) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return s.channel.PublishWithContext(
		ctx,
		UploadEventExchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
}
