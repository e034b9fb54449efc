package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"assignment_service/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaNotifier struct {
	writer messageWriter
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        false,
	}
	return &KafkaNotifier{writer: writer}
}

// Notify keys messages by assignment so events for one assignment stay ordered
// within a partition.
func (n *KafkaNotifier) Notify(ctx context.Context, event domain.SubmissionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal submission event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.AssignmentID.String()),
		Value: data,
		Time:  time.Now(),
	}
	if err := n.writer.WriteMessages(ctx, message); err != nil {
		return fmt.Errorf("failed to send submission event: %w", err)
	}
	return nil
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}
