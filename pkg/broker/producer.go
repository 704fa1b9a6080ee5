package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sicada/admin-service/internal/entity"
)

// Producer streams activity events to Kafka for downstream consumers
// (notifications, external analytics). The durable audit row lives in
// Postgres; this stream is best-effort and asynchronous.
type Producer struct {
	l               *slog.Logger
	w               *kafka.Writer
	activitiesTopic string
}

func NewProducer(l *slog.Logger, brokers []string, topic string) *Producer {
	l = l.WithGroup("kafka").With("topic", topic)

	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  "",
		Balancer:               &kafka.LeastBytes{},
		Async:                  true,
		Logger:                 &infoLogger{l: l},
		ErrorLogger:            &errorLogger{l: l},
		AllowAutoTopicCreation: true,
	}

	return &Producer{
		l:               l,
		w:               w,
		activitiesTopic: topic,
	}
}

type ActivityEvent struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	UserName    string `json:"user_name"`
	Portal      string `json:"portal"`
	Timestamp   string `json:"timestamp"`
	TicketID    string `json:"ticket_id,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

func (p *Producer) SendActivity(ctx context.Context, activity entity.Activity) {
	event := ActivityEvent{
		Type:        activity.Type,
		Description: activity.Description,
		UserName:    activity.UserName,
		Portal:      string(activity.Portal),
		Timestamp:   activity.Timestamp.Format(time.RFC3339),
	}

	if activity.TicketID != nil {
		event.TicketID = activity.TicketID.String()
	}

	if activity.UserID != nil {
		event.UserID = *activity.UserID
	}

	b, err := json.Marshal(event)
	if err != nil {
		p.l.Error(fmt.Sprintf("marshal event: %s", err))
		return
	}

	err = p.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(activity.ID.String()),
		Value: b,
		Topic: p.activitiesTopic,
	})
	if err != nil {
		p.l.Error(fmt.Sprintf("write kafka message: %s", err))
		return
	}
}

func (p *Producer) Close() {
	err := p.w.Close()
	if err != nil {
		p.l.Error(fmt.Sprintf("close kafka writer: %s", err))
	}
}
