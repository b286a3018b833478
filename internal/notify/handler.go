package notify

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/farmlink/farm-market-backend/internal/events"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "notify").Logger()

// Handler consumes order events and notifies the buyer. Delivery is a
// structured log line standing in for the mail/push integration.
type Handler struct {
	reader *kafka.Reader
}

func NewHandler(brokers []string, topic, groupID string) *Handler {
	return &Handler{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		}),
	}
}

// Run blocks until the context is cancelled, handling one message at a time.
func (h *Handler) Run(ctx context.Context) error {
	for {
		msg, err := h.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logger.Error().Err(err).Msg("could not read message")
			continue
		}
		h.Handle(msg.Value)
	}
}

// Handle processes one raw event payload. Malformed payloads are logged and
// dropped; a poisoned message must not wedge the consumer.
func (h *Handler) Handle(payload []byte) {
	var event events.OrderEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		logger.Error().Err(err).Msg("could not decode order event")
		return
	}

	logger.Info().
		Str("order_id", event.OrderID).
		Int("user_id", event.UserID).
		Str("status", event.Status).
		Str("message", event.Message).
		Msg("notifying buyer")
}

func (h *Handler) Close() error {
	return h.reader.Close()
}
