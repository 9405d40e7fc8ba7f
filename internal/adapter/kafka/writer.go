// Package kafka publishes fulfillment plans to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/order-fulfillment-engine/internal/config"
	"github.com/couchcryptid/order-fulfillment-engine/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Header keys set on every plan message.
const (
	HeaderRunID       = "run_id"
	HeaderGeneratedAt = "generated_at"
)

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// PlanWriter publishes one message per order plan.
// It implements pipeline.PlanLoader.
type PlanWriter struct {
	writer messageWriter
	logger *slog.Logger
}

// NewPlanWriter creates a Kafka producer for the configured plan topic.
func NewPlanWriter(cfg *config.Config, logger *slog.Logger) *PlanWriter {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.KafkaBrokers...),
		Topic:                  cfg.KafkaPlanTopic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &PlanWriter{writer: w, logger: logger}
}

// LoadPlan serializes every order plan and publishes them in a single
// WriteMessages call. Messages are keyed by order id so that successive
// plans for one order land on the same partition.
func (w *PlanWriter) LoadPlan(ctx context.Context, plan domain.Plan) error {
	if len(plan.Orders) == 0 {
		return nil
	}
	msgs := make([]kafkago.Message, len(plan.Orders))
	for i := range plan.Orders {
		msg, err := serializeToMessage(plan, plan.Orders[i])
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := w.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("publish plan %s: %w", plan.RunID, err)
	}
	w.logger.Debug("plan published", "run_id", plan.RunID, "messages", len(msgs))
	return nil
}

func (w *PlanWriter) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals one OrderPlan into a Kafka message.
func serializeToMessage(plan domain.Plan, op domain.OrderPlan) (kafkago.Message, error) {
	data, err := json.Marshal(op)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize order plan %d: %w", op.Order.ID, err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.FormatInt(int64(op.Order.ID), 10)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: HeaderRunID, Value: []byte(plan.RunID)},
			{Key: HeaderGeneratedAt, Value: []byte(plan.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
