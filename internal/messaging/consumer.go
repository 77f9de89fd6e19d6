package messaging

import (
	"context"
	"errors"
	"log/slog"
	"strconv"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var consumerTracer = otel.Tracer("messaging/consumer")

// ErrUnprocessable marks a message that no retry can fix, such as a payload
// that does not decode. The consumer logs it, commits it and moves on.
var ErrUnprocessable = errors.New("unprocessable message")

// MessageHandler processes one message payload. Any error other than
// ErrUnprocessable stops the consumer before the offset is committed.
type MessageHandler func(ctx context.Context, payload []byte) error

type Consumer struct {
	reader  *kafka.Reader
	topic   string
	groupID string
	logger  *slog.Logger
}

type consumerSettings struct {
	reader kafka.ReaderConfig
	logger *slog.Logger
}

type ConsumerOption func(*consumerSettings)

func WithStartOffset(offset int64) ConsumerOption {
	return func(s *consumerSettings) {
		s.reader.StartOffset = offset
	}
}

func WithLogger(logger *slog.Logger) ConsumerOption {
	return func(s *consumerSettings) {
		s.logger = logger
	}
}

func NewConsumer(brokers []string, topic, groupID string, opts ...ConsumerOption) *Consumer {
	settings := consumerSettings{
		reader: kafka.ReaderConfig{
			Brokers: brokers,
			Topic:   topic,
			GroupID: groupID,
		},
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(&settings)
	}

	return &Consumer{
		reader:  kafka.NewReader(settings.reader),
		topic:   topic,
		groupID: groupID,
		logger:  settings.logger,
	}
}

// Consume fetches messages until ctx is cancelled or handler fails. Offsets
// are committed only after the handler succeeds or rejects the message as
// unprocessable.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := c.handle(ctx, msg, handler); err != nil {
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// handle runs handler on msg and returns nil when the offset may be
// committed.
func (c *Consumer) handle(ctx context.Context, msg kafka.Message, handler MessageHandler) error {
	err := c.processMessage(ctx, msg, handler)
	if err == nil {
		return nil
	}

	attrs := []any{
		"error", err,
		"topic", c.topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"order_id", string(msg.Key),
	}

	if errors.Is(err, ErrUnprocessable) {
		c.logger.Warn("skipping unprocessable message", attrs...)
		return nil
	}

	c.logger.Error("failed to process message", attrs...)
	return err
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message, handler MessageHandler) error {
	parentCtx := otel.GetTextMapPropagator().Extract(ctx, NewMessageCarrier(&msg))

	spanCtx, span := consumerTracer.Start(parentCtx, "process "+c.topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			semconv.MessagingSystemKafka,
			semconv.MessagingOperationName("process"),
			semconv.MessagingOperationTypeDeliver,
			semconv.MessagingDestinationName(c.topic),
			semconv.MessagingKafkaConsumerGroup(c.groupID),
			semconv.MessagingKafkaMessageOffset(int(msg.Offset)),
			semconv.MessagingDestinationPartitionID(strconv.Itoa(msg.Partition)),
			semconv.MessagingKafkaMessageKey(string(msg.Key)),
		),
	)
	defer span.End()

	if err := handler(spanCtx, msg.Value); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
