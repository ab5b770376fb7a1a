package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/segmentio/kafka-go"
)

const defaultWriteTimeout = 10 * time.Second

// messageWriter is the subset of *kafka.Writer used by the publisher.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// otpMessage is the payload consumed by the SMS gateway.
type otpMessage struct {
	Phone string `json:"phone"`
	OTP   string `json:"otp"`
}

type kafkaSMSPublisher struct {
	writer  messageWriter
	timeout time.Duration
	logger  *logger.Logger
}

// NewKafkaSMSPublisher constructs an [SMSPublisher] that writes one message
// per code to cfg.SMSTopic, keyed by phone number so codes for the same
// phone stay ordered within a partition.
func NewKafkaSMSPublisher(cfg config.Broker, logger *logger.Logger) SMSPublisher {
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}

	return &kafkaSMSPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Topic:                  cfg.SMSTopic,
			Balancer:               &kafka.LeastBytes{},
			RequiredAcks:           kafka.RequireAll,
			Async:                  false,
			WriteTimeout:           timeout,
			AllowAutoTopicCreation: true,
		},
		timeout: timeout,
		logger:  logger,
	}
}

// PublishOTP implements [SMSPublisher].
func (p *kafkaSMSPublisher) PublishOTP(ctx context.Context, phone, otp string) error {
	value, err := json.Marshal(otpMessage{Phone: phone, OTP: otp})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(phone),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	logger.FromContext(ctx).Debug().
		Str("func", "kafkaSMSPublisher.PublishOTP").
		Msg("otp published")
	return nil
}

// Close flushes and closes the underlying writer.
func (p *kafkaSMSPublisher) Close() error {
	return p.writer.Close()
}
