package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/MKhiriev/go-rental-market/internal/config"
	"github.com/MKhiriev/go-rental-market/internal/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs     []kafka.Message
	err      error
	closed   bool
	deadline bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	_, f.deadline = ctx.Deadline()
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaSMSPublisher_PublishOTP(t *testing.T) {
	w := &fakeWriter{}
	p := &kafkaSMSPublisher{writer: w, timeout: time.Second, logger: logger.Nop()}

	require.NoError(t, p.PublishOTP(context.Background(), "+15550001111", "123456"))
	require.Len(t, w.msgs, 1)
	assert.True(t, w.deadline)
	assert.Equal(t, []byte("+15550001111"), w.msgs[0].Key)

	var got otpMessage
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, otpMessage{Phone: "+15550001111", OTP: "123456"}, got)
}

func TestKafkaSMSPublisher_PublishError(t *testing.T) {
	p := &kafkaSMSPublisher{writer: &fakeWriter{err: errors.New("leader not available")}, timeout: time.Second, logger: logger.Nop()}

	err := p.PublishOTP(context.Background(), "+15550001111", "123456")
	assert.ErrorIs(t, err, ErrPublishFailed)
}

func TestKafkaSMSPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	p := &kafkaSMSPublisher{writer: w, timeout: time.Second, logger: logger.Nop()}

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestNewKafkaSMSPublisher_Defaults(t *testing.T) {
	p := NewKafkaSMSPublisher(config.Broker{Brokers: []string{"localhost:9092"}, SMSTopic: "sms-otp"}, logger.Nop()).(*kafkaSMSPublisher)

	assert.Equal(t, defaultWriteTimeout, p.timeout)
	kw, ok := p.writer.(*kafka.Writer)
	require.True(t, ok)
	assert.Equal(t, "sms-otp", kw.Topic)
}
