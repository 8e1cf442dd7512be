package event

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeChannel struct {
	exchange   string
	routingKey string
	msg        amqp.Publishing
	publishErr error
	closed     bool
}

func (f *fakeChannel) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	f.exchange = exchange
	f.routingKey = key
	f.msg = msg
	return f.publishErr
}

func (f *fakeChannel) Close() error {
	f.closed = true
	return nil
}

func TestRabbitMQEventPublisher_PublishLoanApproved(t *testing.T) {
	ch := &fakeChannel{}
	pub := newPublisher(func() (publishChannel, error) { return ch, nil }, "credit-approval", logger)

	evt := LoanApprovedEvent{
		Timestamp:          time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		LoanID:             9,
		CustomerID:         3,
		LoanAmount:         100000,
		InterestRate:       12,
		Tenure:             12,
		MonthlyInstallment: 8884.88,
		CreditScore:        45,
	}

	err := pub.PublishLoanApproved(context.Background(), evt)
	require.NoError(t, err)

	assert.Equal(t, "credit-approval", ch.exchange)
	assert.Equal(t, routingKeyLoanApproved, ch.routingKey)
	assert.Equal(t, "application/json", ch.msg.ContentType)
	assert.Equal(t, amqp.Persistent, ch.msg.DeliveryMode)
	assert.Equal(t, publisherAppID, ch.msg.AppId)
	assert.True(t, ch.closed)

	var decoded LoanApprovedEvent
	require.NoError(t, json.Unmarshal(ch.msg.Body, &decoded))
	assert.Equal(t, evt, decoded)
}

func TestRabbitMQEventPublisher_RoutingKeys(t *testing.T) {
	ch := &fakeChannel{}
	pub := newPublisher(func() (publishChannel, error) { return ch, nil }, "credit-approval", logger)
	ctx := context.Background()

	require.NoError(t, pub.PublishCustomerRegistered(ctx, CustomerRegisteredEvent{CustomerID: 1}))
	assert.Equal(t, routingKeyCustomerRegistered, ch.routingKey)

	require.NoError(t, pub.PublishIngestionCompleted(ctx, IngestionCompletedEvent{JobID: "job-1", Status: "succeeded"}))
	assert.Equal(t, routingKeyIngestionCompleted, ch.routingKey)
}

func TestRabbitMQEventPublisher_Errors(t *testing.T) {
	ctx := context.Background()

	t.Run("channel open failure", func(t *testing.T) {
		openErr := errors.New("connection closed")
		pub := newPublisher(func() (publishChannel, error) { return nil, openErr }, "credit-approval", logger)

		err := pub.PublishLoanApproved(ctx, LoanApprovedEvent{})
		assert.ErrorIs(t, err, openErr)
		assert.Contains(t, err.Error(), "failed to open channel")
	})

	t.Run("publish failure closes channel", func(t *testing.T) {
		ch := &fakeChannel{publishErr: errors.New("nack")}
		pub := newPublisher(func() (publishChannel, error) { return ch, nil }, "credit-approval", logger)

		err := pub.PublishCustomerRegistered(ctx, CustomerRegisteredEvent{})
		assert.ErrorIs(t, err, ch.publishErr)
		assert.True(t, ch.closed)
	})
}

func TestNewRabbitMQEventPublisher_Validation(t *testing.T) {
	_, err := NewRabbitMQEventPublisher(nil, "credit-approval", logger)
	assert.EqualError(t, err, "RabbitMQ connection cannot be nil")
}

func TestNopPublisher(t *testing.T) {
	var pub EventPublisher = NopPublisher{}
	assert.NoError(t, pub.PublishLoanApproved(context.Background(), LoanApprovedEvent{}))
}
