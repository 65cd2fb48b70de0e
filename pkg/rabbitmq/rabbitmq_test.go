package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingChannel struct {
	published []amqp.Publishing
	keys      []string
	err       error
	closed    bool
}

func (r *recordingChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	if r.err != nil {
		return r.err
	}
	r.keys = append(r.keys, key)
	r.published = append(r.published, msg)
	return nil
}

func (r *recordingChannel) Close() error {
	r.closed = true
	return nil
}

func TestPublisher_PublishJSON(t *testing.T) {
	ch := &recordingChannel{}
	p := newPublisherWithChannel(ch, "rating.submitted")

	err := p.PublishJSON(context.Background(), map[string]interface{}{"rating": 4})
	require.NoError(t, err)

	require.Len(t, ch.published, 1)
	assert.Equal(t, "rating.submitted", ch.keys[0])
	assert.Equal(t, "application/json", ch.published[0].ContentType)
	assert.Equal(t, amqp.Persistent, ch.published[0].DeliveryMode)

	var body map[string]int
	require.NoError(t, json.Unmarshal(ch.published[0].Body, &body))
	assert.Equal(t, 4, body["rating"])
}

func TestPublisher_Errors(t *testing.T) {
	ch := &recordingChannel{err: errors.New("channel closed")}
	p := newPublisherWithChannel(ch, "q")
	assert.Error(t, p.PublishJSON(context.Background(), "x"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, p.PublishJSON(ctx, "x"), context.Canceled)

	require.NoError(t, p.Close())
	assert.True(t, ch.closed)
	assert.Error(t, p.PublishJSON(context.Background(), "x"))
}
