package events

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	messages  []kafka.Message
	next      int
	committed []int64

	// position mirrors the broker's cumulative group offset: committing a
	// message acknowledges everything on the partition up to it.
	position int64
}

func (f *fakeFetcher) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if f.next >= len(f.messages) {
		<-ctx.Done()
		return kafka.Message{}, ctx.Err()
	}
	m := f.messages[f.next]
	f.next++
	return m, nil
}

func (f *fakeFetcher) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		f.committed = append(f.committed, m.Offset)
		if m.Offset+1 > f.position {
			f.position = m.Offset + 1
		}
	}
	return nil
}

func newTestConsumer() *Consumer {
	c := NewConsumer([]string{"localhost:9092"}, "test-group", slog.Default())
	c.fetchBackoff = time.Millisecond
	c.handleBackoff = time.Millisecond
	return c
}

func TestConsumer_CommitsOnHandlerSuccess(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{messages: []kafka.Message{
		{Offset: 1, Value: []byte(`{"postId":"a"}`)},
		{Offset: 2, Value: []byte(`{"postId":"b"}`)},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var handled []string
	err := newTestConsumer().consume(ctx, TopicPostCreated, f, func(_ context.Context, payload []byte) error {
		handled = append(handled, string(payload))
		return nil
	})
	require.NoError(t, err)

	assert.Len(t, handled, 2)
	assert.Equal(t, []int64{1, 2}, f.committed)
	assert.Equal(t, int64(3), f.position)
}

func TestConsumer_RetriesFailedMessageBeforeAdvancing(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{messages: []kafka.Message{
		{Offset: 1, Value: []byte(`flaky`)},
		{Offset: 2, Value: []byte(`good`)},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var seen []string
	attempts := 0
	err := newTestConsumer().consume(ctx, TopicPostDeleted, f, func(_ context.Context, payload []byte) error {
		seen = append(seen, string(payload))
		if string(payload) == "flaky" {
			attempts++
			if attempts < 3 {
				return errors.New("boom")
			}
		}
		return nil
	})
	require.NoError(t, err)

	// The failed message is retried in place until it succeeds; only then
	// does the loop move on and commit.
	assert.Equal(t, []string{"flaky", "flaky", "flaky", "good"}, seen)
	assert.Equal(t, []int64{1, 2}, f.committed)
	assert.Equal(t, int64(3), f.position)
}

func TestConsumer_FailingMessageBlocksPartition(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{messages: []kafka.Message{
		{Offset: 1, Value: []byte(`poison`)},
		{Offset: 2, Value: []byte(`good`)},
	}}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var seen []string
	err := newTestConsumer().consume(ctx, TopicPostDeleted, f, func(_ context.Context, payload []byte) error {
		seen = append(seen, string(payload))
		return errors.New("still broken")
	})
	require.NoError(t, err)

	// Nothing commits while the first message keeps failing. Committing the
	// later offset instead would implicitly acknowledge the failed one.
	assert.Empty(t, f.committed)
	assert.Equal(t, int64(0), f.position)
	assert.NotContains(t, seen, "good")
}

func TestConsumer_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- newTestConsumer().consume(ctx, TopicPostCreated, f, func(context.Context, []byte) error { return nil })
	}()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop after cancellation")
	}
}
