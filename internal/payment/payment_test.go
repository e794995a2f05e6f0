package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func makePayment(i int, ts time.Time) Payment {
	return Payment{
		ID:        fmt.Sprintf("pay-%02d", i),
		Timestamp: ts,
		Product:   "Laptop Pro",
		Amount:    decimal.NewFromInt(int64(i)),
		Customer:  "Cust-001",
		Region:    "West",
		Method:    "PayPal",
	}
}

func TestStream_KeepsLastN(t *testing.T) {
	s := NewStream(0)
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)

	for i := 1; i <= 25; i++ {
		s.Append(makePayment(i, base.Add(time.Duration(i)*time.Second)))
	}

	got := s.Snapshot()
	require.Len(t, got, DefaultStreamSize)
	assert.Equal(t, "pay-16", got[0].ID)
	assert.Equal(t, "pay-25", got[9].ID)
	assert.Equal(t, base.Add(25*time.Second), s.LastUpdate())
	assert.Equal(t, DefaultStreamSize, s.Len())
}

func TestStream_SnapshotIsCopy(t *testing.T) {
	s := NewStream(3)
	s.Append(makePayment(1, time.Now()))

	snap := s.Snapshot()
	snap[0].ID = "changed"
	assert.Equal(t, "pay-01", s.Snapshot()[0].ID)
}

func TestStream_ConcurrentAppend(t *testing.T) {
	s := NewStream(5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Append(makePayment(i, time.Now()))
			_ = s.Snapshot()
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 5, s.Len())
}

type mockPublisher struct {
	mu        sync.Mutex
	published []Payment
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, p Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, p)
	return m.err
}

type countingRecorder struct {
	mu sync.Mutex
	n  int
}

func (c *countingRecorder) PaymentSimulated(Payment) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func TestSimulator_Tick(t *testing.T) {
	stream := NewStream(10)
	pub := &mockPublisher{err: errors.New("broker down")}
	rec := &countingRecorder{}
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	i := 0
	source := func(now time.Time) Payment {
		i++
		return makePayment(i, now)
	}

	sim := NewSimulator(stream, source, 0, discardLogger(),
		WithPublisher(pub), WithRecorder(rec), WithClock(func() time.Time { return fixed }))

	p := sim.Tick(context.Background())
	assert.Equal(t, "pay-01", p.ID)
	assert.Equal(t, fixed, p.Timestamp)
	assert.Equal(t, 1, stream.Len())
	assert.Len(t, pub.published, 1, "publish errors must not drop the payment")
	assert.Equal(t, 1, rec.n)
	assert.Equal(t, time.Second, sim.interval)
}

func TestSimulator_RunStopsOnCancel(t *testing.T) {
	stream := NewStream(10)
	source := func(now time.Time) Payment { return makePayment(1, now) }
	sim := NewSimulator(stream, source, 5*time.Millisecond, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sim.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return stream.Len() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("simulator did not stop after cancel")
	}
}

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafkago.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return f.err
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	pub := newKafkaPublisher(w, DefaultTopic, discardLogger())

	p := makePayment(7, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, pub.Publish(context.Background(), p))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, []byte("pay-07"), msg.Key)
	require.Len(t, msg.Headers, 1)
	assert.Equal(t, "payment.simulated", string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, "pay-07", decoded["id"])
	assert.Equal(t, "PayPal", decoded["payment_method"])

	require.NoError(t, pub.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	w := &fakeWriter{err: errors.New("leader not available")}
	pub := newKafkaPublisher(w, "payments", nil)

	err := pub.Publish(context.Background(), makePayment(1, time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "payments")
	assert.ErrorIs(t, err, w.err)
}
