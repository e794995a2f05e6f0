package payment

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultStreamSize is how many payments the live table shows.
const DefaultStreamSize = 10

// Payment is one simulated card/online payment shown on the live stream.
type Payment struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Product   string          `json:"product"`
	Amount    decimal.Decimal `json:"amount"`
	Customer  string          `json:"customer"`
	Region    string          `json:"region"`
	Method    string          `json:"payment_method"`
}

// Stream keeps the most recent payments, oldest first. Appending beyond the
// capacity drops the oldest entry. Safe for concurrent use.
type Stream struct {
	mu         sync.RWMutex
	size       int
	payments   []Payment
	lastUpdate time.Time
}

// NewStream returns an empty stream holding at most size payments. A
// non-positive size falls back to DefaultStreamSize.
func NewStream(size int) *Stream {
	if size <= 0 {
		size = DefaultStreamSize
	}
	return &Stream{
		size:     size,
		payments: make([]Payment, 0, size),
	}
}

// Append adds p to the stream and records its timestamp as last update.
func (s *Stream) Append(p Payment) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.payments = append(s.payments, p)
	if len(s.payments) > s.size {
		// Shift instead of reslicing so the backing array does not grow forever.
		n := copy(s.payments, s.payments[len(s.payments)-s.size:])
		s.payments = s.payments[:n]
	}
	s.lastUpdate = p.Timestamp
}

// Snapshot returns a copy of the buffered payments, oldest first.
func (s *Stream) Snapshot() []Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Payment, len(s.payments))
	copy(out, s.payments)
	return out
}

// LastUpdate returns the timestamp of the most recent payment, zero if none.
func (s *Stream) LastUpdate() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUpdate
}

// Len returns the number of buffered payments.
func (s *Stream) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payments)
}
