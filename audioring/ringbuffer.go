// Package audioring provides a fixed-capacity, mutex-guarded circular byte
// buffer for decoupling a high-rate audio capture path from a lower-priority
// playback path.
//
// The buffer absorbs timing jitter between producer and consumer: it primes
// itself with more than half its capacity before yielding any data (the
// filling state), and under sustained overrun it discards the oldest unread
// bytes instead of blocking or rejecting the producer.
//
// # Architecture
//
//	Capture callback           RingBuffer            Playback path
//	┌──────────────┐          ┌──────────┐          ┌──────────────┐
//	│ Put (never    │──write─▶│ ●●●●●○○○ │──read──▶ │ Take (short   │
//	│ blocks/waits) │          └──────────┘          │ read, no wait)│
//	└──────────────┘                                 └──────────────┘
//
// # Thread Safety
//
// All operations on a RingBuffer are serialized by a single internal mutex.
// The structure is intended for exactly one producer and one consumer; the
// guard protects producer against consumer (and against Clear and re-Init)
// but does not enforce the single-producer/single-consumer discipline itself.
//
// # Real-Time Constraints
//
// Every operation completes in bounded time. There is no condition-variable
// waiting anywhere: Put never waits for space (it discards oldest data
// instead), and Take never waits for data (it returns ErrNotReady or a short
// read). This makes the buffer safe to call from a latency-critical capture
// callback, subject to the usual caveat that a mutex is not a hard real-time
// primitive.
package audioring

import (
	"errors"
	"sync"
)

var (
	// ErrAllocationFailed is returned by Init when no usable backing store
	// can be allocated. The buffer is unusable until a later Init succeeds.
	ErrAllocationFailed = errors.New("audioring: backing store allocation failed")

	// ErrBufferTooSmall is returned by Put when a single write exceeds the
	// buffer's total capacity. Nothing is written; the caller must chunk.
	ErrBufferTooSmall = errors.New("audioring: write exceeds buffer capacity")

	// ErrOverrun reports that a Put succeeded but overwrote unread data.
	// All bytes of the write are in the buffer; the oldest unread bytes
	// were discarded to make room. Not a failure of the call.
	ErrOverrun = errors.New("audioring: oldest unread bytes discarded")

	// ErrNotReady is returned by Take while the buffer is still filling.
	// Transient and expected; the consumer should retry later.
	ErrNotReady = errors.New("audioring: buffer still filling")

	// ErrNotInitialized is returned when the buffer has never been
	// initialized, its last Init failed, or it has been closed.
	ErrNotInitialized = errors.New("audioring: buffer not initialized")
)

// RingBuffer is a fixed-capacity circular byte buffer.
//
// Positions are monotonically increasing logical byte counts; the physical
// offset into the backing store is position modulo capacity. The unread
// count writePos-readPos never exceeds capacity after any completed
// operation.
//
// The zero value is safe but unusable until Init is called.
type RingBuffer struct {
	mu       sync.Mutex
	buf      []byte
	capacity uint64

	writePos uint64 // total bytes ever written
	readPos  uint64 // total bytes consumed or discarded by overrun
	filling  bool   // read gate: no Take succeeds until unread > capacity/2

	sink TraceSink
}

// Option configures a RingBuffer created by New.
type Option func(*RingBuffer)

// WithTraceSink routes the buffer's diagnostic events (fill, empty, overrun
// transitions) to sink. The default discards them.
func WithTraceSink(sink TraceSink) Option {
	return func(rb *RingBuffer) {
		rb.sink = sink
	}
}

// New returns an empty RingBuffer. Call Init to allocate storage before use.
func New(opts ...Option) *RingBuffer {
	rb := &RingBuffer{
		filling: true,
		sink:    NopSink{},
	}
	for _, opt := range opts {
		opt(rb)
	}
	return rb
}

func (rb *RingBuffer) trace(sev Severity, format string, args ...any) {
	if rb.sink != nil {
		rb.sink.Trace(sev, format, args...)
	}
}

// Init allocates a backing store of capacity bytes and resets all state.
// It may be called repeatedly; a prior store is discarded. On failure the
// buffer holds no storage and Put/Take return ErrNotInitialized until a
// later Init succeeds.
func (rb *RingBuffer) Init(capacity int) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if capacity <= 0 {
		rb.buf = nil
		rb.capacity = 0
		return ErrAllocationFailed
	}

	rb.buf = make([]byte, capacity)
	rb.capacity = uint64(capacity)
	rb.writePos = 0
	rb.readPos = 0
	rb.filling = true

	rb.trace(SeverityInfo, "ring buffer initialized: %d bytes", capacity)
	return nil
}

// Put copies p into the buffer and advances the write cursor.
//
// A write longer than the buffer's capacity fails with ErrBufferTooSmall and
// mutates nothing. A write that would overwrite unread data is still
// accepted in full: the read cursor is advanced past the oldest unread
// bytes and ErrOverrun is returned so the caller can account for the loss.
// Put never waits for space.
func (rb *RingBuffer) Put(p []byte) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.buf == nil {
		return ErrNotInitialized
	}
	n := uint64(len(p))
	if n > rb.capacity {
		return ErrBufferTooSmall
	}
	if n == 0 {
		return nil
	}

	var overrun bool
	if rb.writePos+n-rb.readPos > rb.capacity {
		// Advance the read cursor past the bytes this write will clobber
		// so that unread <= capacity holds once the copy lands.
		newRead := rb.writePos + n - rb.capacity + 1
		rb.trace(SeverityTerse, "ring buffer overrun: %d bytes discarded", newRead-rb.readPos)
		rb.readPos = newRead
		overrun = true
	}

	off := rb.writePos % rb.capacity
	first := rb.capacity - off
	if n <= first {
		copy(rb.buf[off:], p)
	} else {
		copy(rb.buf[off:], p[:first])
		copy(rb.buf, p[first:])
	}
	rb.writePos += n

	if rb.filling && rb.writePos-rb.readPos > rb.capacity/2 {
		rb.filling = false
		rb.trace(SeverityTerse, "ring buffer filled with %d bytes", rb.writePos-rb.readPos)
	}

	if overrun {
		return ErrOverrun
	}
	return nil
}

// Take copies up to len(p) unread bytes into p and returns the count.
//
// While the buffer is filling, Take returns 0 and ErrNotReady even if
// unread bytes exist: the gate opens only once unread exceeds half the
// capacity. Once open, Take returns min(len(p), unread) immediately; it
// never waits for more data. Draining the buffer to empty closes the gate
// again.
func (rb *RingBuffer) Take(p []byte) (int, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.buf == nil {
		return 0, ErrNotInitialized
	}
	if rb.filling {
		return 0, ErrNotReady
	}

	n := uint64(len(p))
	if avail := rb.writePos - rb.readPos; n > avail {
		n = avail
	}

	off := rb.readPos % rb.capacity
	first := rb.capacity - off
	if n <= first {
		copy(p, rb.buf[off:off+n])
	} else {
		copy(p, rb.buf[off:])
		copy(p[first:n], rb.buf[:n-first])
	}
	rb.readPos += n

	if rb.writePos-rb.readPos == 0 {
		rb.filling = true
		rb.trace(SeverityTerse, "ring buffer empty, filling again")
	}
	return int(n), nil
}

// Size returns the buffer's capacity in bytes. Capacity is immutable
// between Init calls, so Size does not take the guard.
func (rb *RingBuffer) Size() int {
	return int(rb.capacity)
}

// AvailableBytes returns the unread byte count, or 0 while the buffer is
// filling. The value is a snapshot and may be stale by the time it is used.
func (rb *RingBuffer) AvailableBytes() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.filling {
		return 0
	}
	return int(rb.writePos - rb.readPos)
}

// Clear zeroes the backing store and resets the cursors and the filling
// gate. Capacity is unchanged; no reallocation occurs. Clear on an
// uninitialized buffer is a no-op.
func (rb *RingBuffer) Clear() {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.buf == nil {
		return
	}
	clear(rb.buf)
	rb.filling = true
	rb.readPos = 0
	rb.writePos = 0
}

// Close releases the backing store. Safe to call on a buffer that was never
// initialized, and idempotent. A closed buffer can be revived with Init.
func (rb *RingBuffer) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	rb.buf = nil
	rb.capacity = 0
	rb.writePos = 0
	rb.readPos = 0
	rb.filling = true
	return nil
}
