package pool

import (
	"io"
	"sync"
)

const (
	EnvelopeBufferDefaultSize  = 1024 * 16       // 16KiB
	EnvelopeBufferMaxThreshold = 1024 * 1024     // 1MiB
	LineBufferDefaultSize      = 256             // 256B
	LineBufferMaxThreshold     = 1024 * 64       // 64KiB
	growStep                   = 1024 * 4        // 4KiB
	largeBufferThreshold       = 1024 * 1024 * 4 // 4MiB
)

// ByteBuffer is a reusable byte slice.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
//
// The slice is only valid until the buffer is released back to its pool.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// String returns a copy of the buffer contents as a string.
func (bb *ByteBuffer) String() string {
	return string(bb.B)
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// SetLength sets the length of the buffer to n.
// Panics if n is negative or greater than the capacity.
func (bb *ByteBuffer) SetLength(n int) {
	if n < 0 || n > cap(bb.B) {
		panic("SetLength: invalid length")
	}
	bb.B = bb.B[:n]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without reallocating.
// If the buffer has sufficient capacity, Grow does nothing.
//
// Size formulas in package envelope give exact upper bounds, so small buffers
// grow to exactly the required size rounded up to growStep; buffers past
// largeBufferThreshold grow by 25% to amortize repeated growth.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := (requiredBytes + growStep - 1) / growStep * growStep
	if cap(bb.B) > largeBufferThreshold && growBy < cap(bb.B)/4 {
		growBy = cap(bb.B) / 4
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.B = append(bb.B, data...)
	return len(data), nil
}

// WriteString appends s to the buffer.
func (bb *ByteBuffer) WriteString(s string) (int, error) {
	bb.B = append(bb.B, s...)
	return len(s), nil
}

// WriteByte appends c to the buffer.
func (bb *ByteBuffer) WriteByte(c byte) error {
	bb.B = append(bb.B, c)
	return nil
}

// WriteTo writes the contents of the buffer to w.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// It uses sync.Pool internally to manage the buffers.
// Buffers larger than maxThreshold are dropped on release instead of being
// retained, so one oversized bundle does not pin memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

// Acquire retrieves a ByteBuffer and a release function that returns it to
// the pool. The release function is safe to call more than once.
//
// Example:
//
//	buf, release := pool.GetEnvelopeBuffer()
//	defer release()
func (bbp *ByteBufferPool) Acquire() (*ByteBuffer, func()) {
	bb := bbp.Get()
	released := false

	return bb, func() {
		if released {
			return
		}
		released = true
		bbp.Put(bb)
	}
}

var (
	envelopeDefaultPool = NewByteBufferPool(EnvelopeBufferDefaultSize, EnvelopeBufferMaxThreshold)
	lineDefaultPool     = NewByteBufferPool(LineBufferDefaultSize, LineBufferMaxThreshold)
)

// GetEnvelopeBuffer acquires a buffer for compression and base64 intermediates.
func GetEnvelopeBuffer() (*ByteBuffer, func()) {
	return envelopeDefaultPool.Acquire()
}

// GetLineBuffer acquires a scratch buffer for rendering canonical lines.
func GetLineBuffer() (*ByteBuffer, func()) {
	return lineDefaultPool.Acquire()
}
