// Package pool provides pooled byte buffers for the hot paths that
// build output incrementally: hex-capture logging and text dumping.
package pool

import (
	"io"
	"sync"
)

// Default and maximum sizes for the two pools this package maintains.
// DumpBuffer backs wire/dump's text builder, which tends to run much
// larger than a hex-capture line buffer.
const (
	HexBufferDefaultSize  = 1024        // 1KiB
	HexBufferMaxThreshold = 1024 * 64   // 64KiB
	DumpBufferDefaultSize = 1024 * 8    // 8KiB
	DumpBufferMaxThreshold = 1024 * 256 // 256KiB
)

// Buffer is a growable byte slice reused across pool checkouts.
type Buffer struct {
	B []byte
}

// NewBuffer creates a Buffer with the given starting capacity.
func NewBuffer(defaultSize int) *Buffer {
	return &Buffer{B: make([]byte, 0, defaultSize)}
}

// Bytes returns the underlying byte slice.
func (b *Buffer) Bytes() []byte {
	return b.B
}

// Reset empties the buffer while retaining its backing array.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// Len returns the number of bytes currently held.
func (b *Buffer) Len() int {
	return len(b.B)
}

// Write appends data, growing the buffer as needed.
func (b *Buffer) Write(data []byte) (int, error) {
	b.B = append(b.B, data...)
	return len(data), nil
}

// WriteString appends s, growing the buffer as needed.
func (b *Buffer) WriteString(s string) (int, error) {
	b.B = append(b.B, s...)
	return len(s), nil
}

// WriteByte appends a single byte.
func (b *Buffer) WriteByte(c byte) error {
	b.B = append(b.B, c)
	return nil
}

// WriteTo writes the buffer's contents to w.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(b.B)
	return int64(n), err
}

// String returns the buffer's contents as a string copy.
func (b *Buffer) String() string {
	return string(b.B)
}

// BufferPool is a sync.Pool of Buffers with an optional size ceiling:
// buffers that grew past maxThreshold are discarded instead of pooled,
// so one pathological dump doesn't pin a huge allocation in the pool
// forever.
type BufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewBufferPool creates a BufferPool whose buffers start at defaultSize
// and are discarded on Put once they exceed maxThreshold capacity.
func NewBufferPool(defaultSize, maxThreshold int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any { return NewBuffer(defaultSize) },
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a Buffer from the pool.
func (p *BufferPool) Get() *Buffer {
	buf, _ := p.pool.Get().(*Buffer)
	return buf
}

// Put returns a Buffer to the pool for reuse.
func (p *BufferPool) Put(buf *Buffer) {
	if buf == nil {
		return
	}
	if p.maxThreshold > 0 && cap(buf.B) > p.maxThreshold {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}

var (
	hexPool  = NewBufferPool(HexBufferDefaultSize, HexBufferMaxThreshold)
	dumpPool = NewBufferPool(DumpBufferDefaultSize, DumpBufferMaxThreshold)
)

// GetHexBuffer retrieves a Buffer from the default hex-capture pool.
func GetHexBuffer() *Buffer { return hexPool.Get() }

// PutHexBuffer returns a Buffer to the default hex-capture pool.
func PutHexBuffer(buf *Buffer) { hexPool.Put(buf) }

// GetDumpBuffer retrieves a Buffer from the default text-dump pool.
func GetDumpBuffer() *Buffer { return dumpPool.Get() }

// PutDumpBuffer returns a Buffer to the default text-dump pool.
func PutDumpBuffer(buf *Buffer) { dumpPool.Put(buf) }
