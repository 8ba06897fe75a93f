package encode

// ByteBuffer is a fixed capacity byte buffer.
// Its length is the write position.
type ByteBuffer struct {
	buf []byte
}

// NewByteBuffer returns an empty buffer with given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{buf: make([]byte, 0, capacity)}
}

// Len returns the number of bytes written since last Reset.
func (b *ByteBuffer) Len() int { return len(b.buf) }

// Cap returns buffer capacity.
func (b *ByteBuffer) Cap() int { return cap(b.buf) }

// Remaining returns the number of bytes which can be written before the buffer is full.
func (b *ByteBuffer) Remaining() int { return cap(b.buf) - len(b.buf) }

// Bytes returns written bytes. The slice is valid until the next write or Reset.
func (b *ByteBuffer) Bytes() []byte { return b.buf }

// Reset empties the buffer.
func (b *ByteBuffer) Reset() { b.buf = b.buf[:0] }

// Put copies as much of p as fits and returns the number of copied bytes.
func (b *ByteBuffer) Put(p []byte) int {
	n := copy(b.buf[len(b.buf):cap(b.buf)], p)
	b.buf = b.buf[:len(b.buf)+n]
	return n
}

func (b *ByteBuffer) available() []byte { return b.buf[len(b.buf):cap(b.buf)] }

func (b *ByteBuffer) advance(n int) { b.buf = b.buf[:len(b.buf)+n] }
