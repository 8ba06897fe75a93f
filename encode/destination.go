package encode

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// ErrNoSpace is returned when a drained buffer still has no room.
var ErrNoSpace = errors.New("destination buffer has no space after drain")

// Destination owns the byte buffer formatted output is written into.
type Destination interface {
	// ByteBuffer returns the buffer to write into.
	ByteBuffer() *ByteBuffer
	// Drain consumes the contents of a full buffer and returns
	// a buffer with free space. The returned buffer may differ from buf.
	Drain(buf *ByteBuffer) (*ByteBuffer, error)
	// WriteBytes writes p, draining as needed.
	WriteBytes(p []byte) error
}

// WriteTo copies p into dst, draining whenever the buffer becomes full.
// It does not drain after the last byte is copied.
func WriteTo(dst Destination, p []byte) error {
	buf := dst.ByteBuffer()
	for len(p) > 0 {
		if buf.Remaining() == 0 {
			var err error
			buf, err = dst.Drain(buf)
			if err != nil {
				return err
			}
			if buf.Remaining() == 0 {
				return ErrNoSpace
			}
		}
		p = p[buf.Put(p):]
	}
	return nil
}

// WriterDestination drains its buffer into an io.Writer.
type WriterDestination struct {
	w   io.Writer
	buf *ByteBuffer
}

// DefaultBufferSize is used by NewWriterDestination for non-positive size.
const DefaultBufferSize = 8 << 10

// NewWriterDestination returns a destination with a buffer of given size
// which writes drained bytes to w.
func NewWriterDestination(w io.Writer, size int) *WriterDestination {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &WriterDestination{w: w, buf: NewByteBuffer(size)}
}

func (d *WriterDestination) ByteBuffer() *ByteBuffer { return d.buf }

func (d *WriterDestination) Drain(buf *ByteBuffer) (*ByteBuffer, error) {
	if buf.Len() > 0 {
		_, err := d.w.Write(buf.Bytes())
		buf.Reset()
		if err != nil {
			return buf, fmt.Errorf("drain: %w", err)
		}
	}
	return buf, nil
}

// WriteBytes writes p through the buffer. Data larger than the buffer
// goes directly to the writer after pending bytes are drained.
func (d *WriterDestination) WriteBytes(p []byte) error {
	if len(p) <= d.buf.Remaining() {
		d.buf.Put(p)
		return nil
	}
	if _, err := d.Drain(d.buf); err != nil {
		return err
	}
	if len(p) > d.buf.Cap() {
		_, err := d.w.Write(p)
		return err
	}
	d.buf.Put(p)
	return nil
}

// Flush drains pending bytes.
func (d *WriterDestination) Flush() error {
	_, err := d.Drain(d.buf)
	return err
}

// LockingDestination guards a Destination shared between goroutines.
//
// ByteBuffer and Drain do not lock: call them only while holding the lock,
// for example inside Do. WriteBytes acquires the lock itself.
type LockingDestination struct {
	mu   sync.Mutex
	dest Destination
}

// NewLockingDestination wraps dest.
func NewLockingDestination(dest Destination) *LockingDestination {
	return &LockingDestination{dest: dest}
}

func (d *LockingDestination) Lock()   { d.mu.Lock() }
func (d *LockingDestination) Unlock() { d.mu.Unlock() }

func (d *LockingDestination) ByteBuffer() *ByteBuffer { return d.dest.ByteBuffer() }

func (d *LockingDestination) Drain(buf *ByteBuffer) (*ByteBuffer, error) { return d.dest.Drain(buf) }

func (d *LockingDestination) WriteBytes(p []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return WriteTo(d.dest, p)
}

// Do calls f with the wrapped destination while holding the lock.
func (d *LockingDestination) Do(f func(Destination) error) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return f(d.dest)
}
