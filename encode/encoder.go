package encode

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"

	"github.com/powerman/loglayout/internal/status"
)

// DefaultChunkSize is the amount of source bytes converted per step.
const DefaultChunkSize = 2048

// TextEncoder is a reusable charset conversion state.
// It is not safe for concurrent use; [Charset.Encode] keeps a pool of them.
type TextEncoder struct {
	cs    *Charset
	enc   *encoding.Encoder
	chunk int
}

// NewEncoder returns a TextEncoder which converts at most chunkSize source
// bytes per step. Sizes below utf8.UTFMax are raised to it.
func (c *Charset) NewEncoder(chunkSize int) *TextEncoder {
	return &TextEncoder{
		cs:    c,
		enc:   encoding.ReplaceUnsupported(c.enc.NewEncoder()),
		chunk: max(chunkSize, utf8.UTFMax),
	}
}

// Encode converts all of text and writes it into dst, draining dst each
// time its buffer is full. Bytes written by the last step stay in the buffer.
//
// Errors returned by dst.Drain are returned as is. ErrNoSpace is returned
// if a drained buffer is still full. Conversion anomalies are
// reported to the status logger and the unconverted rest of text is
// delivered through Charset.Bytes instead.
func (e *TextEncoder) Encode(text []byte, dst Destination) error {
	e.enc.Reset()
	buf := dst.ByteBuffer()
	for {
		end := min(len(text), e.chunk)
		atEOF := end == len(text)
		nDst, nSrc, err := e.enc.Transform(buf.available(), text[:end], atEOF)
		buf.advance(nDst)
		text = text[nSrc:]
		switch {
		case err == nil:
			if atEOF {
				return nil
			}
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && buf.Len() == 0 {
				return e.fallback(text, dst, err)
			}
			var drainErr error
			buf, drainErr = dst.Drain(buf)
			if drainErr != nil {
				return drainErr
			}
			if buf.Remaining() == 0 {
				return ErrNoSpace
			}
		case errors.Is(err, transform.ErrShortSrc) && !atEOF && nSrc > 0:
			// Chunk ended inside a rune, the rest comes with the next chunk.
		default:
			return e.fallback(text, dst, err)
		}
	}
}

func (e *TextEncoder) fallback(text []byte, dst Destination, cause error) error {
	status.Warn("incremental encoding failed, encoding the rest at once",
		"charset", e.cs.name, "err", cause)
	return WriteTo(dst, e.cs.Bytes(text))
}
