package encode

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/powerman/loglayout/internal/status"
)

// Charset converts UTF-8 text into a target character set.
// Unsupported characters and invalid UTF-8 are replaced, never rejected.
// A Charset is safe for concurrent use.
type Charset struct {
	name string
	enc  encoding.Encoding
	utf8 bool
	pool *sync.Pool // *TextEncoder, shared by copies.
}

// Predefined charsets.
var (
	UTF8     = newCharset("UTF-8", unicode.UTF8)
	ISO88591 = newCharset("ISO-8859-1", charmap.ISO8859_1)
	UTF16BE  = newCharset("UTF-16BE", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
	UTF16LE  = newCharset("UTF-16LE", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM))
)

func newCharset(name string, enc encoding.Encoding) *Charset {
	c := &Charset{name: name, enc: enc, utf8: enc == unicode.UTF8, pool: new(sync.Pool)}
	c.pool.New = func() any { return c.NewEncoder(DefaultChunkSize) }
	return c
}

// LookupCharset returns charset by IANA or WHATWG name.
// Empty name means UTF-8.
func LookupCharset(name string) (*Charset, error) {
	name = strings.TrimSpace(name)
	for _, c := range []*Charset{UTF8, ISO88591, UTF16BE, UTF16LE} {
		if name == "" || strings.EqualFold(name, c.name) {
			return c, nil
		}
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(name)
	}
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", name)
	}
	canonical, err := ianaindex.IANA.Name(enc)
	if err != nil {
		canonical = strings.ToUpper(name)
	}
	return newCharset(canonical, enc), nil
}

// Name returns canonical charset name.
func (c *Charset) Name() string { return c.name }

func (c *Charset) String() string { return c.name }

// Bytes returns text converted to c in a newly allocated slice.
func (c *Charset) Bytes(text []byte) []byte {
	if c.utf8 && utf8.Valid(text) {
		return bytes.Clone(text)
	}
	b, _, err := transform.Bytes(encoding.ReplaceUnsupported(c.enc.NewEncoder()), text)
	if err != nil {
		status.Error("failed to encode text", "charset", c.name, "err", err)
		return bytes.Clone(text)
	}
	return b
}

// Encode writes text converted to c into dst using a pooled TextEncoder.
func (c *Charset) Encode(text []byte, dst Destination) error {
	e := c.pool.Get().(*TextEncoder)
	defer c.pool.Put(e)
	return e.Encode(text, dst)
}
