// Copyright 2022 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer provides a pool-allocated byte buffer.
package buffer

import "sync"

// Buffer is a byte buffer.
//
// This implementation is adapted from the unexported type buffer
// in go/src/fmt/print.go.
type Buffer []byte

// Having an initial size gives a dramatic speedup.
var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 1024)
		return (*Buffer)(&b)
	},
}

// New returns an empty Buffer taken from the pool.
func New() *Buffer {
	return bufPool.Get().(*Buffer)
}

// Free returns b to the pool unless it grew too large to keep.
func (b *Buffer) Free() {
	// To reduce peak allocation, return only smaller buffers to the pool.
	const maxBufferSize = 16 << 10
	if cap(*b) <= maxBufferSize {
		*b = (*b)[:0]
		bufPool.Put(b)
	}
}

// Reset truncates b to zero length.
func (b *Buffer) Reset() {
	b.SetLen(0)
}

func (b *Buffer) Write(p []byte) (int, error) {
	*b = append(*b, p...)
	return len(p), nil
}

func (b *Buffer) WriteString(s string) (int, error) {
	*b = append(*b, s...)
	return len(s), nil
}

func (b *Buffer) WriteByte(c byte) error {
	*b = append(*b, c)
	return nil
}

func (b *Buffer) String() string {
	return string(*b)
}

// Bytes returns the buffer contents. It is valid until the next write or Free.
func (b *Buffer) Bytes() []byte {
	return *b
}

func (b *Buffer) Len() int {
	return len(*b)
}

// SetLen changes the length of b. Growing beyond capacity keeps
// the bytes between len and cap and appends zero bytes after them.
func (b *Buffer) SetLen(n int) {
	if n <= cap(*b) {
		*b = (*b)[:n]
		return
	}
	*b = append((*b)[:cap(*b)], make([]byte, n-cap(*b))...)
}
