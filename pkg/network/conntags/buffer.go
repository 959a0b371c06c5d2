// Unless explicitly stated otherwise all files in this repository are licensed
// under the Apache License Version 2.0.
// This product includes software developed at Datadog (https://www.datadoghq.com/).
// Copyright 2016-present Datadog, Inc.

package conntags

// EntryBuffer encapsulates a resizing buffer of Entry objects, so that
// periodic snapshots can reuse the same memory
type EntryBuffer struct {
	buf           []Entry
	off           int
	minBufferSize int
}

// NewEntryBuffer creates an EntryBuffer with initial size `initSize`. The
// buffer never shrinks below `minSize`.
func NewEntryBuffer(initSize, minSize int) *EntryBuffer {
	return &EntryBuffer{
		buf:           make([]Entry, initSize),
		minBufferSize: minSize,
	}
}

// Next returns the next `Entry` available for writing.
// It will resize the internal buffer if necessary.
func (b *EntryBuffer) Next() *Entry {
	if b.off >= len(b.buf) {
		b.buf = append(b.buf, Entry{})
	}
	e := &b.buf[b.off]
	b.off++
	return e
}

// Entries returns the entries written since the last `Reset`
func (b *EntryBuffer) Entries() []Entry {
	return b.buf[:b.off]
}

// Len returns the count of written entries since the last `Reset`
func (b *EntryBuffer) Len() int {
	return b.off
}

// Capacity returns the current capacity of the buffer
func (b *EntryBuffer) Capacity() int {
	return cap(b.buf)
}

// Reset returns the written entry count back to zero. It may shrink the
// internal buffer based on past usage.
func (b *EntryBuffer) Reset() {
	// shrink buffer if less than half used
	half := cap(b.buf) / 2
	if b.off <= half && half >= b.minBufferSize {
		b.buf = make([]Entry, half)
		b.off = 0
		return
	}

	zero := Entry{}
	for i := 0; i < b.off; i++ {
		b.buf[i] = zero
	}
	b.off = 0
}
