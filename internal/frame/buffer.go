package frame

// ByteStream is the receive-side abstraction the decoder reads from. Peek
// must not consume; Next consumes exactly n bytes. Both report false when
// fewer than n bytes are buffered, consuming nothing. Returned slices are
// valid only until the stream is written to again.
type ByteStream interface {
	Buffered() int
	Peek(n int) ([]byte, bool)
	Next(n int) ([]byte, bool)
}

// Buffer is an append-only receive buffer with a front read cursor, the
// concrete ByteStream a transport feeds with incoming bytes. One buffer
// per connection; not safe for concurrent use.
type Buffer struct {
	buf []byte
	off int
}

// Write appends p. The error is always nil; the signature satisfies
// io.Writer so transports can copy into the buffer directly.
func (b *Buffer) Write(p []byte) (int, error) {
	if b.off == len(b.buf) {
		b.buf = b.buf[:0]
		b.off = 0
	} else if b.off > len(b.buf)/2 {
		// Reclaim the consumed prefix once it dominates the backing
		// array; otherwise a connection that always has a partial frame
		// pending grows the buffer with total traffic.
		b.buf = append(b.buf[:0], b.buf[b.off:]...)
		b.off = 0
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *Buffer) Buffered() int { return len(b.buf) - b.off }

func (b *Buffer) Peek(n int) ([]byte, bool) {
	if b.Buffered() < n {
		return nil, false
	}
	return b.buf[b.off : b.off+n], true
}

func (b *Buffer) Next(n int) ([]byte, bool) {
	p, ok := b.Peek(n)
	if !ok {
		return nil, false
	}
	b.off += n
	return p, true
}
