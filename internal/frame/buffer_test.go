package frame

import (
	"bytes"
	"testing"
)

func TestBufferPeekDoesNotConsume(t *testing.T) {
	var b Buffer
	b.Write([]byte("abcdef"))

	p, ok := b.Peek(4)
	if !ok || !bytes.Equal(p, []byte("abcd")) {
		t.Fatalf("Peek(4) = %q, %v", p, ok)
	}
	if b.Buffered() != 6 {
		t.Fatalf("Peek consumed: %d buffered", b.Buffered())
	}

	if _, ok := b.Peek(7); ok {
		t.Fatalf("Peek past end succeeded")
	}
}

func TestBufferNextConsumesExactly(t *testing.T) {
	var b Buffer
	b.Write([]byte("abcdef"))

	p, ok := b.Next(2)
	if !ok || !bytes.Equal(p, []byte("ab")) {
		t.Fatalf("Next(2) = %q, %v", p, ok)
	}
	if b.Buffered() != 4 {
		t.Fatalf("expected 4 buffered, got %d", b.Buffered())
	}

	if _, ok := b.Next(5); ok {
		t.Fatalf("short Next succeeded")
	}
	if b.Buffered() != 4 {
		t.Fatalf("failed Next consumed bytes: %d buffered", b.Buffered())
	}

	p, ok = b.Next(4)
	if !ok || !bytes.Equal(p, []byte("cdef")) {
		t.Fatalf("Next(4) = %q, %v", p, ok)
	}
	if b.Buffered() != 0 {
		t.Fatalf("expected empty, got %d", b.Buffered())
	}
}

func TestBufferWriteAfterDrain(t *testing.T) {
	var b Buffer
	b.Write([]byte("one"))
	if _, ok := b.Next(3); !ok {
		t.Fatalf("drain failed")
	}

	b.Write([]byte("two"))
	p, ok := b.Peek(3)
	if !ok || !bytes.Equal(p, []byte("two")) {
		t.Fatalf("after drain+write: %q, %v", p, ok)
	}
}

func TestBufferReclaimsConsumedPrefix(t *testing.T) {
	var b Buffer
	// One pending byte at all times: every write completes the current
	// chunk and starts the next, so the buffer never fully drains.
	b.Write([]byte{0x01})
	chunk := bytes.Repeat([]byte{0xaa}, 16)
	for i := 0; i < 10000; i++ {
		b.Write(chunk)
		if _, ok := b.Next(16); !ok {
			t.Fatalf("Next failed at iteration %d", i)
		}
	}
	if b.Buffered() != 1 {
		t.Fatalf("expected 1 byte buffered, got %d", b.Buffered())
	}
	if cap(b.buf) > 1024 {
		t.Fatalf("consumed prefix never reclaimed: cap=%d off=%d", cap(b.buf), b.off)
	}
}

func TestBufferInterleavedWrites(t *testing.T) {
	var b Buffer
	b.Write([]byte("ab"))
	b.Write([]byte("cd"))
	if b.Buffered() != 4 {
		t.Fatalf("expected 4 buffered, got %d", b.Buffered())
	}
	p, _ := b.Next(1)
	if !bytes.Equal(p, []byte("a")) {
		t.Fatalf("Next(1) = %q", p)
	}
	b.Write([]byte("ef"))
	p, ok := b.Peek(5)
	if !ok || !bytes.Equal(p, []byte("bcdef")) {
		t.Fatalf("Peek(5) = %q, %v", p, ok)
	}
}
