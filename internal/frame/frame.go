package frame

import (
	"encoding/binary"
	"fmt"
)

const (
	// HeaderBytes is the fixed common header: 16-bit length, 8-bit type,
	// 8-bit flags, 32-bit stream id, big-endian.
	HeaderBytes = 2 + 1 + 1 + 4

	MaxPayload  = 0xffff
	MaxStreamID = 0x7fffffff

	streamMask       = 0x7fffffff
	settingsIDMask   = 0x0fffffff
	pingPayloadBytes = 8
)

// FrameHeader is the part every frame carries. Length is computed during
// encode and filled in on decode; callers never set it.
type FrameHeader struct {
	Type   FrameType
	Flags  []Flag
	Stream uint32
	Length uint16
}

func (h *FrameHeader) Header() *FrameHeader { return h }

func (h *FrameHeader) HasFlag(want Flag) bool {
	for _, f := range h.Flags {
		if f == want {
			return true
		}
	}
	return false
}

// Frame is one wire frame: the common header plus a type-specific payload.
type Frame interface {
	Header() *FrameHeader
}

type DataFrame struct {
	FrameHeader
	Data []byte
}

type HeadersFrame struct {
	FrameHeader
	// Priority is emitted before the fragment when HasPriority is set or
	// the priority flag is present; setting HasPriority implies the flag.
	HasPriority bool
	Priority    uint32
	Fragment    []byte
}

type PriorityFrame struct {
	FrameHeader
	Priority uint32
}

type RSTStreamFrame struct {
	FrameHeader
	Error ErrCode
}

type SettingsFrame struct {
	FrameHeader
	Settings []Setting
}

type PushPromiseFrame struct {
	FrameHeader
	Promised uint32
	Fragment []byte
}

type PingFrame struct {
	FrameHeader
	Data []byte // exactly 8 opaque bytes
}

type GoAwayFrame struct {
	FrameHeader
	LastStream uint32
	Error      ErrCode
	Debug      []byte
}

type WindowUpdateFrame struct {
	FrameHeader
	Increment uint32
}

type ContinuationFrame struct {
	FrameHeader
	Fragment []byte
}

// UnknownFrame carries a decoded frame whose type code has no registered
// payload grammar. The payload is preserved verbatim so unrecognized
// extensions pass through instead of breaking the parse.
type UnknownFrame struct {
	FrameHeader
	Payload []byte
}

// encode validates the header fields in order (type, length, stream,
// window increment) and lays them out into dst. The stream id is written
// as supplied; only decode applies the 31-bit reservation mask. flags is
// the effective flag set, which may extend h.Flags without touching it
// (HEADERS implies priority). increment is consulted for WINDOW_UPDATE
// only and must be the unmasked value, so an oversized increment fails
// here before masking truncates it.
func (h *FrameHeader) encode(dst []byte, length int, flags []Flag, increment uint32) error {
	if _, ok := frameFlags[h.Type]; !ok {
		return fmt.Errorf("%w: 0x%x", ErrInvalidFrameType, uint8(h.Type))
	}
	if length > MaxPayload {
		return fmt.Errorf("%w: %d bytes", ErrPayloadTooLarge, length)
	}
	if h.Stream > MaxStreamID {
		return fmt.Errorf("%w: %d", ErrStreamIDTooLarge, h.Stream)
	}
	if h.Type == TypeWindowUpdate && increment > MaxStreamID {
		return fmt.Errorf("%w: %d", ErrWindowIncrementTooLarge, increment)
	}
	var mask uint8
	for _, name := range flags {
		bit, ok := flagBitByName[h.Type][name]
		if !ok {
			return fmt.Errorf("%w: %q on %s", ErrInvalidFlag, string(name), h.Type)
		}
		mask |= 1 << bit
	}
	h.Length = uint16(length)
	binary.BigEndian.PutUint16(dst[0:2], h.Length)
	dst[2] = uint8(h.Type)
	dst[3] = mask
	binary.BigEndian.PutUint32(dst[4:8], h.Stream)
	return nil
}

// decodeHeader parses the fixed 8-byte header. Unregistered type codes are
// passed through for the caller to handle. Flag names come back in registry
// declaration order. The stream id has its reserved top bit discarded.
func decodeHeader(b []byte) FrameHeader {
	h := FrameHeader{
		Length: binary.BigEndian.Uint16(b[0:2]),
		Type:   FrameType(b[2]),
		Stream: binary.BigEndian.Uint32(b[4:8]) & streamMask,
	}
	mask := b[3]
	for _, fb := range frameFlags[h.Type] {
		if mask&(1<<fb.bit) != 0 {
			h.Flags = append(h.Flags, fb.name)
		}
	}
	return h
}
