package frame

import (
	"bytes"
	"encoding/binary"
)

// Decode extracts one complete frame from bs. The second result reports
// whether a frame was available: false means not enough bytes are buffered
// yet and nothing was consumed (not even the header), so the caller can
// append more bytes and retry. On true, exactly one frame's bytes (header
// plus declared length) have been consumed. Decoded frames never alias the
// stream's storage; every retained byte range is copied out.
func Decode(bs ByteStream) (Frame, bool) {
	hdr, ok := bs.Peek(HeaderBytes)
	if !ok {
		return nil, false
	}
	h := decodeHeader(hdr)
	total := HeaderBytes + int(h.Length)
	if bs.Buffered() < total {
		return nil, false
	}
	raw, ok := bs.Next(total)
	if !ok {
		return nil, false
	}
	payload := raw[HeaderBytes:]

	if len(payload) < minPayload(h) {
		return &UnknownFrame{FrameHeader: h, Payload: bytes.Clone(payload)}, true
	}

	switch h.Type {
	case TypeData:
		return &DataFrame{FrameHeader: h, Data: bytes.Clone(payload)}, true
	case TypeHeaders:
		f := &HeadersFrame{FrameHeader: h}
		if h.HasFlag(FlagPriority) {
			f.HasPriority = true
			f.Priority = binary.BigEndian.Uint32(payload[0:4]) & streamMask
			payload = payload[4:]
		}
		f.Fragment = bytes.Clone(payload)
		return f, true
	case TypePriority:
		return &PriorityFrame{
			FrameHeader: h,
			Priority:    binary.BigEndian.Uint32(payload[0:4]) & streamMask,
		}, true
	case TypeRSTStream:
		return &RSTStreamFrame{
			FrameHeader: h,
			Error:       decodeErrCode(binary.BigEndian.Uint32(payload[0:4])),
		}, true
	case TypeSettings:
		f := &SettingsFrame{FrameHeader: h}
		for len(payload) >= 8 {
			id := binary.BigEndian.Uint32(payload[0:4]) & settingsIDMask
			f.Settings = append(f.Settings, Setting{
				Param: decodeSettingParam(id),
				Value: binary.BigEndian.Uint32(payload[4:8]),
			})
			payload = payload[8:]
		}
		return f, true
	case TypePushPromise:
		return &PushPromiseFrame{
			FrameHeader: h,
			Promised:    binary.BigEndian.Uint32(payload[0:4]) & streamMask,
			Fragment:    bytes.Clone(payload[4:]),
		}, true
	case TypePing:
		return &PingFrame{FrameHeader: h, Data: bytes.Clone(payload)}, true
	case TypeGoAway:
		f := &GoAwayFrame{
			FrameHeader: h,
			LastStream:  binary.BigEndian.Uint32(payload[0:4]) & streamMask,
			Error:       decodeErrCode(binary.BigEndian.Uint32(payload[4:8])),
		}
		if len(payload) > 8 {
			f.Debug = bytes.Clone(payload[8:])
		}
		return f, true
	case TypeWindowUpdate:
		return &WindowUpdateFrame{
			FrameHeader: h,
			Increment:   binary.BigEndian.Uint32(payload[0:4]) & streamMask,
		}, true
	case TypeContinuation:
		return &ContinuationFrame{FrameHeader: h, Fragment: bytes.Clone(payload)}, true
	}
	return &UnknownFrame{FrameHeader: h, Payload: bytes.Clone(payload)}, true
}

// minPayload is the fixed leading size the type's grammar requires. Frames
// shorter than that carry no parseable fields and are preserved as
// UnknownFrame rather than rejected.
func minPayload(h FrameHeader) int {
	switch h.Type {
	case TypeHeaders:
		if h.HasFlag(FlagPriority) {
			return 4
		}
	case TypePriority, TypeRSTStream, TypePushPromise, TypeWindowUpdate:
		return 4
	case TypeGoAway:
		return 8
	}
	return 0
}
