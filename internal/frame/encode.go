package frame

import (
	"encoding/binary"
	"fmt"
)

// Encode serializes f into ready-to-transmit bytes: the 8-byte common
// header followed by the type-specific payload. The computed payload
// length is written into f's header; the descriptor is otherwise left
// untouched. Any invariant violation fails before a single byte is
// produced. Encoding is deterministic: equal descriptors always yield
// identical bytes.
func Encode(f Frame) ([]byte, error) {
	var (
		payload   []byte
		increment uint32
	)
	h := f.Header()
	flags := h.Flags
	switch fr := f.(type) {
	case *DataFrame:
		h.Type = TypeData
		payload = fr.Data
	case *HeadersFrame:
		h.Type = TypeHeaders
		withPriority := fr.HasPriority || h.HasFlag(FlagPriority)
		if withPriority && !h.HasFlag(FlagPriority) {
			flags = append(append(make([]Flag, 0, len(h.Flags)+1), h.Flags...), FlagPriority)
		}
		if withPriority {
			payload = make([]byte, 4+len(fr.Fragment))
			binary.BigEndian.PutUint32(payload[0:4], fr.Priority&streamMask)
			copy(payload[4:], fr.Fragment)
		} else {
			payload = fr.Fragment
		}
	case *PriorityFrame:
		h.Type = TypePriority
		payload = be32(fr.Priority & streamMask)
	case *RSTStreamFrame:
		h.Type = TypeRSTStream
		code, err := fr.Error.resolve()
		if err != nil {
			return nil, err
		}
		payload = be32(code)
	case *SettingsFrame:
		h.Type = TypeSettings
		if h.Stream != 0 {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidSettingsStream, h.Stream)
		}
		payload = make([]byte, 0, 8*len(fr.Settings))
		for _, s := range fr.Settings {
			id, err := s.Param.resolve()
			if err != nil {
				return nil, err
			}
			payload = binary.BigEndian.AppendUint32(payload, id&settingsIDMask)
			payload = binary.BigEndian.AppendUint32(payload, s.Value)
		}
	case *PushPromiseFrame:
		h.Type = TypePushPromise
		payload = make([]byte, 4+len(fr.Fragment))
		binary.BigEndian.PutUint32(payload[0:4], fr.Promised&streamMask)
		copy(payload[4:], fr.Fragment)
	case *PingFrame:
		h.Type = TypePing
		if len(fr.Data) != pingPayloadBytes {
			return nil, fmt.Errorf("%w: got %d", ErrInvalidPingPayloadSize, len(fr.Data))
		}
		payload = fr.Data
	case *GoAwayFrame:
		h.Type = TypeGoAway
		code, err := fr.Error.resolve()
		if err != nil {
			return nil, err
		}
		payload = make([]byte, 8+len(fr.Debug))
		binary.BigEndian.PutUint32(payload[0:4], fr.LastStream&streamMask)
		binary.BigEndian.PutUint32(payload[4:8], code)
		copy(payload[8:], fr.Debug)
	case *WindowUpdateFrame:
		h.Type = TypeWindowUpdate
		increment = fr.Increment
		payload = be32(fr.Increment & streamMask)
	case *ContinuationFrame:
		h.Type = TypeContinuation
		payload = fr.Fragment
	default:
		return nil, fmt.Errorf("%w: %T", ErrInvalidFrameType, f)
	}

	out := make([]byte, HeaderBytes+len(payload))
	if err := h.encode(out[:HeaderBytes], len(payload), flags, increment); err != nil {
		return nil, err
	}
	copy(out[HeaderBytes:], payload)
	return out, nil
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}
