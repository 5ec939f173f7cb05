package frame

import (
	"fmt"
	"strconv"
)

// FrameType is the wire-numeric frame type code. 0x8 is unassigned.
type FrameType uint8

const (
	TypeData         FrameType = 0x0
	TypeHeaders      FrameType = 0x1
	TypePriority     FrameType = 0x2
	TypeRSTStream    FrameType = 0x3
	TypeSettings     FrameType = 0x4
	TypePushPromise  FrameType = 0x5
	TypePing         FrameType = 0x6
	TypeGoAway       FrameType = 0x7
	TypeWindowUpdate FrameType = 0x9
	TypeContinuation FrameType = 0xa
)

func (t FrameType) String() string {
	switch t {
	case TypeData:
		return "DATA"
	case TypeHeaders:
		return "HEADERS"
	case TypePriority:
		return "PRIORITY"
	case TypeRSTStream:
		return "RST_STREAM"
	case TypeSettings:
		return "SETTINGS"
	case TypePushPromise:
		return "PUSH_PROMISE"
	case TypePing:
		return "PING"
	case TypeGoAway:
		return "GOAWAY"
	case TypeWindowUpdate:
		return "WINDOW_UPDATE"
	case TypeContinuation:
		return "CONTINUATION"
	}
	return fmt.Sprintf("UNKNOWN(0x%x)", uint8(t))
}

// Flag is a symbolic flag name. Which names are valid depends on the frame
// type; see frameFlags.
type Flag string

const (
	FlagEndStream      Flag = "end_stream"
	FlagReserved       Flag = "reserved"
	FlagEndHeaders     Flag = "end_headers"
	FlagPriority       Flag = "priority"
	FlagEndPushPromise Flag = "end_push_promise"
	FlagPong           Flag = "pong"
	FlagEndFlowControl Flag = "end_flow_control"
)

type flagBit struct {
	name Flag
	bit  uint8
}

// frameFlags is the per-type flag registry. Membership doubles as the
// "frame type is known" check. Slice order is the order decodeHeader
// reports flag names in.
var frameFlags = map[FrameType][]flagBit{
	TypeData:         {{FlagEndStream, 0}, {FlagReserved, 1}},
	TypeHeaders:      {{FlagEndStream, 0}, {FlagReserved, 1}, {FlagEndHeaders, 2}, {FlagPriority, 3}},
	TypePriority:     {},
	TypeRSTStream:    {},
	TypeSettings:     {},
	TypePushPromise:  {{FlagEndPushPromise, 2}},
	TypePing:         {{FlagPong, 0}},
	TypeGoAway:       {},
	TypeWindowUpdate: {{FlagEndFlowControl, 0}},
	TypeContinuation: {{FlagEndStream, 0}, {FlagEndHeaders, 2}},
}

var flagBitByName = map[FrameType]map[Flag]uint8{}

// Settings parameter names.
const (
	SettingsMaxConcurrentStreams = "settings_max_concurrent_streams"
	SettingsInitialWindowSize    = "settings_initial_window_size"
	SettingsFlowControlOptions   = "settings_flow_control_options"
)

var settingsIDByName = map[string]uint32{
	SettingsMaxConcurrentStreams: 4,
	SettingsInitialWindowSize:    7,
	SettingsFlowControlOptions:   10,
}

var settingsNameByID = map[uint32]string{}

// Error code names. Value 4 is unassigned on the wire.
const (
	NoError          = "no_error"
	ProtocolError    = "protocol_error"
	InternalError    = "internal_error"
	FlowControlError = "flow_control_error"
	StreamClosed     = "stream_closed"
	FrameTooLarge    = "frame_too_large"
	RefusedStream    = "refused_stream"
	Cancel           = "cancel"
	CompressionError = "compression_error"
)

var errCodeByName = map[string]uint32{
	NoError:          0,
	ProtocolError:    1,
	InternalError:    2,
	FlowControlError: 3,
	StreamClosed:     5,
	FrameTooLarge:    6,
	RefusedStream:    7,
	Cancel:           8,
	CompressionError: 9,
}

var errNameByCode = map[uint32]string{}

func init() {
	for t, bits := range frameFlags {
		m := make(map[Flag]uint8, len(bits))
		for _, fb := range bits {
			m[fb.name] = fb.bit
		}
		flagBitByName[t] = m
	}
	for name, id := range settingsIDByName {
		settingsNameByID[id] = name
	}
	for name, code := range errCodeByName {
		errNameByCode[code] = name
	}
}

// ErrCode is a wire error code as carried by RST_STREAM and GOAWAY. A
// non-empty Name resolves through the registry at encode time; a bare Code
// is written as-is. Decode fills Name for registered codes and leaves it
// empty otherwise, preserving Code.
type ErrCode struct {
	Name string
	Code uint32
}

func (e ErrCode) String() string {
	if e.Name != "" {
		return e.Name
	}
	return strconv.FormatUint(uint64(e.Code), 10)
}

func (e ErrCode) resolve() (uint32, error) {
	if e.Name == "" {
		return e.Code, nil
	}
	code, ok := errCodeByName[e.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownErrorCode, e.Name)
	}
	return code, nil
}

func decodeErrCode(code uint32) ErrCode {
	return ErrCode{Name: errNameByCode[code], Code: code}
}

// SettingParam identifies one settings parameter, symbolically or
// numerically, with the same resolution rules as ErrCode.
type SettingParam struct {
	Name string
	ID   uint32
}

func (p SettingParam) String() string {
	if p.Name != "" {
		return p.Name
	}
	return strconv.FormatUint(uint64(p.ID), 10)
}

func (p SettingParam) resolve() (uint32, error) {
	if p.Name == "" {
		return p.ID, nil
	}
	id, ok := settingsIDByName[p.Name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownSetting, p.Name)
	}
	return id, nil
}

func decodeSettingParam(id uint32) SettingParam {
	return SettingParam{Name: settingsNameByID[id], ID: id}
}

// Setting is one (parameter, value) pair of a SETTINGS frame.
type Setting struct {
	Param SettingParam
	Value uint32
}
