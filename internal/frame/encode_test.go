package frame

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustEncode(t *testing.T, f Frame) []byte {
	t.Helper()
	b, err := Encode(f)
	if err != nil {
		t.Fatalf("Encode(%T) error: %v", f, err)
	}
	return b
}

func TestEncodeDataGolden(t *testing.T) {
	f := &DataFrame{Data: []byte("abc")}
	f.Stream = 1
	f.Flags = []Flag{FlagEndStream}

	got := mustEncode(t, f)
	want := []byte{0x00, 0x03, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, 0x61, 0x62, 0x63}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected % x, got % x", want, got)
	}
	if f.Length != 3 {
		t.Fatalf("expected computed length 3, got %d", f.Length)
	}
}

func TestEncodeSettingsGolden(t *testing.T) {
	f := &SettingsFrame{Settings: []Setting{
		{Param: SettingParam{Name: SettingsMaxConcurrentStreams}, Value: 100},
	}}

	got := mustEncode(t, f)
	want := []byte{
		0x00, 0x08, 0x04, 0x00, 0x00, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x04, 0x00, 0x00, 0x00, 0x64,
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected % x, got % x", want, got)
	}
}

func TestEncodeDeterminism(t *testing.T) {
	f := func() Frame {
		g := &GoAwayFrame{LastStream: 17, Error: ErrCode{Name: InternalError}, Debug: []byte("bye")}
		return g
	}
	a := mustEncode(t, f())
	b := mustEncode(t, f())
	if !bytes.Equal(a, b) {
		t.Fatalf("same descriptor encoded differently:\n% x\n% x", a, b)
	}
}

func TestEncodeHeadersImplicitPriorityFlag(t *testing.T) {
	f := &HeadersFrame{HasPriority: true, Priority: 9, Fragment: []byte("hb")}
	f.Stream = 5

	got := mustEncode(t, f)
	if got[3]&0x08 == 0 {
		t.Fatalf("priority flag bit not set: flags=0x%02x", got[3])
	}
	if f.Length != 4+2 {
		t.Fatalf("expected length 6 (priority field + fragment), got %d", f.Length)
	}
	want := []byte{0x00, 0x00, 0x00, 0x09, 'h', 'b'}
	if !bytes.Equal(got[HeaderBytes:], want) {
		t.Fatalf("expected payload % x, got % x", want, got[HeaderBytes:])
	}
}

func TestEncodeImplicitPriorityLeavesDescriptorUntouched(t *testing.T) {
	f := &HeadersFrame{HasPriority: true, Priority: 1, Fragment: []byte("hb")}
	f.Stream = 5
	f.Flags = []Flag{FlagEndHeaders}

	got := mustEncode(t, f)
	if got[3]&0x08 == 0 {
		t.Fatalf("priority flag bit not set: flags=0x%02x", got[3])
	}
	if !reflect.DeepEqual(f.Flags, []Flag{FlagEndHeaders}) {
		t.Fatalf("encode mutated descriptor flags: %v", f.Flags)
	}

	// Same without any explicit flags: the descriptor stays flagless.
	g := &HeadersFrame{HasPriority: true, Priority: 1, Fragment: []byte("hb")}
	mustEncode(t, g)
	if g.Flags != nil {
		t.Fatalf("encode grew descriptor flags: %v", g.Flags)
	}
}

func TestEncodeErrors(t *testing.T) {
	big := make([]byte, MaxPayload+1)

	cases := []struct {
		name    string
		frame   Frame
		wantErr error
		wantVal string
	}{
		{
			name: "payload one past ceiling",
			frame: func() Frame {
				f := &DataFrame{Data: big}
				return f
			}(),
			wantErr: ErrPayloadTooLarge,
			wantVal: "65536",
		},
		{
			name: "stream id one past 31 bits",
			frame: func() Frame {
				f := &DataFrame{Data: []byte("x")}
				f.Stream = 0x80000000
				return f
			}(),
			wantErr: ErrStreamIDTooLarge,
			wantVal: "2147483648",
		},
		{
			name: "window increment past 31 bits",
			frame: func() Frame {
				f := &WindowUpdateFrame{Increment: 0x80000000}
				f.Stream = 1
				return f
			}(),
			wantErr: ErrWindowIncrementTooLarge,
			wantVal: "2147483648",
		},
		{
			name: "flag not registered for type",
			frame: func() Frame {
				f := &PingFrame{Data: make([]byte, 8)}
				f.Flags = []Flag{FlagEndHeaders}
				return f
			}(),
			wantErr: ErrInvalidFlag,
			wantVal: "end_headers",
		},
		{
			name:    "ping payload short",
			frame:   &PingFrame{Data: make([]byte, 7)},
			wantErr: ErrInvalidPingPayloadSize,
			wantVal: "7",
		},
		{
			name:    "ping payload long",
			frame:   &PingFrame{Data: make([]byte, 9)},
			wantErr: ErrInvalidPingPayloadSize,
			wantVal: "9",
		},
		{
			name:    "unknown settings name",
			frame:   &SettingsFrame{Settings: []Setting{{Param: SettingParam{Name: "settings_bogus"}, Value: 1}}},
			wantErr: ErrUnknownSetting,
			wantVal: "settings_bogus",
		},
		{
			name:    "unknown error code name",
			frame:   &RSTStreamFrame{Error: ErrCode{Name: "not_a_code"}},
			wantErr: ErrUnknownErrorCode,
			wantVal: "not_a_code",
		},
		{
			name: "settings on nonzero stream",
			frame: func() Frame {
				f := &SettingsFrame{Settings: []Setting{{Param: SettingParam{ID: 4}, Value: 1}}}
				f.Stream = 3
				return f
			}(),
			wantErr: ErrInvalidSettingsStream,
			wantVal: "3",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := Encode(tc.frame)
			if err == nil {
				t.Fatalf("expected error %v, got %d bytes", tc.wantErr, len(b))
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if b != nil {
				t.Fatalf("partial output escaped on error: %d bytes", len(b))
			}
			if !strings.Contains(err.Error(), tc.wantVal) {
				t.Fatalf("error %q does not carry offending value %q", err.Error(), tc.wantVal)
			}
		})
	}
}

func TestEncodeBoundariesAccepted(t *testing.T) {
	max := &DataFrame{Data: make([]byte, MaxPayload)}
	if b := mustEncode(t, max); len(b) != HeaderBytes+MaxPayload {
		t.Fatalf("expected %d bytes, got %d", HeaderBytes+MaxPayload, len(b))
	}

	top := &DataFrame{Data: []byte("x")}
	top.Stream = MaxStreamID
	mustEncode(t, top)

	wu := &WindowUpdateFrame{Increment: MaxStreamID}
	wu.Stream = 1
	mustEncode(t, wu)
}

func TestEncodeUnknownFrameTypeRejected(t *testing.T) {
	f := &UnknownFrame{Payload: []byte("??")}
	f.Type = 0x8
	if _, err := Encode(f); !errors.Is(err, ErrInvalidFrameType) {
		t.Fatalf("expected ErrInvalidFrameType, got %v", err)
	}
}
