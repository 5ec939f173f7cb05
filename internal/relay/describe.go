package relay

import (
	"fmt"
	"strings"

	"github.com/clock-p/framebridge/internal/frame"
)

// Describe renders a decoded frame for logs: type, stream, flags and the
// fields worth seeing at a glance.
func Describe(f frame.Frame) string {
	h := f.Header()
	var b strings.Builder
	fmt.Fprintf(&b, "type=%s stream=%d len=%d", h.Type, h.Stream, h.Length)
	if len(h.Flags) > 0 {
		names := make([]string, len(h.Flags))
		for i, fl := range h.Flags {
			names[i] = string(fl)
		}
		fmt.Fprintf(&b, " flags=%s", strings.Join(names, ","))
	}
	switch fr := f.(type) {
	case *frame.DataFrame:
		fmt.Fprintf(&b, " bytes=%d", len(fr.Data))
	case *frame.HeadersFrame:
		if fr.HasPriority {
			fmt.Fprintf(&b, " priority=%d", fr.Priority)
		}
		fmt.Fprintf(&b, " fragment=%d", len(fr.Fragment))
	case *frame.PriorityFrame:
		fmt.Fprintf(&b, " priority=%d", fr.Priority)
	case *frame.RSTStreamFrame:
		fmt.Fprintf(&b, " error=%s", fr.Error)
	case *frame.SettingsFrame:
		fmt.Fprintf(&b, " settings=%d", len(fr.Settings))
	case *frame.PushPromiseFrame:
		fmt.Fprintf(&b, " promised=%d fragment=%d", fr.Promised, len(fr.Fragment))
	case *frame.GoAwayFrame:
		fmt.Fprintf(&b, " last_stream=%d error=%s", fr.LastStream, fr.Error)
	case *frame.WindowUpdateFrame:
		fmt.Fprintf(&b, " increment=%d", fr.Increment)
	case *frame.UnknownFrame:
		fmt.Fprintf(&b, " opaque=%d", len(fr.Payload))
	}
	return b.String()
}
