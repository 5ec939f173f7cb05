package relay

import (
	"fmt"
	"log"
	"time"

	"github.com/clock-p/framebridge/internal/frame"
	"github.com/gorilla/websocket"
)

// Probe dials a relay, sends a scripted frame sequence for the chosen mode
// and reports whatever comes back until the reply timeout lapses. Single
// shot; no reconnects.
type Probe struct {
	URL     string
	Timeout time.Duration
}

func (p *Probe) Run(mode string) error {
	script, replies, err := probeScript(mode)
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	ws, _, err := dialer.Dial(p.URL, nil)
	if err != nil {
		return fmt.Errorf("dial %s failed: %w", p.URL, err)
	}
	defer func() { _ = ws.Close() }()
	ws.SetReadLimit(wsReadLimitBytes)

	for _, f := range script {
		b, err := frame.Encode(f)
		if err != nil {
			return fmt.Errorf("encode %s failed: %w", f.Header().Type, err)
		}
		_ = ws.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := ws.WriteMessage(websocket.BinaryMessage, b); err != nil {
			return fmt.Errorf("write %s failed: %w", f.Header().Type, err)
		}
		log.Printf("[frameprobe] sent %s", Describe(f))
	}

	var recv frame.Buffer
	got := 0
	for got < replies {
		_ = ws.SetReadDeadline(time.Now().Add(p.Timeout))
		mt, msg, err := ws.ReadMessage()
		if err != nil {
			if code, text, ok := closeFromErr(err); ok {
				log.Printf("[frameprobe] closed by relay code=%d text=%q", code, text)
				return nil
			}
			return fmt.Errorf("read failed after %d replies: %w", got, err)
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		_, _ = recv.Write(msg)
		for {
			f, ok := frame.Decode(&recv)
			if !ok {
				break
			}
			log.Printf("[frameprobe] recv %s", Describe(f))
			got++
		}
	}
	return nil
}

// probeScript builds the frames for one mode and the number of replies the
// relay is expected to send back.
func probeScript(mode string) ([]frame.Frame, int, error) {
	switch mode {
	case "ping":
		f := &frame.PingFrame{Data: []byte("framepng")}
		return []frame.Frame{f}, 1, nil
	case "echo":
		settings := &frame.SettingsFrame{Settings: []frame.Setting{
			{Param: frame.SettingParam{Name: frame.SettingsMaxConcurrentStreams}, Value: 100},
			{Param: frame.SettingParam{Name: frame.SettingsInitialWindowSize}, Value: 1 << 16},
		}}
		headers := &frame.HeadersFrame{Fragment: []byte("hblock")}
		headers.Stream = 1
		headers.Flags = []frame.Flag{frame.FlagEndHeaders}
		data := &frame.DataFrame{Data: []byte("echo me")}
		data.Stream = 1
		data.Flags = []frame.Flag{frame.FlagEndStream}
		return []frame.Frame{settings, headers, data}, 1, nil
	case "window":
		f := &frame.WindowUpdateFrame{Increment: 50}
		f.Stream = 3
		return []frame.Frame{f}, 0, nil
	case "goaway":
		f := &frame.GoAwayFrame{LastStream: 0, Error: frame.ErrCode{Name: frame.NoError}}
		return []frame.Frame{f}, 0, nil
	}
	return nil, 0, fmt.Errorf("unknown mode %q", mode)
}
