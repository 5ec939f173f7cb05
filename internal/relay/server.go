package relay

import (
	"bytes"
	"errors"
	"log"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/clock-p/framebridge/internal/frame"
	"github.com/gorilla/websocket"
)

// Server upgrades incoming requests to websocket and runs a frame loop per
// connection: binary messages feed a receive buffer, complete frames are
// decoded and handled. PING is answered with a pong-flagged PING, DATA is
// echoed back, GOAWAY closes the connection; everything else is logged.
type Server struct {
	upgrader     websocket.Upgrader
	readLimit    int64
	writeTimeout time.Duration

	nextConnID atomic.Uint64
}

func NewServerFromEnv() *Server {
	return &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  32 << 10,
			WriteBufferSize: 32 << 10,
		},
		readLimit:    envInt64("FRAMEBRIDGE_WS_READ_LIMIT_BYTES", wsReadLimitBytes),
		writeTimeout: envDuration("FRAMEBRIDGE_WRITE_TIMEOUT", 10*time.Second),
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	id := s.nextConnID.Add(1)
	ws.SetReadLimit(s.readLimit)

	c := &conn{id: id, ws: ws, writeTimeout: s.writeTimeout}
	log.Printf("[framebridge-relay] id=%d remote=%s connected", id, r.RemoteAddr)
	c.readLoop()
	log.Printf("[framebridge-relay] id=%d closed reason=%s", id, c.closeReason())
}

type conn struct {
	id uint64
	ws *websocket.Conn

	writeMu      sync.Mutex
	writeTimeout time.Duration

	recv frame.Buffer

	closeReasonVal atomic.Value
}

func (c *conn) readLoop() {
	defer func() { _ = c.ws.Close() }()

	for {
		mt, msg, err := c.ws.ReadMessage()
		if err != nil {
			c.setCloseReason(err)
			return
		}
		if mt != websocket.BinaryMessage {
			continue
		}
		_, _ = c.recv.Write(msg)
		for {
			f, ok := frame.Decode(&c.recv)
			if !ok {
				break
			}
			if done := c.handle(f); done {
				c.setCloseReason(errors.New("peer sent goaway"))
				deadline := time.Now().Add(2 * time.Second)
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "goaway"), deadline)
				return
			}
		}
	}
}

// handle reacts to one decoded frame. A true result means the connection
// should wind down.
func (c *conn) handle(f frame.Frame) bool {
	h := f.Header()
	switch fr := f.(type) {
	case *frame.PingFrame:
		if h.HasFlag(frame.FlagPong) {
			log.Printf("[framebridge-relay] id=%d pong stream=%d", c.id, h.Stream)
			return false
		}
		pong := &frame.PingFrame{Data: bytes.Clone(fr.Data)}
		pong.Stream = h.Stream
		pong.Flags = []frame.Flag{frame.FlagPong}
		if err := c.writeFrame(pong); err != nil {
			log.Printf("[framebridge-relay] id=%d pong write failed err=%v", c.id, err)
		}
	case *frame.DataFrame:
		// The echo owns its own copies; it must not alias the decoded frame.
		echo := &frame.DataFrame{Data: bytes.Clone(fr.Data)}
		echo.Stream = h.Stream
		echo.Flags = slices.Clone(h.Flags)
		if err := c.writeFrame(echo); err != nil {
			log.Printf("[framebridge-relay] id=%d echo write failed err=%v", c.id, err)
		}
	case *frame.SettingsFrame:
		for _, st := range fr.Settings {
			log.Printf("[framebridge-relay] id=%d setting %s=%d", c.id, st.Param, st.Value)
		}
	case *frame.GoAwayFrame:
		log.Printf("[framebridge-relay] id=%d goaway last_stream=%d error=%s", c.id, fr.LastStream, fr.Error)
		return true
	default:
		log.Printf("[framebridge-relay] id=%d frame %s", c.id, Describe(f))
	}
	return false
}

func (c *conn) writeFrame(f frame.Frame) error {
	b, err := frame.Encode(f)
	if err != nil {
		return err
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	return c.ws.WriteMessage(websocket.BinaryMessage, b)
}

func (c *conn) setCloseReason(err error) {
	if err == nil {
		return
	}
	if code, text, ok := closeFromErr(err); ok {
		c.closeReasonVal.Store(strconv.Itoa(code) + " " + text)
		return
	}
	c.closeReasonVal.Store(err.Error())
}

func (c *conn) closeReason() string {
	if v, ok := c.closeReasonVal.Load().(string); ok && v != "" {
		return v
	}
	return "connection closed"
}

func envInt64(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d >= 0 {
		return d
	}
	return def
}
