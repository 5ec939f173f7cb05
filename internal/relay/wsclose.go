package relay

import (
	"errors"

	"github.com/gorilla/websocket"
)

const wsReadLimitBytes int64 = 1 << 20

func closeFromErr(err error) (int, string, bool) {
	if err == nil {
		return 0, "", false
	}
	var ce *websocket.CloseError
	if errors.As(err, &ce) {
		return ce.Code, ce.Text, true
	}
	return 0, "", false
}
