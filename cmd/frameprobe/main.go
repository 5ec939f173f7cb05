package main

import (
	"flag"
	"log"
	"time"

	"github.com/clock-p/framebridge/internal/relay"
)

func main() {
	url := flag.String("url", "ws://127.0.0.1:19080/", "relay websocket url")
	mode := flag.String("mode", "ping", "script: ping|echo|window|goaway")
	timeout := flag.Duration("timeout", 5*time.Second, "reply wait timeout")
	flag.Parse()

	p := &relay.Probe{URL: *url, Timeout: *timeout}
	if err := p.Run(*mode); err != nil {
		log.Fatalf("[frameprobe] %v", err)
	}
}
