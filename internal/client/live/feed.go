// Package live subscribes to the backend's websocket position stream and
// applies incoming fixes to the fleet store. It is an optional alternative
// to polling; when disabled or unreachable, polling remains the source of
// position updates.
package live

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/trackkar/trackkar-cli/internal/client/models"
	"github.com/trackkar/trackkar-cli/internal/logging"
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	readTimeout    = 90 * time.Second
)

// PositionMessage is one frame from the stream, keyed by the tracker's
// device identifier.
type PositionMessage struct {
	DeviceID  string  `json:"device_id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Speed     float64 `json:"speed"`
	Direction float64 `json:"direction"`
	Timestamp int64   `json:"timestamp"`
}

// Sink receives decoded fixes; satisfied by the fleet store.
type Sink interface {
	ApplyPosition(gpsID string, loc models.Location)
}

// Feed maintains one websocket subscription with reconnects.
type Feed struct {
	url  string
	sink Sink
	log  logging.Logger
}

// New builds a feed for the given websocket URL, e.g.
// "ws://localhost:5000/ws/positions".
func New(url string, sink Sink, log logging.Logger) *Feed {
	return &Feed{url: url, sink: sink, log: log}
}

// Run connects and consumes frames until the context is cancelled,
// reconnecting with capped exponential backoff. Run it in a goroutine and
// cancel the context to tear down.
func (f *Feed) Run(ctx context.Context) {
	backoff := initialBackoff

	for {
		if err := f.consume(ctx); err != nil {
			f.log.Warn(ctx, "position stream interrupted", "error", err, "retry_in", backoff)
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
	}
}

func (f *Feed) consume(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	f.log.Info(ctx, "position stream connected", "url", f.url)

	// Close the connection when the context ends so ReadMessage unblocks.
	// The done channel releases the watcher once this connection is over;
	// otherwise every reconnect would strand one goroutine until the whole
	// feed shuts down.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return err
		}
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		var msg PositionMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			f.log.Debug(ctx, "skipping malformed position frame", "error", err)
			continue
		}
		f.apply(msg)
	}
}

func (f *Feed) apply(msg PositionMessage) {
	if msg.DeviceID == "" || (msg.Lat == 0 && msg.Lon == 0) {
		return
	}
	loc := models.Location{
		Latitude:  msg.Lat,
		Longitude: msg.Lon,
	}
	if msg.Timestamp > 0 {
		loc.Timestamp = time.Unix(msg.Timestamp, 0).UTC().Format(time.RFC3339)
	}
	f.sink.ApplyPosition(msg.DeviceID, loc)
}
