// Package feed ingests the upstream venue's event stream: order
// acknowledgements, fills, cancellations, and lifecycle errors, carried on
// a single generic venue-event envelope. The supervisor re-applies each
// event to the trade lifecycle state machine (internal/soldier/execution.Apply)
// and the trade-ID idempotency registry (internal/soldier/registry).
//
// Feed handles connection lifecycle and auto-reconnect; it does not itself
// decide anything — it only delivers typed events on read-only channels.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pingInterval     = 50 * time.Second
	readTimeout      = 90 * time.Second
	maxReconnectWait = 30 * time.Second
	writeTimeout     = 10 * time.Second
	eventBufferSize  = 256
)

// Feed manages a single WebSocket connection to the upstream venue's event
// stream. Tests cover message dispatch only; the connection path is not
// exercised by any test. cmd/soldier wires a *Feed only when
// venue.feed_url is set, and NewSimulatedSource otherwise.
type Feed struct {
	url    string
	conn   *websocket.Conn
	connMu sync.Mutex

	ackCh      chan AckEvent
	fillCh     chan FillEvent
	cancelCh   chan CancelEvent
	lifecycleCh chan LifecycleErrorEvent

	logger *slog.Logger
}

// New creates a Feed against the given venue event-stream URL.
func New(url string, logger *slog.Logger) *Feed {
	return &Feed{
		url:         url,
		ackCh:       make(chan AckEvent, eventBufferSize),
		fillCh:      make(chan FillEvent, eventBufferSize),
		cancelCh:    make(chan CancelEvent, eventBufferSize),
		lifecycleCh: make(chan LifecycleErrorEvent, eventBufferSize),
		logger:      logger.With("component", "feed"),
	}
}

// AckEvents returns a read-only channel of order-acknowledgement events.
func (f *Feed) AckEvents() <-chan AckEvent { return f.ackCh }

// FillEvents returns a read-only channel of fill events.
func (f *Feed) FillEvents() <-chan FillEvent { return f.fillCh }

// CancelEvents returns a read-only channel of cancellation events.
func (f *Feed) CancelEvents() <-chan CancelEvent { return f.cancelCh }

// LifecycleErrorEvents returns a read-only channel of lifecycle-error events.
func (f *Feed) LifecycleErrorEvents() <-chan LifecycleErrorEvent { return f.lifecycleCh }

// Run connects and maintains the WebSocket connection with exponential
// backoff. Blocks until ctx is cancelled.
func (f *Feed) Run(ctx context.Context) error {
	backoff := time.Second

	for {
		err := f.connectAndRead(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		f.logger.Warn("venue feed disconnected, reconnecting", "error", err, "backoff", backoff)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxReconnectWait {
			backoff = maxReconnectWait
		}
	}
}

// Close gracefully closes the connection.
func (f *Feed) Close() error {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn != nil {
		return f.conn.Close()
	}
	return nil
}

func (f *Feed) connectAndRead(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, f.url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	f.connMu.Lock()
	f.conn = conn
	f.connMu.Unlock()

	defer func() {
		f.connMu.Lock()
		conn.Close()
		f.conn = nil
		f.connMu.Unlock()
	}()

	f.logger.Info("venue feed connected")

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go f.pingLoop(pingCtx)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		f.dispatchMessage(msg)
	}
}

// dispatchMessage peeks at event_type and routes the frame to the matching
// typed channel, dropping and logging on a full channel rather than
// blocking the read loop.
func (f *Feed) dispatchMessage(data []byte) {
	var envelope VenueEvent
	if err := json.Unmarshal(data, &envelope); err != nil {
		f.logger.Debug("ignoring non-json feed message", "data", string(data))
		return
	}

	switch envelope.EventType {
	case "ack":
		var evt AckEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			f.logger.Error("unmarshal ack event", "error", err)
			return
		}
		select {
		case f.ackCh <- evt:
		default:
			f.logger.Warn("ack channel full, dropping event", "label", evt.Label)
		}

	case "fill":
		var evt FillEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			f.logger.Error("unmarshal fill event", "error", err)
			return
		}
		select {
		case f.fillCh <- evt:
		default:
			f.logger.Warn("fill channel full, dropping event", "trade_id", evt.TradeID)
		}

	case "cancel":
		var evt CancelEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			f.logger.Error("unmarshal cancel event", "error", err)
			return
		}
		select {
		case f.cancelCh <- evt:
		default:
			f.logger.Warn("cancel channel full, dropping event", "label", evt.Label)
		}

	case "lifecycle_error":
		var evt LifecycleErrorEvent
		if err := json.Unmarshal(data, &evt); err != nil {
			f.logger.Error("unmarshal lifecycle_error event", "error", err)
			return
		}
		select {
		case f.lifecycleCh <- evt:
		default:
			f.logger.Warn("lifecycle_error channel full, dropping event", "label", evt.Label)
		}

	default:
		f.logger.Debug("unknown feed event type", "type", envelope.EventType)
	}
}

func (f *Feed) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := f.writeMessage(websocket.TextMessage, []byte("ping")); err != nil {
				f.logger.Warn("ping failed", "error", err)
				return
			}
		}
	}
}

func (f *Feed) writeMessage(msgType int, data []byte) error {
	f.connMu.Lock()
	defer f.connMu.Unlock()
	if f.conn == nil {
		return fmt.Errorf("feed not connected")
	}
	f.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return f.conn.WriteMessage(msgType, data)
}
