// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// WebSocketConfig holds the parameters used to dial a serial bridge
type WebSocketConfig struct {
	URL           string
	Username      string
	Password      string
	SkipSSLVerify bool
	Timeout       time.Duration
}

// WebSocket carries the serial byte stream in binary WebSocket messages.
//
// Gorilla connections are unusable after a read deadline expires, so a
// background reader owns the connection and ReadUpTo waits on its channel
// with the session deadline instead.
type WebSocket struct {
	conn     *websocket.Conn
	incoming chan []byte
	errc     chan error
	done     chan struct{}
	once     sync.Once

	pending []byte
	timeout time.Duration
	err     error // sticky read error
}

// DialWebSocket connects to a serial bridge with optional HTTP Basic auth
func DialWebSocket(cfg WebSocketConfig) (*WebSocket, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	switch u.Scheme {
	case "ws", "wss":
		// OK
	default:
		return nil, fmt.Errorf("unsupported URL scheme: %s (use ws:// or wss://)", u.Scheme)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if u.Scheme == "wss" {
		dialer.TLSClientConfig = &tls.Config{
			InsecureSkipVerify: cfg.SkipSSLVerify,
		}
	}

	headers := http.Header{}
	if cfg.Username != "" && cfg.Password != "" {
		credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Username + ":" + cfg.Password))
		headers.Set("Authorization", "Basic "+credentials)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	conn, resp, err := dialer.DialContext(ctx, cfg.URL, headers)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("WebSocket connection failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return nil, fmt.Errorf("WebSocket connection failed: %w", err)
	}

	return newWebSocket(conn, cfg.Timeout), nil
}

func newWebSocket(conn *websocket.Conn, timeout time.Duration) *WebSocket {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	w := &WebSocket{
		conn:     conn,
		incoming: make(chan []byte),
		errc:     make(chan error, 1),
		done:     make(chan struct{}),
		timeout:  timeout,
	}
	go w.readLoop()
	return w
}

func (w *WebSocket) readLoop() {
	for {
		messageType, data, err := w.conn.ReadMessage()
		if err != nil {
			w.errc <- err
			return
		}
		// Text frames are bridge chatter, not serial data
		if messageType != websocket.BinaryMessage {
			continue
		}
		select {
		case w.incoming <- data:
		case <-w.done:
			return
		}
	}
}

// ReadUpTo collects bytes from incoming messages until max bytes are buffered
// or no message arrives within the deadline. Bytes beyond max are kept for
// the next call.
func (w *WebSocket) ReadUpTo(max int) ([]byte, error) {
	out := make([]byte, 0, max)
	for len(out) < max {
		if len(w.pending) > 0 {
			n := copy(out[len(out):max], w.pending)
			out = out[:len(out)+n]
			w.pending = w.pending[n:]
			continue
		}
		if w.err != nil {
			return out, w.err
		}

		timer := time.NewTimer(w.timeout)
		select {
		case data := <-w.incoming:
			timer.Stop()
			w.pending = data
		case err := <-w.errc:
			timer.Stop()
			w.err = fmt.Errorf("websocket read: %w", err)
			return out, w.err
		case <-w.done:
			timer.Stop()
			return out, ErrClosed
		case <-timer.C:
			return out, nil
		}
	}
	return out, nil
}

// WriteAll sends p as one binary message.
func (w *WebSocket) WriteAll(p []byte) error {
	if err := w.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return fmt.Errorf("websocket write: %w", err)
	}
	return nil
}

// SetDeadline sets how long ReadUpTo waits for the next message.
func (w *WebSocket) SetDeadline(d time.Duration) error {
	w.timeout = d
	return nil
}

// Close closes the connection and stops the reader.
func (w *WebSocket) Close() error {
	var err error
	w.once.Do(func() {
		close(w.done)
		err = w.conn.Close()
	})
	return err
}

// Type returns TypeWebSocket
func (*WebSocket) Type() Type {
	return TypeWebSocket
}
