// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bridge answers every binary message with the replies produced by respond.
func bridge(t *testing.T, respond func([]byte) [][]byte) string {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if mt != websocket.BinaryMessage {
				continue
			}
			for _, reply := range respond(data) {
				if err := conn.WriteMessage(websocket.BinaryMessage, reply); err != nil {
					return
				}
			}
		}
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWebSocket_RoundTrip(t *testing.T) {
	t.Parallel()
	url := bridge(t, func(p []byte) [][]byte {
		if string(p) == "queryd\r\n" {
			// Bridges forward serial data in arbitrary fragments
			return [][]byte{[]byte("bo"), []byte("ot")}
		}
		return nil
	})

	ws, err := DialWebSocket(WebSocketConfig{URL: url, Timeout: time.Second})
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteAll([]byte("queryd\r\n")))
	data, err := ws.ReadUpTo(4)
	require.NoError(t, err)
	assert.Equal(t, []byte("boot"), data)
	assert.Equal(t, TypeWebSocket, ws.Type())
}

func TestWebSocket_DeadlineYieldsEmptyRead(t *testing.T) {
	t.Parallel()
	url := bridge(t, func([]byte) [][]byte { return nil })

	ws, err := DialWebSocket(WebSocketConfig{URL: url})
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.SetDeadline(50*time.Millisecond))
	data, err := ws.ReadUpTo(4)
	require.NoError(t, err)
	assert.Empty(t, data)

	// The link must still work after a timeout
	require.NoError(t, ws.WriteAll([]byte{0x01}))
}

func TestWebSocket_KeepsOverflowForNextRead(t *testing.T) {
	t.Parallel()
	url := bridge(t, func([]byte) [][]byte { return [][]byte{[]byte("upredyOK")} })

	ws, err := DialWebSocket(WebSocketConfig{URL: url, Timeout: time.Second})
	require.NoError(t, err)
	defer ws.Close()

	require.NoError(t, ws.WriteAll([]byte("upfirm\r\n")))
	data, err := ws.ReadUpTo(6)
	require.NoError(t, err)
	assert.Equal(t, []byte("upredy"), data)

	data, err = ws.ReadUpTo(2)
	require.NoError(t, err)
	assert.Equal(t, []byte("OK"), data)
}

func TestDialWebSocket_RejectsScheme(t *testing.T) {
	t.Parallel()
	_, err := DialWebSocket(WebSocketConfig{URL: "http://example.com/serial"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported URL scheme")
}
