package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cvm8/emu/display"
	"cvm8/emu/keypad"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"github.com/retroenv/retrogolib/assert"
	"go.uber.org/zap/zaptest"
)

func TestPackFrame(t *testing.T) {
	d := display.New(display.Width, display.Height)
	assert.NoError(t, d.Set(0, 0, true))
	assert.NoError(t, d.Set(9, 0, true))
	assert.NoError(t, d.Set(63, 31, true))

	frame := PackFrame(d)
	assert.Equal(t, 256, len(frame))
	assert.Equal(t, byte(0x80), frame[0])
	assert.Equal(t, byte(0x40), frame[1])
	assert.Equal(t, byte(0x01), frame[255])
}

func TestParseKeyEvent(t *testing.T) {
	evt, err := ParseKeyEvent([]byte(`{"k":12,"d":true}`))
	assert.NoError(t, err)
	assert.Equal(t, KeyEvent{Key: 12, Down: true}, evt)

	_, err = ParseKeyEvent([]byte(`{"k":16,"d":true}`))
	assert.Error(t, err, "key 16 out of range")
	_, err = ParseKeyEvent([]byte(`nope`))
	assert.Error(t, err, "invalid character 'o' in literal null (expecting 'u')")
}

func TestServesPage(t *testing.T) {
	srv := httptest.NewServer(New(zaptest.NewLogger(t)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	assert.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, strings.Contains(string(body), "<canvas"))
}

func TestWebsocketRoundTrip(t *testing.T) {
	s := New(zaptest.NewLogger(t))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, _, err := ws.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")
	assert.NoError(t, err)
	defer conn.Close()

	assert.NoError(t, wsutil.WriteClientMessage(conn, ws.OpText, []byte(`{"k":3,"d":true}`)))

	// the key arriving proves the client is registered for frames
	var keys keypad.Keys
	deadline := time.Now().Add(5 * time.Second)
	for !keys[3] && time.Now().Before(deadline) {
		s.ReadKeys(&keys)
		time.Sleep(time.Millisecond)
	}
	assert.True(t, keys[3])

	d := display.New(display.Width, display.Height)
	assert.NoError(t, d.Set(1, 0, true))
	assert.NoError(t, s.Present(d))

	assert.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	msg, op, err := wsutil.ReadServerData(conn)
	assert.NoError(t, err)
	assert.Equal(t, ws.OpBinary, op)
	assert.Equal(t, 256, len(msg))
	assert.Equal(t, byte(0x40), msg[0])
}
