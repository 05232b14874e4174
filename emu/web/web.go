// Package web serves the display to browsers over a websocket and takes key
// presses back from them.
package web

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"sync"

	"cvm8/emu/display"
	"cvm8/emu/keypad"

	"github.com/gobwas/ws"
	"github.com/gobwas/ws/wsutil"
	"go.uber.org/zap"
)

//go:embed static
var static embed.FS

// Server is a frontend for any number of browser clients. Every client sees
// the same frames and all of them share one key latch.
type Server struct {
	log      *zap.Logger
	keyQueue chan KeyEvent
	keys     keypad.Keys // owned by ReadKeys

	mu      sync.Mutex
	clients map[*client]struct{}

	srv      *http.Server
	listener net.Listener
	done     chan struct{}
}

type client struct {
	conn   net.Conn
	frames chan []byte
}

// KeyEvent is the message a browser sends on key down or up, for example
// {"k":5,"d":true}.
type KeyEvent struct {
	Key  uint8 `json:"k"`
	Down bool  `json:"d"`
}

func New(log *zap.Logger) *Server {
	return &Server{
		log:      log,
		keyQueue: make(chan KeyEvent, 64),
		clients:  make(map[*client]struct{}),
		done:     make(chan struct{}),
	}
}

// Handler serves the page on / and the websocket on /ws.
func (s *Server) Handler() http.Handler {
	page, _ := fs.Sub(static, "static")

	mux := http.NewServeMux()
	mux.Handle("/ws", http.HandlerFunc(s.serveWebsocket))
	mux.Handle("/", http.FileServer(http.FS(page)))
	return mux
}

// Listen binds addr and serves in the background. It returns once the
// listener is bound so the URL can be opened right away.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.srv = &http.Server{Handler: s.Handler()}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("web server", zap.Error(err))
		}
		close(s.done)
	}()
	s.log.Info("web frontend listening", zap.String("url", s.URL()))
	return nil
}

func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return fmt.Sprintf("http://%s/", s.listener.Addr())
}

func (s *Server) Close() error {
	if s.srv == nil {
		return nil
	}
	err := s.srv.Close()
	s.mu.Lock()
	for c := range s.clients {
		c.conn.Close()
	}
	s.mu.Unlock()
	return err
}

func (s *Server) serveWebsocket(rw http.ResponseWriter, req *http.Request) {
	conn, _, _, err := ws.UpgradeHTTP(req, rw)
	if err != nil {
		s.log.Warn("websocket upgrade", zap.Error(err))
		rw.WriteHeader(http.StatusBadRequest)
		return
	}

	c := &client{conn: conn, frames: make(chan []byte, 2)}
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	s.log.Info("client connected", zap.String("remote", conn.RemoteAddr().String()))

	go s.writeFrames(c)
	s.readKeys(c)

	s.mu.Lock()
	delete(s.clients, c)
	close(c.frames)
	s.mu.Unlock()
	conn.Close()
	s.log.Info("client disconnected", zap.String("remote", conn.RemoteAddr().String()))
}

func (s *Server) writeFrames(c *client) {
	for frame := range c.frames {
		if err := wsutil.WriteServerMessage(c.conn, ws.OpBinary, frame); err != nil {
			s.log.Debug("frame write", zap.Error(err))
			c.conn.Close()
			return
		}
	}
}

func (s *Server) readKeys(c *client) {
	for {
		msg, op, err := wsutil.ReadClientData(c.conn)
		if err != nil {
			return
		}
		if op != ws.OpText {
			continue
		}
		evt, err := ParseKeyEvent(msg)
		if err != nil {
			s.log.Warn("bad key message", zap.Error(err))
			continue
		}
		select {
		case s.keyQueue <- evt:
		case <-s.done:
			return
		}
	}
}

func ParseKeyEvent(msg []byte) (KeyEvent, error) {
	var evt KeyEvent
	if err := json.Unmarshal(msg, &evt); err != nil {
		return KeyEvent{}, err
	}
	if int(evt.Key) >= keypad.Count {
		return KeyEvent{}, fmt.Errorf("key %d out of range", evt.Key)
	}
	return evt, nil
}

// Present broadcasts the frame. Clients that are behind skip it.
func (s *Server) Present(d *display.Buffer) error {
	frame := PackFrame(d)
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		select {
		case c.frames <- frame:
		default:
		}
	}
	return nil
}

func (s *Server) ReadKeys(keys *keypad.Keys) {
	for {
		select {
		case evt := <-s.keyQueue:
			s.keys[evt.Key] = evt.Down
		default:
			*keys = s.keys
			return
		}
	}
}

// Closed reports whether the HTTP server has stopped.
func (s *Server) Closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// PackFrame packs the display one bit per cell, row-major, most significant
// bit first.
func PackFrame(d *display.Buffer) []byte {
	frame := make([]byte, (d.Width()*d.Height()+7)/8)
	d.Pixels(func(x, y int, on bool) {
		if on {
			i := y*d.Width() + x
			frame[i/8] |= 0x80 >> (i % 8)
		}
	})
	return frame
}
