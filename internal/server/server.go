// Package server serves a rendered Markdown document over HTTP and reloads
// connected pages when the document changes.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/ezerfernandes/mdrender/internal/pipeline"
	"github.com/gorilla/websocket"
	"github.com/npillmayer/schuko/tracing"
)

func tracer() tracing.Trace {
	return tracing.Select("mdrender.server")
}

// ReloadPath is the websocket endpoint pages connect to for reloads.
const ReloadPath = "/ws"

const reloadScript = `<script>
(function () {
  var ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "` + ReloadPath + `");
  ws.onmessage = function (ev) { if (JSON.parse(ev.data).action === "reload") location.reload(); };
})();
</script>`

const shutdownTimeout = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

type message struct {
	Action string `json:"action"`
	Path   string `json:"path,omitempty"`
}

// Server renders one Markdown file on every request.
type Server struct {
	path string
	opts pipeline.Options

	mu    sync.Mutex
	conns map[*websocket.Conn]struct{}
}

// New returns a server for the Markdown file at path. Pages are always
// rendered as standalone HTML.
func New(path string, opts pipeline.Options) *Server {
	opts.Format = pipeline.FormatHTML
	opts.Standalone = true
	opts.Head += reloadScript

	return &Server{path: path, opts: opts, conns: make(map[*websocket.Conn]struct{})}
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/", s.servePage)
	mux.HandleFunc("/blocks.json", s.serveBlocks)
	mux.HandleFunc(ReloadPath, s.serveWebSocket)

	return mux
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)

		return
	}

	source, err := os.ReadFile(s.path)
	if err != nil {
		s.fail(w, err)

		return
	}

	page, err := pipeline.Render(source, s.opts)
	if err != nil {
		s.fail(w, err)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(page))
}

func (s *Server) serveBlocks(w http.ResponseWriter, _ *http.Request) {
	source, err := os.ReadFile(s.path)
	if err != nil {
		s.fail(w, err)

		return
	}

	doc, err := pipeline.RenderBlocks(source, s.opts)
	if err != nil {
		s.fail(w, err)

		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(doc); err != nil {
		tracer().Errorf("failed to write blocks: %v", err)
	}
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	tracer().Errorf("render %s: %v", s.path, err)

	status := http.StatusInternalServerError
	if errors.Is(err, os.ErrNotExist) {
		status = http.StatusNotFound
	}

	http.Error(w, err.Error(), status)
}

func (s *Server) serveWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		tracer().Errorf("websocket upgrade: %v", err)

		return
	}

	s.register(conn)
	defer s.unregister(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *Server) register(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.conns[conn] = struct{}{}
	tracer().Debugf("websocket connected, %d active", len(s.conns))
}

func (s *Server) unregister(conn *websocket.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conns[conn]; ok {
		delete(s.conns, conn)
		conn.Close()
	}

	tracer().Debugf("websocket disconnected, %d active", len(s.conns))
}

// Clients returns the number of connected pages.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.conns)
}

// Broadcast asks every connected page to reload.
func (s *Server) Broadcast() {
	data, err := json.Marshal(message{Action: "reload", Path: s.path})
	if err != nil {
		tracer().Errorf("failed to marshal reload message: %v", err)

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tracer().Infof("reloading %d page(s)", len(s.conns))

	for conn := range s.conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			tracer().Errorf("failed to send reload: %v", err)
			delete(s.conns, conn)
			conn.Close()
		}
	}
}

// ListenAndServe serves on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: shutdownTimeout}

	errc := make(chan error, 1)

	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdown, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdown)
}
