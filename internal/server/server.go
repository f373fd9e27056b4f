// Package server implements the webflow development server: pages are
// compiled on request and browsers reload when a source file changes.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/livefir/webflow"
	"github.com/livefir/webflow/internal/config"
)

// ReloadPath is where pages open their live-reload websocket
const ReloadPath = "/_webflow/ws"

const reloadScript = `<script>
(function () {
	var proto = location.protocol === "https:" ? "wss://" : "ws://";
	var ws = new WebSocket(proto + location.host + "` + ReloadPath + `");
	ws.onmessage = function (e) {
		var msg = JSON.parse(e.data);
		if (msg.type === "reload") location.reload();
	};
})();
</script>
`

// Server serves compiled pages from Config.SourceDir
type Server struct {
	config   *config.Config
	compiler *webflow.Compiler
	upgrader *websocket.Upgrader
	hub      *hub
	watcher  *watcher
	mux      *http.ServeMux
}

// New creates a development server. Run must be called for reloads to be
// pushed to browsers.
func New(cfg *config.Config, compiler *webflow.Compiler) *Server {
	s := &Server{
		config:   cfg,
		compiler: compiler,
		upgrader: &websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		hub: newHub(),
		mux: http.NewServeMux(),
	}
	s.watcher = newWatcher(cfg.SourceDir, cfg.Recursive, s.notify)

	s.mux.HandleFunc(ReloadPath, s.handleWebSocket)
	s.mux.HandleFunc("/", s.handlePage)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Run polls the source directory every Config.Serve.Interval until ctx is
// done, then disconnects all clients.
func (s *Server) Run(ctx context.Context) error {
	defer s.hub.closeAll()
	return s.watcher.run(ctx, s.config.Serve.Interval)
}

// Clients returns the number of connected reload sockets
func (s *Server) Clients() int {
	return s.hub.count()
}

func (s *Server) notify(source string) {
	page, err := s.pagePath(source)
	if err != nil {
		log.Printf("Cannot map %s to a page: %v", source, err)
		return
	}
	log.Printf("Reloading %s", page)
	s.hub.broadcast(reloadMessage{Type: "reload", Path: page})
}

// pagePath maps a source file to the URL path it is served under
func (s *Server) pagePath(source string) (string, error) {
	rel, err := filepath.Rel(s.config.SourceDir, source)
	if err != nil {
		return "", err
	}
	rel = strings.TrimSuffix(rel, config.SourceExtension) + s.config.Extension
	return "/" + filepath.ToSlash(rel), nil
}

// sourcePath maps a URL path to the source file it is compiled from
func (s *Server) sourcePath(urlPath string) (string, bool) {
	p := path.Clean("/" + urlPath)
	if strings.HasSuffix(urlPath, "/") {
		p = path.Join(p, "index"+s.config.Extension)
	}
	if !strings.HasSuffix(p, s.config.Extension) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(p, "/"), s.config.Extension)
	if name == "" {
		return "", false
	}
	return filepath.Join(s.config.SourceDir, filepath.FromSlash(name)+config.SourceExtension), true
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	source, ok := s.sourcePath(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}

	src, err := os.ReadFile(source)
	if errors.Is(err, os.ErrNotExist) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Printf("Failed to read %s: %v", source, err)
		http.Error(w, "Failed to read source", http.StatusInternalServerError)
		return
	}

	html, err := s.compiler.Compile(string(src))
	if err != nil {
		log.Printf("Compile failed for %s: %v", source, err)
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprintf(w, "%s: %v\n", filepath.Base(source), err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(html + reloadScript))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	log.Printf("Client connected from %s", conn.RemoteAddr())
	c := s.hub.register(conn)
	defer func() {
		s.hub.unregister(c)
		log.Printf("Client disconnected")
	}()

	// Browsers never send anything; reading detects the close.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
	}
}
