package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"ciphera/internal/domain"
	"ciphera/internal/relay"
)

// Options tunes the HTTP surface. Zero values fall back to the defaults noted.
type Options struct {
	// WSPath is where WebSocket upgrades are accepted. Default "/".
	WSPath string
	// PreKeyPolicy picks Get or Consume for key fetches. Default PreKeyRetain.
	PreKeyPolicy PreKeyPolicy
	// MaxFrameBytes caps one inbound frame. Zero keeps the websocket default.
	MaxFrameBytes int64
	// WriteTimeout bounds each outbound frame write. Zero means no bound.
	WriteTimeout time.Duration
	// AllowedOrigins are host patterns accepted in the Origin header besides
	// the request's own host.
	AllowedOrigins []string
}

// Server owns the HTTP routes for one relay.
type Server struct {
	proto *relay.Protocol
	keys  domain.KeyBundleStore
	opts  Options
	log   *slog.Logger

	mu     sync.Mutex
	nextID uint64
	live   map[uint64]func()
}

// New returns a Server that reads bundles from keys and runs sessions on proto.
// keys must be the same store proto writes to.
func New(proto *relay.Protocol, keys domain.KeyBundleStore, opts Options, log *slog.Logger) *Server {
	if opts.WSPath == "" {
		opts.WSPath = "/"
	}
	if opts.PreKeyPolicy == "" {
		opts.PreKeyPolicy = PreKeyRetain
	}
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		proto: proto,
		keys:  keys,
		opts:  opts,
		log:   log,
		live:  make(map[uint64]func()),
	}
}

// Handler returns the routed handler wrapped in the access log.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /up", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("GET /keys/{identity}", s.handleKeys)
	if s.opts.WSPath == "/" {
		mux.HandleFunc("GET /{$}", s.handleWS)
	} else {
		mux.HandleFunc("GET "+s.opts.WSPath, s.handleWS)
	}
	return accessLog(s.log, mux)
}

// CloseConnections ends every live relay connection. http.Server.Shutdown
// does not reach hijacked WebSocket connections, so callers run this next to it.
func (s *Server) CloseConnections() {
	s.mu.Lock()
	cancels := make([]func(), 0, len(s.live))
	for _, cancel := range s.live {
		cancels = append(cancels, cancel)
	}
	s.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Connections reports how many WebSocket connections are being served.
func (s *Server) Connections() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.live)
}

func (s *Server) track(cancel func()) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.live[s.nextID] = cancel
	return s.nextID
}

func (s *Server) untrack(id uint64) {
	s.mu.Lock()
	delete(s.live, id)
	s.mu.Unlock()
}
