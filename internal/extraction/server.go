package extraction

import (
	"context"
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"
	"sync"
)

// Server exposes a Session over a small JSON API
type Server struct {
	batch     *Batch
	archiver  *Archiver
	basicAuth BasicAuth
	mux       *http.ServeMux
	logger    *slog.Logger

	mu      sync.Mutex
	session *Session
}

// BasicAuth holds basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// ServerConfig wires a Server. Archiver may be nil.
type ServerConfig struct {
	Batch     *Batch
	Session   *Session
	Archiver  *Archiver
	BasicAuth BasicAuth
	Logger    *slog.Logger
}

// NewServer creates a new Server with default mux
func NewServer(cfg ServerConfig) *Server {
	return NewServerWithMux(cfg, http.NewServeMux())
}

// NewServerWithMux creates a new Server with a custom mux for testing
func NewServerWithMux(cfg ServerConfig, mux *http.ServeMux) *Server {
	if cfg.Session == nil {
		cfg.Session = NewSession()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	s := &Server{
		batch:     cfg.Batch,
		archiver:  cfg.Archiver,
		basicAuth: cfg.BasicAuth,
		mux:       mux,
		logger:    cfg.Logger,
		session:   cfg.Session,
	}
	s.registerRoutes()
	return s
}

// Session returns the current session
func (s *Server) Session() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

func (s *Server) resetSession() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = s.session.Reset()
	return s.session
}

// authenticate checks basic auth credentials
func (s *Server) authenticate(r *http.Request) bool {
	if s.basicAuth.Username == "" && s.basicAuth.Password == "" {
		return true // No auth required if not configured
	}

	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Basic ") {
		return false
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(auth, "Basic "))
	if err != nil {
		return false
	}

	credentials := strings.SplitN(string(decoded), ":", 2)
	if len(credentials) != 2 {
		return false
	}

	return credentials[0] == s.basicAuth.Username && credentials[1] == s.basicAuth.Password
}

// requireAuth middleware
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.authenticate(r) {
			w.Header().Set("WWW-Authenticate", `Basic realm="docverify"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

// registerRoutes registers all API routes on the server's mux
func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/documents/{id}", s.requireAuth(s.handleGetDocument))
	s.mux.HandleFunc("GET /api/documents", s.requireAuth(s.handleListDocuments))
	s.mux.HandleFunc("POST /api/documents", s.requireAuth(s.handleUploadDocument))
	s.mux.HandleFunc("GET /api/report.xlsx", s.requireAuth(s.handleReport))
	s.mux.HandleFunc("POST /api/session/reset", s.requireAuth(s.handleResetSession))
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.mux}
	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	s.logger.Info("Starting server", "address", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// ServeHTTP implements http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}
