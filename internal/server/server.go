// Package server exposes the assistant over HTTP JSON and a websocket
// command channel.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	log "log/slog"

	"github.com/google/uuid"

	"jarvis/internal/config"
	"jarvis/internal/fileops"
	"jarvis/internal/jarvis"
	"jarvis/internal/locator"
	"jarvis/internal/metrics"
	"jarvis/internal/sysinfo"
	"jarvis/internal/system"
)

const maxBody = 1 << 20

// Router is the command entry point.
type Router interface {
	Route(ctx context.Context, raw string) jarvis.Reply
}

type Speaker interface {
	Say(text, lang string)
}

type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

type Responder interface {
	Answer(ctx context.Context, query string) (string, bool)
}

type Voice interface {
	TranscribeFile(ctx context.Context, r io.Reader, name string) (string, error)
}

type StatusSource interface {
	Collect(ctx context.Context) (sysinfo.Snapshot, error)
}

// Deps are what the endpoints call into. Optional ones may be nil; their
// endpoints then answer 503.
type Deps struct {
	Router     Router
	Files      *fileops.Mutator
	Locator    *locator.Locator
	Caps       system.Capabilities
	Speaker    Speaker
	Translator Translator
	Responder  Responder
	Voice      Voice
	Status     StatusSource
	// Songs returns the current lyrics table.
	Songs func() []config.Song
}

type Server struct {
	Deps
	hub *Hub
	mux *http.ServeMux
}

func New(d Deps) *Server {
	s := &Server{
		Deps: d,
		hub:  NewHub(),
		mux:  http.NewServeMux(),
	}
	s.routes()
	return s
}

// Hub is where daemon-initiated events are broadcast to websocket clients.
func (s *Server) Hub() *Hub { return s.hub }

func (s *Server) routes() {
	s.mux.HandleFunc("POST /api/command", s.handleCommand)
	s.mux.HandleFunc("POST /api/file/create", s.handleFileCreate)
	s.mux.HandleFunc("POST /api/file/search", s.handleFileSearch)
	s.mux.HandleFunc("POST /api/file/open", s.handleFileOpen)
	s.mux.HandleFunc("POST /api/photo/capture", s.handlePhoto)
	s.mux.HandleFunc("POST /api/screenshot", s.handleScreenshot)
	s.mux.HandleFunc("POST /api/speak", s.handleSpeak)
	s.mux.HandleFunc("POST /api/translate", s.handleTranslate)
	s.mux.HandleFunc("POST /api/ai-query", s.handleAIQuery)
	s.mux.HandleFunc("POST /api/song-recognition", s.handleSong)
	s.mux.HandleFunc("POST /api/voice", s.handleVoice)
	s.mux.HandleFunc("GET /api/system-status", s.handleStatus)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.Handle("GET /metrics", metrics.Handler())
	s.mux.HandleFunc("GET /ws", s.handleWS)
}

func (s *Server) Handler() http.Handler {
	return withRequestID(withMetrics(s.mux))
}

// Serve runs until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("HTTP listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.hub.CloseAll()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

type ctxKey struct{}

// RequestID returns the id assigned to the request carrying ctx.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// Hijack lets the websocket upgrader take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijack not supported")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func withMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		d := time.Since(start)
		metrics.RecordHTTPRequest(r.Method, path, sw.status, d)
		log.Debug("HTTP", "method", r.Method, "path", r.URL.Path, "status", sw.status, "dur", d, "id", RequestID(r.Context()))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug("Write response failed", "err", err)
	}
}

type errorBody struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}

// readJSON decodes the body into v. An empty body leaves v untouched.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
	return false
}
