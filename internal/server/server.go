// Package server exposes the route planner over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Oddey86/TarkovBuddy/internal/graph"
	"github.com/Oddey86/TarkovBuddy/internal/metrics"
	"github.com/Oddey86/TarkovBuddy/internal/optimizer"
	"github.com/Oddey86/TarkovBuddy/internal/planner"
)

// TaskSource supplies the task catalog.
type TaskSource interface {
	Tasks(ctx context.Context) ([]graph.Task, error)
}

// ErrBadRequest marks errors caused by the caller's input.
var ErrBadRequest = errors.New("bad request")

// Server answers route requests and keeps the most recent plan.
type Server struct {
	catalog TaskSource
	metrics *metrics.Collector
	cache   *lru.Cache[uint64, *planner.RoutePlan]

	mu   sync.RWMutex
	last *planner.RoutePlan
}

// New creates a Server. catalog may be nil when every request carries its
// own tasks. cacheSize bounds the number of memoized plans.
func New(catalog TaskSource, m *metrics.Collector, cacheSize int) (*Server, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[uint64, *planner.RoutePlan](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create result cache: %w", err)
	}
	if m == nil {
		m = metrics.NewCollector()
	}
	return &Server{catalog: catalog, metrics: m, cache: cache}, nil
}

// Optimize resolves and runs one request. The boolean reports a cache hit.
func (s *Server) Optimize(ctx context.Context, body OptimizeRequest) (*planner.RoutePlan, bool, error) {
	if err := body.Validate(); err != nil {
		return nil, false, fmt.Errorf("%w: %v", ErrBadRequest, err)
	}

	tasks := body.Tasks
	if len(tasks) == 0 {
		if s.catalog == nil {
			return nil, false, fmt.Errorf("%w: no tasks in request and no catalog configured", ErrBadRequest)
		}
		var err error
		tasks, err = s.catalog.Tasks(ctx)
		if err != nil {
			return nil, false, fmt.Errorf("load catalog: %w", err)
		}
	}
	s.metrics.SetCatalogTasks(len(tasks))

	req := body.Resolve(tasks)
	key, err := Fingerprint(req)
	if err != nil {
		return nil, false, err
	}

	if plan, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheHit(true)
		s.setLast(plan)
		return plan, true, nil
	}
	s.metrics.RecordCacheHit(false)

	start := time.Now()
	result := optimizer.Optimize(req)
	s.metrics.RecordOptimization(time.Since(start), len(result.Sweeps), result.Efficiency)

	plan := planner.Generate(req, result)
	s.cache.Add(key, plan)
	s.setLast(plan)
	return plan, false, nil
}

// Last returns the most recently served plan, or nil.
func (s *Server) Last() *planner.RoutePlan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

func (s *Server) setLast(p *planner.RoutePlan) {
	s.mu.Lock()
	s.last = p
	s.mu.Unlock()
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body OptimizeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 32<<20)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	plan, hit, err := s.Optimize(r.Context(), body)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, ErrBadRequest) {
			code = http.StatusBadRequest
		} else {
			log.Printf("warning: optimize failed: %v", err)
		}
		writeError(w, code, err.Error())
		return
	}

	if hit {
		w.Header().Set("X-Cache", "hit")
	} else {
		w.Header().Set("X-Cache", "miss")
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	plan := s.Last()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no plan computed yet")
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	plan := s.Last()
	if plan == nil {
		writeError(w, http.StatusNotFound, "no plan computed yet")
		return
	}
	writeJSON(w, http.StatusOK, toGraph(plan))
}

// Handler returns the HTTP routes with request metrics applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/optimize", s.handleOptimize)
	mux.HandleFunc("GET /plan", s.handlePlan)
	mux.HandleFunc("GET /graph", s.handleGraph)
	mux.Handle("GET /metrics", s.metrics.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	return s.instrument(mux)
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
// ready, if non-nil, receives the bound address once listening.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready chan<- string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	if ready != nil {
		ready <- ln.Addr().String()
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		// ServeMux records the matched pattern on r; it bounds label cardinality.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}
		s.metrics.RecordRequest(path, rec.code)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("warning: write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
