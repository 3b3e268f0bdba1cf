package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/pbaille/planner/internal/domain"
	"github.com/pbaille/planner/internal/metrics"
	"github.com/pbaille/planner/internal/store"
	"github.com/pbaille/planner/internal/tracker"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds how long Run waits for in-flight requests
const ShutdownTimeout = 10 * time.Second

// Defaults holds the wellness assumptions used when a request omits them
type Defaults struct {
	SleepHours  float64
	StressLevel float64
}

// Server handles HTTP requests for the planner API
type Server struct {
	store    *store.Store
	tracker  *tracker.Tracker
	defaults Defaults
	logger   *zap.Logger
	addr     string
}

// New creates a new API server
func New(s *store.Store, t *tracker.Tracker, defaults Defaults, logger *zap.Logger, addr string) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{store: s, tracker: t, defaults: defaults, logger: logger, addr: addr}
}

// Handler builds the routed, middleware-wrapped handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Tasks
	mux.HandleFunc("GET /tasks", s.listTasks)
	mux.HandleFunc("POST /tasks", s.addTask)
	mux.HandleFunc("GET /tasks/{id}", s.getTask)
	mux.HandleFunc("POST /tasks/{id}/complete", s.completeTask)

	// Analytics
	mux.HandleFunc("GET /dashboard", s.dashboard)
	mux.HandleFunc("GET /analytics", s.overview)
	mux.HandleFunc("GET /history", s.history)
	mux.HandleFunc("GET /report", s.report)

	mux.HandleFunc("GET /health", s.health)
	mux.Handle("GET /metrics", metrics.Handler())

	return s.withLogging(withCORS(mux))
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting http server", zap.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down http server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// withCORS adds CORS headers for frontend development
func withCORS(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		h.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) withLogging(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h.ServeHTTP(rec, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("uri", r.RequestURI),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// AddTaskRequest is the request body for adding a task
type AddTaskRequest struct {
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Hours    float64   `json:"hours"`
	Deadline time.Time `json:"deadline"`
}

func (s *Server) addTask(w http.ResponseWriter, r *http.Request) {
	var req AddTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := s.tracker.AddTask(store.NewTask{
		Title:      req.Title,
		Category:   domain.Category(req.Category),
		HoursSpent: req.Hours,
		Deadline:   req.Deadline,
	})
	if errors.Is(err, tracker.ErrInvalidTask) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) listTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks()
	if err != nil {
		s.internalError(w, err)
		return
	}
	if tasks == nil {
		tasks = []domain.TaskRecord{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
	})
}

func (s *Server) getTask(w http.ResponseWriter, r *http.Request) {
	// Support prefix matching
	task, err := s.store.FindTask(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (s *Server) completeTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.store.FindTask(r.PathValue("id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err = s.store.CompleteTask(task.ID)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		s.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (s *Server) dashboard(w http.ResponseWriter, r *http.Request) {
	sleep, stress, ok := s.wellness(w, r)
	if !ok {
		return
	}

	analysis, err := s.tracker.Dashboard(sleep, stress, true)
	if err != nil {
		s.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, analysis)
}

func (s *Server) overview(w http.ResponseWriter, r *http.Request) {
	o, err := s.tracker.Overview()
	if err != nil {
		s.internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, o)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	snapshots, err := s.store.ListSnapshots(limit)
	if err != nil {
		s.internalError(w, err)
		return
	}
	if snapshots == nil {
		snapshots = []domain.PerformanceSnapshot{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"snapshots": snapshots,
		"limit":     limit,
	})
}

func (s *Server) report(w http.ResponseWriter, r *http.Request) {
	sleep, stress, ok := s.wellness(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := s.tracker.WriteReport(&buf, sleep, stress); err != nil {
		s.internalError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// wellness reads the optional sleep and stress query parameters
func (s *Server) wellness(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	sleep, stress := s.defaults.SleepHours, s.defaults.StressLevel
	q := r.URL.Query()

	if v := q.Get("sleep"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid sleep parameter")
			return 0, 0, false
		}
		sleep = n
	}
	if v := q.Get("stress"); v != "" {
		n, err := strconv.ParseFloat(v, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid stress parameter")
			return 0, 0, false
		}
		stress = n
	}

	return sleep, stress, true
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
