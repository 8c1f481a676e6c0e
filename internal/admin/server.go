// Package admin is the HTTP front-end: a model browser with a
// two-request deletion flow. The GET renders an HTML confirmation page;
// the POST with post=yes is a fresh pre-authorized invocation that
// re-derives the live count. The two requests share no in-process state.
package admin

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"purgeall/internal/audit"
	"purgeall/internal/invoker"
	"purgeall/internal/registry"
	"purgeall/internal/safety"
	"purgeall/internal/store"
)

// defaultActor names deletions triggered without an X-Actor header.
// The header is audit attribution only, not authentication: the admin
// surface trusts whoever can reach it, so deployments must gate access
// at the network or a fronting reverse proxy.
const defaultActor = "admin"

// Config wires a Server from an already-constructed runtime.
type Config struct {
	ConfigPath string
	Policy     *safety.Policy
	DB         *store.DB
	Registry   *registry.Registry
	Audit      *audit.Recorder
	Logger     *zap.Logger
}

// Server serves the admin UI. The policy and invoker are swapped
// together under the mutex when the config file changes on disk.
type Server struct {
	confPath string
	db       *store.DB
	registry *registry.Registry
	audit    *audit.Recorder
	logger   *zap.Logger

	mu      sync.RWMutex
	policy  *safety.Policy
	invoker *invoker.Invoker
}

// New builds a Server.
func New(cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		confPath: cfg.ConfigPath,
		db:       cfg.DB,
		registry: cfg.Registry,
		audit:    cfg.Audit,
		logger:   logger,
		policy:   cfg.Policy,
		invoker:  invoker.New(cfg.Policy, cfg.DB, cfg.Audit, logger),
	}
}

// ReloadPolicy re-reads the config file and swaps in a fresh policy and
// invoker. Called by the file watcher; safe under concurrent requests.
func (s *Server) ReloadPolicy() error {
	policy, err := safety.LoadPolicy(s.confPath, safety.LoadOptions{Logger: s.logger})
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.policy = policy
	s.invoker = invoker.New(policy, s.db, s.audit, s.logger)
	s.mu.Unlock()
	s.logger.Info("policy reloaded", zap.String("path", s.confPath))
	return nil
}

func (s *Server) current() (*safety.Policy, *invoker.Invoker) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.policy, s.invoker
}

// Router builds the HTTP handler.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/", s.handleIndex)
	r.Get("/ns/{namespace}", s.handleNamespace)
	r.Get("/ns/{namespace}/{model}/delete-all", s.handleConfirmPage)
	r.Post("/ns/{namespace}/{model}/delete-all", s.handleDelete)
	return r
}

// requestLogger mirrors chi's Logger middleware onto zap.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)))
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	namespaces, err := s.registry.Namespaces(r.Context())
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.render(w, http.StatusOK, "index", map[string]any{
		"Title":      "Namespaces",
		"Namespaces": namespaces,
	})
}

func (s *Server) handleNamespace(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	models, err := s.registry.Models(r.Context(), namespace)
	if err != nil {
		s.registryError(w, err)
		return
	}
	s.render(w, http.StatusOK, "namespace", map[string]any{
		"Title":  "Models in " + namespace,
		"Models": models,
	})
}

// handleConfirmPage is step one of the two-request flow: show the live
// count and a confirmation form, or the block reason instead of the form.
func (s *Server) handleConfirmPage(w http.ResponseWriter, r *http.Request) {
	m, count, ok := s.resolve(w, r)
	if !ok {
		return
	}

	policy, _ := s.current()
	verdict := policy.Evaluate(m.Identifier, count)
	if !verdict.Allowed {
		s.render(w, http.StatusForbidden, "blocked", map[string]any{
			"Title":     "Deletion blocked",
			"Reason":    verdict.Reason,
			"Namespace": m.Identifier.Namespace,
		})
		return
	}

	s.render(w, http.StatusOK, "confirm", map[string]any{
		"Title":                "Confirm deletion",
		"Model":                m.Identifier.String(),
		"Namespace":            m.Identifier.Namespace,
		"Count":                count,
		"RequiresConfirmation": policy.RequiresConfirmation(count),
		"Threshold":            policy.Config().RequireConfirmationAbove,
	})
}

// handleDelete is step two: the confirmed POST. Pre-authorized because
// the operator already saw the confirmation page; the count is re-derived
// from the live table, not carried over from step one.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostFormValue("post") != "yes" {
		http.Error(w, "confirmation required: post=yes", http.StatusBadRequest)
		return
	}

	m, count, ok := s.resolve(w, r)
	if !ok {
		return
	}

	actor := r.Header.Get("X-Actor")
	if actor == "" {
		actor = defaultActor
	}

	_, inv := s.current()
	out, err := inv.Run(r.Context(), invoker.Request{
		Identifier:    m.Identifier,
		Table:         m.Table,
		Count:         count,
		Actor:         actor,
		PreAuthorized: true,
	}, nil)
	if err != nil {
		var blocked *invoker.BlockedError
		if errors.As(err, &blocked) {
			s.render(w, http.StatusForbidden, "blocked", map[string]any{
				"Title":     "Deletion blocked",
				"Reason":    blocked.Reason,
				"Namespace": m.Identifier.Namespace,
			})
			return
		}
		s.serverError(w, err)
		return
	}

	s.render(w, http.StatusOK, "result", map[string]any{
		"Title":     "Deletion complete",
		"Message":   fmt.Sprintf("Successfully deleted %d %s records.", out.DeletedCount, m.Identifier),
		"Namespace": m.Identifier.Namespace,
		"Breakdown": breakdownRows(out.Breakdown),
	})
}

// resolve looks up the model from URL params and counts it. Writes the
// error response itself when the lookup fails.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (registry.Model, int64, bool) {
	namespace := chi.URLParam(r, "namespace")
	name := chi.URLParam(r, "model")

	m, err := s.registry.Resolve(r.Context(), namespace, name)
	if err != nil {
		s.registryError(w, err)
		return registry.Model{}, 0, false
	}
	count, err := s.registry.Count(r.Context(), m.Table)
	if err != nil {
		s.serverError(w, err)
		return registry.Model{}, 0, false
	}
	return m, count, true
}

func (s *Server) registryError(w http.ResponseWriter, err error) {
	var nf *registry.NotFoundError
	if errors.As(err, &nf) {
		http.Error(w, nf.Error(), http.StatusNotFound)
		return
	}
	s.serverError(w, err)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error("admin request failed", zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("template render failed", zap.String("template", name), zap.Error(err))
	}
}

type breakdownRow struct {
	Table   string
	Deleted int64
}

func breakdownRows(breakdown map[string]int64) []breakdownRow {
	rows := make([]breakdownRow, 0, len(breakdown))
	for t, n := range breakdown {
		rows = append(rows, breakdownRow{Table: t, Deleted: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Table < rows[j].Table })
	return rows
}
