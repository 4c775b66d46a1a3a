// Package explore serves a read-only view over a metadata store: the
// namespace directory, per-namespace type lists, and the composed surface
// the engine derives for one type. It backs both the describe command and
// the explorer HTTP server; a debugging aid, not a production service.
package explore

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
	"go.uber.org/zap"

	"winrtgen/compose"
	"winrtgen/metadata"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
}

// ErrUnknownType reports a describe target the store does not hold.
var ErrUnknownType = errors.New("unknown type")

// Description is the composed view of one type.
type Description struct {
	Type     string          `json:"type"`
	Category string          `json:"category"`
	Generics []string        `json:"generics,omitempty"`
	Surface  []SurfaceEntry  `json:"surface,omitempty"`
	Methods  []MethodSummary `json:"methods,omitempty"`
}

// SurfaceEntry is one interface of a flattened surface.
type SurfaceEntry struct {
	// Interface names the entry as seen from the surface owner. Empty for
	// the synthesized default-activation entry.
	Interface   string `json:"interface,omitempty"`
	Role        string `json:"role"`
	Overridable bool   `json:"overridable,omitempty"`
	Exclusive   bool   `json:"exclusive,omitempty"`
	Excluded    bool   `json:"excluded,omitempty"`
}

// MethodSummary is one projected method of a surface.
type MethodSummary struct {
	Name      string `json:"name"`
	Interface string `json:"interface,omitempty"`
	Category  string `json:"category"`
	Params    int    `json:"params"`
	Dropped   bool   `json:"dropped,omitempty"`
}

// Describe composes the type named qualified against the given generation
// set and summarizes its surface. Enums, structs and delegates describe to
// their basic shape; interfaces and classes carry their flattened surface
// and projected methods, a generic interface as its own declaration sees it.
func Describe(store *metadata.Store, namespaces []string, log *zap.Logger, qualified string) (*Description, error) {
	id, ok := store.Lookup(qualified)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownType, "%s", qualified)
	}
	t := store.Type(id)

	desc := &Description{
		Type:     qualified,
		Category: t.Category.String(),
		Generics: t.Generics,
	}

	// Every describe composes on a fresh engine; engines are not shared.
	eng := compose.New(store, namespaces, log)
	surface, methods, err := eng.Surface(id)
	if err != nil {
		return nil, err
	}
	if surface == nil {
		return desc, nil
	}

	desc.Surface = make([]SurfaceEntry, len(surface))
	for i, ci := range surface {
		entry := SurfaceEntry{
			Role:        ci.Role.String(),
			Overridable: ci.Overridable,
			Exclusive:   ci.Exclusive,
			Excluded:    ci.Excluded,
		}
		if ci.Ref != nil {
			entry.Interface = ci.Ref.String()
		}
		desc.Surface[i] = entry
	}

	desc.Methods = make([]MethodSummary, len(methods))
	for i, m := range methods {
		summary := MethodSummary{
			Name:      m.Name,
			Interface: desc.Surface[m.Owner].Interface,
			Category:  m.Category.String(),
			Dropped:   m.Dropped,
		}
		if m.Sig != nil {
			summary.Params = len(m.Sig.Params)
		}
		desc.Methods[i] = summary
	}
	return desc, nil
}

// Server answers explorer queries over one metadata store.
type Server struct {
	store      *metadata.Store
	namespaces []string
	log        *zap.Logger
	mux        *http.ServeMux
}

// NewServer builds a server over store. namespaces is the generation set
// describe queries compose against; types outside it show up as excluded,
// exactly as a run would treat them.
func NewServer(store *metadata.Store, namespaces []string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{store: store, namespaces: namespaces, log: log, mux: http.NewServeMux()}
	s.mux.HandleFunc("/namespaces", s.handleNamespaces)
	s.mux.HandleFunc("/types", s.handleTypes)
	s.mux.HandleFunc("/describe", s.handleDescribe)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.log.Info("request completed",
		zap.String("path", r.URL.Path),
		zap.String("query", r.URL.RawQuery),
		zap.Duration("duration", time.Since(start)))
}

// Run serves on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	done := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("explorer listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-done
}

type resultEnvelope struct {
	Result any `json:"result"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type namespaceEntry struct {
	Name string `json:"name"`
	// Types is the number of declarations the store holds for this
	// namespace.
	Types int `json:"types"`
	// Generated reports whether the namespace is in the generation set.
	Generated bool `json:"generated"`
}

type typesQuery struct {
	Namespace string `schema:"namespace" validate:"required"`
}

type typeSummary struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Generics int    `json:"generics,omitempty"`
}

type describeQuery struct {
	Type string `schema:"type" validate:"required"`
}

func (s *Server) handleNamespaces(w http.ResponseWriter, r *http.Request) {
	if !s.get(w, r) {
		return
	}

	generated := make(map[string]struct{}, len(s.namespaces))
	for _, ns := range s.namespaces {
		generated[ns] = struct{}{}
	}

	out := make([]namespaceEntry, 0)
	for _, ns := range s.store.Namespaces() {
		_, gen := generated[ns]
		out = append(out, namespaceEntry{
			Name:      ns,
			Types:     len(s.store.NamespaceTypes(ns)),
			Generated: gen,
		})
	}
	s.respond(w, out)
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	var q typesQuery
	if !s.decodeQuery(w, r, &q) {
		return
	}

	ids := s.store.NamespaceTypes(q.Namespace)
	if len(ids) == 0 {
		s.respondError(w, http.StatusNotFound, "not_found", "unknown namespace: "+q.Namespace)
		return
	}

	out := make([]typeSummary, 0, len(ids))
	for _, id := range ids {
		t := s.store.Type(id)
		out = append(out, typeSummary{
			Name:     t.Name,
			Category: t.Category.String(),
			Generics: len(t.Generics),
		})
	}
	s.respond(w, out)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	var q describeQuery
	if !s.decodeQuery(w, r, &q) {
		return
	}

	desc, err := Describe(s.store, s.namespaces, s.log, q.Type)
	switch {
	case errors.Is(err, ErrUnknownType):
		s.respondError(w, http.StatusNotFound, "not_found", err.Error())
	case err != nil:
		s.respondError(w, http.StatusBadRequest, "invalid_argument", q.Type+" cannot be composed: "+err.Error())
	default:
		s.respond(w, desc)
	}
}

func (s *Server) get(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodGet {
		s.respondError(w, http.StatusMethodNotAllowed, "method_not_allowed",
			"method "+r.Method+" not allowed, expected GET")
		return false
	}
	return true
}

func (s *Server) decodeQuery(w http.ResponseWriter, r *http.Request, q any) bool {
	if !s.get(w, r) {
		return false
	}
	if err := schemaDecoder.Decode(q, r.URL.Query()); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_argument", "failed to decode query: "+err.Error())
		return false
	}
	if err := validate.Struct(q); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid_argument", validationMessage(err))
		return false
	}
	return true
}

func validationMessage(err error) string {
	var valErrs validator.ValidationErrors
	if !errors.As(err, &valErrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(valErrs))
	for _, ve := range valErrs {
		parts = append(parts, strings.ToLower(ve.Field())+" is required")
	}
	return strings.Join(parts, "; ")
}

func (s *Server) respond(w http.ResponseWriter, result any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resultEnvelope{Result: result}); err != nil {
		s.log.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(errorEnvelope{Error: apiError{Code: code, Message: message}}); err != nil {
		s.log.Error("encoding error response", zap.Error(err))
	}
}
