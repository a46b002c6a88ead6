// Package sqlite serves the libSQL HTTP pipeline protocol over a local
// SQLite database. It backs the development server and the in-process
// endpoint used by repository and service tests; production traffic goes to
// a remote endpoint.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/nextlevel/internal/remote"
)

// MemoryDSN opens a private in-memory database.
const MemoryDSN = ":memory:"

// Backend lifecycle errors.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// maxRequestBody caps the size of an accepted pipeline request.
const maxRequestBody = 8 << 20

// Backend is an http.Handler that answers POST /v2/pipeline by running each
// execute step against SQLite. Steps of one pipeline run in order while
// holding the backend lock, so concurrent pipelines never interleave.
type Backend struct {
	mu       sync.Mutex
	attached bool
	db       *sql.DB
	token    string
	logger   *slog.Logger
}

// Option configures a Backend.
type Option func(*Backend)

// WithToken requires every request to carry "Authorization: Bearer token".
// An empty token disables the check.
func WithToken(token string) Option {
	return func(b *Backend) { b.token = token }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(b *Backend) { b.logger = l }
}

// NewBackend creates a detached Backend. Call Attach before serving.
func NewBackend(opts ...Option) *Backend {
	b := &Backend{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Attach opens the database at dsn, creating parent directories for file
// databases. Returns ErrAlreadyAttached if called twice.
func (b *Backend) Attach(dsn string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return ErrAlreadyAttached
	}
	if dsn == "" {
		dsn = MemoryDSN
	}
	if dsn != MemoryDSN && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	// One connection keeps an in-memory database alive across requests and
	// serializes statements.
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("ping sqlite: %w", err)
	}

	b.db = db
	b.attached = true
	return nil
}

// Detach closes the database. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		return err
	}
	return nil
}

// Bootstrap runs statements directly against the database, outside the HTTP
// protocol. Used to prepare a schema before serving.
func (b *Backend) Bootstrap(ctx context.Context, stmts []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return ErrDetached
	}
	for _, s := range stmts {
		if _, err := b.db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("bootstrap statement: %w", err)
		}
	}
	return nil
}

// ServeHTTP implements http.Handler.
func (b *Backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.URL.Path != remote.PipelinePath {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if b.token != "" && r.Header.Get("Authorization") != "Bearer "+b.token {
		writeError(w, http.StatusUnauthorized, "invalid auth token")
		return
	}

	var req remote.PipelineRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "decode pipeline request: "+err.Error())
		return
	}

	resp, err := b.Pipeline(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	b.logger.Debug("pipeline served",
		"request_id", r.Header.Get(remote.RequestIDHeader),
		"steps", len(req.Requests),
		"duration", time.Since(start))

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Pipeline executes every step of req in order and returns one result per
// step. A failing step produces an error result; later steps still run.
func (b *Backend) Pipeline(ctx context.Context, req remote.PipelineRequest) (remote.PipelineResponse, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return remote.PipelineResponse{}, ErrDetached
	}

	results := make([]remote.StreamResult, 0, len(req.Requests))
	for _, step := range req.Requests {
		switch step.Type {
		case remote.StepExecute:
			if step.Stmt == nil {
				results = append(results, errorResult("execute step without stmt"))
				continue
			}
			res, err := b.execute(ctx, *step.Stmt)
			if err != nil {
				results = append(results, errorResult(err.Error()))
				continue
			}
			results = append(results, remote.StreamResult{
				Type:     remote.ResultOK,
				Response: &remote.StreamResponse{Type: remote.StepExecute, Result: res},
			})
		case remote.StepClose:
			results = append(results, remote.StreamResult{
				Type:     remote.ResultOK,
				Response: &remote.StreamResponse{Type: remote.StepClose},
			})
		default:
			results = append(results, errorResult(fmt.Sprintf("unknown request type %q", step.Type)))
		}
	}
	return remote.PipelineResponse{Results: results}, nil
}

func errorResult(msg string) remote.StreamResult {
	return remote.StreamResult{Type: remote.ResultError, Error: &remote.ErrorBody{Message: msg}}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]string{"message": msg}})
}
