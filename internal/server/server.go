// Package server serves the search form, the results page and a JSON
// compile endpoint.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/ministore/ftsql/ftsql"
)

// Searcher is the part of *ftsql.Searcher the server needs.
type Searcher interface {
	Compile(query string) (string, error)
	Search(ctx context.Context, query string) (*ftsql.SearchResult, error)
}

type Server struct {
	searcher Searcher
	linkBase string
	tmpl     *template.Template
	mux      *http.ServeMux
}

func New(searcher Searcher, linkBase string) (*Server, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}
	srv := &Server{
		searcher: searcher,
		linkBase: linkBase,
		tmpl:     tmpl,
		mux:      http.NewServeMux(),
	}
	srv.mux.HandleFunc("/healthz", withSecurityHeaders(srv.handleHealth))
	srv.mux.HandleFunc("/api/v1/compile", withSecurityHeaders(srv.handleCompile))
	srv.mux.HandleFunc("/", withSecurityHeaders(srv.handleIndex))
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// withSecurityHeaders middleware adds security headers to responses
func withSecurityHeaders(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		next(w, r)
	}
}

type rowView struct {
	Title string
	Rank  uint64
	Link  string
}

type pageData struct {
	Query    string
	Error    string
	SQL      string
	Searched bool
	Rows     []rowView
	Elapsed  time.Duration
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, http.StatusOK, pageData{})
	case http.MethodPost:
		s.handleSearch(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.render(w, http.StatusBadRequest, pageData{Error: "invalid form"})
		return
	}
	q := strings.TrimSpace(r.PostFormValue("search"))
	if q == "" {
		s.render(w, http.StatusBadRequest, pageData{Error: "search query is required"})
		return
	}

	res, err := s.searcher.Search(r.Context(), q)
	if err != nil {
		log.Printf("ERROR: search %q failed: %v", q, err)
		s.render(w, statusFor(err), pageData{Query: q, Error: err.Error()})
		return
	}
	if res.HistoryErr != nil {
		log.Printf("WARN: search %q not recorded: %v", q, res.HistoryErr)
	}

	data := pageData{
		Query:    q,
		SQL:      res.SQL,
		Searched: true,
		Elapsed:  res.Elapsed,
	}
	for _, row := range res.Rows {
		data.Rows = append(data.Rows, rowView{Title: row.Title, Rank: row.Rank, Link: row.Link(s.linkBase)})
	}
	s.render(w, http.StatusOK, data)
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.ExecuteTemplate(w, "page.html", data); err != nil {
		log.Printf("ERROR: failed to render page: %v", err)
	}
}

// statusFor maps query mistakes to 400, timeouts to 504 and database failures to 502.
func statusFor(err error) int {
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	switch ftsql.KindOf(err) {
	case ftsql.ErrQueryParse, ftsql.ErrWeights, ftsql.ErrGenerate:
		return http.StatusBadRequest
	case ftsql.ErrRunner, ftsql.ErrResults:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

type compileRequest struct {
	Query string `json:"query"`
}

type compileResponse struct {
	SQL   string `json:"sql,omitempty"`
	Error string `json:"error,omitempty"`
}

func (s *Server) handleCompile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer r.Body.Close()

	var req compileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Printf("ERROR: failed to decode request: %v", err)
		writeJSON(w, http.StatusBadRequest, compileResponse{Error: "invalid request payload"})
		return
	}
	q := strings.TrimSpace(req.Query)
	if q == "" {
		writeJSON(w, http.StatusBadRequest, compileResponse{Error: "query is required"})
		return
	}

	sql, err := s.searcher.Compile(q)
	if err != nil {
		writeJSON(w, statusFor(err), compileResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, compileResponse{SQL: sql})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts
// down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("listening on %s", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
		return err
	}
	log.Println("server stopped")
	return nil
}
