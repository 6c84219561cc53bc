package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/voyagen/tvguide/api"
	"github.com/voyagen/tvguide/internal/query"
	"github.com/voyagen/tvguide/internal/service"
	"github.com/voyagen/tvguide/internal/store"
)

// Server holds dependencies for the HTTP API.
type Server struct {
	catalog *service.Catalog
	socket  http.Handler // nil disables /api/socket
	log     zerolog.Logger
	origins []string
	mux     *http.ServeMux
}

// New creates a Server and registers routes.
// socket serves the realtime listener endpoint and may be nil.
func New(catalog *service.Catalog, socket http.Handler, log zerolog.Logger, allowedOrigins []string) *Server {
	srv := &Server{
		catalog: catalog,
		socket:  socket,
		log:     log,
		origins: allowedOrigins,
		mux:     http.NewServeMux(),
	}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	// Channels
	s.mux.HandleFunc("GET /api/channels", s.handleListChannels)
	s.mux.HandleFunc("GET /api/channels/all", s.handleAllChannels)
	s.mux.HandleFunc("GET /api/channels/count", s.handleCountChannels)
	s.mux.HandleFunc("GET /api/channels/{id}", s.handleGetChannel)
	s.mux.HandleFunc("POST /api/channels", s.handleCreateChannel)
	s.mux.HandleFunc("PUT /api/channels/{id}", s.handleUpdateChannel)
	s.mux.HandleFunc("DELETE /api/channels/{id}", s.handleDeleteChannel)

	// Programs
	s.mux.HandleFunc("GET /api/programs", s.handleListPrograms)
	s.mux.HandleFunc("GET /api/programs/all", s.handleAllPrograms)
	s.mux.HandleFunc("GET /api/programs/count", s.handleCountPrograms)
	s.mux.HandleFunc("GET /api/programs/{id}", s.handleGetProgram)
	s.mux.HandleFunc("POST /api/programs", s.handleCreateProgram)
	s.mux.HandleFunc("PUT /api/programs/{id}", s.handleUpdateProgram)
	s.mux.HandleFunc("DELETE /api/programs/{id}", s.handleDeleteProgram)

	// Lookups
	s.mux.HandleFunc("GET /api/types", s.handleListTypes)
	s.mux.HandleFunc("GET /api/categories", s.handleListCategories)

	// Users
	s.mux.HandleFunc("POST /api/users", s.handleCreateUser)
	s.mux.HandleFunc("GET /api/users", s.handleListUsers)
	s.mux.HandleFunc("GET /api/users/{id}", s.handleGetUser)
	s.mux.HandleFunc("PUT /api/users/{id}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /api/users/{id}", s.handleDeleteUser)
	s.mux.HandleFunc("POST /api/users/login", s.handleLogin)

	// Realtime
	if s.socket != nil {
		s.mux.Handle("GET /api/socket", s.socket)
	}

	// Docs
	s.mux.HandleFunc("GET /api/docs", handleSwaggerUI)
	s.mux.HandleFunc("GET /api/docs/openapi.yaml", handleOpenAPISpec)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Handler returns the API wrapped in the request id, logging and CORS
// middleware.
func (s *Server) Handler() http.Handler {
	return withRequestID(s.log, withLogging(withCORS(s.origins, s)))
}

// HTTPServer returns an http.Server for addr serving Handler.
func (s *Server) HTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.Ping(r.Context()); err != nil {
		writeErr(w, r, http.StatusServiceUnavailable, fmt.Errorf("database: %w", err))
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := s.catalog.ListProgramTypes(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(types))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := s.catalog.ListCategories(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, nonNil(cats))
}

// --- helpers ---

// APIError is the standard error envelope for all error responses.
type APIError struct {
	Status int    `json:"status"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// errBadRequest marks malformed path parameters and request bodies.
var errBadRequest = errors.New("bad request")

// listResponse is the envelope of filtered list endpoints.
type listResponse struct {
	Data map[string]any `json:"data"`
	Meta listMeta       `json:"meta"`
}

type listMeta struct {
	TotalRowCount int `json:"totalRowCount"`
}

func newListResponse(entity string, rows any, total int) listResponse {
	return listResponse{
		Data: map[string]any{entity: rows},
		Meta: listMeta{TotalRowCount: total},
	}
}

// parseID extracts a path parameter by name and parses it as int64.
func parseID(r *http.Request, param string) (int64, error) {
	v := r.PathValue(param)
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid %s: %s", errBadRequest, param, v)
	}
	return id, nil
}

// parseList reads the list query parameters.
func parseList(r *http.Request) (query.Request, error) {
	return query.ParseRequest(r.URL.Query())
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadRequest, err)
	}
	return nil
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, service.ErrValidation),
		errors.Is(err, query.ErrMalformed),
		errors.Is(err, query.ErrUnknownField):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, store.ErrConflict), errors.Is(err, store.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, store.ErrInvalidReference):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with the status it maps to.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	writeErr(w, r, statusFor(err), err)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("writeJSON")
	}
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeErr writes the APIError envelope. Server errors are logged and their
// detail is not sent to the client.
func writeErr(w http.ResponseWriter, r *http.Request, status int, err error) {
	detail := err.Error()
	if status >= 500 {
		zerolog.Ctx(r.Context()).Error().Err(err).Int("status", status).Msg("request failed")
		detail = ""
	}
	writeJSON(w, r, status, APIError{
		Status: status,
		Error:  http.StatusText(status),
		Detail: detail,
	})
}

// --- docs handlers ---

func handleOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(api.OpenAPISpec)
}

func handleSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, swaggerUIHTML)
}

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>TV Guide API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
  <style>html{box-sizing:border-box;overflow-y:scroll}*,*:before,*:after{box-sizing:inherit}body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({
      url: "/api/docs/openapi.yaml",
      dom_id: "#swagger-ui",
      presets: [SwaggerUIBundle.presets.apis, SwaggerUIBundle.SwaggerUIStandalonePreset],
      layout: "BaseLayout",
    });
  </script>
</body>
</html>`
