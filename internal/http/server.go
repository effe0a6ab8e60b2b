package httpapp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alphabot-ai/murmur/internal/accounts"
	"github.com/alphabot-ai/murmur/internal/apperr"
	"github.com/alphabot-ai/murmur/internal/auth"
	"github.com/alphabot-ai/murmur/internal/config"
	"github.com/alphabot-ai/murmur/internal/content"
	"github.com/alphabot-ai/murmur/internal/graph"
	"github.com/alphabot-ai/murmur/internal/logging"
	"github.com/alphabot-ai/murmur/internal/rate"

	_ "github.com/alphabot-ai/murmur/docs" // swagger docs

	httpSwagger "github.com/swaggo/http-swagger"
	"github.com/swaggo/swag"
)

const maxBodyBytes = 1 << 20

// Services are the engines the server exposes.
type Services struct {
	Auth     *auth.Service
	Accounts *accounts.Service
	Graph    *graph.Service
	Content  *content.Service
}

type Server struct {
	auth     *auth.Service
	accounts *accounts.Service
	graph    *graph.Service
	content  *content.Service
	limiter  rate.Limiter
	cfg      config.Config
	log      logging.Logger
}

func NewServer(svc Services, limiter rate.Limiter, cfg config.Config, log logging.Logger) *Server {
	return &Server{
		auth:     svc.Auth,
		accounts: svc.Accounts,
		graph:    svc.Graph,
		content:  svc.Content,
		limiter:  limiter,
		cfg:      cfg,
		log:      log,
	}
}

// Handler returns the server wrapped in request logging.
func (s *Server) Handler() http.Handler {
	return withRequestLog(s.log, s)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	case path == "/healthz":
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
	case path == "/api/openapi.json":
		s.serveOpenAPIJSON(w, r)
	case strings.HasPrefix(path, "/swagger/"):
		httpSwagger.WrapHandler.ServeHTTP(w, r)
	case strings.HasPrefix(path, "/api/"):
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		}
		s.handleAPI(w, r)
	default:
		notFound(w)
	}
}

func (s *Server) handleAPI(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api")
	segments := splitPath(path)

	switch {
	case len(segments) == 1 && segments[0] == "signup":
		if r.Method == http.MethodPost {
			s.handleSignup(w, r)
			return
		}
	case len(segments) == 1 && segments[0] == "login":
		if r.Method == http.MethodPost {
			s.handleLogin(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "auth" && segments[1] == "challenge":
		if r.Method == http.MethodPost {
			s.handleAuthChallenge(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "auth" && segments[1] == "verify":
		if r.Method == http.MethodPost {
			s.handleAuthVerify(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "users" && segments[1] == "me":
		if r.Method == http.MethodGet {
			s.handleMe(w, r)
			return
		}
	case len(segments) == 3 && segments[0] == "users" && segments[1] == "me" && segments[2] == "keys":
		if r.Method == http.MethodPost {
			s.handleAddKey(w, r)
			return
		}
	case len(segments) == 4 && segments[0] == "users" && segments[1] == "me" && segments[2] == "keys":
		if r.Method == http.MethodDelete {
			s.handleRevokeKey(w, r, segments[3])
			return
		}
	case len(segments) == 3 && segments[0] == "users" && segments[1] == "me" && segments[2] == "follow-requests":
		if r.Method == http.MethodGet {
			s.handleFollowRequests(w, r)
			return
		}
	case len(segments) == 3 && segments[0] == "users" && isGraphAction(segments[1]):
		if r.Method == http.MethodPost {
			s.handleGraphAction(w, r, segments[1], segments[2])
			return
		}
	case len(segments) == 3 && segments[0] == "users" && segments[2] == "followers":
		if r.Method == http.MethodGet {
			s.handleFollowers(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "users" && segments[2] == "relationship":
		if r.Method == http.MethodGet {
			s.handleRelationship(w, r, segments[1])
			return
		}
	case len(segments) == 4 && segments[0] == "admin" && segments[1] == "users" && segments[3] == "role":
		if r.Method == http.MethodPost {
			s.handleSetRole(w, r, segments[2])
			return
		}
	case len(segments) == 1 && segments[0] == "posts":
		if r.Method == http.MethodGet {
			s.handleListPosts(w, r)
			return
		}
		if r.Method == http.MethodPost {
			s.handleCreatePost(w, r)
			return
		}
	case len(segments) == 2 && segments[0] == "posts":
		switch r.Method {
		case http.MethodGet:
			s.handleGetPost(w, r, segments[1])
			return
		case http.MethodPut:
			s.handleEditPost(w, r, segments[1])
			return
		case http.MethodDelete:
			s.handleDeletePost(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "posts" && segments[2] == "like":
		if r.Method == http.MethodPost {
			s.handleToggleLike(w, r, segments[1])
			return
		}
	case len(segments) == 3 && segments[0] == "posts" && segments[2] == "comments":
		if r.Method == http.MethodPost {
			s.handleAddComment(w, r, segments[1])
			return
		}
	case len(segments) == 4 && segments[0] == "posts" && segments[2] == "comments":
		if r.Method == http.MethodDelete {
			s.handleDeleteComment(w, r, segments[1], segments[3])
			return
		}
	case len(segments) == 5 && segments[0] == "posts" && segments[2] == "comments" && segments[4] == "reply":
		if r.Method == http.MethodPost {
			s.handleReply(w, r, segments[1], segments[3])
			return
		}
	default:
		notFound(w)
		return
	}

	methodNotAllowed(w)
}

func (s *Server) serveOpenAPIJSON(w http.ResponseWriter, r *http.Request) {
	doc, err := swag.ReadDoc()
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	_, _ = w.Write([]byte(doc))
}

func (s *Server) allowRateLimit(w http.ResponseWriter, r *http.Request, action string, limit int, email string) bool {
	if limit <= 0 || s.limiter == nil {
		return true
	}
	ipKey := fmt.Sprintf("%s:ip:%s", action, clientIP(r))
	if ok, retry := s.limiter.Allow(ipKey, limit, time.Minute); !ok {
		writeRateLimit(w, retry)
		return false
	}
	if email != "" {
		userKey := fmt.Sprintf("%s:user:%s", action, email)
		if ok, retry := s.limiter.Allow(userKey, limit, time.Minute); !ok {
			writeRateLimit(w, retry)
			return false
		}
	}
	return true
}

// requireAuth resolves the caller from the bearer claim or writes a 401.
func (s *Server) requireAuth(w http.ResponseWriter, r *http.Request) (auth.Identity, bool) {
	authHeader := r.Header.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		writeError(w, http.StatusUnauthorized, auth.ErrMissingToken)
		return auth.Identity{}, false
	}
	id, err := s.auth.Authenticate(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		writeError(w, http.StatusUnauthorized, err)
		return auth.Identity{}, false
	}
	return id, true
}

// writeAppError maps an engine error onto a status code. Anything outside
// the error taxonomy is logged and reported as a 500 without detail.
func (s *Server) writeAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, errors.New("internal server error"))
		return
	}
	writeError(w, status, err)
}

func statusFor(err error) int {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}
	switch apperr.Kind(err) {
	case apperr.ErrUnauthenticated:
		return http.StatusUnauthorized
	case apperr.ErrForbidden:
		return http.StatusForbidden
	case apperr.ErrNotFound:
		return http.StatusNotFound
	case apperr.ErrConflict:
		return http.StatusConflict
	case apperr.ErrInvalidInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func readJSON(body io.ReadCloser, dest any) error {
	defer body.Close()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return apperr.Invalid(fmt.Sprintf("invalid JSON body: %v", err))
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func writeRateLimit(w http.ResponseWriter, retry time.Duration) {
	seconds := int((retry + time.Second - 1) / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	w.Header().Set("Retry-After", strconv.Itoa(seconds))
	writeJSON(w, http.StatusTooManyRequests, map[string]any{
		"error":       "rate limit exceeded",
		"retry_after": seconds,
	})
}

func notFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, errors.New("not found"))
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
}

func parseID(value, what string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Invalid("invalid " + what + " id")
	}
	return id, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
