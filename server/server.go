package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/etlabapp/gateway/internal/config"
	"github.com/etlabapp/gateway/sessions"
	"github.com/etlabapp/gateway/token"
)

// Upstream is the portal client surface the handlers depend on. The
// concrete implementation lives in the etlab package.
type Upstream interface {
	Authenticate(ctx context.Context, username, password string) (string, error)
	Get(ctx context.Context, username, path string) ([]byte, error)
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	config   config.Config
	codec    *token.Codec
	sessions sessions.Repo
	upstream Upstream
	log      zerolog.Logger
}

func New(config config.Config, codec *token.Codec, repo sessions.Repo, upstream Upstream, logger zerolog.Logger) *Server {
	s := &Server{
		mux:      http.NewServeMux(),
		config:   config,
		codec:    codec,
		sessions: repo,
		upstream: upstream,
		log:      logger,
	}
	s.env = config.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}
