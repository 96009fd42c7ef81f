// ABOUTME: HTTP routing for the gateway: health check, CORS, the authorization gate and /mcp
// ABOUTME: Authenticated requests to unknown paths get an informational JSON document

package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// mcpPath is where the MCP Streamable HTTP endpoint is mounted.
const mcpPath = "/mcp"

type endpointInfo struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

type indexResponse struct {
	Message   string         `json:"message"`
	Endpoints []endpointInfo `json:"endpoints"`
}

var indexBody = mustJSON(indexResponse{
	Message: "Calorie Tracker API",
	Endpoints: []endpointInfo{
		{Path: mcpPath, Description: "MCP endpoint"},
	},
})

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func (g *Gateway) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(g.logRequests)

	if origins := g.config.Server.AllowedOrigins; len(origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Authorization", "Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"},
			ExposedHeaders: []string{"Mcp-Session-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", g.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(g.authenticator.Middleware)
		r.Handle(mcpPath, g.mcpServer)
		r.NotFound(g.handleIndex)
		r.MethodNotAllowed(g.handleIndex)
	})

	return r
}

// logRequests logs each request at debug level once it completes.
func (g *Gateway) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		g.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (g *Gateway) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (g *Gateway) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(indexBody)
}
