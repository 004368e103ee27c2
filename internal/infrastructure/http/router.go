package httpserver

import (
	"net/http"
	"os"

	"fxconvert-service/internal/infrastructure/http/openapi"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// apiDocPaths are tried in order when serving /openapi.yaml.
var apiDocPaths = []string{"api/openapi.yaml", "/usr/local/share/fxconvert/openapi.yaml"}

func NewRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(requestScope, recoverJSON, accessLog)

	r.Get("/healthz", s.liveness)
	r.Get("/readyz", s.readiness)
	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	r.Get("/openapi.yaml", serveAPIDoc)
	r.Get("/swagger", serveSwaggerUI)

	openapi.HandlerWithOptions(s, openapi.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			writeError(w, http.StatusBadRequest, err.Error())
		},
	})
	return r
}

func (s *Server) liveness(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "OK")
}

// readiness reports whether the ledger store still answers. The durable tiers
// are optional, so a service without one is ready.
func (s *Server) readiness(w http.ResponseWriter, r *http.Request) {
	if s.ping != nil {
		if err := s.ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "ledger store not ready")
			return
		}
	}
	writeText(w, http.StatusOK, "READY")
}

func serveAPIDoc(w http.ResponseWriter, _ *http.Request) {
	for _, p := range apiDocPaths {
		data, err := os.ReadFile(p)
		if err != nil {
			continue
		}
		w.Header().Set("Content-Type", "application/yaml")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}
	writeError(w, http.StatusNotFound, "api document not found")
}

func serveSwaggerUI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(swaggerPage))
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

const swaggerPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <title>fxconvert-service</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
    window.onload = () => SwaggerUIBundle({ url: "/openapi.yaml", dom_id: "#swagger-ui" });
  </script>
</body>
</html>`
