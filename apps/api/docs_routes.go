package main

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>{{.Title}}</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
    <style>body{margin:0}</style>
  </head>
  <body>
    <div id="swagger-ui" data-spec="{{.SpecURL}}"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: document.getElementById('swagger-ui').dataset.spec,
        dom_id: '#swagger-ui',
        deepLinking: true,
        persistAuthorization: true
      });
    </script>
  </body>
</html>`))

// registerDocsRoutes serves the contract as JSON under /openapi/<name>.json and a Swagger UI at /docs.
func registerDocsRoutes(router chi.Router, name string, spec *openapi3.T, logger *zap.Logger) {
	specURL := "/openapi/" + name + ".json"

	var page bytes.Buffer
	if err := docsPage.Execute(&page, struct{ Title, SpecURL string }{spec.Info.Title, specURL}); err != nil {
		logger.Error("render docs page", zap.Error(err))
	}

	router.Get("/docs", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page.Bytes())
	})

	router.Get(specURL, func(w http.ResponseWriter, _ *http.Request) {
		body, err := spec.MarshalJSON()
		if err != nil {
			logger.Error("marshal openapi json", zap.String("name", name), zap.Error(err))
			http.Error(w, "failed to marshal OpenAPI", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	})
}
