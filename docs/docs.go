// Package docs serves the OpenAPI description of the tracks API and a
// Swagger UI page that renders it.
package docs

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"

	"gopkg.in/yaml.v3"
)

//go:embed openapi.yaml
var openAPIYAML []byte

// Document is the parsed OpenAPI document with deployment-specific values applied.
type Document struct {
	spec map[string]interface{}
	json []byte
}

// Load parses the embedded document and points its server list at serverURL.
func Load(serverURL string) (*Document, error) {
	var spec map[string]interface{}
	if err := yaml.Unmarshal(openAPIYAML, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI document: %w", err)
	}
	if serverURL != "" {
		spec["servers"] = []interface{}{
			map[string]interface{}{"url": serverURL},
		}
	}

	encoded, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("failed to encode OpenAPI document: %w", err)
	}
	return &Document{spec: spec, json: encoded}, nil
}

// ServerURL returns the first server URL in the document, or "".
func (d *Document) ServerURL() string {
	servers, _ := d.spec["servers"].([]interface{})
	if len(servers) == 0 {
		return ""
	}
	first, _ := servers[0].(map[string]interface{})
	url, _ := first["url"].(string)
	return url
}

// JSONHandler serves the document as JSON.
func (d *Document) JSONHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(d.json)
	})
}

// YAMLHandler serves the document as it was embedded, without server overrides.
func (d *Document) YAMLHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(openAPIYAML)
	})
}

var uiTemplate = template.Must(template.New("swagger").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <title>{{.Title}}</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js" crossorigin></script>
  <script>
    window.onload = function () {
      window.ui = SwaggerUIBundle({ url: {{.SpecURL}}, dom_id: '#swagger-ui' });
    };
  </script>
</body>
</html>
`))

// UIHandler serves a Swagger UI page that loads the document from specURL.
func (d *Document) UIHandler(specURL string) http.Handler {
	info, _ := d.spec["info"].(map[string]interface{})
	title, _ := info["title"].(string)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err := uiTemplate.Execute(w, struct {
			Title   string
			SpecURL string
		}{Title: title, SpecURL: specURL})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
