package docs

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_OverridesServerURL(t *testing.T) {
	doc, err := Load("https://tracks.example.com/api")
	require.NoError(t, err)
	assert.Equal(t, "https://tracks.example.com/api", doc.ServerURL())

	rec := httptest.NewRecorder()
	doc.JSONHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "3.0.0", body["openapi"])
	servers := body["servers"].([]interface{})
	assert.Equal(t, "https://tracks.example.com/api", servers[0].(map[string]interface{})["url"])

	paths := body["paths"].(map[string]interface{})
	assert.Contains(t, paths, "/tracks")
	assert.Contains(t, paths, "/tracks/{_id}")
}

func TestLoad_KeepsEmbeddedServerWhenEmpty(t *testing.T) {
	doc, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/api", doc.ServerURL())
}

func TestHandlers(t *testing.T) {
	doc, err := Load("")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	doc.YAMLHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/openapi.yaml", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "openapi: 3.0.0")

	rec = httptest.NewRecorder()
	doc.UIHandler("/docs/openapi.json").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<title>Discogs API</title>")
	assert.Contains(t, rec.Body.String(), "openapi.json")
}
