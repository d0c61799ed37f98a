package server

import (
	"net/http"

	"discogsapi/core/auth"
	"discogsapi/docs"
	"discogsapi/repository"

	"github.com/gorilla/mux"
)

// RouterDeps collects everything the HTTP surface needs.
type RouterDeps struct {
	Tracks       repository.TrackRepository
	Validator    auth.CredentialValidator
	Docs         *docs.Document
	Health       map[string]Pinger
	PublicTracks bool // also mount the track routes at /tracks without auth
}

func registerTrackRoutes(r *mux.Router, h *TrackHandler) {
	for _, collection := range []string{"", "/"} {
		r.HandleFunc(collection, h.ListTracks).Methods(http.MethodGet)
		r.HandleFunc(collection, h.CreateTrack).Methods(http.MethodPost)
	}
	r.HandleFunc("/{id}", h.GetTrack).Methods(http.MethodGet)
	r.HandleFunc("/{id}", h.UpdateTrack).Methods(http.MethodPut)
	r.HandleFunc("/{id}", h.DeleteTrack).Methods(http.MethodDelete)
}

// NewRouter builds the complete HTTP handler including the global middleware.
func NewRouter(deps RouterDeps) http.Handler {
	router := mux.NewRouter()
	tracks := NewTrackHandler(deps.Tracks)

	// legacy endpoint
	legacy := router.PathPrefix("/api/tracks").Subrouter()
	legacy.Use(BasicAuth(deps.Validator))
	registerTrackRoutes(legacy, tracks)

	if deps.PublicTracks {
		registerTrackRoutes(router.PathPrefix("/tracks").Subrouter(), tracks)
	}

	if deps.Docs != nil {
		router.Handle("/docs", deps.Docs.UIHandler("/docs/openapi.json")).Methods(http.MethodGet)
		router.Handle("/docs/", deps.Docs.UIHandler("/docs/openapi.json")).Methods(http.MethodGet)
		router.Handle("/docs/openapi.json", deps.Docs.JSONHandler()).Methods(http.MethodGet)
		router.Handle("/docs/openapi.yaml", deps.Docs.YAMLHandler()).Methods(http.MethodGet)
	}

	router.HandleFunc("/healthz", HealthHandler(deps.Health)).Methods(http.MethodGet)
	router.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"title": "Discogs API", "docs": "/docs"})
	}).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	return RequestLogger(Recovery(CORS(router)))
}
