package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"

	"discogsapi/logger"
	"discogsapi/model"
	"discogsapi/repository"

	"github.com/gorilla/mux"
)

// PageSize is the fixed number of tracks returned per listing page.
const PageSize = 10

const maxBodyBytes = 1 << 20

// TrackHandler serves the track resource.
type TrackHandler struct {
	repo repository.TrackRepository
}

// NewTrackHandler creates a TrackHandler backed by repo.
func NewTrackHandler(repo repository.TrackRepository) *TrackHandler {
	return &TrackHandler{repo: repo}
}

// fieldValue converts one raw JSON field to its stored text. Keys are matched
// exactly by the caller. Falsy values (null, false, zero and "") count as
// absent, true and other numbers are kept in their literal form.
func fieldValue(raw json.RawMessage) (string, error) {
	var v interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return val, nil
	case bool:
		if !val {
			return "", nil
		}
		return "true", nil
	case json.Number:
		if f, err := strconv.ParseFloat(val.String(), 64); err == nil && f == 0 {
			return "", nil
		}
		return val.String(), nil
	default:
		return "", fmt.Errorf("expected a string or a number, got %s", raw)
	}
}

// trackFieldKeys lists the body keys in the order they are validated.
var trackFieldKeys = [...]string{"title", "artist", "album", "year", "genre"}

func payloadFields(body map[string]json.RawMessage) (model.TrackFields, error) {
	var values [len(trackFieldKeys)]string
	for i, key := range trackFieldKeys {
		raw, ok := body[key]
		if !ok {
			continue
		}
		v, err := fieldValue(raw)
		if err != nil {
			return model.TrackFields{}, fmt.Errorf("field %s: %w", key, err)
		}
		values[i] = v
	}
	return model.TrackFields{
		Title:  values[0],
		Artist: values[1],
		Album:  values[2],
		Year:   values[3],
		Genre:  values[4],
	}, nil
}

const badBodyMessage = "Request body must be a JSON object."

var errBadBody = errors.New("malformed track payload")

// decodeTrackFields reads the request body as a JSON object or, for HTML
// forms, as urlencoded values. An empty body yields empty fields so that
// validation reports the first missing field.
func decodeTrackFields(w http.ResponseWriter, r *http.Request) (model.TrackFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return model.TrackFields{}, errBadBody
		}
		return model.TrackFields{
			Title:  r.PostForm.Get("title"),
			Artist: r.PostForm.Get("artist"),
			Album:  r.PostForm.Get("album"),
			Year:   r.PostForm.Get("year"),
			Genre:  r.PostForm.Get("genre"),
		}, nil
	}

	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return model.TrackFields{}, nil
		}
		logger.Debug("rejected track payload", logger.ErrorField(err))
		return model.TrackFields{}, errBadBody
	}
	fields, err := payloadFields(body)
	if err != nil {
		logger.Debug("rejected track payload", logger.ErrorField(err))
		return model.TrackFields{}, errBadBody
	}
	return fields, nil
}

// readValidFields decodes and validates a create/update payload. It writes the
// 400 response itself and returns false when the payload is unusable.
func readValidFields(w http.ResponseWriter, r *http.Request) (model.TrackFields, bool) {
	fields, err := decodeTrackFields(w, r)
	if err != nil {
		writeValidationError(w, badBodyMessage)
		return fields, false
	}
	if missing := fields.MissingField(); missing != "" {
		writeValidationError(w, missing+" is a required field.")
		return fields, false
	}
	return fields, true
}

// parsePage returns the 1-indexed page from the query, defaulting to 1.
func parsePage(raw string) (int, error) {
	if raw == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 0, fmt.Errorf("invalid page %q", raw)
	}
	return page, nil
}

// pageOffset returns the row offset of page. It reports false when the offset
// does not fit in an int, in which case the page lies past any stored data.
func pageOffset(page int) (int, bool) {
	if page-1 > math.MaxInt/PageSize {
		return 0, false
	}
	return (page - 1) * PageSize, true
}

// CreateTrack handles POST /tracks.
func (h *TrackHandler) CreateTrack(w http.ResponseWriter, r *http.Request) {
	fields, ok := readValidFields(w, r)
	if !ok {
		return
	}

	track, err := h.repo.CreateTrack(r.Context(), fields)
	if err != nil {
		logger.Error("failed to create track", logger.ErrorField(err))
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("track created", logger.String("id", track.ID), logger.String("title", track.Title))
	writeJSON(w, http.StatusCreated, track)
}

// ListTracks handles GET /tracks?year=&genre=&artist=&page=.
func (h *TrackHandler) ListTracks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := parsePage(query.Get("page"))
	if err != nil {
		writeValidationError(w, "Page must be a positive integer.")
		return
	}

	filter := repository.TrackFilter{
		Year:   query.Get("year"),
		Genre:  query.Get("genre"),
		Artist: query.Get("artist"),
	}

	offset, ok := pageOffset(page)
	if !ok {
		writeJSON(w, http.StatusOK, []*model.Track{})
		return
	}

	tracks, err := h.repo.ListTracks(r.Context(), filter, offset, PageSize)
	if err != nil {
		logger.Error("failed to list tracks", logger.Int("page", page), logger.ErrorField(err))
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, tracks)
}

// GetTrack handles GET /tracks/{id}.
func (h *TrackHandler) GetTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	track, err := h.repo.GetTrackByID(r.Context(), id)
	if err != nil {
		h.writeLookupError(w, "get", id, err)
		return
	}

	writeJSON(w, http.StatusOK, track)
}

// UpdateTrack handles PUT /tracks/{id}. Every field is replaced.
func (h *TrackHandler) UpdateTrack(w http.ResponseWriter, r *http.Request) {
	fields, ok := readValidFields(w, r)
	if !ok {
		return
	}

	id := mux.Vars(r)["id"]
	track, err := h.repo.UpdateTrack(r.Context(), id, fields)
	if err != nil {
		h.writeLookupError(w, "update", id, err)
		return
	}

	logger.Info("track updated", logger.String("id", track.ID))
	writeJSON(w, http.StatusOK, track)
}

// DeleteTrack handles DELETE /tracks/{id}. It succeeds whether or not the
// track existed.
func (h *TrackHandler) DeleteTrack(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.repo.DeleteTrack(r.Context(), id); err != nil {
		logger.Error("failed to delete track", logger.String("id", id), logger.ErrorField(err))
		writeMessage(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger.Info("track deleted", logger.String("id", id))
	writeJSON(w, http.StatusOK, map[string]string{"success": "true"})
}

// writeLookupError maps a repository error for a single-track operation to a response.
func (h *TrackHandler) writeLookupError(w http.ResponseWriter, op, id string, err error) {
	if errors.Is(err, repository.ErrTrackNotFound) {
		logger.Debug("track not found", logger.String("op", op), logger.String("id", id))
		writeMessage(w, http.StatusNotFound, "Track not found")
		return
	}
	logger.Error("track lookup failed", logger.String("op", op), logger.String("id", id), logger.ErrorField(err))
	writeMessage(w, http.StatusInternalServerError, err.Error())
}
