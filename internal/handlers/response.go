// Package handlers implements the JSON HTTP API.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-reminders/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(models.APIResponse{Success: true, Data: data}); err != nil {
		log.WithError(err).Error("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(models.APIResponse{Success: false, Error: msg})
}

// internalError logs err and answers 500 with msg.
func internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log.WithError(err).WithFields(log.Fields{"method": r.Method, "path": r.URL.Path}).Error(msg)
	writeError(w, http.StatusInternalServerError, msg)
}

// decodeJSON reads the request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return false
	}
	return true
}

// pathID parses the {name} path value as an ObjectID. Malformed ids cannot
// match any document, so they answer 404 with notFound.
func pathID(w http.ResponseWriter, r *http.Request, name, notFound string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(r.PathValue(name))
	if err != nil {
		writeError(w, http.StatusNotFound, notFound)
		return primitive.NilObjectID, false
	}
	return id, true
}

// queryID parses an optional ObjectID query parameter. ok is false when the
// parameter is present but malformed.
func queryID(r *http.Request, name string) (id *primitive.ObjectID, ok bool) {
	return queryIDValue(r.URL.Query().Get(name))
}

// queryIDValue parses an optional hex id; empty means no filter.
func queryIDValue(v string) (*primitive.ObjectID, bool) {
	if v == "" {
		return nil, true
	}
	oid, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		return nil, false
	}
	return &oid, true
}

// NotFound answers unknown routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found - "+r.URL.RequestURI())
}
