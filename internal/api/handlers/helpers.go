package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"robot-route-service/internal/ports"
	"robot-route-service/internal/services"
	"strconv"

	"github.com/sirupsen/logrus"
)

// writeJSON encodes before writing the status so an unencodable value
// turns into a 500 instead of an empty success response.
func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
			"err":    err,
		}).Error("encode failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeServiceError maps service errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, ports.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, services.ErrInvalidRoute):
		writeError(w, r, http.StatusBadRequest, "route must look like \"x1,y1 -> x2,y2\"")
	default:
		logrus.WithFields(logrus.Fields{"op": op, "err": err}).Error("request failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func robotIDFromPath(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
