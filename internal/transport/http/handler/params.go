package handler

import (
	"net/http"
	"strconv"

	"github.com/dogli-api/internal/pkg/id"
	"github.com/go-chi/chi/v5"
)

// pathID reads a ULID path parameter, answering 400 when it is malformed.
func pathID(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	v := chi.URLParam(r, name)
	if !id.Valid(v) {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return "", false
	}
	return v, true
}

// queryFloat parses a required float query parameter.
func queryFloat(w http.ResponseWriter, r *http.Request, name string) (float64, bool) {
	f, err := strconv.ParseFloat(r.URL.Query().Get(name), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return f, true
}
