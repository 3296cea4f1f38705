package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/dogli-api/internal/application/image"
)

const maxImageBytes = 10 << 20

// uploadImage stores the multipart "file" field under kind/ownerID and
// returns its public URL.
func uploadImage(w http.ResponseWriter, r *http.Request, images image.Service, kind image.Kind, ownerID string) (string, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageBytes)
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return "", false
	}
	f, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return "", false
	}
	defer f.Close()

	url, err := images.Upload(r.Context(), image.UploadInput{
		Kind:        kind,
		OwnerID:     ownerID,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Reader:      f,
	})
	if err != nil {
		httpError(w, err)
		return "", false
	}
	return url, true
}

// discardImage removes an image that is no longer referenced. Failures only
// leave an orphaned object behind, so they are logged.
func discardImage(ctx context.Context, images image.Service, url string) {
	if url == "" {
		return
	}
	if err := images.Remove(ctx, url); err != nil {
		slog.Warn("remove image failed", "url", url, "err", err)
	}
}
