package httperrors

import (
	"errors"
	"net/http"

	"github.com/yourname/lanshare/internal/models"
)

// Write транслирует доменные ошибки в HTTP-статусы. Диагностика уходит клиенту
// одной строкой, без стеков.
func Write(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, models.ErrMalformedRequest):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrMissingUploadParts):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrIncompleteUpload):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, models.ErrRangeNotSatisfiable):
		// Тело не отправляем: клиенту достаточно статуса, чтобы сбросить окно.
		w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
