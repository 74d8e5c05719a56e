package sharehttp

import (
	"fmt"
	"net/http"

	"github.com/yourname/lanshare/internal/models"
	"github.com/yourname/lanshare/pkg/httperrors"
)

// uploadFile принимает multipart-загрузку и полностью делегирует её сервису
// передачи. Тело не буферизуется: байты уходят в temp-файл по мере чтения.
func (s *Server) uploadFile(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength < 0 {
		httperrors.Write(w, fmt.Errorf("missing Content-Length header: %w", models.ErrMalformedRequest))
		return
	}

	res, err := s.Transfer.Upload(r.Context(), r.Body, r.ContentLength, r.Header.Get("Content-Type"))
	if err != nil {
		s.Log.WithError(err).Warn("upload failed")
		httperrors.Write(w, err)
		return
	}

	writeJSON(w, statusResponse{
		Status:  "success",
		Message: fmt.Sprintf("File uploaded successfully: %s", res.Name),
	})
}
