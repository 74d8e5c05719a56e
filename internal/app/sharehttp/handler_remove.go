package sharehttp

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yourname/lanshare/pkg/httperrors"
)

// removeFile удаляет запись из реестра. Файл на диске не трогаем: он мог быть
// зарегистрирован поверх чужого каталога.
func (s *Server) removeFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := s.Registry.Delete(id); err != nil {
		httperrors.Write(w, err)
		return
	}

	s.Log.WithField("file_id", id).Info("file removed")
	writeJSON(w, statusResponse{Status: "success", Message: "File removed successfully"})
}
