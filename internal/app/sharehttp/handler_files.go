package sharehttp

import (
	"encoding/json"
	"net/http"

	"github.com/yourname/lanshare/internal/models"
)

// filesResponse — конверт списка файлов.
type filesResponse struct {
	Files []models.FileRecord `json:"files"`
}

// statusResponse — общий конверт для ответов без полезной нагрузки.
type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// listFiles возвращает все опубликованные файлы. Пагинации нет: реестр
// рассчитан на LAN-масштаб.
func (s *Server) listFiles(w http.ResponseWriter, _ *http.Request) {
	files := s.Registry.List()
	if files == nil {
		files = []models.FileRecord{}
	}
	writeJSON(w, filesResponse{Files: files})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}
