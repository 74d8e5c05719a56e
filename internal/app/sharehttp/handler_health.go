package sharehttp

import (
	"net/http"
)

// healthStats — payload ответа /health.
type healthStats struct {
	OK          bool  `json:"ok"`
	SharedFiles int   `json:"shared_files"`
	TotalBytes  int64 `json:"total_bytes"`
}

// health возвращает агрегированную статистику по реестру.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	var total int64
	files := s.Registry.List()
	for _, f := range files {
		total += f.Size
	}

	// Сложных метрик у сервера нет, отдаём только количество и суммарный объём.
	writeJSON(w, healthStats{
		OK:          true,
		SharedFiles: len(files),
		TotalBytes:  total,
	})
}
