package sharehttp

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/yourname/lanshare/pkg/httperrors"
)

// downloadFile отдаёт содержимое файла, поддерживая Range-запросы для докачки.
func (s *Server) downloadFile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	plan, err := s.Transfer.PlanDownload(id, r.Header.Get("Range"), r.Header.Get("User-Agent"), s.agentPolicy)
	if err != nil {
		httperrors.Write(w, err)
		return
	}

	h := w.Header()
	h.Set("Content-Type", plan.ContentType)
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", plan.Record.Name))
	h.Set("Content-Length", strconv.FormatInt(plan.Spec.Length(), 10))
	h.Set("Accept-Ranges", "bytes")
	h.Set("Access-Control-Expose-Headers", "Content-Length, Content-Range, Accept-Ranges")
	// Мобильные браузеры охотно кэшируют скачивания, ломая докачку.
	h.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")

	status := http.StatusOK
	if plan.Partial {
		h.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", plan.Spec.Start, plan.Spec.End, plan.Size))
		status = http.StatusPartialContent
	}
	w.WriteHeader(status)

	// Дальше любые ошибки — уже посреди тела ответа; остаётся лог.
	if err := s.Transfer.StreamFile(r.Context(), w, plan); err != nil {
		s.Log.WithError(err).Error("download stream failed")
	}
}
