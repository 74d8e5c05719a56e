package sharehttp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/yourname/lanshare/internal/models"
	"github.com/yourname/lanshare/pkg/httperrors"
)

// registerRequest — метаданные файла, который хост раздаёт без загрузки байтов.
type registerRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Size int64  `json:"size"`
	Type string `json:"type"`
}

// registerFile публикует метаданные файла, байты которого уже лежат в каталоге
// загрузок. Сам перенос байтов этот эндпоинт не выполняет.
func (s *Server) registerFile(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.Write(w, fmt.Errorf("invalid json: %w", models.ErrMalformedRequest))
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Size < 0 {
		httperrors.Write(w, fmt.Errorf("name and non-negative size are required: %w", models.ErrMalformedRequest))
		return
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	if req.Type == "" {
		req.Type = "application/octet-stream"
	}

	name := filepath.Base(req.Name)
	s.Registry.Put(models.FileRecord{
		ID:          req.ID,
		Name:        name,
		Size:        req.Size,
		MimeType:    req.Type,
		StoragePath: filepath.Join(s.Cfg.UploadDir, req.ID+"_"+name),
	})

	s.Log.WithField("file_id", req.ID).WithField("name", name).Info("file registered")
	writeJSON(w, statusResponse{Status: "success", Message: "File registered successfully"})
}
