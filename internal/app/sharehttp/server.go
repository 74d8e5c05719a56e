package sharehttp

import (
	"fmt"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"github.com/yourname/lanshare/internal/config"
	"github.com/yourname/lanshare/internal/registry"
	"github.com/yourname/lanshare/internal/usecase/transfersvc"
	"github.com/yourname/lanshare/pkg/netinfo"
)

// Server обслуживает Share API поверх реестра и сервиса передачи.
type Server struct {
	Transfer *transfersvc.Service
	Registry registry.Store
	Cfg      *config.Config
	Log      *logrus.Logger

	agentPolicy transfersvc.AgentPolicy
	port        int
}

// NewServer собирает зависимости и возвращает готовый HTTP-обработчик.
// port — фактически занятый порт, он попадает в /api/network-info.
func NewServer(cfg *config.Config, port int, log *logrus.Logger) (http.Handler, *Server, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create upload dir: %w", err)
	}

	store := registry.NewMemory()
	transfer := transfersvc.New(transfersvc.Deps{
		Registry:  store,
		UploadDir: cfg.UploadDir,
		ChunkSize: cfg.ChunkSizeKB * 1024,
		Log:       log,
	})

	srv := &Server{
		Transfer:    transfer,
		Registry:    store,
		Cfg:         cfg,
		Log:         log,
		agentPolicy: transfersvc.MobileAgentPolicy(cfg.MobileAgents),
		port:        port,
	}

	return srv.routes(), srv, nil
}

// routes регистрирует обработчики Share API.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(crossOrigin)

	r.Get("/api/files", s.listFiles)
	r.Post("/api/upload", s.uploadFile)
	r.Post("/api/register-file", s.registerFile)
	r.Delete("/api/remove-file/{id}", s.removeFile)
	r.Get("/api/download/{id}", s.downloadFile)
	r.Get("/api/network-info", s.networkInfo)
	r.Get("/health", s.health)

	return r
}

// AdvertisedURL возвращает адрес, по которому сервер доступен другим
// устройствам в сети.
func (s *Server) AdvertisedURL() string {
	return fmt.Sprintf("http://%s:%d", netinfo.LocalIP(), s.port)
}
