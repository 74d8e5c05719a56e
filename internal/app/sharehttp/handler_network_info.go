package sharehttp

import (
	"net/http"

	"github.com/yourname/lanshare/pkg/netinfo"
)

// networkInfoResponse — payload ответа /api/network-info.
type networkInfoResponse struct {
	LocalIP   string `json:"local_ip"`
	ServerURL string `json:"server_url"`
	Status    string `json:"status"`
}

// networkInfo возвращает адрес сервера в LAN; состояние не меняет.
func (s *Server) networkInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, networkInfoResponse{
		LocalIP:   netinfo.LocalIP(),
		ServerURL: s.AdvertisedURL(),
		Status:    "running",
	})
}
