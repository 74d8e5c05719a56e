package integration

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/yourname/lanshare/internal/app/sharehttp"
	"github.com/yourname/lanshare/internal/config"
	"github.com/yourname/lanshare/internal/models"
	"github.com/yourname/lanshare/pkg/shareclient"
)

func fileRecord(id, name string, size int64, mimeType string) models.FileRecord {
	return models.FileRecord{ID: id, Name: name, Size: size, MimeType: mimeType}
}

// newShareServer поднимает полный Share API поверх временного каталога.
func newShareServer(t *testing.T) (*httptest.Server, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		UploadDir:    t.TempDir(),
		ChunkSizeKB:  64,
		MobileAgents: []string{"mobile", "android", "iphone", "ipad"},
	}

	log := logrus.New()
	log.SetLevel(logrus.WarnLevel)

	handler, _, err := sharehttp.NewServer(cfg, 8080, log)
	if err != nil {
		t.Fatalf("new share server: %v", err)
	}

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, cfg
}

func uploadBytes(t *testing.T, baseURL, fileID, filename string, data []byte) {
	t.Helper()

	cli := shareclient.New()
	err := cli.Upload(context.Background(), baseURL, shareclient.UploadRequest{
		FileID:   fileID,
		Filename: filename,
		Reader:   bytes.NewReader(data),
		Size:     int64(len(data)),
	})
	if err != nil {
		t.Fatalf("upload %s: %v", fileID, err)
	}
}

func downloadBytes(t *testing.T, baseURL, fileID string) []byte {
	t.Helper()

	cli := shareclient.New()
	rc, err := cli.Download(context.Background(), baseURL, shareclient.DownloadRequest{FileID: fileID})
	if err != nil {
		t.Fatalf("download %s: %v", fileID, err)
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read download %s: %v", fileID, err)
	}
	return b
}
