package transfersvc

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/yourname/lanshare/internal/models"
	"github.com/yourname/lanshare/internal/registry"
)

func newTestService(t *testing.T) (*Service, registry.Store, string) {
	t.Helper()
	dir := t.TempDir()
	store := registry.NewMemory()
	log := logrus.New()
	log.SetOutput(os.Stderr)
	svc := New(Deps{Registry: store, UploadDir: dir, ChunkSize: 512, Log: log})
	return svc, store, dir
}

func multipartBody(t *testing.T, fileID, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("fileId", fileID))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func listTempFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var out []string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), tempPrefix) {
			out = append(out, e.Name())
		}
	}
	return out
}

func TestUpload_PublishesFile(t *testing.T) {
	svc, store, dir := newTestService(t)

	data := bytes.Repeat([]byte("streaming!"), 2000) // несколько чанков по 512
	body, contentType := multipartBody(t, "file-1", "report.pdf", data)
	size := int64(body.Len())

	res, err := svc.Upload(context.Background(), body, size, contentType)
	require.NoError(t, err)
	require.Equal(t, "file-1", res.FileID)
	require.Equal(t, "report.pdf", res.Name)
	require.EqualValues(t, len(data), res.Size)

	rec, err := store.Get("file-1")
	require.NoError(t, err)
	require.EqualValues(t, len(data), rec.Size)
	require.Equal(t, "application/pdf", rec.MimeType)

	onDisk, err := os.ReadFile(rec.StoragePath)
	require.NoError(t, err)
	require.Equal(t, data, onDisk)
	require.Empty(t, listTempFiles(t, dir))
}

func TestUpload_ReplaceOnSameID(t *testing.T) {
	svc, store, _ := newTestService(t)

	body, ct := multipartBody(t, "dup", "v1.txt", []byte("first"))
	_, err := svc.Upload(context.Background(), body, int64(body.Len()), ct)
	require.NoError(t, err)

	body, ct = multipartBody(t, "dup", "v2.txt", []byte("second version"))
	_, err = svc.Upload(context.Background(), body, int64(body.Len()), ct)
	require.NoError(t, err)

	rec, err := store.Get("dup")
	require.NoError(t, err)
	require.Equal(t, "v2.txt", rec.Name)
	require.EqualValues(t, len("second version"), rec.Size)
}

func TestUpload_RejectsBadHeaders(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, strings.NewReader(""), -1, "multipart/form-data; boundary=x")
	require.ErrorIs(t, err, models.ErrMalformedRequest)

	_, err = svc.Upload(ctx, strings.NewReader(""), 10, "application/json")
	require.ErrorIs(t, err, models.ErrMalformedRequest)

	_, err = svc.Upload(ctx, strings.NewReader(""), 10, "multipart/form-data")
	require.ErrorIs(t, err, models.ErrMalformedRequest)
}

func TestUpload_MissingFileID(t *testing.T) {
	svc, store, dir := newTestService(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "orphan.bin")
	require.NoError(t, err)
	_, err = part.Write([]byte("no id supplied"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	_, err = svc.Upload(context.Background(), &buf, int64(buf.Len()), mw.FormDataContentType())
	require.ErrorIs(t, err, models.ErrMissingUploadParts)

	require.Empty(t, store.List())
	require.Empty(t, listTempFiles(t, dir))
}

func TestUpload_TruncatedBodyCleansUp(t *testing.T) {
	svc, store, dir := newTestService(t)

	data := bytes.Repeat([]byte("z"), 8192)
	body, ct := multipartBody(t, "cut", "cut.bin", data)
	declared := int64(body.Len())

	// Тело обрывается на середине файловой части.
	short := bytes.NewReader(body.Bytes()[:body.Len()/2])
	_, err := svc.Upload(context.Background(), short, declared, ct)
	require.ErrorIs(t, err, models.ErrIncompleteUpload)

	require.Empty(t, store.List())
	require.Empty(t, listTempFiles(t, dir))

	// Файл не должен быть доступен и по финальному пути.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestUpload_CancelledContext(t *testing.T) {
	svc, store, dir := newTestService(t)

	data := bytes.Repeat([]byte("q"), 4096)
	body, ct := multipartBody(t, "ctx", "ctx.bin", data)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Upload(ctx, body, int64(body.Len()), ct)
	require.ErrorIs(t, err, models.ErrIncompleteUpload)
	require.Empty(t, store.List())
	require.Empty(t, listTempFiles(t, dir))
}

func TestUpload_StripsPathFromFilename(t *testing.T) {
	svc, store, _ := newTestService(t)

	body, ct := multipartBody(t, "esc", "../../etc/passwd", []byte("nope"))
	res, err := svc.Upload(context.Background(), body, int64(body.Len()), ct)
	require.NoError(t, err)
	require.Equal(t, "passwd", res.Name)

	rec, err := store.Get("esc")
	require.NoError(t, err)
	require.Equal(t, filepath.Base(rec.StoragePath), "esc_passwd")
}
