package integration

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"testing"

	"github.com/yourname/lanshare/pkg/shareclient"
)

// TestUpload_MissingFileIDLeavesNoTrace: загрузка без поля fileId отклоняется,
// реестр и каталог загрузок остаются чистыми.
func TestUpload_MissingFileIDLeavesNoTrace(t *testing.T) {
	srv, cfg := newShareServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "orphan.bin")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := part.Write(bytes.Repeat([]byte("o"), 10_000)); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(srv.URL+"/api/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %s, want 400", resp.Status)
	}

	files, err := shareclient.New().List(context.Background(), srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Fatalf("registry not empty after rejected upload: %+v", files)
	}

	entries, err := os.ReadDir(cfg.UploadDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		t.Fatalf("stray artifact in upload dir: %s", e.Name())
	}
}

// blockingBody — тело запроса, выдающее байты строго по команде теста.
type blockingBody struct {
	chunks chan []byte
	rest   []byte
	acked  chan struct{}
}

func newBlockingBody() *blockingBody {
	return &blockingBody{
		chunks: make(chan []byte),
		acked:  make(chan struct{}, 1),
	}
}

func (b *blockingBody) Read(p []byte) (int, error) {
	if len(b.rest) == 0 {
		chunk, ok := <-b.chunks
		if !ok {
			return 0, io.EOF
		}
		b.rest = chunk
	}
	n := copy(p, b.rest)
	b.rest = b.rest[n:]
	if len(b.rest) == 0 {
		select {
		case b.acked <- struct{}{}:
		default:
		}
	}
	return n, nil
}

// send отдаёт кусок и дожидается, пока транспорт его дочитает.
func (b *blockingBody) send(chunk []byte) {
	b.chunks <- chunk
	<-b.acked
}

func (b *blockingBody) close() { close(b.chunks) }

// TestUpload_VisibilityOnlyAfterPublish: до завершения загрузки id не виден
// в листинге; сразу после — виден с корректным размером.
func TestUpload_VisibilityOnlyAfterPublish(t *testing.T) {
	srv, _ := newShareServer(t)
	cli := shareclient.New()
	ctx := context.Background()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if err := mw.WriteField("fileId", "slow"); err != nil {
		t.Fatal(err)
	}
	part, err := mw.CreateFormFile("file", "slow.bin")
	if err != nil {
		t.Fatal(err)
	}
	payload := bytes.Repeat([]byte("s"), 200_000)
	if _, err := part.Write(payload); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	body := buf.Bytes()

	src := newBlockingBody()
	done := make(chan error, 1)
	go func() {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/upload", io.NopCloser(src))
		if err != nil {
			done <- err
			return
		}
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.ContentLength = int64(len(body))
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			resp.Body.Close()
		}
		done <- err
	}()

	// Отдаём первую половину тела: файл ещё не должен быть виден.
	src.send(body[:len(body)/2])
	if files, err := cli.List(ctx, srv.URL); err != nil {
		t.Fatal(err)
	} else if len(files) != 0 {
		t.Fatalf("file visible before publish: %+v", files)
	}

	// Досылаем хвост: загрузка завершается, файл появляется.
	src.send(body[len(body)/2:])
	src.close()
	if err := <-done; err != nil {
		t.Fatal(err)
	}

	files, err := cli.List(ctx, srv.URL)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 1 || files[0].Size != int64(len(payload)) {
		t.Fatalf("unexpected listing after publish: %+v", files)
	}

	got := downloadBytes(t, srv.URL, "slow")
	if !bytes.Equal(got, payload) {
		t.Fatal("published content mismatch")
	}
}
