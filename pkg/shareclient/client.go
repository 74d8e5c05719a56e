// Package shareclient — HTTP-клиент Share API: загрузка, скачивание (включая
// докачку по Range) и управление реестром файлов.
package shareclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/yourname/lanshare/internal/models"
)

type UploadRequest struct {
	FileID   string
	Filename string
	Reader   io.Reader
	Size     int64
}

type DownloadRequest struct {
	FileID string
	// Start/End задают байтовое окно; End < 0 означает «до конца файла».
	Start int64
	End   int64
	// Ranged включает заголовок Range в запрос.
	Ranged bool
}

type Client interface {
	// Upload отправляет файл потоковой multipart-загрузкой.
	Upload(ctx context.Context, baseURL string, req UploadRequest) error
	// Download возвращает поток содержимого; для Ranged-запросов — окно байт.
	Download(ctx context.Context, baseURL string, req DownloadRequest) (io.ReadCloser, error)
	// List возвращает все опубликованные файлы.
	List(ctx context.Context, baseURL string) ([]models.FileRecord, error)
	// Register публикует метаданные файла без переноса байтов.
	Register(ctx context.Context, baseURL string, rec models.FileRecord) error
	// Remove удаляет файл из реестра.
	Remove(ctx context.Context, baseURL, fileID string) error
}

type httpClient struct {
	c *http.Client
}

// New создаёт HTTP-клиент по умолчанию.
func New() Client {
	return &httpClient{
		c: &http.Client{},
	}
}

// Upload строит multipart-тело на лету через pipe: файл не поднимается в
// память целиком ни на клиенте, ни на сервере. Size обязателен — сервер
// требует Content-Length и не принимает chunked-тела.
func (h *httpClient) Upload(ctx context.Context, baseURL string, req UploadRequest) error {
	if req.Size < 0 {
		return fmt.Errorf("upload size is required")
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	envelope, err := multipartOverhead(mw.Boundary(), req.FileID, req.Filename)
	if err != nil {
		return err
	}

	var bar *progressBar
	body := req.Reader
	if req.Size > 0 {
		bar = newProgressBar(fmt.Sprintf("Uploading %s", req.Filename), req.Size)
		body = io.TeeReader(req.Reader, progressWriter{bar: bar})
	}

	go func() {
		if err := mw.WriteField("fileId", req.FileID); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		part, err := mw.CreateFormFile("file", req.Filename)
		if err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, body); err != nil {
			_ = pw.CloseWithError(err)
			return
		}
		_ = pw.CloseWithError(mw.Close())
	}()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/upload", pr)
	if err != nil {
		bar.Fail(err)
		return err
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.ContentLength = envelope + req.Size

	resp, err := h.c.Do(httpReq)
	if err != nil {
		bar.Fail(err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err = fmt.Errorf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(msg)))
		bar.Fail(err)
		return err
	}

	bar.Finish()
	return nil
}

// multipartOverhead считает длину multipart-обвязки (границы, заголовки
// частей, поле fileId) без самих байтов файла.
func multipartOverhead(boundary, fileID, filename string) (int64, error) {
	var probe bytes.Buffer
	mw := multipart.NewWriter(&probe)
	if err := mw.SetBoundary(boundary); err != nil {
		return 0, err
	}
	if err := mw.WriteField("fileId", fileID); err != nil {
		return 0, err
	}
	if _, err := mw.CreateFormFile("file", filename); err != nil {
		return 0, err
	}
	if err := mw.Close(); err != nil {
		return 0, err
	}
	return int64(probe.Len()), nil
}

// Download скачивает файл или его байтовое окно.
func (h *httpClient) Download(ctx context.Context, baseURL string, req DownloadRequest) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/download/"+req.FileID, nil)
	if err != nil {
		return nil, err
	}
	if req.Ranged {
		if req.End >= 0 {
			httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", req.Start, req.End))
		} else {
			httpReq.Header.Set("Range", fmt.Sprintf("bytes=%d-", req.Start))
		}
	}

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("download failed: %s", resp.Status)
	}

	bar := newProgressBar(fmt.Sprintf("Downloading %s", req.FileID), resp.ContentLength)
	return newProgressReadCloser(resp.Body, bar), nil
}

// List возвращает содержимое реестра.
func (h *httpClient) List(ctx context.Context, baseURL string) ([]models.FileRecord, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/files", nil)
	if err != nil {
		return nil, err
	}

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed: %s", resp.Status)
	}

	var payload struct {
		Files []models.FileRecord `json:"files"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}
	return payload.Files, nil
}

// Register публикует метаданные файла, уже лежащего у хоста.
func (h *httpClient) Register(ctx context.Context, baseURL string, rec models.FileRecord) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/api/register-file", bytes.NewReader(b))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("register failed: %s", resp.Status)
	}
	return nil
}

// Remove удаляет запись реестра по id.
func (h *httpClient) Remove(ctx context.Context, baseURL, fileID string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, baseURL+"/api/remove-file/"+fileID, nil)
	if err != nil {
		return err
	}

	resp, err := h.c.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return models.ErrNotFound
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("remove failed: %s", resp.Status)
	}
	return nil
}
