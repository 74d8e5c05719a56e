package transfersvc

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourname/lanshare/internal/models"
)

// tempPrefix отличает незавершённые загрузки от опубликованных файлов;
// файлы с этим префиксом никогда не попадают в реестр.
const tempPrefix = ".tmp-"

// progressLogStep — шаг, с которым логируется прогресс больших загрузок.
const progressLogStep = 10 * 1024 * 1024

// Upload читает multipart-тело потоково и по завершении публикует файл в
// реестре. Требуются две части формы: поле fileId и файловая часть file с
// именем; порядок частей в теле не фиксирован. До финального rename файл
// невидим для листинга и скачивания.
func (s *Service) Upload(ctx context.Context, body io.Reader, contentLength int64, contentType string) (models.UploadResult, error) {
	if contentLength < 0 {
		return models.UploadResult{}, fmt.Errorf("content length is required: %w", models.ErrMalformedRequest)
	}

	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		return models.UploadResult{}, fmt.Errorf("invalid content type %q: %w", contentType, models.ErrMalformedRequest)
	}
	boundary := params["boundary"]
	if boundary == "" {
		return models.UploadResult{}, fmt.Errorf("no boundary in content type: %w", models.ErrMalformedRequest)
	}

	if err := os.MkdirAll(s.UploadDir, 0o755); err != nil {
		return models.UploadResult{}, err
	}

	// Временный путь уникален на каждую загрузку: параллельные запросы не
	// могут перезаписать чужой sink.
	uploadToken := uuid.NewString()
	var tempPath string

	parser := newStreamParser(boundary, func(filename string) (io.WriteCloser, error) {
		if tempPath != "" {
			// Повторная файловая часть: предыдущий sink уже закрыт, побеждает последняя.
			_ = os.Remove(tempPath)
		}
		tempPath = filepath.Join(s.UploadDir, tempPrefix+uploadToken+"-"+filepath.Base(filename))
		return os.Create(tempPath)
	})

	published := false
	defer func() {
		parser.abort()
		if !published && tempPath != "" {
			_ = os.Remove(tempPath)
		}
	}()

	if err := s.consumeBody(ctx, body, contentLength, parser); err != nil {
		return models.UploadResult{}, err
	}
	if err := parser.finish(); err != nil {
		return models.UploadResult{}, err
	}

	if !parser.hasID || parser.fieldID == "" || parser.filename == "" || tempPath == "" {
		return models.UploadResult{}, fmt.Errorf("fileId and file parts are required: %w", models.ErrMissingUploadParts)
	}

	// Точка публикации: rename делает файл видимым, размер берём с диска.
	name := filepath.Base(parser.filename)
	finalPath := filepath.Join(s.UploadDir, parser.fieldID+"_"+name)
	if err := os.Rename(tempPath, finalPath); err != nil {
		return models.UploadResult{}, fmt.Errorf("publish upload: %w", err)
	}
	published = true

	st, err := os.Stat(finalPath)
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("stat published file: %w", err)
	}

	s.Registry.Put(models.FileRecord{
		ID:          parser.fieldID,
		Name:        name,
		Size:        st.Size(),
		MimeType:    guessMimeType(name),
		StoragePath: finalPath,
	})

	s.Log.WithFields(logrus.Fields{
		"file_id": parser.fieldID,
		"name":    name,
		"size":    humanBytes(st.Size()),
	}).Info("file uploaded")

	return models.UploadResult{FileID: parser.fieldID, Name: name, Size: st.Size()}, nil
}

// consumeBody читает ровно contentLength байт чанками и скармливает их парсеру.
func (s *Service) consumeBody(ctx context.Context, body io.Reader, contentLength int64, parser *streamParser) error {
	buf := make([]byte, s.ChunkSize)
	var read, lastReport int64

	for read < contentLength {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("upload aborted: %w", models.ErrIncompleteUpload)
		}

		want := int64(len(buf))
		if remaining := contentLength - read; remaining < want {
			want = remaining
		}

		n, err := body.Read(buf[:want])
		if n > 0 {
			read += int64(n)
			if feedErr := parser.feed(buf[:n]); feedErr != nil {
				return feedErr
			}
		}
		if err != nil {
			if err == io.EOF && read < contentLength {
				return fmt.Errorf("unexpected end of data at %d/%d: %w", read, contentLength, models.ErrIncompleteUpload)
			}
			if err != io.EOF {
				return fmt.Errorf("read body: %w", models.ErrIncompleteUpload)
			}
		}

		if contentLength > progressLogStep && read-lastReport > progressLogStep {
			s.Log.WithFields(logrus.Fields{
				"received": humanBytes(read),
				"total":    humanBytes(contentLength),
			}).Debug("upload progress")
			lastReport = read
		}
	}

	return nil
}

func guessMimeType(filename string) string {
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "application/octet-stream"
}
