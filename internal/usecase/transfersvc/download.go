package transfersvc

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourname/lanshare/internal/models"
)

// AgentPolicy решает, надо ли подменять Content-Type на бинарный поток для
// данного User-Agent. Это эвристика совместимости, а не требование протокола,
// поэтому она вынесена из ядра передачи.
type AgentPolicy func(userAgent string) bool

// MobileAgentPolicy помечает клиентов по подстрокам в User-Agent: часть
// мобильных браузеров некорректно обрабатывает inline Content-Type и не
// предлагает сохранить файл.
func MobileAgentPolicy(markers []string) AgentPolicy {
	lowered := make([]string, len(markers))
	for i, m := range markers {
		lowered[i] = strings.ToLower(m)
	}
	return func(userAgent string) bool {
		ua := strings.ToLower(userAgent)
		for _, m := range lowered {
			if m != "" && strings.Contains(ua, m) {
				return true
			}
		}
		return false
	}
}

// DownloadPlan — всё, что нужно обработчику, чтобы выставить заголовки и
// начать потоковую отдачу.
type DownloadPlan struct {
	Record      models.FileRecord
	Size        int64
	Spec        RangeSpec
	Partial     bool
	ContentType string
}

// PlanDownload находит файл, валидирует range-заголовок и вычисляет параметры
// ответа. Размер берётся с диска: он — источник истины для границ окна.
func (s *Service) PlanDownload(id, rangeHeader, userAgent string, policy AgentPolicy) (DownloadPlan, error) {
	rec, err := s.Registry.Get(id)
	if err != nil {
		return DownloadPlan{}, err
	}

	st, err := os.Stat(rec.StoragePath)
	if err != nil {
		return DownloadPlan{}, fmt.Errorf("backing file missing: %w", models.ErrNotFound)
	}
	size := st.Size()

	spec, partial, err := ParseRange(rangeHeader, size)
	if err != nil {
		return DownloadPlan{}, err
	}

	contentType := rec.MimeType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	if policy != nil && policy(userAgent) {
		contentType = "application/octet-stream"
	}

	return DownloadPlan{
		Record:      rec,
		Size:        size,
		Spec:        spec,
		Partial:     partial,
		ContentType: contentType,
	}, nil
}

// StreamFile отдаёт запрошенное окно файла фиксированными чанками. Разрыв
// соединения клиентом — штатная ситуация: логируем и выходим, дескриптор
// файла закрывается в любом случае.
func (s *Service) StreamFile(ctx context.Context, w io.Writer, plan DownloadPlan) error {
	f, err := os.Open(plan.Record.StoragePath)
	if err != nil {
		return fmt.Errorf("open %s: %w", plan.Record.StoragePath, models.ErrNotFound)
	}
	defer f.Close()

	if plan.Spec.Start > 0 {
		if _, err := f.Seek(plan.Spec.Start, io.SeekStart); err != nil {
			return fmt.Errorf("seek to %d: %w", plan.Spec.Start, err)
		}
	}

	buf := make([]byte, s.ChunkSize)
	remaining := plan.Spec.Length()
	var sent int64

	for remaining > 0 {
		if err := ctx.Err(); err != nil {
			s.logIncomplete(plan, sent)
			return nil
		}

		want := int64(len(buf))
		if remaining < want {
			want = remaining
		}
		n, err := f.Read(buf[:want])
		if n > 0 {
			if _, werr := w.Write(buf[:n]); werr != nil {
				// Клиент отвалился посреди передачи.
				s.logIncomplete(plan, sent)
				return nil
			}
			sent += int64(n)
			remaining -= int64(n)
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read %s: %w", plan.Record.StoragePath, err)
		}
	}

	s.Log.WithFields(logrus.Fields{
		"file_id": plan.Record.ID,
		"name":    plan.Record.Name,
		"sent":    humanBytes(sent),
	}).Info("download complete")
	return nil
}

func (s *Service) logIncomplete(plan DownloadPlan, sent int64) {
	s.Log.WithFields(logrus.Fields{
		"file_id": plan.Record.ID,
		"name":    plan.Record.Name,
		"sent":    humanBytes(sent),
		"want":    humanBytes(plan.Spec.Length()),
	}).Warn("client disconnected, transfer incomplete")
}
