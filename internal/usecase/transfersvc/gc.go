package transfersvc

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// StartGC стартует периодическую уборку временных файлов в каталоге загрузок.
// Возвращённая функция останавливает уборщика; повторный вызов безопасен.
func StartGC(uploadDir string, ttl time.Duration, every time.Duration) func() {
	if every <= 0 || ttl <= 0 {
		return func() {}
	}

	ticker := time.NewTicker(every)
	stop := make(chan struct{})
	var once sync.Once
	go func() {
		for {
			select {
			case <-ticker.C:
				_ = sweepOnce(uploadDir, ttl)
			case <-stop:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		once.Do(func() {
			close(stop)
		})
	}
}

// sweepOnce удаляет устаревшие temp-файлы — остатки прерванных загрузок.
// Опубликованные файлы (без temp-префикса) не трогаем.
func sweepOnce(uploadDir string, ttl time.Duration) error {
	now := time.Now()
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), tempPrefix) {
			continue
		}

		info, err := e.Info()
		if err != nil {
			continue
		}
		if now.Sub(info.ModTime()) < ttl {
			continue
		}

		_ = os.Remove(filepath.Join(uploadDir, e.Name()))
	}

	return nil
}
