// Package registry хранит реестр опубликованных файлов: id -> метаданные.
// Реестр живёт только в памяти процесса и не переживает рестарт.
package registry

import (
	"sort"
	"sync"

	"github.com/yourname/lanshare/internal/models"
)

// Store описывает операции реестра; вся синхронизация скрыта за интерфейсом.
type Store interface {
	Get(id string) (models.FileRecord, error)
	List() []models.FileRecord
	Put(rec models.FileRecord)
	Delete(id string) error
}

// Memory хранит метаданные только в оперативной памяти.
type Memory struct {
	mu    sync.RWMutex
	files map[string]models.FileRecord
}

// NewMemory создаёт пустой in-memory реестр.
func NewMemory() *Memory {
	return &Memory{files: map[string]models.FileRecord{}}
}

var _ Store = (*Memory)(nil)

// Get возвращает метаданные файла по id или ошибку, если файл не найден.
func (s *Memory) Get(id string) (models.FileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.files[id]
	if !ok {
		return models.FileRecord{}, models.ErrNotFound
	}
	return rec, nil
}

// List возвращает снапшот всех записей, отсортированный по имени файла.
func (s *Memory) List() []models.FileRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.FileRecord, 0, len(s.files))
	for _, rec := range s.files {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name == out[j].Name {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Put записывает (или заменяет) метаданные файла целиком.
func (s *Memory) Put(rec models.FileRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[rec.ID] = rec
}

// Delete удаляет запись по id; повторное удаление возвращает ErrNotFound.
func (s *Memory) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return models.ErrNotFound
	}
	delete(s.files, id)
	return nil
}
