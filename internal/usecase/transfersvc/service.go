// Package transfersvc реализует потоковое ядро обмена файлами: инкрементальный
// разбор multipart-загрузок, публикацию файлов в реестре и range-отдачу
// содержимого фиксированными чанками.
package transfersvc

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/yourname/lanshare/internal/registry"
)

// defaultChunkSize — размер чанка чтения/записи; десятки килобайт достаточно,
// чтобы не раздувать память на больших файлах.
const defaultChunkSize = 64 * 1024

type Deps struct {
	Registry  registry.Store
	UploadDir string
	ChunkSize int
	Log       *logrus.Logger
}

// Service объединяет операции по загрузке и выдаче файлов.
type Service struct {
	Deps
}

// New конструирует сервис передачи с заданными зависимостями.
func New(deps Deps) *Service {
	if deps.ChunkSize <= 0 {
		deps.ChunkSize = defaultChunkSize
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Service{Deps: deps}
}

// humanBytes форматирует размер для логов.
func humanBytes(v int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := float64(v)
	unit := 0
	for value >= 1024 && unit < len(units)-1 {
		value /= 1024
		unit++
	}
	if unit == 0 {
		return fmt.Sprintf("%d %s", v, units[unit])
	}
	return fmt.Sprintf("%.1f %s", value, units[unit])
}
