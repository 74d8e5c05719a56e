package models

// UploadResult возвращается после успешной загрузки и содержит ключевые метаданные.
type UploadResult struct {
	FileID string
	Name   string
	Size   int64
}
