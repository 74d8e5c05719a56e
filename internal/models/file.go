package models

// FileRecord содержит метаданные опубликованного файла, доступного для скачивания.
type FileRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	MimeType    string `json:"type"`
	StoragePath string `json:"-"`
}
