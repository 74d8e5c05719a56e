// Package sharehttp реализует Share API — HTTP-интерфейс обмена файлами в
// локальной сети. Основные эндпоинты:
//   - GET /api/files — список опубликованных файлов.
//   - POST /api/upload — потоковая multipart-загрузка (поля fileId и file).
//   - POST /api/register-file — регистрация метаданных файла, который хост раздаёт сам.
//   - DELETE /api/remove-file/{id} — удаление записи из реестра.
//   - GET /api/download/{id} — скачивание с поддержкой Range для докачки.
//   - GET /api/network-info — адрес сервера в LAN.
//   - GET /health — агрегированная статистика реестра для health-check'ов.
//
// Все ответы несут разрешающие CORS-заголовки; OPTIONS-preflight отвечает 200.
package sharehttp
