package sharehttp

import "net/http"

// preflightMaxAge — сутки кэширования результата preflight-запроса.
const preflightMaxAge = "86400"

// crossOrigin навешивает разрешающие CORS-заголовки на каждый ответ и
// закрывает OPTIONS-preflight, не доводя его до маршрутизации.
func crossOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Range")

		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Max-Age", preflightMaxAge)
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
