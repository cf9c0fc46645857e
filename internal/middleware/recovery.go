package middleware

import (
	"ProjectDesk/internal/apperr"
	"encoding/json"
	"net/http"
	"runtime/debug"
)

// WithRecovery перехватывает панику хендлера и отвечает 500 в формате ошибок API.
func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			sugar.Errorw("panic recovered",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error": "Errore interno del server",
				"code":  string(apperr.CodeInternal),
			})
		}()
		next.ServeHTTP(w, r)
	})
}
