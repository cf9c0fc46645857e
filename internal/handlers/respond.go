package handlers

import (
	"ProjectDesk/internal/apperr"
	"ProjectDesk/internal/config"
	"ProjectDesk/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const (
	maxJSONBody     = 1 << 20
	msgInternal     = "Errore interno del server"
	msgInvalidJSON  = "Corpo della richiesta non valido (JSON atteso)"
	msgNoFile       = "Nessun file caricato"
	msgFileTooLarge = "File troppo grande (max %d MB)"
)

// errorBody — формат ошибок API.
type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// api — общее для всех хендлеров: логгер, конфигурация, валидатор.
type api struct {
	Logger   *zap.SugaredLogger
	Config   *config.Config
	validate *validator.Validate
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func noContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// writeError — единая точка перевода ошибок в HTTP-ответ.
// Сообщение внутренней ошибки в production заменяется общим текстом.
func (a *api) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case apperr.CodeValidation:
			writeJSON(w, http.StatusBadRequest, errorBody{Error: ae.Message, Code: string(ae.Code)})
			return
		case apperr.CodeNotFound:
			writeJSON(w, http.StatusNotFound, errorBody{Error: ae.Message, Code: string(ae.Code)})
			return
		}
	}

	a.Logger.Errorw("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	msg := msgInternal
	if !a.Config.Production() {
		msg = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, errorBody{Error: msg, Code: string(apperr.CodeInternal)})
}

// bind читает JSON-тело в dst и проверяет теги validate.
func (a *api) bind(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.Logger.Debugw("invalid request body", "path", r.URL.Path, "error", err)
		return apperr.Validation(msgInvalidJSON)
	}
	if err := a.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// upload читает файл из поля "file" multipart-формы с ограничением размера.
func (a *api) upload(w http.ResponseWriter, r *http.Request, maxMB int) (service.Upload, error) {
	limit := int64(maxMB) << 20
	// запас на служебные части формы
	r.Body = http.MaxBytesReader(w, r.Body, limit+1<<20)
	if err := r.ParseMultipartForm(limit); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Upload{}, apperr.Validation(msgFileTooLarge, maxMB)
		}
		return service.Upload{}, apperr.Validation(msgNoFile)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, fh, err := r.FormFile("file")
	if err != nil {
		return service.Upload{}, apperr.Validation(msgNoFile)
	}
	defer f.Close()
	if fh.Size > limit {
		return service.Upload{}, apperr.Validation(msgFileTooLarge, maxMB)
	}
	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return service.Upload{}, err
	}
	if int64(len(data)) > limit {
		return service.Upload{}, apperr.Validation(msgFileTooLarge, maxMB)
	}
	return service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func projectID(r *http.Request) string {
	return chi.URLParam(r, "projectId")
}

// queryInt разбирает целый параметр запроса; пустое значение даёт def.
func queryInt(r *http.Request, name string, def int) (int, error) {
	v := strings.TrimSpace(r.URL.Query().Get(name))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, apperr.Validation("Parametro %s non valido", name)
	}
	return n, nil
}

// rawBody читает документ, присланный телом запроса без multipart.
func (a *api) rawBody(w http.ResponseWriter, r *http.Request) (service.Upload, error) {
	limit := int64(a.Config.ImportMaxMB) << 20
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return service.Upload{}, apperr.Validation(msgFileTooLarge, a.Config.ImportMaxMB)
		}
		return service.Upload{}, err
	}
	return service.Upload{ContentType: r.Header.Get("Content-Type"), Data: data}, nil
}
