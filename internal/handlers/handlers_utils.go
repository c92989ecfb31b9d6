package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"modelreports/internal/domain/models"
	"modelreports/internal/repository"
	"modelreports/internal/services"
)

// RequestIDHeader - заголовок с идентификатором запроса.
const RequestIDHeader = "X-Request-ID"

type ctxKey int

const requestIDKey ctxKey = iota

type (
	responseData struct {
		status int
		size   int
	}

	loggingResponseWriter struct {
		http.ResponseWriter
		responseData *responseData
	}
)

// Write перезаписывает метод Write интерфейса http.ResponseWriter
// и подсчитывает размер ответа для логирования.
func (r *loggingResponseWriter) Write(b []byte) (int, error) {
	size, err := r.ResponseWriter.Write(b)
	r.responseData.size += size
	return size, err
}

// WriteHeader перезаписывает метод WriteHeader интерфейса http.ResponseWriter
// и запоминает статусный код для логирования.
func (r *loggingResponseWriter) WriteHeader(statusCode int) {
	r.ResponseWriter.WriteHeader(statusCode)
	r.responseData.status = statusCode
}

// RequestIDFromContext возвращает идентификатор запроса, сохранённый RequestIDMiddleware.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// RequestIDMiddleware берёт входящий X-Request-ID или генерирует новый.
func (con *Controller) RequestIDMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = repository.GenerateRequestID()
		}
		w.Header().Set(RequestIDHeader, id)
		h.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

// LoggingMiddleware логирует каждый запрос: uri, метод, статус, размер и длительность.
func (con *Controller) LoggingMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rd := &responseData{status: http.StatusOK}
		lw := loggingResponseWriter{ResponseWriter: w, responseData: rd}
		h.ServeHTTP(&lw, r)

		con.sugar.Infow("request",
			"uri", r.RequestURI,
			"method", r.Method,
			"status", rd.status,
			"size", rd.size,
			"duration", time.Since(start),
			"request_id", RequestIDFromContext(r.Context()),
		)
	})
}

// MetricsMiddleware учитывает каждый запрос в метриках по шаблону маршрута chi.
func (con *Controller) MetricsMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rd := &responseData{status: http.StatusOK}
		lw := loggingResponseWriter{ResponseWriter: w, responseData: rd}
		h.ServeHTTP(&lw, r)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		con.metrics.ObserveRequest(route, rd.status, time.Since(start))
	})
}

// modelParams возвращает декодированные сегменты modelName и modelVersion.
// Если в пути есть нестандартное экранирование, chi работает с сырым путём.
func modelParams(req *http.Request) (string, string, error) {
	names := [2]string{"modelName", "modelVersion"}
	var out [2]string
	for i, name := range names {
		raw := chi.URLParam(req, name)
		v, err := url.PathUnescape(raw)
		if err != nil {
			return "", "", fmt.Errorf("%w: %q", repository.ErrInvalidSegment, raw)
		}
		out[i] = v
	}
	return out[0], out[1], nil
}

func (con *Controller) logger(req *http.Request) *zap.SugaredLogger {
	return con.sugar.With("request_id", RequestIDFromContext(req.Context()))
}

// writeError переводит ошибку сервиса отчётов в статусный код и текст ответа.
func (con *Controller) writeError(res http.ResponseWriter, req *http.Request, modelName string, err error) {
	log := con.logger(req).With("model", modelName)

	var (
		issuance   *services.IssuanceError
		notFound   *services.NotFoundError
		conversion *services.ConversionError
	)

	switch {
	case errors.As(err, &issuance):
		log.Errorw("blob URL generation failed", "blob", issuance.BlobPath, "error", issuance.Err)
		con.metrics.ReportFailure("issuance")
		http.Error(res, fmt.Sprintf("Error encountered while generating blob URL %s", issuance.BlobPath), http.StatusNotFound)
	case errors.As(err, &notFound):
		log.Errorw("file fetch failed", "blob", notFound.BlobPath, "error", notFound.Err)
		con.metrics.ReportFailure("not_found")
		http.Error(res, fmt.Sprintf("File not found for model %s", notFound.Model), http.StatusNotFound)
	case errors.As(err, &conversion):
		log.Errorw("file conversion failed", "error", conversion.Err)
		con.metrics.ReportFailure("conversion")
		http.Error(res, fmt.Sprintf("Error reading file for model %s", conversion.Model), http.StatusBadRequest)
	case errors.Is(err, repository.ErrInvalidSegment):
		log.Warnw("invalid request path", "error", err)
		con.metrics.ReportFailure("invalid_input")
		http.Error(res, err.Error(), http.StatusBadRequest)
	default:
		log.Errorw("report request failed", "error", err)
		con.metrics.ReportFailure("internal")
		http.Error(res, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (con *Controller) writeJSON(res http.ResponseWriter, req *http.Request, rows []models.Row) {
	if rows == nil {
		rows = []models.Row{}
	}

	res.Header().Set("Content-Type", "application/json")
	res.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(res).Encode(rows); err != nil {
		con.logger(req).Errorw("encode response", "error", err)
	}
}
