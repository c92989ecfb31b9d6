// Package handlers реализует HTTP-эндпоинты сервиса отчётов.
package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"modelreports/internal/config"
	"modelreports/internal/metrics"
	"modelreports/internal/services"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Controller - структура с конфигурацией, сервисом отчётов, логгером и метриками, общими для обработчиков.
type Controller struct {
	conf    *config.Config
	reports services.ReportService
	sugar   *zap.SugaredLogger
	metrics *metrics.Metrics
}

// NewController создаёт и возвращает новый экземпляр Controller.
func NewController(conf *config.Config, reports services.ReportService, sugar *zap.SugaredLogger, m *metrics.Metrics) *Controller {
	return &Controller{
		conf:    conf,
		reports: reports,
		sugar:   sugar,
		metrics: m,
	}
}

// Home отдаёт стартовую страницу.
func (con *Controller) Home() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		res.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTemplate.Execute(res, con.conf); err != nil {
			con.logger(req).Errorw("render landing page", "error", err)
		}
	}
}

// ModelPerformance возвращает все строки файла производительности версии модели.
func (con *Controller) ModelPerformance() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		modelName, modelVersion, err := modelParams(req)
		if err != nil {
			con.writeError(res, req, chi.URLParam(req, "modelName"), err)
			return
		}

		rows, err := con.reports.Performance(req.Context(), modelName, modelVersion)
		if err != nil {
			con.writeError(res, req, modelName, err)
			return
		}
		con.writeJSON(res, req, rows)
	}
}

// ModelScore возвращает строки файла скоринга с unique_identifier, равным uniqueId.
func (con *Controller) ModelScore() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		modelName, modelVersion, err := modelParams(req)
		if err != nil {
			con.writeError(res, req, chi.URLParam(req, "modelName"), err)
			return
		}

		uniqueID, err := strconv.ParseInt(chi.URLParam(req, "uniqueId"), 10, 64)
		if err != nil {
			http.NotFound(res, req)
			return
		}

		rows, err := con.reports.Score(req.Context(), modelName, modelVersion, uniqueID)
		if err != nil {
			con.writeError(res, req, modelName, err)
			return
		}
		con.writeJSON(res, req, rows)
	}
}

// PingHandler проверяет доступность хранилища.
func (con *Controller) PingHandler() http.HandlerFunc {
	return func(res http.ResponseWriter, req *http.Request) {
		if err := con.reports.Ping(req.Context()); err != nil {
			con.logger(req).Errorw("storage ping failed", "error", err)
			http.Error(res, "storage unavailable", http.StatusInternalServerError)
			return
		}
		res.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = res.Write([]byte("OK"))
	}
}

// Metrics отдаёт метрики prometheus.
func (con *Controller) Metrics() http.Handler {
	return con.metrics.Handler()
}
