package handlers_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"modelreports/internal/config"
	"modelreports/internal/handlers"
	"modelreports/internal/metrics"
	"modelreports/internal/services"
	"modelreports/internal/spreadsheet/spreadsheettest"
	"modelreports/internal/storage"
)

func ExampleController_ModelScore() {
	conf := config.NewConfig()
	conf.BlobPrefix = "reports/"
	conf.ScoringFile = "scoring.xlsx"

	data, err := spreadsheettest.Workbook(
		[]any{"unique_identifier", "score"},
		[]any{1, 0.1},
		[]any{2, 0.2},
		[]any{2, 0.3},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	store := storage.NewMemoryStore("models", time.Hour)
	store.Put("reports/churn/v1/scoring.xlsx", data)

	ctrl := handlers.NewController(conf, services.NewReportService(conf, store, zap.NewNop().Sugar()), zap.NewNop().Sugar(), metrics.New())
	r := chi.NewRouter()
	r.Get("/model/{modelName}/{modelVersion}/score/{uniqueId}", ctrl.ModelScore())

	for _, path := range []string{"/model/churn/v1/score/2", "/model/churn/v2/score/2"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		body, _ := io.ReadAll(rec.Body)
		fmt.Print(rec.Code, " ", string(body))
	}

	// Output:
	// 200 [{"score":0.2,"unique_identifier":2},{"score":0.3,"unique_identifier":2}]
	// 404 File not found for model churn
}
