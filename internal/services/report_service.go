// Package services contains the implementation of ReportService.
package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"modelreports/internal/config"
	"modelreports/internal/domain/models"
	"modelreports/internal/repository"
	"modelreports/internal/spreadsheet"
	"modelreports/internal/storage"
)

//go:generate mockgen -destination=../mocks/mock_report_service.go -package=mocks modelreports/internal/services ReportService

// ReportService serves the spreadsheet reports stored for a model version.
//
// Errors are *IssuanceError, *NotFoundError, *ConversionError, or wrap
// repository.ErrInvalidSegment when a model name or version is unusable.
type ReportService interface {
	// Performance returns every row of the performance file.
	Performance(ctx context.Context, modelName, modelVersion string) ([]models.Row, error)
	// Score returns the rows of the scoring file whose unique_identifier equals uniqueID.
	Score(ctx context.Context, modelName, modelVersion string, uniqueID int64) ([]models.Row, error)
	// Ping checks the storage backend.
	Ping(ctx context.Context) error
}

type reportServ struct {
	config *config.Config
	store  storage.Store
	sugar  *zap.SugaredLogger
}

// NewReportService creates a ReportService reading files from store.
func NewReportService(conf *config.Config, store storage.Store, sugar *zap.SugaredLogger) ReportService {
	return &reportServ{
		config: conf,
		store:  store,
		sugar:  sugar,
	}
}

func (s *reportServ) Performance(ctx context.Context, modelName, modelVersion string) ([]models.Row, error) {
	rows, err := s.fetchRows(ctx, modelName, modelVersion, s.config.PerformanceFile)
	if err != nil {
		return nil, err
	}
	return s.normalize(modelName, rows)
}

func (s *reportServ) Score(ctx context.Context, modelName, modelVersion string, uniqueID int64) ([]models.Row, error) {
	rows, err := s.fetchRows(ctx, modelName, modelVersion, s.config.ScoringFile)
	if err != nil {
		return nil, err
	}
	return s.normalize(modelName, spreadsheet.FilterByIdentifier(rows, uniqueID))
}

func (s *reportServ) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// fetchRows signs, downloads and parses the file of one model version.
func (s *reportServ) fetchRows(ctx context.Context, modelName, modelVersion, fileName string) ([]models.Row, error) {
	blobPath, err := repository.ModelBlobPath(s.config.BlobPrefix, modelName, modelVersion, fileName)
	if err != nil {
		return nil, err
	}

	issueCtx, cancel := withTimeout(ctx, s.config.IssueTimeout)
	signed, err := s.store.SignedURL(issueCtx, blobPath)
	cancel()
	if err != nil {
		return nil, &IssuanceError{BlobPath: blobPath, Err: err}
	}
	s.sugar.Debugw("signed URL issued", "blob", blobPath)

	downloadCtx, cancel := withTimeout(ctx, s.config.DownloadTimeout)
	defer cancel()

	body, err := s.store.Download(downloadCtx, signed)
	if err != nil {
		return nil, &NotFoundError{Model: modelName, BlobPath: blobPath, Err: err}
	}
	defer func() {
		if e := body.Close(); e != nil {
			s.sugar.Warnw("close blob body", "blob", blobPath, "error", e)
		}
	}()

	table, err := spreadsheet.Parse(body)
	if err != nil {
		return nil, &NotFoundError{Model: modelName, BlobPath: blobPath, Err: err}
	}
	s.sugar.Debugw("file parsed", "blob", blobPath, "rows", len(table.Rows), "columns", len(table.Columns))

	return table.Rows, nil
}

func (s *reportServ) normalize(modelName string, rows []models.Row) ([]models.Row, error) {
	out, err := spreadsheet.Normalize(rows)
	if err != nil {
		return nil, &ConversionError{Model: modelName, Err: err}
	}
	return out, nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
