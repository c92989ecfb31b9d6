package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"modelreports/internal/config"
	"modelreports/internal/domain/models"
	"modelreports/internal/mocks"
	"modelreports/internal/repository"
	"modelreports/internal/spreadsheet/spreadsheettest"
	"modelreports/internal/storage"
)

const (
	perfPath  = "reports/churn/v1/performance.xlsx"
	scorePath = "reports/churn/v1/scoring.xlsx"
)

func testConfig() *config.Config {
	c := config.NewConfig()
	c.BlobPrefix = "reports/"
	c.PerformanceFile = "performance.xlsx"
	c.ScoringFile = "scoring.xlsx"
	c.Container = "models"
	return c
}

func prepare(t *testing.T) (*mocks.MockStore, ReportService) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	return store, NewReportService(testConfig(), store, zap.NewNop().Sugar())
}

func workbook(t *testing.T, rows ...[]any) io.ReadCloser {
	t.Helper()
	data, err := spreadsheettest.Workbook(rows...)
	require.NoError(t, err)
	return io.NopCloser(bytes.NewReader(data))
}

func scoringRows() [][]any {
	return [][]any{
		{"unique_identifier", "score"},
		{1, 0.1},
		{2, 0.2},
		{2, 0.3},
		{3, 0.4},
	}
}

func TestPerformance(t *testing.T) {
	store, svc := prepare(t)
	signed := storage.SignedURL("https://acct.blob.core.windows.net/models/" + perfPath + "?sig=x")

	gomock.InOrder(
		store.EXPECT().SignedURL(gomock.Any(), perfPath).Return(signed, nil),
		store.EXPECT().Download(gomock.Any(), signed).Return(workbook(t,
			[]any{"metric", "value"},
			[]any{"auc", 0.93},
			[]any{"f1", 0.71},
		), nil),
	)

	rows, err := svc.Performance(context.Background(), "churn", "v1")
	require.NoError(t, err)
	require.Equal(t, []models.Row{
		{"metric": "auc", "value": 0.93},
		{"metric": "f1", "value": 0.71},
	}, rows)
}

func TestIssuanceFailureSkipsDownload(t *testing.T) {
	store, svc := prepare(t)
	cause := errors.New("invalid credentials")
	store.EXPECT().SignedURL(gomock.Any(), perfPath).Return(storage.SignedURL(""), cause)

	_, err := svc.Performance(context.Background(), "churn", "v1")

	var issuance *IssuanceError
	require.ErrorAs(t, err, &issuance)
	assert.Equal(t, perfPath, issuance.BlobPath)
	assert.ErrorIs(t, err, cause)
}

func TestDownloadFailure(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().SignedURL(gomock.Any(), scorePath).Return(storage.SignedURL("u"), nil)
	store.EXPECT().Download(gomock.Any(), storage.SignedURL("u")).Return(nil, storage.ErrBlobNotFound)

	_, err := svc.Score(context.Background(), "churn", "v1", 2)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "churn", notFound.Model)
	assert.ErrorIs(t, err, storage.ErrBlobNotFound)
}

func TestParseFailure(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().SignedURL(gomock.Any(), perfPath).Return(storage.SignedURL("u"), nil)
	store.EXPECT().Download(gomock.Any(), storage.SignedURL("u")).
		Return(io.NopCloser(bytes.NewReader([]byte("<html>not a workbook</html>"))), nil)

	_, err := svc.Performance(context.Background(), "churn", "v1")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConversionFailure(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().SignedURL(gomock.Any(), perfPath).Return(storage.SignedURL("u"), nil)
	store.EXPECT().Download(gomock.Any(), storage.SignedURL("u")).Return(workbook(t,
		[]any{"metric", "value"},
		[]any{"auc", spreadsheettest.Numeric("Inf")},
	), nil)

	_, err := svc.Performance(context.Background(), "churn", "v1")

	var conversion *ConversionError
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, "churn", conversion.Model)
}

func TestScoreFiltersInFileOrder(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().SignedURL(gomock.Any(), scorePath).Return(storage.SignedURL("u"), nil)
	store.EXPECT().Download(gomock.Any(), storage.SignedURL("u")).Return(workbook(t, scoringRows()...), nil)

	rows, err := svc.Score(context.Background(), "churn", "v1", 2)
	require.NoError(t, err)
	require.Equal(t, []models.Row{
		{"unique_identifier": int64(2), "score": 0.2},
		{"unique_identifier": int64(2), "score": 0.3},
	}, rows)
}

func TestScoreNoMatch(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().SignedURL(gomock.Any(), scorePath).Return(storage.SignedURL("u"), nil)
	store.EXPECT().Download(gomock.Any(), storage.SignedURL("u")).Return(workbook(t, scoringRows()...), nil)

	rows, err := svc.Score(context.Background(), "churn", "v1", 99)
	require.NoError(t, err)
	require.NotNil(t, rows)
	require.Empty(t, rows)
}

func TestInvalidSegmentSkipsStorage(t *testing.T) {
	_, svc := prepare(t)

	_, err := svc.Performance(context.Background(), "..", "v1")
	require.ErrorIs(t, err, repository.ErrInvalidSegment)

	_, err = svc.Score(context.Background(), "churn", "a\\b", 1)
	require.ErrorIs(t, err, repository.ErrInvalidSegment)
}

func TestIssueTimeoutApplied(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().SignedURL(gomock.Any(), perfPath).DoAndReturn(
		func(ctx context.Context, _ string) (storage.SignedURL, error) {
			deadline, ok := ctx.Deadline()
			require.True(t, ok)
			require.WithinDuration(t, time.Now().Add(10*time.Second), deadline, time.Second)
			return "", context.DeadlineExceeded
		})

	_, err := svc.Performance(context.Background(), "churn", "v1")
	var issuance *IssuanceError
	require.ErrorAs(t, err, &issuance)
}

func TestPing(t *testing.T) {
	store, svc := prepare(t)
	store.EXPECT().Ping(gomock.Any()).Return(errors.New("unreachable"))

	require.Error(t, svc.Ping(context.Background()))
}

func TestWithMemoryStore(t *testing.T) {
	data, err := spreadsheettest.Workbook(scoringRows()...)
	require.NoError(t, err)

	store := storage.NewMemoryStore("models", time.Hour)
	store.Put(scorePath, data)
	svc := NewReportService(testConfig(), store, zap.NewNop().Sugar())

	rows, err := svc.Score(context.Background(), "churn", "v1", 3)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 0.4, rows[0]["score"])

	_, err = svc.Performance(context.Background(), "churn", "v1")
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestConversionFailureWithMemoryStore(t *testing.T) {
	data, err := spreadsheettest.Workbook(
		[]any{"unique_identifier", "score"},
		[]any{1, spreadsheettest.Numeric("-Inf")},
	)
	require.NoError(t, err)

	store := storage.NewMemoryStore("models", time.Hour)
	store.Put(scorePath, data)
	svc := NewReportService(testConfig(), store, zap.NewNop().Sugar())

	_, err = svc.Score(context.Background(), "churn", "v1", 1)
	var conversion *ConversionError
	require.ErrorAs(t, err, &conversion)
	assert.Equal(t, "churn", conversion.Model)
}
