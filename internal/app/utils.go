package app

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"modelreports/internal/config"
	"modelreports/internal/storage"
)

// SelectStorage - builds the storage backend named by c.Provider.
func SelectStorage(ctx context.Context, c *config.Config, logger *zap.SugaredLogger) (storage.Store, error) {
	switch strings.ToLower(c.Provider) {
	case config.ProviderAzure:
		logger.Infow("using azure blob storage", "account", c.Account, "container", c.Container)
		return storage.NewAzureStore(c)
	case config.ProviderS3:
		logger.Infow("using s3 storage", "bucket", c.S3Bucket, "region", c.S3Region)
		return storage.NewS3Store(ctx, c)
	default:
		return nil, fmt.Errorf("unknown storage provider %q", c.Provider)
	}
}

// CreateServer creates and configures an HTTP server.
func CreateServer(c *config.Config, handler http.Handler, logger *zap.SugaredLogger) *http.Server {
	logger.Infof("Model reports at %s", c.Addr)

	return &http.Server{
		Addr:              c.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 20 * time.Second,
	}
}
