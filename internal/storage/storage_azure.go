package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/service"

	"modelreports/internal/config"
)

// AzureStore - Azure Blob Storage backend signing URLs with the account shared key.
type AzureStore struct {
	cred          *azblob.SharedKeyCredential
	serviceClient *service.Client
	endpoint      string
	container     string
	expiry        time.Duration
	now           func() time.Time
}

// NewAzureStore creates an AzureStore from the account settings of c.
// The connection string backs the service client used by Ping and defines the endpoint.
func NewAzureStore(c *config.Config) (*AzureStore, error) {
	cred, err := azblob.NewSharedKeyCredential(c.Account, c.StorageKey)
	if err != nil {
		return nil, fmt.Errorf("create shared key credential: %w", err)
	}

	serviceClient, err := service.NewClientFromConnectionString(c.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create service client from connection string: %w", err)
	}

	endpoint := serviceClient.URL()
	if !strings.HasSuffix(endpoint, "/") {
		endpoint += "/"
	}

	return &AzureStore{
		cred:          cred,
		serviceClient: serviceClient,
		endpoint:      endpoint,
		container:     c.Container,
		expiry:        c.SASExpiry,
		now:           time.Now,
	}, nil
}

// SignedURL returns "<endpoint><container>/<blob>?<sas>" with read permission only.
func (s *AzureStore) SignedURL(_ context.Context, blobPath string) (SignedURL, error) {
	now := s.now().UTC()

	protocol := sas.ProtocolHTTPSandHTTP
	if strings.HasPrefix(s.endpoint, "https://") {
		protocol = sas.ProtocolHTTPS
	}

	perms := sas.BlobPermissions{Read: true}
	values := sas.BlobSignatureValues{
		Protocol:      protocol,
		StartTime:     now.Add(-10 * time.Minute),
		ExpiryTime:    now.Add(s.expiry),
		Permissions:   perms.String(),
		ContainerName: s.container,
		BlobName:      blobPath,
	}

	params, err := values.SignWithSharedKey(s.cred)
	if err != nil {
		return "", fmt.Errorf("sign blob %s: %w", blobPath, err)
	}

	return SignedURL(fmt.Sprintf("%s%s/%s?%s", s.endpoint, s.container, escapeBlobPath(blobPath), params.Encode())), nil
}

// Download reads the blob behind u in a single attempt. The SAS query authorizes the request.
func (s *AzureStore) Download(ctx context.Context, u SignedURL) (io.ReadCloser, error) {
	client, err := blob.NewClientWithNoCredential(string(u), &blob.ClientOptions{
		ClientOptions: policy.ClientOptions{Retry: policy.RetryOptions{MaxRetries: -1}},
	})
	if err != nil {
		return nil, fmt.Errorf("create blob client for %s: %w", u, redact(err, u))
	}

	resp, err := client.DownloadStream(ctx, nil)
	if err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("download %s: %w", u, ErrBlobNotFound)
		}
		return nil, fmt.Errorf("download %s: %w", u, redact(err, u))
	}
	return resp.Body, nil
}

// Ping requests the account properties.
func (s *AzureStore) Ping(ctx context.Context) error {
	_, err := s.serviceClient.GetProperties(ctx, nil)
	return err
}
