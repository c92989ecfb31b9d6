// Package storage issues signed read URLs for model files and downloads them.
//
// The package supports multiple backends:
// 1. AzureStore - Azure Blob Storage, shared-key SAS tokens.
// 2. S3Store - S3-compatible storage, presigned GET requests.
// 3. MemoryStore - blobs held in memory, for tests and local runs.
package storage
