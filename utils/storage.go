package utils

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const (
	StorageProviderDisk = "disk"
	StorageProviderGCS  = "gcs"
)

// GetStorageProvider returns the configured archive target for uploaded
// workbooks. Defaults to local disk.
func GetStorageProvider() string {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderDisk
	}
	return provider
}

func getGoogleClient(ctx context.Context) (*storage.Client, error) {
	// Prefer ADC (GOOGLE_APPLICATION_CREDENTIALS). Explicit JSON can be
	// supplied via GCS_CREDENTIALS_JSON for local runs.
	if credJSON := os.Getenv("GCS_CREDENTIALS_JSON"); strings.TrimSpace(credJSON) != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credJSON)))
	}
	return storage.NewClient(ctx)
}

// ArchiveUpload persists the raw bytes of an uploaded workbook so that a
// past upload can be re-downloaded. objectKey is a relative path such as
// "monthly-data/2025/08/163049-salary.xlsx".
func ArchiveUpload(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	switch GetStorageProvider() {
	case StorageProviderGCS:
		return archiveToGCS(ctx, objectKey, data, contentType)
	case StorageProviderDisk:
		return archiveToDisk(objectKey, data)
	default:
		return "", errors.New("storage provider not supported")
	}
}

// OpenArchivedUpload returns the stored bytes for a previously archived
// workbook path, regardless of provider.
func OpenArchivedUpload(ctx context.Context, storedPath string) ([]byte, error) {
	if strings.HasPrefix(storedPath, "gs://") {
		return readFromGCS(ctx, storedPath)
	}
	if strings.Contains(storedPath, "..") {
		return nil, errors.New("invalid file path")
	}
	return os.ReadFile(storedPath)
}

func archiveToDisk(objectKey string, data []byte) (string, error) {
	baseDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if baseDir == "" {
		baseDir = "uploads"
	}
	full := filepath.Join(baseDir, filepath.FromSlash(objectKey))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return "", err
	}
	return full, nil
}

func archiveToGCS(ctx context.Context, objectKey string, data []byte, contentType string) (string, error) {
	bucketName := os.Getenv("GCS_BUCKET")
	if bucketName == "" {
		return "", errors.New("GCS_BUCKET is required")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return "", err
	}
	defer client.Close()

	wc := client.Bucket(bucketName).Object(objectKey).NewWriter(ctx)
	wc.ContentType = contentType
	if _, err := wc.Write(data); err != nil {
		_ = wc.Close()
		return "", err
	}
	if err := wc.Close(); err != nil {
		return "", err
	}
	return "gs://" + bucketName + "/" + objectKey, nil
}

func readFromGCS(ctx context.Context, gsPath string) ([]byte, error) {
	trimmed := strings.TrimPrefix(gsPath, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid gcs path")
	}

	client, err := getGoogleClient(ctx)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	reader, err := client.Bucket(parts[0]).Object(parts[1]).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	return io.ReadAll(reader)
}
