package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names accepted by OBJECT_STORE and FILE_SHARE.
const (
	BackendAzure = "azure"
	BackendMinio = "minio"
	BackendGCS   = "gcs"
	BackendLocal = "local"
)

var (
	// ErrMissingCredentials is returned when the selected backend lacks
	// required credentials.
	ErrMissingCredentials = errors.New("missing storage credentials")

	// ErrUnknownBackend is returned for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Config holds all application configuration
type Config struct {
	Port              string
	CorsOrigin        string
	ObjectStore       string
	FileShare         string
	ContainerName     string
	FileShareName     string
	Azure             AzureConfig
	Minio             MinioConfig
	GCS               GCSConfig
	LocalShareDir     string
	SignedURLTTL      time.Duration
	MaxUploadMemoryMB int64
	UploadRateLimit   int
	WriteTimeout      time.Duration
	ReadTimeout       time.Duration
}

// AzureConfig holds the storage account settings shared by the blob and
// file share clients.
type AzureConfig struct {
	ConnectionString string
	AccountName      string
	AccountKey       string
	FileShareSASURL  string
}

// MinioConfig holds MinIO configuration
type MinioConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
}

// GCSConfig holds Google Cloud Storage configuration. An empty
// CredentialsFile falls back to application default credentials.
type GCSConfig struct {
	CredentialsFile string
}

// Load configuration from environment or use defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8000"),
		CorsOrigin:    os.Getenv("CORS_ORIGIN"),
		ObjectStore:   strings.ToLower(getEnv("OBJECT_STORE", BackendAzure)),
		FileShare:     strings.ToLower(getEnv("FILE_SHARE", BackendAzure)),
		ContainerName: getEnv("CONTAINER_NAME", "photos"),
		FileShareName: getEnv("FILE_SHARE_NAME", "myfileshare"),
		Azure: AzureConfig{
			ConnectionString: os.Getenv("AZURE_STORAGE_CONNECTION_STRING"),
			AccountName:      os.Getenv("AZURE_STORAGE_ACCOUNT_NAME"),
			AccountKey:       os.Getenv("AZURE_STORAGE_ACCOUNT_KEY"),
			FileShareSASURL:  os.Getenv("AZURE_FILE_SHARE_SAS_URL"),
		},
		Minio: MinioConfig{
			Endpoint:        getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKeyID:     getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretAccessKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			UseSSL:          getEnv("MINIO_USE_SSL", "false") == "true",
			Region:          os.Getenv("MINIO_REGION"),
		},
		GCS: GCSConfig{
			CredentialsFile: os.Getenv("GCS_CREDENTIALS_FILE"),
		},
		LocalShareDir:     getEnv("LOCAL_SHARE_DIR", "./fileshare"),
		SignedURLTTL:      getEnvDuration("SIGNED_URL_TTL", time.Hour),
		MaxUploadMemoryMB: getEnvInt64("MAX_UPLOAD_MEMORY_MB", 32),
		UploadRateLimit:   int(getEnvInt64("UPLOAD_RATE_LIMIT", 0)),
		WriteTimeout:      getEnvDuration("WRITE_TIMEOUT", 30*time.Minute),
		ReadTimeout:       getEnvDuration("READ_TIMEOUT", 30*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backends are known and that their
// credentials are present.
func (c *Config) Validate() error {
	switch c.ObjectStore {
	case BackendAzure:
		if c.Azure.ConnectionString == "" || c.Azure.AccountName == "" || c.Azure.AccountKey == "" {
			return fmt.Errorf("%w: AZURE_STORAGE_CONNECTION_STRING, AZURE_STORAGE_ACCOUNT_NAME and AZURE_STORAGE_ACCOUNT_KEY are required", ErrMissingCredentials)
		}
	case BackendMinio:
		if c.Minio.Endpoint == "" || c.Minio.AccessKeyID == "" || c.Minio.SecretAccessKey == "" {
			return fmt.Errorf("%w: MINIO_ENDPOINT, MINIO_ACCESS_KEY and MINIO_SECRET_KEY are required", ErrMissingCredentials)
		}
	case BackendGCS:
		// Application default credentials are resolved by the client.
	default:
		return fmt.Errorf("%w: OBJECT_STORE=%q", ErrUnknownBackend, c.ObjectStore)
	}

	switch c.FileShare {
	case BackendAzure:
		if c.Azure.FileShareSASURL == "" && (c.Azure.AccountName == "" || c.Azure.AccountKey == "") {
			return fmt.Errorf("%w: AZURE_FILE_SHARE_SAS_URL or AZURE_STORAGE_ACCOUNT_NAME and AZURE_STORAGE_ACCOUNT_KEY are required", ErrMissingCredentials)
		}
	case BackendLocal:
		if c.LocalShareDir == "" {
			return fmt.Errorf("%w: LOCAL_SHARE_DIR is required", ErrMissingCredentials)
		}
	default:
		return fmt.Errorf("%w: FILE_SHARE=%q", ErrUnknownBackend, c.FileShare)
	}

	if c.SignedURLTTL <= 0 {
		return fmt.Errorf("SIGNED_URL_TTL must be positive, got %s", c.SignedURLTTL)
	}
	return nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// Helper function to get duration from environment variable
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

// Helper function to get int64 from environment variable
func getEnvInt64(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intValue
}
