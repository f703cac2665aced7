package storage

import (
	"fmt"
	"time"
)

// Config holds storage configuration
type Config struct {
	Type           string // "local" or "minio"
	LocalDir       string // Directory for local storage
	BaseURL        string // URL prefix served by the media handler
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	PresignTTL     time.Duration
}

// New builds the configured image store.
func New(cfg Config) (ImageStore, error) {
	switch cfg.Type {
	case "", "local":
		return NewLocalStore(cfg.BaseURL, cfg.LocalDir)
	case "minio":
		return NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL, cfg.PresignTTL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}
