// Package config defines the service configuration and its defaults.
package config

import (
	"fmt"
	"time"
)

// Storage drivers.
const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// Addr is the HTTP listen address, e.g. ":3005".
	Addr string `koanf:"addr"`

	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogPath optionally tees all log output to a file.
	LogPath string `koanf:"log_path"`

	// StoreDriver selects the craft storage backend: mongo or sqlite.
	StoreDriver string `koanf:"store_driver"`

	// MongoURI is the MongoDB connection string, credentials included.
	MongoURI        string        `koanf:"mongo_uri"`
	MongoDatabase   string        `koanf:"mongo_database"`
	MongoCollection string        `koanf:"mongo_collection"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`

	// SQLitePath is the database file used by the sqlite driver.
	SQLitePath string `koanf:"sqlite_path"`

	// UploadDir is where uploaded images are written and served from.
	UploadDir string `koanf:"upload_dir"`

	// UploadMaxBytes caps the size of a create/update request body.
	UploadMaxBytes int64 `koanf:"upload_max_bytes"`

	// UploadNaming picks generated file names: timestamp, uuid or hash.
	UploadNaming string `koanf:"upload_naming"`

	// UploadMaxDimension downscales larger JPEG/PNG uploads; 0 disables it.
	UploadMaxDimension int `koanf:"upload_max_dimension"`

	// UploadRequireImage rejects uploads whose bytes are not an image.
	UploadRequireImage bool `koanf:"upload_require_image"`

	// CORSAllowedOrigin is sent as Access-Control-Allow-Origin.
	CORSAllowedOrigin string `koanf:"cors_allowed_origin"`

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Addr:              ":3005",
		LogLevel:          "info",
		StoreDriver:       DriverMongo,
		MongoURI:          "mongodb://localhost:27017",
		MongoDatabase:     "crafts",
		MongoCollection:   "crafts",
		ConnectTimeout:    10 * time.Second,
		SQLitePath:        "crafts.sqlite3",
		UploadDir:         "public/images",
		UploadMaxBytes:    10 << 20,
		UploadNaming:      "timestamp",
		CORSAllowedOrigin: "*",
		MetricsEnabled:    true,
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.StoreDriver != DriverMongo && c.StoreDriver != DriverSQLite:
		return fmt.Errorf("%w: unknown store_driver %q", ErrInvalidConfig, c.StoreDriver)
	case c.StoreDriver == DriverMongo && c.MongoURI == "":
		return fmt.Errorf("%w: mongo_uri is required for the mongo driver", ErrInvalidConfig)
	case c.StoreDriver == DriverMongo && c.MongoDatabase == "":
		return fmt.Errorf("%w: mongo_database is required for the mongo driver", ErrInvalidConfig)
	case c.StoreDriver == DriverSQLite && c.SQLitePath == "":
		return fmt.Errorf("%w: sqlite_path is required for the sqlite driver", ErrInvalidConfig)
	case c.UploadDir == "":
		return fmt.Errorf("%w: upload_dir must not be empty", ErrInvalidConfig)
	case c.UploadMaxBytes <= 0:
		return fmt.Errorf("%w: upload_max_bytes must be positive", ErrInvalidConfig)
	case c.UploadNaming != "timestamp" && c.UploadNaming != "uuid" && c.UploadNaming != "hash":
		return fmt.Errorf("%w: unknown upload_naming %q", ErrInvalidConfig, c.UploadNaming)
	case c.UploadMaxDimension < 0:
		return fmt.Errorf("%w: upload_max_dimension must not be negative", ErrInvalidConfig)
	}
	return nil
}
