// Package config provides configuration management for songstage.
// It defines the object store, database and logging settings and their defaults.
package config

import (
	"strings"

	"github.com/masahif/songstage/internal/catalog"
)

// Object store providers
const (
	ProviderS3  = "s3"
	ProviderGCS = "gcs"
	ProviderFS  = "fs"
)

// Database drivers
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// StoreConfig describes where raw song objects live
type StoreConfig struct {
	Provider          string  `mapstructure:"provider" yaml:"provider"`                       // s3, gcs or fs
	Bucket            string  `mapstructure:"bucket" yaml:"bucket"`                           // Bucket name (s3, gcs)
	Region            string  `mapstructure:"region" yaml:"region"`                           // AWS region
	AccessKeyID       string  `mapstructure:"access_key_id" yaml:"access_key_id"`             // AWS access key
	SecretAccessKey   string  `mapstructure:"secret_access_key" yaml:"secret_access_key"`     // AWS secret key
	Endpoint          string  `mapstructure:"endpoint" yaml:"endpoint"`                       // Custom endpoint (MinIO, GCS emulator)
	Prefix            string  `mapstructure:"prefix" yaml:"prefix"`                           // Key prefix to list
	Root              string  `mapstructure:"root" yaml:"root"`                               // Local directory (fs)
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"` // Fetch throttle, 0=unlimited
}

// DatabaseConfig describes the relational store
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver" yaml:"driver"`           // mysql, postgres or sqlite
	Host       string `mapstructure:"host" yaml:"host"`               // Server host
	Port       int    `mapstructure:"port" yaml:"port"`               // Server port, 0 picks the driver default
	User       string `mapstructure:"user" yaml:"user"`               // Login user
	Password   string `mapstructure:"password" yaml:"password"`       // Login password
	Name       string `mapstructure:"name" yaml:"name"`               // Database name
	Path       string `mapstructure:"path" yaml:"path"`               // SQLite file path
	SSLMode    string `mapstructure:"sslmode" yaml:"sslmode"`         // Postgres sslmode
	InitSchema bool   `mapstructure:"init_schema" yaml:"init_schema"` // Create missing tables on start
}

// LogConfig controls structured logging
type LogConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`             // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"`           // json or text
	File       string `mapstructure:"file" yaml:"file"`               // Optional log file
	MaxSizeMB  int64  `mapstructure:"max_size_mb" yaml:"max_size_mb"` // Rotate log file after N MB
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"` // Rotated files to keep
}

// Config holds the complete songstage configuration
type Config struct {
	Store    StoreConfig    `mapstructure:"store" yaml:"store"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	DryRun   bool           `mapstructure:"dry_run" yaml:"dry_run"` // Fetch and normalize without writing
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Provider: ProviderS3,
			Prefix:   catalog.ObjectKeyPrefix,
		},
		Database: DatabaseConfig{
			Driver:  DriverMySQL,
			Path:    "./songstage.db",
			SSLMode: "disable",
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "json",
			MaxSizeMB:  100,
			MaxBackups: 5,
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if err := c.Store.Validate(); err != nil {
		return err
	}
	if c.DryRun {
		return nil
	}
	return c.Database.Validate()
}

// Validate checks the object store settings
func (s *StoreConfig) Validate() error {
	switch strings.ToLower(s.Provider) {
	case ProviderS3, ProviderGCS:
		if s.Bucket == "" {
			return ErrEmptyBucket
		}
	case ProviderFS:
		if s.Root == "" {
			return ErrEmptyRoot
		}
	default:
		return ErrUnknownProvider
	}

	if s.RequestsPerSecond < 0 {
		return ErrInvalidRate
	}

	return nil
}

// Validate checks the database settings
func (d *DatabaseConfig) Validate() error {
	switch strings.ToLower(d.Driver) {
	case DriverMySQL, DriverPostgres:
		if d.Host == "" {
			return ErrEmptyDatabaseHost
		}
		if d.Name == "" {
			return ErrEmptyDatabaseName
		}
	case DriverSQLite:
		if d.Path == "" {
			return ErrEmptyDatabasePath
		}
	default:
		return ErrUnknownDriver
	}

	if d.Port < 0 || d.Port > 65535 {
		return ErrInvalidPort
	}

	return nil
}

// Redacted returns a copy with secrets masked, suitable for display
func (c *Config) Redacted() *Config {
	out := *c
	out.Store.SecretAccessKey = mask(out.Store.SecretAccessKey)
	out.Database.Password = mask(out.Database.Password)
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "********"
}
