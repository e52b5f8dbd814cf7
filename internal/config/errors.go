package config

import "errors"

var (
	// ErrUnknownProvider is returned when the object store provider is not s3, gcs or fs
	ErrUnknownProvider = errors.New("store.provider must be one of s3, gcs, fs")
	// ErrEmptyBucket is returned when a cloud provider is selected without a bucket
	ErrEmptyBucket = errors.New("store.bucket cannot be empty")
	// ErrEmptyRoot is returned when the fs provider has no root directory
	ErrEmptyRoot = errors.New("store.root cannot be empty for the fs provider")
	// ErrInvalidRate is returned when the fetch rate is negative
	ErrInvalidRate = errors.New("store.requests_per_second cannot be negative")
	// ErrUnknownDriver is returned when the database driver is not supported
	ErrUnknownDriver = errors.New("database.driver must be one of mysql, postgres, sqlite")
	// ErrEmptyDatabaseHost is returned when a server database has no host
	ErrEmptyDatabaseHost = errors.New("database.host cannot be empty")
	// ErrEmptyDatabaseName is returned when a server database has no name
	ErrEmptyDatabaseName = errors.New("database.name cannot be empty")
	// ErrEmptyDatabasePath is returned when database path is empty
	ErrEmptyDatabasePath = errors.New("database.path cannot be empty")
	// ErrInvalidPort is returned when the database port is out of range
	ErrInvalidPort = errors.New("database.port must be between 0 and 65535")
)
