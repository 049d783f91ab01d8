package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "notcluely"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultTokenTTL = 24 * time.Hour

	// DefaultAdminHandle preserves the historical reserved admin name.
	// Override at provisioning time; the handle itself grants admin.
	DefaultAdminHandle = "rutvik"

	DefaultLoginMaxAttempts = 5
	DefaultLoginWindow      = 15 * time.Minute

	DefaultCORSOrigins = "*"
	DefaultEventsTopic = "scheduler.events"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
