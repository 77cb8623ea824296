package config

import "time"

const (
	DefaultPort = "8080"

	DefaultStoreDriver    = "fs"
	DefaultDataPath       = "./Tank"
	DefaultCreateDataPath = false
	DefaultSQLitePath     = "./fishtank.db"

	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fishtank"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultS3Region = "us-east-1"
	DefaultS3Prefix = "Tank"

	DefaultAPIBasePath   = "/api"
	DefaultDiagnosticLog = "./API.log"

	DefaultEventsTopic = "fishtank.fish.events"

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultMetricsEnabled = true
)
