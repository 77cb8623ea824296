package config

const (
	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvStoreDriver    = "FISHTANK_STORE_DRIVER"
	EnvDataPath       = "FISHTANK_DATA_PATH"
	EnvCreateDataPath = "FISHTANK_CREATE_DATA_PATH"
	EnvSQLitePath     = "FISHTANK_SQLITE_PATH"
	EnvPostgresDSN    = "FISHTANK_POSTGRES_DSN"

	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvS3Bucket    = "FISHTANK_S3_BUCKET"
	EnvS3Region    = "FISHTANK_S3_REGION"
	EnvS3Endpoint  = "FISHTANK_S3_ENDPOINT"
	EnvS3Prefix    = "FISHTANK_S3_PREFIX"
	EnvS3PathStyle = "FISHTANK_S3_PATH_STYLE"

	EnvAPIBasePath   = "FISHTANK_API_BASE_PATH"
	EnvDiagnosticLog = "FISHTANK_DIAGNOSTIC_LOG"

	EnvKafkaBrokers = "KAFKA_BROKERS"
	EnvEventsTopic  = "FISHTANK_EVENTS_TOPIC"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvMetricsEnabled = "METRICS_ENABLED"
)
