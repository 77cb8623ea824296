package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"fishtank/pkg/client"
	"fishtank/pkg/logger"
)

var (
	validDrivers      = []string{"fs", "sqlite", "postgres", "mongo", "s3", "memory"}
	mongoURIRegex     = regexp.MustCompile(`^mongodb(\+srv)?://`)
	credentialRegex   = regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	postgresCredRegex = regexp.MustCompile(`(postgres(ql)?://[^:/@]+):[^@]+@`)
)

type Config struct {
	Port string

	StoreDriver    string
	DataPath       string
	CreateDataPath bool
	SQLitePath     string
	PostgresDSN    string

	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3Prefix    string
	S3PathStyle bool

	APIBasePath       string
	DiagnosticLogPath string

	KafkaBrokers []string
	EventsTopic  string

	RequestTimeout time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	MetricsEnabled bool

	Log        *logger.Logger
	Diagnostic *logger.Logger
	Client     *client.Client
}

// Load reads the environment, exits on invalid values and logs the result.
func Load(serviceName string) *Config {
	cfg := FromEnv(serviceName)

	err := cfg.Validate()
	if err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

// FromEnv reads the environment without validating it.
func FromEnv(serviceName string) *Config {
	cfg := &Config{
		Port: getEnvStr(EnvPort, DefaultPort),

		StoreDriver:    strings.ToLower(getEnvStr(EnvStoreDriver, DefaultStoreDriver)),
		DataPath:       getEnvStr(EnvDataPath, DefaultDataPath),
		CreateDataPath: getEnvBool(EnvCreateDataPath, DefaultCreateDataPath),
		SQLitePath:     getEnvStr(EnvSQLitePath, DefaultSQLitePath),
		PostgresDSN:    getEnvStr(EnvPostgresDSN, ""),

		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		S3Bucket:    getEnvStr(EnvS3Bucket, ""),
		S3Region:    getEnvStr(EnvS3Region, DefaultS3Region),
		S3Endpoint:  getEnvStr(EnvS3Endpoint, ""),
		S3Prefix:    getEnvStr(EnvS3Prefix, DefaultS3Prefix),
		S3PathStyle: getEnvBool(EnvS3PathStyle, false),

		APIBasePath:       getEnvStr(EnvAPIBasePath, DefaultAPIBasePath),
		DiagnosticLogPath: getEnvStrAllowEmpty(EnvDiagnosticLog, DefaultDiagnosticLog),

		KafkaBrokers: getEnvList(EnvKafkaBrokers),
		EventsTopic:  getEnvStr(EnvEventsTopic, DefaultEventsTopic),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		MetricsEnabled: getEnvBool(EnvMetricsEnabled, DefaultMetricsEnabled),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, logger.INFO),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}
	cfg.Diagnostic = logger.NewDiagnostic(cfg.DiagnosticLogPath, serviceName)
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// EventsEnabled reports whether lifecycle events should be published.
func (cfg *Config) EventsEnabled() bool {
	return len(cfg.KafkaBrokers) > 0
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if !contains(validDrivers, cfg.StoreDriver) {
		errors = append(errors, fmt.Sprintf("StoreDriver must be one of %v, got: %s", validDrivers, cfg.StoreDriver))
	}

	switch cfg.StoreDriver {
	case "fs":
		if cfg.DataPath == "" {
			errors = append(errors, "DataPath cannot be empty for the fs driver")
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			errors = append(errors, "SQLitePath cannot be empty for the sqlite driver")
		}
	case "postgres":
		if cfg.PostgresDSN == "" {
			errors = append(errors, "PostgresDSN cannot be empty for the postgres driver")
		}
	case "mongo":
		if cfg.MongoURI == "" {
			errors = append(errors, "MongoURI cannot be empty")
		} else if len(cfg.MongoURI) < 10 || !mongoURIRegex.MatchString(cfg.MongoURI) {
			errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
		}
		if cfg.MongoDatabaseName == "" {
			errors = append(errors, "MongoDatabaseName cannot be empty")
		}
		if cfg.MongoConnTimeout <= 0 {
			errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
		}
	case "s3":
		if cfg.S3Bucket == "" {
			errors = append(errors, "S3Bucket cannot be empty for the s3 driver")
		}
	}

	if !strings.HasPrefix(cfg.APIBasePath, "/") {
		errors = append(errors, fmt.Sprintf("APIBasePath must start with '/', got: %s", cfg.APIBasePath))
	}

	for i, broker := range cfg.KafkaBrokers {
		if broker == "" {
			errors = append(errors, fmt.Sprintf("Kafka broker %d cannot be empty", i))
		}
	}
	if cfg.EventsEnabled() && cfg.EventsTopic == "" {
		errors = append(errors, "EventsTopic cannot be empty when Kafka brokers are set")
	}

	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"port", cfg.Port,
		"store_driver", cfg.StoreDriver,
		"data_path", cfg.DataPath,
		"create_data_path", cfg.CreateDataPath,
		"sqlite_path", cfg.SQLitePath,
		"postgres_dsn", redactPostgresDSN(cfg.PostgresDSN),
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"s3_bucket", cfg.S3Bucket,
		"s3_region", cfg.S3Region,
		"s3_endpoint", cfg.S3Endpoint,
		"s3_prefix", cfg.S3Prefix,
		"s3_path_style", cfg.S3PathStyle,
		"api_base_path", cfg.APIBasePath,
		"diagnostic_log", cfg.DiagnosticLogPath,
		"kafka_brokers", cfg.KafkaBrokers,
		"events_topic", cfg.EventsTopic,
		"request_timeout", cfg.RequestTimeout,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"metrics_enabled", cfg.MetricsEnabled,
	)
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func redactMongoURI(uri string) string {
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func redactPostgresDSN(dsn string) string {
	return postgresCredRegex.ReplaceAllString(dsn, "${1}:***@")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvStrAllowEmpty treats a variable that is set but empty as a value.
func getEnvStrAllowEmpty(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}
