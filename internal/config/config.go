package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	CORS      CORSConfig
	Extractor ExtractorConfig
	Pipeline  PipelineConfig
	Output    OutputConfig
	DB        DBConfig
	S3        S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractorConfig holds vision-model extraction service settings.
type ExtractorConfig struct {
	Host        string        `mapstructure:"host"`
	Model       string        `mapstructure:"model"`
	PromptKey   string        `mapstructure:"prompt_key"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryDelay  time.Duration `mapstructure:"retry_delay"`
	TimeoutSecs int           `mapstructure:"timeout_secs"`
}

// Timeout returns the per-call HTTP timeout.
func (e *ExtractorConfig) Timeout() time.Duration {
	if e.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(e.TimeoutSecs) * time.Second
}

// PipelineConfig holds document processing settings.
type PipelineConfig struct {
	PageConcurrency int  `mapstructure:"page_concurrency"`
	CanonicalSize   int  `mapstructure:"canonical_size"`
	CreateCombined  bool `mapstructure:"create_combined"`
}

// OutputConfig holds artifact output settings.
type OutputConfig struct {
	Root         string `mapstructure:"root"`
	SaveRaw      bool   `mapstructure:"save_raw"`
	SaveJSON     bool   `mapstructure:"save_json"`
	SaveMarkdown bool   `mapstructure:"save_markdown"`
}

// DBConfig holds optional PostgreSQL run-ledger settings.
type DBConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds optional S3 mirror settings. An empty bucket disables the
// mirror.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// Load reads configuration from environment variables with the PAGELENS_
// prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("PAGELENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extractor defaults
	v.SetDefault("extractor.host", "http://localhost:11434")
	v.SetDefault("extractor.model", "deepseek-ocr:3b")
	v.SetDefault("extractor.prompt_key", "grounding_v1")
	v.SetDefault("extractor.max_retries", 3)
	v.SetDefault("extractor.retry_delay", "1s")
	v.SetDefault("extractor.timeout_secs", 120)

	// Pipeline defaults
	v.SetDefault("pipeline.page_concurrency", 2)
	v.SetDefault("pipeline.canonical_size", 1024)
	v.SetDefault("pipeline.create_combined", true)

	// Output defaults
	v.SetDefault("output.root", "output")
	v.SetDefault("output.save_raw", true)
	v.SetDefault("output.save_json", true)
	v.SetDefault("output.save_markdown", true)

	// DB defaults (run ledger disabled unless enabled explicitly)
	v.SetDefault("db.enabled", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "pagelens")
	v.SetDefault("db.password", "pagelens_secret")
	v.SetDefault("db.name", "pagelens_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults (mirror disabled while bucket is empty)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "pagelens")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "PAGELENS_SERVER_PORT",
		"server.read_timeout":       "PAGELENS_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "PAGELENS_SERVER_WRITE_TIMEOUT",
		"server.environment":        "PAGELENS_SERVER_ENVIRONMENT",
		"log.level":                 "PAGELENS_LOG_LEVEL",
		"log.format":                "PAGELENS_LOG_FORMAT",
		"cors.allowed_origins":      "PAGELENS_CORS_ALLOWED_ORIGINS",
		"extractor.host":            "PAGELENS_EXTRACTOR_HOST",
		"extractor.model":           "PAGELENS_EXTRACTOR_MODEL",
		"extractor.prompt_key":      "PAGELENS_EXTRACTOR_PROMPT_KEY",
		"extractor.max_retries":     "PAGELENS_EXTRACTOR_MAX_RETRIES",
		"extractor.retry_delay":     "PAGELENS_EXTRACTOR_RETRY_DELAY",
		"extractor.timeout_secs":    "PAGELENS_EXTRACTOR_TIMEOUT_SECS",
		"pipeline.page_concurrency": "PAGELENS_PIPELINE_PAGE_CONCURRENCY",
		"pipeline.canonical_size":   "PAGELENS_PIPELINE_CANONICAL_SIZE",
		"pipeline.create_combined":  "PAGELENS_PIPELINE_CREATE_COMBINED",
		"output.root":               "PAGELENS_OUTPUT_ROOT",
		"output.save_raw":           "PAGELENS_OUTPUT_SAVE_RAW",
		"output.save_json":          "PAGELENS_OUTPUT_SAVE_JSON",
		"output.save_markdown":      "PAGELENS_OUTPUT_SAVE_MARKDOWN",
		"db.enabled":                "PAGELENS_DB_ENABLED",
		"db.host":                   "PAGELENS_DB_HOST",
		"db.port":                   "PAGELENS_DB_PORT",
		"db.user":                   "PAGELENS_DB_USER",
		"db.password":               "PAGELENS_DB_PASSWORD",
		"db.name":                   "PAGELENS_DB_NAME",
		"db.sslmode":                "PAGELENS_DB_SSLMODE",
		"db.max_open":               "PAGELENS_DB_MAX_OPEN",
		"db.max_idle":               "PAGELENS_DB_MAX_IDLE",
		"s3.region":                 "PAGELENS_S3_REGION",
		"s3.bucket":                 "PAGELENS_S3_BUCKET",
		"s3.endpoint":               "PAGELENS_S3_ENDPOINT",
		"s3.access_key":             "PAGELENS_S3_ACCESS_KEY",
		"s3.secret_key":             "PAGELENS_S3_SECRET_KEY",
		"s3.key_prefix":             "PAGELENS_S3_KEY_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if PAGELENS_SERVER_PORT
	// is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PAGELENS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Extractor = ExtractorConfig{
		Host:        v.GetString("extractor.host"),
		Model:       v.GetString("extractor.model"),
		PromptKey:   v.GetString("extractor.prompt_key"),
		MaxRetries:  v.GetInt("extractor.max_retries"),
		RetryDelay:  v.GetDuration("extractor.retry_delay"),
		TimeoutSecs: v.GetInt("extractor.timeout_secs"),
	}
	cfg.Pipeline = PipelineConfig{
		PageConcurrency: v.GetInt("pipeline.page_concurrency"),
		CanonicalSize:   v.GetInt("pipeline.canonical_size"),
		CreateCombined:  v.GetBool("pipeline.create_combined"),
	}
	cfg.Output = OutputConfig{
		Root:         v.GetString("output.root"),
		SaveRaw:      v.GetBool("output.save_raw"),
		SaveJSON:     v.GetBool("output.save_json"),
		SaveMarkdown: v.GetBool("output.save_markdown"),
	}
	cfg.DB = DBConfig{
		Enabled:  v.GetBool("db.enabled"),
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
		KeyPrefix: v.GetString("s3.key_prefix"),
	}

	return cfg, nil
}
