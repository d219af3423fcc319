package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	JWT      JWTConfig
	Auth     AuthConfig
	S3       S3Config
	Upload   UploadConfig
	Log      LogConfig
	LLM      LLMConfig
	Analysis AnalysisConfig
	CORS     CORSConfig
	Queue    QueueConfig
	Cache    CacheConfig
	Email    EmailConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// AuthConfig controls who may submit batches and how many credits new users get.
type AuthConfig struct {
	AllowAnonymous bool `mapstructure:"allow_anonymous"`
	InitialCredits int  `mapstructure:"initial_credits"`
}

// QueueConfig holds file job queue and worker settings.
type QueueConfig struct {
	Provider       string `mapstructure:"provider"`
	URL            string `mapstructure:"url"`
	Name           string `mapstructure:"name"`
	BufferSize     int    `mapstructure:"buffer_size"`
	Concurrency    int    `mapstructure:"concurrency"`
	JobTimeoutSecs int    `mapstructure:"job_timeout_secs"`
}

// JobTimeout returns the per-file processing deadline.
func (q *QueueConfig) JobTimeout() time.Duration {
	if q.JobTimeoutSecs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(q.JobTimeoutSecs) * time.Second
}

// CacheConfig holds results cache settings.
type CacheConfig struct {
	Provider string        `mapstructure:"provider"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMProviderConfig holds settings for a single language-model provider.
type LLMProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// LLMConfig holds language-model settings with multi-provider support.
type LLMConfig struct {
	// Flat fields configure a single provider.
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	Primary   LLMProviderConfig `mapstructure:"primary"`
	Secondary LLMProviderConfig `mapstructure:"secondary"`
	Tertiary  LLMProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary provider config, falling back to the flat fields.
func (l *LLMConfig) PrimaryConfig() *LLMProviderConfig {
	if l.Primary.Provider != "" {
		return &l.Primary
	}
	return &LLMProviderConfig{
		Provider:     l.Provider,
		APIKey:       l.APIKey,
		DefaultModel: l.DefaultModel,
		TimeoutSecs:  l.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (l *LLMConfig) SecondaryConfig() *LLMProviderConfig {
	if l.Secondary.Provider != "" {
		return &l.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary provider config, or nil if not configured.
func (l *LLMConfig) TertiaryConfig() *LLMProviderConfig {
	if l.Tertiary.Provider != "" {
		return &l.Tertiary
	}
	return nil
}

// AnalysisConfig controls how analyzed CVs are persisted.
type AnalysisConfig struct {
	// DetailGated restricts education/experience/skill rows to CVs scoring above DetailThreshold.
	DetailGated     bool `mapstructure:"detail_gated"`
	DetailThreshold int  `mapstructure:"detail_threshold"`
	MaxTextChars    int  `mapstructure:"max_text_chars"`
}

// UploadConfig holds batch upload limits.
type UploadConfig struct {
	MaxFiles      int   `mapstructure:"max_files"`
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
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

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds object storage settings for uploaded CVs.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const defaultJWTSecret = "change-me-in-production"

// Load reads configuration from environment variables with the CVSCREEN_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CVSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "cvscreen")
	v.SetDefault("db.password", "cvscreen_secret")
	v.SetDefault("db.name", "cvscreen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "cvscreen")

	// Auth defaults
	v.SetDefault("auth.allow_anonymous", false)
	v.SetDefault("auth.initial_credits", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "cvscreen-uploads")
	v.SetDefault("s3.endpoint", "")

	// Upload defaults
	v.SetDefault("upload.max_files", 50)
	v.SetDefault("upload.max_file_size_mb", 20)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Queue defaults
	v.SetDefault("queue.provider", "memory")
	v.SetDefault("queue.url", "")
	v.SetDefault("queue.name", "cvscreen.file_jobs")
	v.SetDefault("queue.buffer_size", 256)
	v.SetDefault("queue.concurrency", 4)
	v.SetDefault("queue.job_timeout_secs", 300)

	// Cache defaults
	v.SetDefault("cache.provider", "none")
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "1h")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@cvscreen.local")
	v.SetDefault("email.from_name", "CV Screen")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// LLM defaults (flat)
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.default_model", "")
	v.SetDefault("llm.timeout_secs", 120)

	// LLM primary/secondary/tertiary defaults
	for _, tier := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("llm."+tier+".provider", "")
		v.SetDefault("llm."+tier+".api_key", "")
		v.SetDefault("llm."+tier+".default_model", "")
		v.SetDefault("llm."+tier+".timeout_secs", 120)
	}

	// Analysis defaults
	v.SetDefault("analysis.detail_gated", true)
	v.SetDefault("analysis.detail_threshold", 65)
	v.SetDefault("analysis.max_text_chars", 60000)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                  "CVSCREEN_SERVER_PORT",
		"server.read_timeout":          "CVSCREEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":         "CVSCREEN_SERVER_WRITE_TIMEOUT",
		"server.environment":           "CVSCREEN_SERVER_ENVIRONMENT",
		"db.host":                      "CVSCREEN_DB_HOST",
		"db.port":                      "CVSCREEN_DB_PORT",
		"db.user":                      "CVSCREEN_DB_USER",
		"db.password":                  "CVSCREEN_DB_PASSWORD",
		"db.name":                      "CVSCREEN_DB_NAME",
		"db.sslmode":                   "CVSCREEN_DB_SSLMODE",
		"db.max_open":                  "CVSCREEN_DB_MAX_OPEN",
		"db.max_idle":                  "CVSCREEN_DB_MAX_IDLE",
		"jwt.secret":                   "CVSCREEN_JWT_SECRET",
		"jwt.access_expiry":            "CVSCREEN_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":           "CVSCREEN_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                   "CVSCREEN_JWT_ISSUER",
		"auth.allow_anonymous":         "CVSCREEN_AUTH_ALLOW_ANONYMOUS",
		"auth.initial_credits":         "CVSCREEN_AUTH_INITIAL_CREDITS",
		"s3.region":                    "CVSCREEN_S3_REGION",
		"s3.bucket":                    "CVSCREEN_S3_BUCKET",
		"s3.endpoint":                  "CVSCREEN_S3_ENDPOINT",
		"s3.access_key":                "CVSCREEN_S3_ACCESS_KEY",
		"s3.secret_key":                "CVSCREEN_S3_SECRET_KEY",
		"upload.max_files":             "CVSCREEN_UPLOAD_MAX_FILES",
		"upload.max_file_size_mb":      "CVSCREEN_UPLOAD_MAX_FILE_SIZE_MB",
		"log.level":                    "CVSCREEN_LOG_LEVEL",
		"log.format":                   "CVSCREEN_LOG_FORMAT",
		"cors.allowed_origins":         "CVSCREEN_CORS_ALLOWED_ORIGINS",
		"queue.provider":               "CVSCREEN_QUEUE_PROVIDER",
		"queue.url":                    "CVSCREEN_QUEUE_URL",
		"queue.name":                   "CVSCREEN_QUEUE_NAME",
		"queue.buffer_size":            "CVSCREEN_QUEUE_BUFFER_SIZE",
		"queue.concurrency":            "CVSCREEN_QUEUE_CONCURRENCY",
		"queue.job_timeout_secs":       "CVSCREEN_QUEUE_JOB_TIMEOUT_SECS",
		"cache.provider":               "CVSCREEN_CACHE_PROVIDER",
		"cache.addr":                   "CVSCREEN_CACHE_ADDR",
		"cache.password":               "CVSCREEN_CACHE_PASSWORD",
		"cache.db":                     "CVSCREEN_CACHE_DB",
		"cache.ttl":                    "CVSCREEN_CACHE_TTL",
		"email.provider":               "CVSCREEN_EMAIL_PROVIDER",
		"email.region":                 "CVSCREEN_EMAIL_REGION",
		"email.from_address":           "CVSCREEN_EMAIL_FROM_ADDRESS",
		"email.from_name":              "CVSCREEN_EMAIL_FROM_NAME",
		"email.frontend_url":           "CVSCREEN_EMAIL_FRONTEND_URL",
		"llm.provider":                 "CVSCREEN_LLM_PROVIDER",
		"llm.api_key":                  "CVSCREEN_LLM_API_KEY",
		"llm.default_model":            "CVSCREEN_LLM_DEFAULT_MODEL",
		"llm.timeout_secs":             "CVSCREEN_LLM_TIMEOUT_SECS",
		"llm.primary.provider":         "CVSCREEN_LLM_PRIMARY_PROVIDER",
		"llm.primary.api_key":          "CVSCREEN_LLM_PRIMARY_API_KEY",
		"llm.primary.default_model":    "CVSCREEN_LLM_PRIMARY_DEFAULT_MODEL",
		"llm.primary.timeout_secs":     "CVSCREEN_LLM_PRIMARY_TIMEOUT_SECS",
		"llm.secondary.provider":       "CVSCREEN_LLM_SECONDARY_PROVIDER",
		"llm.secondary.api_key":        "CVSCREEN_LLM_SECONDARY_API_KEY",
		"llm.secondary.default_model":  "CVSCREEN_LLM_SECONDARY_DEFAULT_MODEL",
		"llm.secondary.timeout_secs":   "CVSCREEN_LLM_SECONDARY_TIMEOUT_SECS",
		"llm.tertiary.provider":        "CVSCREEN_LLM_TERTIARY_PROVIDER",
		"llm.tertiary.api_key":         "CVSCREEN_LLM_TERTIARY_API_KEY",
		"llm.tertiary.default_model":   "CVSCREEN_LLM_TERTIARY_DEFAULT_MODEL",
		"llm.tertiary.timeout_secs":    "CVSCREEN_LLM_TERTIARY_TIMEOUT_SECS",
		"analysis.detail_gated":        "CVSCREEN_ANALYSIS_DETAIL_GATED",
		"analysis.detail_threshold":    "CVSCREEN_ANALYSIS_DETAIL_THRESHOLD",
		"analysis.max_text_chars":      "CVSCREEN_ANALYSIS_MAX_TEXT_CHARS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Platforms like Railway/Render set PORT. Use it if CVSCREEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CVSCREEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.Auth = AuthConfig{
		AllowAnonymous: v.GetBool("auth.allow_anonymous"),
		InitialCredits: v.GetInt("auth.initial_credits"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Upload = UploadConfig{
		MaxFiles:      v.GetInt("upload.max_files"),
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitCSV(v.GetString("cors.allowed_origins")),
	}
	cfg.Queue = QueueConfig{
		Provider:       v.GetString("queue.provider"),
		URL:            v.GetString("queue.url"),
		Name:           v.GetString("queue.name"),
		BufferSize:     v.GetInt("queue.buffer_size"),
		Concurrency:    v.GetInt("queue.concurrency"),
		JobTimeoutSecs: v.GetInt("queue.job_timeout_secs"),
	}
	cfg.Cache = CacheConfig{
		Provider: v.GetString("cache.provider"),
		Addr:     v.GetString("cache.addr"),
		Password: v.GetString("cache.password"),
		DB:       v.GetInt("cache.db"),
		TTL:      v.GetDuration("cache.ttl"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	tier := func(name string) LLMProviderConfig {
		return LLMProviderConfig{
			Provider:     v.GetString("llm." + name + ".provider"),
			APIKey:       v.GetString("llm." + name + ".api_key"),
			DefaultModel: v.GetString("llm." + name + ".default_model"),
			TimeoutSecs:  v.GetInt("llm." + name + ".timeout_secs"),
		}
	}
	cfg.LLM = LLMConfig{
		Provider:     v.GetString("llm.provider"),
		APIKey:       v.GetString("llm.api_key"),
		DefaultModel: v.GetString("llm.default_model"),
		TimeoutSecs:  v.GetInt("llm.timeout_secs"),
		Primary:      tier("primary"),
		Secondary:    tier("secondary"),
		Tertiary:     tier("tertiary"),
	}
	cfg.Analysis = AnalysisConfig{
		DetailGated:     v.GetBool("analysis.detail_gated"),
		DetailThreshold: v.GetInt("analysis.detail_threshold"),
		MaxTextChars:    v.GetInt("analysis.max_text_chars"),
	}

	return cfg, nil
}

// Validate reports every missing value the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.LLM.PrimaryConfig().APIKey == "" {
		errs = append(errs, errors.New("llm api key is required (CVSCREEN_LLM_API_KEY or CVSCREEN_LLM_PRIMARY_API_KEY)"))
	}
	if c.Server.Environment == "production" && c.JWT.Secret == defaultJWTSecret {
		errs = append(errs, errors.New("jwt secret must be set in production (CVSCREEN_JWT_SECRET)"))
	}
	if c.S3.Bucket == "" {
		errs = append(errs, errors.New("s3 bucket is required (CVSCREEN_S3_BUCKET)"))
	}
	if c.Queue.Provider == "rabbitmq" && c.Queue.URL == "" {
		errs = append(errs, errors.New("queue url is required for rabbitmq (CVSCREEN_QUEUE_URL)"))
	}
	if c.Cache.Provider == "redis" && c.Cache.Addr == "" {
		errs = append(errs, errors.New("cache addr is required for redis (CVSCREEN_CACHE_ADDR)"))
	}
	return errors.Join(errs...)
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
