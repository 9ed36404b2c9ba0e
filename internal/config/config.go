package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"billing-backend/internal/logger"
)

type Config struct {
	Server struct {
		Port               int           `mapstructure:"port"`
		PublicURL          string        `mapstructure:"public_url"`
		RequestTimeout     time.Duration `mapstructure:"request_timeout"`
		CorsAllowedOrigins []string      `mapstructure:"cors_allowed_origins"`
		CorsAllowedMethods []string      `mapstructure:"cors_allowed_methods"`
		CorsAllowedHeaders []string      `mapstructure:"cors_allowed_headers"`
	} `mapstructure:"server"`

	Database struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
		MaxConns int32  `mapstructure:"max_conns"`
	} `mapstructure:"database"`

	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		ListTTL  time.Duration `mapstructure:"list_ttl"`
	} `mapstructure:"redis"`

	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"access_key"`
		SecretKey string `mapstructure:"secret_key"`
	} `mapstructure:"storage"`

	DocumentAI struct {
		ProjectID       string `mapstructure:"project_id"`
		Location        string `mapstructure:"location"`
		ProcessorID     string `mapstructure:"processor_id"`
		CredentialsFile string `mapstructure:"credentials_file"`
	} `mapstructure:"documentai"`

	Billing struct {
		Timezone        string `mapstructure:"timezone"`
		DefaultCurrency string `mapstructure:"default_currency"`
		CompanyName     string `mapstructure:"company_name"`
	} `mapstructure:"billing"`

	Log logger.LogConfig `mapstructure:"log"`
}

// DSN returns the postgres connection string
func (c *Config) DSN() string {
	sslmode := c.Database.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	return "postgres://" + c.Database.User + ":" + c.Database.Password + "@" +
		c.Database.Host + ":" + strconv.Itoa(c.Database.Port) + "/" + c.Database.Name +
		"?sslmode=" + sslmode
}

// StorageEnabled reports whether object storage is configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}

// ExtractionEnabled reports whether Document AI is configured
func (c *Config) ExtractionEnabled() bool {
	return c.DocumentAI.ProjectID != "" && c.DocumentAI.ProcessorID != ""
}

func Load() *Config {
	// Load .env file if exists (ignore error in production)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(configPath())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set sensible defaults (binary works without config file)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.public_url", "http://localhost:8080")
	v.SetDefault("server.request_timeout", 30*time.Second)
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.cors_allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("server.cors_allowed_headers", []string{"Content-Type", "Authorization"})
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "billing")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.list_ttl", 5*time.Minute)
	v.SetDefault("storage.region", "auto")
	v.SetDefault("documentai.location", "eu")
	v.SetDefault("billing.timezone", "UTC")
	v.SetDefault("billing.default_currency", "EUR")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		log.Info().Msg("no config file found, using defaults")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatal().Err(err).Msg("config unmarshal error")
	}

	applyEnv(&cfg)
	return &cfg
}

func configPath() string {
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		return p
	}
	return "configs/config.yaml"
}

// applyEnv overrides settings from the flat variable names used by the
// deployment (DB_HOST, REDIS_ADDR, S3_BUCKET, ...).
func applyEnv(cfg *Config) {
	setString(&cfg.Database.Host, "DB_HOST")
	setInt(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")

	setString(&cfg.Redis.Addr, "REDIS_ADDR")
	setString(&cfg.Redis.Password, "REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "REDIS_DB")

	setString(&cfg.Storage.Endpoint, "S3_ENDPOINT")
	setString(&cfg.Storage.Region, "S3_REGION")
	setString(&cfg.Storage.Bucket, "S3_BUCKET")
	setString(&cfg.Storage.AccessKey, "S3_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "S3_SECRET_KEY")

	setString(&cfg.DocumentAI.ProjectID, "DOCUMENTAI_PROJECT_ID")
	setString(&cfg.DocumentAI.Location, "DOCUMENTAI_LOCATION")
	setString(&cfg.DocumentAI.ProcessorID, "DOCUMENTAI_PROCESSOR_ID")
	setString(&cfg.DocumentAI.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Log.Output, "LOG_OUTPUT")

	setInt(&cfg.Server.Port, "PORT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			*dst = n
		}
	}
}
