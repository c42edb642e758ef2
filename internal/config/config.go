package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server" envconfig:"SERVER"`
	Security  SecurityConfig  `yaml:"security" envconfig:"SECURITY"`
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
	Explorer  ExplorerConfig  `yaml:"explorer" envconfig:"EXPLORER"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `yaml:"host" envconfig:"HOST" default:""`
	Port            int           `yaml:"port" envconfig:"PORT" default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" envconfig:"IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" envconfig:"REQUEST_TIMEOUT" default:"45s"`
	MaxHeaderBytes  int           `yaml:"max_header_bytes" envconfig:"MAX_HEADER_BYTES" default:"1048576"`
	// MaxUploadBytes caps a whole explore request body. Zero disables the cap.
	MaxUploadBytes  int64 `yaml:"max_upload_bytes" envconfig:"MAX_UPLOAD_BYTES" default:"67108864"`
	MultipartMemory int64 `yaml:"multipart_memory" envconfig:"MULTIPART_MEMORY" default:"33554432"`
	OpenBrowser     bool  `yaml:"open_browser" envconfig:"OPEN_BROWSER" default:"false"`
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	AllowedOrigins []string        `yaml:"allowed_origins" envconfig:"ALLOWED_ORIGINS" default:"http://localhost:8080"`
	EnableCORS     bool            `yaml:"enable_cors" envconfig:"ENABLE_CORS" default:"true"`
	RateLimit      RateLimitConfig `yaml:"rate_limit" envconfig:"RATE_LIMIT"`
}

// RateLimitConfig contains rate limiting configuration
type RateLimitConfig struct {
	Enabled bool    `yaml:"enabled" envconfig:"ENABLED" default:"true"`
	RPS     float64 `yaml:"rps" envconfig:"RPS" default:"50"`
	Burst   int     `yaml:"burst" envconfig:"BURST" default:"25"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Format   string `yaml:"format" envconfig:"FORMAT" default:"json"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"stdout"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/csvplot.log"`
}

// TelemetryConfig selects the OpenTelemetry exporters
type TelemetryConfig struct {
	ServiceName    string  `yaml:"service_name" envconfig:"SERVICE_NAME" default:"csvplot"`
	Environment    string  `yaml:"environment" envconfig:"ENVIRONMENT" default:"development"`
	TraceExporter  string  `yaml:"trace_exporter" envconfig:"TRACE_EXPORTER" default:"none"`
	MetricExporter string  `yaml:"metric_exporter" envconfig:"METRIC_EXPORTER" default:"prometheus"`
	SampleRatio    float64 `yaml:"sample_ratio" envconfig:"SAMPLE_RATIO" default:"1"`
}

// ExplorerConfig tunes the explore pipeline
type ExplorerConfig struct {
	CacheEntries int `yaml:"cache_entries" envconfig:"CACHE_ENTRIES" default:"16"`
	ChartWidth   int `yaml:"chart_width" envconfig:"CHART_WIDTH" default:"1024"`
	ChartHeight  int `yaml:"chart_height" envconfig:"CHART_HEIGHT" default:"480"`
	RowHeight    int `yaml:"row_height" envconfig:"ROW_HEIGHT" default:"240"`
	// Seed fixes the per-column palette draws. Zero seeds from the clock.
	Seed int64 `yaml:"seed" envconfig:"SEED" default:"0"`
}

// Load loads configuration from the environment and an optional config
// file. Variables from a .env file in the working directory are applied
// first without overriding the real environment.
func Load() (*Config, error) {
	return LoadFrom(getConfigFilePath())
}

// LoadFrom is Load with an explicit config file. An empty path skips the
// file.
func LoadFrom(configFile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile != "" {
		fileConfig, err := loadFromFile(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = mergeConfigs(*fileConfig, cfg)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays a YAML file onto base. Keys missing from the file
// keep their base value.
func loadFromFile(filePath string, base Config) (*Config, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	cfg := base
	cfg.Security.AllowedOrigins = append([]string(nil), base.Security.AllowedOrigins...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// pick prefers the environment value when its variable is explicitly set
func pick[T any](key string, envValue, fileValue T) T {
	if _, ok := os.LookupEnv(EnvPrefix + "_" + key); ok {
		return envValue
	}
	return fileValue
}

// mergeConfigs merges file config with env config (env takes precedence)
func mergeConfigs(fileConfig, envConfig Config) Config {
	f, e := fileConfig, envConfig

	f.Server.Host = pick("SERVER_HOST", e.Server.Host, f.Server.Host)
	f.Server.Port = pick("SERVER_PORT", e.Server.Port, f.Server.Port)
	f.Server.ReadTimeout = pick("SERVER_READ_TIMEOUT", e.Server.ReadTimeout, f.Server.ReadTimeout)
	f.Server.WriteTimeout = pick("SERVER_WRITE_TIMEOUT", e.Server.WriteTimeout, f.Server.WriteTimeout)
	f.Server.IdleTimeout = pick("SERVER_IDLE_TIMEOUT", e.Server.IdleTimeout, f.Server.IdleTimeout)
	f.Server.ShutdownTimeout = pick("SERVER_SHUTDOWN_TIMEOUT", e.Server.ShutdownTimeout, f.Server.ShutdownTimeout)
	f.Server.RequestTimeout = pick("SERVER_REQUEST_TIMEOUT", e.Server.RequestTimeout, f.Server.RequestTimeout)
	f.Server.MaxHeaderBytes = pick("SERVER_MAX_HEADER_BYTES", e.Server.MaxHeaderBytes, f.Server.MaxHeaderBytes)
	f.Server.MaxUploadBytes = pick("SERVER_MAX_UPLOAD_BYTES", e.Server.MaxUploadBytes, f.Server.MaxUploadBytes)
	f.Server.MultipartMemory = pick("SERVER_MULTIPART_MEMORY", e.Server.MultipartMemory, f.Server.MultipartMemory)
	f.Server.OpenBrowser = pick("SERVER_OPEN_BROWSER", e.Server.OpenBrowser, f.Server.OpenBrowser)

	f.Security.AllowedOrigins = pick("SECURITY_ALLOWED_ORIGINS", e.Security.AllowedOrigins, f.Security.AllowedOrigins)
	f.Security.EnableCORS = pick("SECURITY_ENABLE_CORS", e.Security.EnableCORS, f.Security.EnableCORS)
	f.Security.RateLimit.Enabled = pick("SECURITY_RATE_LIMIT_ENABLED", e.Security.RateLimit.Enabled, f.Security.RateLimit.Enabled)
	f.Security.RateLimit.RPS = pick("SECURITY_RATE_LIMIT_RPS", e.Security.RateLimit.RPS, f.Security.RateLimit.RPS)
	f.Security.RateLimit.Burst = pick("SECURITY_RATE_LIMIT_BURST", e.Security.RateLimit.Burst, f.Security.RateLimit.Burst)

	f.Logging.Level = pick("LOGGING_LEVEL", e.Logging.Level, f.Logging.Level)
	f.Logging.Format = pick("LOGGING_FORMAT", e.Logging.Format, f.Logging.Format)
	f.Logging.Output = pick("LOGGING_OUTPUT", e.Logging.Output, f.Logging.Output)
	f.Logging.FilePath = pick("LOGGING_FILE_PATH", e.Logging.FilePath, f.Logging.FilePath)

	f.Telemetry.ServiceName = pick("TELEMETRY_SERVICE_NAME", e.Telemetry.ServiceName, f.Telemetry.ServiceName)
	f.Telemetry.Environment = pick("TELEMETRY_ENVIRONMENT", e.Telemetry.Environment, f.Telemetry.Environment)
	f.Telemetry.TraceExporter = pick("TELEMETRY_TRACE_EXPORTER", e.Telemetry.TraceExporter, f.Telemetry.TraceExporter)
	f.Telemetry.MetricExporter = pick("TELEMETRY_METRIC_EXPORTER", e.Telemetry.MetricExporter, f.Telemetry.MetricExporter)
	f.Telemetry.SampleRatio = pick("TELEMETRY_SAMPLE_RATIO", e.Telemetry.SampleRatio, f.Telemetry.SampleRatio)

	f.Explorer.CacheEntries = pick("EXPLORER_CACHE_ENTRIES", e.Explorer.CacheEntries, f.Explorer.CacheEntries)
	f.Explorer.ChartWidth = pick("EXPLORER_CHART_WIDTH", e.Explorer.ChartWidth, f.Explorer.ChartWidth)
	f.Explorer.ChartHeight = pick("EXPLORER_CHART_HEIGHT", e.Explorer.ChartHeight, f.Explorer.ChartHeight)
	f.Explorer.RowHeight = pick("EXPLORER_ROW_HEIGHT", e.Explorer.RowHeight, f.Explorer.RowHeight)
	f.Explorer.Seed = pick("EXPLORER_SEED", e.Explorer.Seed, f.Explorer.Seed)

	return f
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}

	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}

	if c.Server.RequestTimeout <= 0 {
		return fmt.Errorf("server request timeout must be positive")
	}

	if c.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("max upload bytes must not be negative")
	}

	if c.Server.MultipartMemory <= 0 {
		c.Server.MultipartMemory = DefaultMultipartMemory
	}

	if c.Security.EnableCORS && len(c.Security.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin must be specified")
	}

	if c.Security.RateLimit.Enabled && (c.Security.RateLimit.RPS <= 0 || c.Security.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return err
	}

	c.Logging.Format = strings.ToLower(c.Logging.Format)
	if c.Logging.Format != "json" && c.Logging.Format != "text" {
		return fmt.Errorf("invalid logging format: %q", c.Logging.Format)
	}

	switch c.Logging.Output {
	case "console":
		c.Logging.Output = "stdout"
	case "stdout", "file", "both":
	default:
		return fmt.Errorf("invalid logging output: %q", c.Logging.Output)
	}

	if c.Logging.Output != "stdout" && c.Logging.FilePath == "" {
		c.Logging.FilePath = DefaultLogFile
	}

	switch c.Telemetry.TraceExporter {
	case "none", "stdout":
	default:
		return fmt.Errorf("invalid trace exporter: %q", c.Telemetry.TraceExporter)
	}

	switch c.Telemetry.MetricExporter {
	case "none", "prometheus":
	default:
		return fmt.Errorf("invalid metric exporter: %q", c.Telemetry.MetricExporter)
	}

	if c.Telemetry.SampleRatio < 0 || c.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("sample ratio must be within [0, 1]: %v", c.Telemetry.SampleRatio)
	}

	if c.Explorer.CacheEntries < 0 {
		return fmt.Errorf("explorer cache entries must not be negative")
	}

	if c.Explorer.ChartWidth <= 0 || c.Explorer.ChartHeight <= 0 || c.Explorer.RowHeight <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	return nil
}

// ParseLevel maps a logging level name to a slog level
func ParseLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid logging level: %q", level)
	}
	return l, nil
}

// Addr returns the listen address of the HTTP server
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	if path := os.Getenv(EnvPrefix + "_CONFIG_FILE"); path != "" {
		return path
	}

	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return "" // No config file found, use env vars only
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    60 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
			RequestTimeout:  45 * time.Second,
			MaxHeaderBytes:  1 << 20, // 1MB
			MaxUploadBytes:  DefaultMaxUploadBytes,
			MultipartMemory: DefaultMultipartMemory,
		},
		Security: SecurityConfig{
			AllowedOrigins: []string{"http://localhost:8080"},
			EnableCORS:     true,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     50,
				Burst:   25,
			},
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: DefaultLogFile,
		},
		Telemetry: TelemetryConfig{
			ServiceName:    AppName,
			Environment:    "development",
			TraceExporter:  "none",
			MetricExporter: "prometheus",
			SampleRatio:    1,
		},
		Explorer: ExplorerConfig{
			CacheEntries: 16,
			ChartWidth:   1024,
			ChartHeight:  480,
			RowHeight:    240,
		},
	}
}
