package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Redis    RedisConfig
	SQLite   SQLiteConfig
	LLM      LLMConfig
	Ingest   IngestConfig
	Audit    AuditConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
	BodyLimit    int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

type LLMConfig struct {
	Provider    string
	Model       string
	APIKey      string
	Temperature float32
	MaxTokens   int
	TimeoutSec  int
}

type IngestConfig struct {
	OpenMeteoURL        string
	CopernicusUsername  string
	CopernicusPassword  string
	TimeoutSec          int
	ForecastDays        int
}

type AuditConfig struct {
	Enabled   bool
	KeyPrefix string
}

type PipelineConfig struct {
	DefaultLocationName string
	DefaultLatitude     float64
	DefaultLongitude    float64
	SessionTTLMinutes   int
	ValidityHours       int
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/maritime-agent")

	viper.SetEnvPrefix("MARITIME")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 60)
	viper.SetDefault("server.bodyLimit", 1048576)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("sqlite.path", "./data/maritime.db")

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.model", "gpt-4")
	viper.SetDefault("llm.temperature", 0.3)
	viper.SetDefault("llm.maxTokens", 1024)
	viper.SetDefault("llm.timeoutSec", 60)

	viper.SetDefault("ingest.openMeteoURL", "https://marine-api.open-meteo.com/v1/marine")
	viper.SetDefault("ingest.timeoutSec", 30)
	viper.SetDefault("ingest.forecastDays", 5)

	viper.SetDefault("audit.enabled", true)
	viper.SetDefault("audit.keyPrefix", "ocean-forecast")

	viper.SetDefault("pipeline.defaultLocationName", "Cape Town, South Africa")
	viper.SetDefault("pipeline.defaultLatitude", -33.9249)
	viper.SetDefault("pipeline.defaultLongitude", 18.4241)
	viper.SetDefault("pipeline.sessionTTLMinutes", 30)
	viper.SetDefault("pipeline.validityHours", 24)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
