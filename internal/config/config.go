package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// Ingest configuration
	Ingest IngestConfig

	// Dataset build configuration
	Dataset DatasetConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Host         string
	Port         string
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// IngestConfig holds comment ingest settings
type IngestConfig struct {
	BatchSize     int
	MaxUploadSize int64 // in bytes
	UploadDir     string
}

// DatasetConfig holds the dataset-build defaults. Build requests may
// override any of them per job.
type DatasetConfig struct {
	ParentDepth    int     // how many parent comments to consider
	MaxLength      int     // maximum comment length to include
	MinLength      int     // minimum comment length to include
	TrainSplit     float64 // proportion of threads in the training set
	NumShardsTrain int
	NumShardsTest  int
	OutputDir      string
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string // "json" or "pretty"
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			ReadTimeout:     getDurationEnv("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getDurationEnv("SERVER_WRITE_TIMEOUT", 300*time.Second),
			ShutdownTimeout: getDurationEnv("SERVER_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			User:         getEnv("DB_USER", "postgres"),
			Password:     getEnv("DB_PASSWORD", "postgres"),
			Name:         getEnv("DB_NAME", "conversational_datasets"),
			SSLMode:      getEnv("DB_SSLMODE", "disable"),
			MaxOpenConns: getIntEnv("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getIntEnv("DB_MAX_IDLE_CONNS", 5),
			MaxLifetime:  getDurationEnv("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Ingest: IngestConfig{
			BatchSize:     getIntEnv("INGEST_BATCH_SIZE", 1000),
			MaxUploadSize: getInt64Env("MAX_UPLOAD_SIZE", 500*1024*1024), // 500MB
			UploadDir:     getEnv("UPLOAD_DIR", "./data/uploads"),
		},
		Dataset: DatasetConfig{
			ParentDepth:    getIntEnv("DATASET_PARENT_DEPTH", 10),
			MaxLength:      getIntEnv("DATASET_MAX_LENGTH", 127),
			MinLength:      getIntEnv("DATASET_MIN_LENGTH", 9),
			TrainSplit:     getFloatEnv("DATASET_TRAIN_SPLIT", 0.9),
			NumShardsTrain: getIntEnv("DATASET_NUM_SHARDS_TRAIN", 1000),
			NumShardsTest:  getIntEnv("DATASET_NUM_SHARDS_TEST", 100),
			OutputDir:      getEnv("DATASET_OUTPUT_DIR", "./data/datasets"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Database.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	return c.Dataset.Validate()
}

// Validate checks the dataset parameters. Build requests merged over
// these defaults are validated with the same rules.
func (d *DatasetConfig) Validate() error {
	if d.ParentDepth <= 0 {
		return fmt.Errorf("parent_depth must be positive, %d was passed", d.ParentDepth)
	}
	if d.MaxLength <= 0 {
		return fmt.Errorf("max_length must be positive, %d was passed", d.MaxLength)
	}
	if d.MinLength <= 0 {
		return fmt.Errorf("min_length must be positive, %d was passed", d.MinLength)
	}
	if d.TrainSplit <= 0 || d.TrainSplit >= 1 {
		return fmt.Errorf("train_split must be in (0, 1), %v was passed", d.TrainSplit)
	}
	if d.NumShardsTrain <= 0 || d.NumShardsTest <= 0 {
		return fmt.Errorf("shard counts must be positive")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
