package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var ErrMissingDatabaseConfig = errors.New("missing database configuration")

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Worker   WorkerConfig
	Keys     APIKeys
	Ai       AIConfig
}

type AppConfig struct {
	Environment     string
	LogFilePath     string
	HTTPPort        string // empty disables the ops server
	NatsURL         string // empty disables events and wake-ups
	NatsWakeSubject string
	NatsDurableName string
	RedisURL        string // empty keeps run status in memory
	OtelEnabled     bool
	OtelEndpoint    string
}

// DatabaseConfig holds the raw connection parameters. Values are not
// defaulted so the backfill runner can tell which ones are missing.
type DatabaseConfig struct {
	User     string `validate:"required" env:"DB_USER"`
	Password string `validate:"required" env:"DB_PASSWORD"`
	Host     string `validate:"required" env:"DB_HOST"`
	Port     string `validate:"required" env:"DB_PORT"`
	Name     string `validate:"required" env:"DB_NAME"`
	SSLMode  string
}

type ErrorPolicy string

const (
	ErrorPolicySkip  ErrorPolicy = "skip"
	ErrorPolicyAbort ErrorPolicy = "abort"
)

type VectorFormat string

const (
	VectorFormatJSON     VectorFormat = "json"
	VectorFormatPgvector VectorFormat = "pgvector"
)

type WorkerConfig struct {
	BatchSize          int
	PollInterval       time.Duration
	BackfillBatchPause time.Duration
	// OnError is empty when unset; each mode picks its own default.
	OnError      ErrorPolicy
	VectorFormat VectorFormat
}

type APIKeys struct {
	GoogleGemini string
	Jina         string
	OpenAI       string
}

type AIConfig struct {
	EmbeddingProvider string // "ollama", "gemini", "jina", "openai", "openai-compatible"
	OllamaBaseURL     string
	OllamaModel       string
	OpenAIModel       string
	OpenAIBaseURL     string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Environment:     getEnv("GO_ENV", "development"),
			LogFilePath:     getEnv("LOG_FILE_PATH", "embedding-sync.log"),
			HTTPPort:        getEnv("HTTP_PORT", ""),
			NatsURL:         getEnv("NATS_URL", ""),
			NatsWakeSubject: getEnv("NATS_WAKE_SUBJECT", "events.PRODUCT_CHANGED"),
			NatsDurableName: getEnv("NATS_DURABLE_NAME", "embedding-sync-worker"),
			RedisURL:        getEnv("REDIS_URL", ""),
			OtelEnabled:     getEnv("OTEL_ENABLED", "") == "true",
			OtelEndpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
		Database: DatabaseConfig{
			User:     getEnv("DB_USER", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnv("DB_PORT", ""),
			Name:     getEnv("DB_NAME", ""),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Worker: WorkerConfig{
			BatchSize:          getEnvAsInt("BATCH_SIZE", 32),
			PollInterval:       getEnvAsDuration("QUEUE_POLL_INTERVAL", 10*time.Second),
			BackfillBatchPause: getEnvAsDuration("BACKFILL_BATCH_PAUSE", time.Second),
			OnError:            ErrorPolicy(getEnv("WORKER_ON_ERROR", "")),
			VectorFormat:       VectorFormat(getEnvOrDefault("VECTOR_STORAGE_FORMAT", string(VectorFormatJSON))),
		},
		Keys: APIKeys{
			GoogleGemini: getEnv("GOOGLE_GEMINI_API_KEY", ""),
			Jina:         getEnv("JINA_API_KEY", ""),
			OpenAI:       getEnv("OPENAI_API_KEY", ""),
		},
		Ai: AIConfig{
			EmbeddingProvider: getEnvOrDefault("EMBEDDING_PROVIDER", "ollama"),
			OllamaBaseURL:     getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			OllamaModel:       getEnv("OLLAMA_EMBEDDING_MODEL", "all-minilm"),
			OpenAIModel:       getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			OpenAIBaseURL:     getEnv("OPENAI_BASE_URL", ""),
		},
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		if name := field.Tag.Get("env"); name != "" {
			return name
		}
		return field.Name
	})
	return v
}

// MissingParameters returns the env names of every required connection
// parameter that is unset, in declaration order.
func (c DatabaseConfig) MissingParameters() []string {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return missing
}

// Validate fails with ErrMissingDatabaseConfig naming every missing parameter.
func (c DatabaseConfig) Validate() error {
	missing := c.MissingParameters()
	if len(missing) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingDatabaseConfig, strings.Join(missing, ", "))
}

// PortOrDefault is the port used to build a DSN when DB_PORT is unset.
func (c DatabaseConfig) PortOrDefault() string {
	if c.Port == "" {
		return "5432"
	}
	return c.Port
}

// ResolveErrorPolicy returns the configured policy or fallback when unset.
func (w WorkerConfig) ResolveErrorPolicy(fallback ErrorPolicy) ErrorPolicy {
	switch w.OnError {
	case ErrorPolicySkip, ErrorPolicyAbort:
		return w.OnError
	default:
		return fallback
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// getEnvOrDefault treats an empty value like an unset one.
func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return fallback
	}
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	// bare numbers are seconds, matching the old WAIT_SEC settings
	if secs, err := strconv.ParseFloat(strValue, 64); err == nil {
		return time.Duration(secs * float64(time.Second))
	}
	return fallback
}
