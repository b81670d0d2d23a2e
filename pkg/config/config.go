package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

var (
	AppEnv       string = "development"
	IsStaging    bool
	IsProduction bool

	Port          string = "5000"
	JWTSecret     string = "dev-secret-change-me"
	TokenTTLHours int    = 24
	CORSOrigins          = []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173", "http://127.0.0.1:5173"}

	DBDriver    string = "sqlite"
	DatabaseURL string = "chatbuddy.db"

	// LLMProvider is one of "gemini", "openai" or "local".
	LLMProvider            string = "local"
	IsGeminiEnabled        bool
	GeminiAPIKey           string
	GeminiModel            string = "gemini-2.0-flash"
	OpenAIAPIKey           string
	OpenAIBaseURL          string
	OpenAIModel            string = "gpt-4o-mini"
	ProviderTimeoutSeconds int    = 60

	RedisAddr     string
	RedisPassword string

	LogLevel string = "info"
)

// fileConfig mirrors the optional YAML overlay. Empty fields leave defaults untouched.
type fileConfig struct {
	AppEnv                 string   `yaml:"appEnv"`
	Port                   string   `yaml:"port"`
	JWTSecret              string   `yaml:"jwtSecret"`
	TokenTTLHours          int      `yaml:"tokenTTLHours"`
	CORSOrigins            []string `yaml:"corsOrigins"`
	DBDriver               string   `yaml:"dbDriver"`
	DatabaseURL            string   `yaml:"databaseURL"`
	LLMProvider            string   `yaml:"llmProvider"`
	GeminiAPIKey           string   `yaml:"geminiAPIKey"`
	GeminiModel            string   `yaml:"geminiModel"`
	OpenAIAPIKey           string   `yaml:"openaiAPIKey"`
	OpenAIBaseURL          string   `yaml:"openaiBaseURL"`
	OpenAIModel            string   `yaml:"openaiModel"`
	ProviderTimeoutSeconds int      `yaml:"providerTimeoutSeconds"`
	RedisAddr              string   `yaml:"redisAddr"`
	RedisPassword          string   `yaml:"redisPassword"`
	LogLevel               string   `yaml:"logLevel"`
}

// Load fills the package settings from .env (outside production), an optional YAML file
// (CONFIG_FILE, or ./config.yaml when present) and finally the process environment.
func Load() error {
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}
	if path != "" {
		if err := LoadFile(path); err != nil {
			return err
		}
	}

	applyEnv()
	if err := validate(); err != nil {
		return err
	}

	log.Printf("[config] AppEnv=%s DBDriver=%s LLMProvider=%s GeminiModel=%s ProviderTimeout=%ds RedisRevocation=%v",
		AppEnv, DBDriver, LLMProvider, GeminiModel, ProviderTimeoutSeconds, RedisAddr != "")
	return nil
}

// LoadFile overlays settings from a YAML document.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	setString(&AppEnv, fc.AppEnv)
	setString(&Port, fc.Port)
	setString(&JWTSecret, fc.JWTSecret)
	setInt(&TokenTTLHours, fc.TokenTTLHours)
	if len(fc.CORSOrigins) > 0 {
		CORSOrigins = fc.CORSOrigins
	}
	setString(&DBDriver, fc.DBDriver)
	setString(&DatabaseURL, fc.DatabaseURL)
	setString(&LLMProvider, fc.LLMProvider)
	setString(&GeminiAPIKey, fc.GeminiAPIKey)
	setString(&GeminiModel, fc.GeminiModel)
	setString(&OpenAIAPIKey, fc.OpenAIAPIKey)
	setString(&OpenAIBaseURL, fc.OpenAIBaseURL)
	setString(&OpenAIModel, fc.OpenAIModel)
	setInt(&ProviderTimeoutSeconds, fc.ProviderTimeoutSeconds)
	setString(&RedisAddr, fc.RedisAddr)
	setString(&RedisPassword, fc.RedisPassword)
	setString(&LogLevel, fc.LogLevel)
	return nil
}

func applyEnv() {
	setString(&AppEnv, os.Getenv("APP_ENV"))
	setString(&Port, os.Getenv("PORT"))
	setString(&JWTSecret, os.Getenv("JWT_SECRET_KEY"))
	TokenTTLHours = atoiOr(os.Getenv("TOKEN_TTL_HOURS"), TokenTTLHours)
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		CORSOrigins = splitList(v)
	}

	setString(&DBDriver, os.Getenv("DB_DRIVER"))
	setString(&DatabaseURL, os.Getenv("DATABASE_URL"))

	// IS_GEMINI_ENABLED: "1" switches the default provider to gemini
	IsGeminiEnabled = os.Getenv("IS_GEMINI_ENABLED") == "1"
	if IsGeminiEnabled {
		LLMProvider = "gemini"
	}
	setString(&LLMProvider, os.Getenv("LLM_PROVIDER"))
	setString(&GeminiAPIKey, os.Getenv("GEMINI_API_KEY"))
	setString(&GeminiModel, os.Getenv("GEMINI_MODEL"))
	setString(&OpenAIAPIKey, os.Getenv("OPENAI_API_KEY"))
	setString(&OpenAIBaseURL, os.Getenv("OPENAI_BASE_URL"))
	setString(&OpenAIModel, os.Getenv("OPENAI_MODEL"))
	ProviderTimeoutSeconds = atoiOr(os.Getenv("PROVIDER_TIMEOUT_SECONDS"), ProviderTimeoutSeconds)

	setString(&RedisAddr, os.Getenv("REDIS_ADDR"))
	setString(&RedisPassword, os.Getenv("REDIS_PASSWORD"))
	setString(&LogLevel, os.Getenv("LOG_LEVEL"))
}

func validate() error {
	AppEnv = strings.ToLower(strings.TrimSpace(AppEnv))
	if !slices.Contains([]string{"development", "staging", "production"}, AppEnv) {
		return fmt.Errorf("config: APP_ENV must be development, staging or production, got %q", AppEnv)
	}
	IsStaging = AppEnv == "staging"
	IsProduction = AppEnv == "production"

	DBDriver = strings.ToLower(strings.TrimSpace(DBDriver))
	if !slices.Contains([]string{"sqlite", "mysql", "postgres"}, DBDriver) {
		return fmt.Errorf("config: unknown DB_DRIVER %q", DBDriver)
	}
	if strings.TrimSpace(DatabaseURL) == "" {
		return errors.New("config: DATABASE_URL is required")
	}

	LLMProvider = strings.ToLower(strings.TrimSpace(LLMProvider))
	switch LLMProvider {
	case "gemini":
		if strings.TrimSpace(GeminiAPIKey) == "" {
			return errors.New("config: GEMINI_API_KEY is required for the gemini provider")
		}
	case "openai":
		if strings.TrimSpace(OpenAIAPIKey) == "" && strings.TrimSpace(OpenAIBaseURL) == "" {
			return errors.New("config: OPENAI_API_KEY or OPENAI_BASE_URL is required for the openai provider")
		}
	case "local":
	default:
		return fmt.Errorf("config: unknown LLM_PROVIDER %q", LLMProvider)
	}

	if TokenTTLHours <= 0 {
		return errors.New("config: TOKEN_TTL_HOURS must be positive")
	}
	if ProviderTimeoutSeconds <= 0 {
		return errors.New("config: PROVIDER_TIMEOUT_SECONDS must be positive")
	}
	// safety: production never runs with the development secret
	if IsProduction && (JWTSecret == "" || JWTSecret == "dev-secret-change-me") {
		return errors.New("config: JWT_SECRET_KEY must be set in production")
	}
	return nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
