package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/koti-agri/koti-backend/internal/models"
)

const Version = "1.0.0"

// Conversation log backends
const (
	StoreFile     = "file"
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

type Config struct {
	Env      string
	Port     string
	LogLevel string
	LogFile  string

	GeminiAPIKey       string
	GeminiModel        string
	TranslateAPIKey    string
	GenerationTimeout  time.Duration
	TranslationTimeout time.Duration

	WorkingLanguage models.Language
	MaxInputLength  int
	KnowledgeFile   string

	SessionMaxAge     time.Duration
	SessionSweepOneIn int

	ConversationStore string
	ChatLogFile       string
	ChatLogMaxEntries int

	DBHost    string
	DBPort    string
	DBUser    string
	DBPass    string
	DBName    string
	DBSSLMode string

	InstanceConnectionName string

	StaticDir      string
	AllowedOrigins string

	TwilioAccountSID         string
	TwilioAuthToken          string
	TwilioWhatsAppFrom       string
	DisableWebhookValidation bool
}

// LoadEnvFiles reads .env files for local development. Missing files are fine.
func LoadEnvFiles() {
	if err := godotenv.Load(".env"); err != nil {
		if err := godotenv.Load("environments/.env.development"); err != nil {
			slog.Debug("no .env file found, using process environment")
		}
	}
}

// Load builds the configuration from the process environment
func Load() *Config {
	return &Config{
		Env:      getEnv("APP_ENV", "production"),
		Port:     getEnv("PORT", "5000"),
		LogLevel: getEnv("LOG_LEVEL", "INFO"),
		LogFile:  getEnv("LOG_FILE", "data/logs/app.log"),

		GeminiAPIKey:       strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		TranslateAPIKey:    strings.TrimSpace(os.Getenv("GOOGLE_TRANSLATE_API_KEY")),
		GenerationTimeout:  getDuration("GENERATION_TIMEOUT", 30*time.Second),
		TranslationTimeout: getDuration("TRANSLATION_TIMEOUT", 10*time.Second),

		WorkingLanguage: models.Language(getEnv("WORKING_LANGUAGE", string(models.LanguageMarathi))),
		MaxInputLength:  getInt("MAX_INPUT_LENGTH", 1000),
		KnowledgeFile:   os.Getenv("KNOWLEDGE_FILE"),

		SessionMaxAge:     getDuration("SESSION_MAX_AGE", 24*time.Hour),
		SessionSweepOneIn: getInt("SESSION_SWEEP_ONE_IN", 100),

		ConversationStore: strings.ToLower(getEnv("CONVERSATION_STORE", StoreFile)),
		ChatLogFile:       getEnv("CHAT_LOG_FILE", "data/logs/chat_logs.json"),
		ChatLogMaxEntries: getInt("CHAT_LOG_MAX_ENTRIES", 1000),

		DBHost:    getEnv("DB_HOST", "localhost"),
		DBPort:    getEnv("DB_PORT", "5432"),
		DBUser:    getEnv("DB_USER", "postgres"),
		DBPass:    os.Getenv("DB_PASS"),
		DBName:    getEnv("DB_NAME", "koti"),
		DBSSLMode: getEnv("DB_SSLMODE", "disable"),

		InstanceConnectionName: os.Getenv("INSTANCE_CONNECTION_NAME"),

		StaticDir:      getEnv("STATIC_DIR", "webapp/static"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:5000"),

		TwilioAccountSID:         os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:          os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppFrom:       os.Getenv("TWILIO_WHATSAPP_FROM"),
		DisableWebhookValidation: getBool("DISABLE_WEBHOOK_VALIDATION", false),
	}
}

// IsDevelopment reports whether the service runs in local development mode
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// HasGenerationKey reports whether the Gemini credential is present
func (c *Config) HasGenerationKey() bool {
	return c.GeminiAPIKey != ""
}

// HasTwilio reports whether WhatsApp replies can be sent
func (c *Config) HasTwilio() bool {
	return c.TwilioAccountSID != "" && c.TwilioAuthToken != "" && c.TwilioWhatsAppFrom != ""
}

func getEnv(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) int {
	raw := os.Getenv(k)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		slog.Warn("invalid integer in environment, using default", "key", k, "value", raw, "default", def)
		return def
	}
	return n
}

func getDuration(k string, def time.Duration) time.Duration {
	raw := os.Getenv(k)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		slog.Warn("invalid duration in environment, using default", "key", k, "value", raw, "default", def)
		return def
	}
	return d
}

func getBool(k string, def bool) bool {
	raw := os.Getenv(k)
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return b
}
