package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Generation backend credential: API_KEY wins, GEMINI_API_KEY is the
	// accepted fallback.
	APIKey  string
	BaseURL string
	Model   string

	EmailRecipient    string
	EmailJSServiceID  string
	EmailJSTemplateID string
	EmailJSPublicKey  string

	WebhookURL      string
	BarkKey         string
	TelegramToken   string
	TelegramChatID  int64
	ScheduleTime    string
	SchedulerMode   string
	AutoPushEnabled bool
	Timezone        string
	DataDir         string
	CategoryFile    string
	CacheTTL        time.Duration
	ServerPort      string
	LogLevel        string
}

func Load() *Config {
	apiKey := getEnv("API_KEY", "")
	if apiKey == "" {
		apiKey = getEnv("GEMINI_API_KEY", "")
	}

	return &Config{
		APIKey:  apiKey,
		BaseURL: getEnv("LLM_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai/"),
		Model:   getEnv("LLM_MODEL", "gemini-2.5-flash"),

		EmailRecipient:    getEnv("EMAIL_RECIPIENT", ""),
		EmailJSServiceID:  getEnv("EMAILJS_SERVICE_ID", ""),
		EmailJSTemplateID: getEnv("EMAILJS_TEMPLATE_ID", ""),
		EmailJSPublicKey:  getEnv("EMAILJS_PUBLIC_KEY", ""),

		WebhookURL:      getEnv("WEBHOOK_URL", ""),
		BarkKey:         getEnv("BARK_KEY", ""),
		TelegramToken:   getEnv("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:  getEnvAsInt64("TELEGRAM_CHAT_ID", 0),
		ScheduleTime:    getEnv("SCHEDULE_TIME", "09:00"),
		SchedulerMode:   getEnv("SCHEDULER_MODE", "cron"),
		AutoPushEnabled: getEnvAsBool("AUTO_PUSH_ENABLED", true),
		Timezone:        getEnv("TIMEZONE", "Asia/Shanghai"),
		DataDir:         getEnv("DATA_DIR", "data"),
		CategoryFile:    getEnv("CATEGORY_CONFIG", "config/categories.yaml"),
		CacheTTL:        getEnvAsDuration("CACHE_TTL", 6*time.Hour),
		ServerPort:      getEnv("SERVER_PORT", "8080"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// EmailConfigured reports whether the email channel can run at all. The
// scheduler refuses to start without it.
func (c *Config) EmailConfigured() bool {
	return c.EmailRecipient != "" && c.EmailJSServiceID != "" &&
		c.EmailJSTemplateID != "" && c.EmailJSPublicKey != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
