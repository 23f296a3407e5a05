package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port        int
	NatsURL     string
	NatsToken   string
	DatabaseURL string
	LogLevel    string
	APIToken    string

	DetectorURL string

	AnthropicAPIKey string
	AnthropicModel  string
	OpenAIAPIKey    string
	OpenAIModel     string

	BufferCapacity   int
	EmotionWindow    time.Duration
	SampleInterval   time.Duration
	AutosaveInterval time.Duration
	ProviderTimeout  time.Duration
}

func Load() Config {
	return Config{
		Port:        envInt("ATTUNE_PORT", 8760),
		NatsURL:     envStr("NATS_URL", "nats://localhost:4222"),
		NatsToken:   envStr("NATS_TOKEN", ""),
		DatabaseURL: envStr("DATABASE_URL", ""),
		LogLevel:    envStr("LOG_LEVEL", "info"),
		APIToken:    envStr("ATTUNE_API_TOKEN", ""),

		DetectorURL: envStr("DETECTOR_URL", "http://localhost:8761"),

		AnthropicAPIKey: envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:  envStr("ATTUNE_ANTHROPIC_MODEL", "claude-sonnet-4-20250514"),
		OpenAIAPIKey:    envStr("OPENAI_API_KEY", ""),
		OpenAIModel:     envStr("ATTUNE_OPENAI_MODEL", "gpt-4o-mini"),

		BufferCapacity:   envInt("BUFFER_CAPACITY", 10),
		EmotionWindow:    time.Duration(envInt("EMOTION_WINDOW_MS", 30000)) * time.Millisecond,
		SampleInterval:   time.Duration(envInt("SAMPLE_INTERVAL_MS", 500)) * time.Millisecond,
		AutosaveInterval: time.Duration(envInt("AUTOSAVE_INTERVAL_SECONDS", 5)) * time.Second,
		ProviderTimeout:  time.Duration(envInt("PROVIDER_TIMEOUT_SECONDS", 30)) * time.Second,
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
