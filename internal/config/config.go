package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"

	"github.com/crtlab/crt-chat/backend/internal/script"
)

// Config aggregates every setting the service reads from the environment.
type Config struct {
	Server ServerConfig
	AI     AIConfig
	Log    LogConfig
	Study  StudyConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	logCfg, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Server: server,
		AI:     ai,
		Log:    logCfg,
		Study:  loadStudyConfig(),
	}, nil
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string
}

func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// Accept ":8080" or "127.0.0.1:8080" as-is.
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// AIConfig describes the model endpoint and the fixed generation parameters.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
	RetryDelay  time.Duration
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("model credentials missing: set ARK_API_KEY + Model or the AK/SK pair")
	}

	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	// Generation parameters are fixed for the study; the env overrides exist
	// for local experimentation only.
	temperature := 0.2
	if override, err := parseOptionalFloatEnv("ARK_TEMPERATURE"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		temperature = *override
	}

	maxTokens := 150
	if override, err := parseOptionalIntEnv("ARK_MAX_TOKENS"); err != nil {
		return AIConfig{}, err
	} else if override != nil {
		maxTokens = *override
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("ARK_TIMEOUT"); err != nil {
		return AIConfig{}, err
	} else if override != nil && *override > 0 {
		timeoutSeconds = *override
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("Model")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Timeout:     time.Duration(timeoutSeconds) * time.Second,
		RetryDelay:  500 * time.Millisecond,
	}, nil
}

// LogConfig selects and parameterizes the append-only turn store.
type LogConfig struct {
	Store string // memory | file | sheets | supabase | redis

	FilePath   string
	BackupPath string

	GoogleCredsFile string
	SheetID         string
	SheetRange      string

	SupabaseURL   string
	SupabaseKey   string
	SupabaseTable string

	RedisAddr     string
	RedisPassword string
	RedisKey      string
}

func loadLogConfig() (LogConfig, error) {
	cfg := LogConfig{
		Store:           strings.ToLower(getEnvOrDefault("LOG_STORE", "file")),
		FilePath:        getEnvOrDefault("LOG_FILE", "conversations.jsonl"),
		BackupPath:      getEnvOrDefault("LOG_BACKUP_FILE", "sheet_log_backup.jsonl"),
		GoogleCredsFile: strings.TrimSpace(os.Getenv("GOOGLE_CREDS_FILE")),
		SheetID:         strings.TrimSpace(os.Getenv("SHEET_ID")),
		SheetRange:      getEnvOrDefault("SHEET_RANGE", "conversations!A:J"),
		SupabaseURL:     strings.TrimSpace(os.Getenv("SUPABASE_URL")),
		SupabaseKey:     strings.TrimSpace(os.Getenv("SUPABASE_KEY")),
		SupabaseTable:   getEnvOrDefault("SUPABASE_TABLE", "conversations"),
		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisKey:        getEnvOrDefault("REDIS_KEY", "crt:conversations"),
	}

	switch cfg.Store {
	case "memory", "file", "sheets", "supabase", "redis":
	default:
		return LogConfig{}, fmt.Errorf("invalid LOG_STORE value: %q", cfg.Store)
	}

	switch cfg.Store {
	case "sheets":
		if cfg.GoogleCredsFile == "" || cfg.SheetID == "" {
			return LogConfig{}, fmt.Errorf("sheets store requires GOOGLE_CREDS_FILE and SHEET_ID")
		}
	case "supabase":
		if cfg.SupabaseURL == "" || cfg.SupabaseKey == "" {
			return LogConfig{}, fmt.Errorf("supabase store requires SUPABASE_URL and SUPABASE_KEY")
		}
	case "redis":
		if cfg.RedisAddr == "" {
			return LogConfig{}, fmt.Errorf("redis store requires REDIS_ADDR")
		}
	}

	return cfg, nil
}

// StudyConfig carries the experiment condition and the embedding surface.
type StudyConfig struct {
	Arm           string
	ExtraOrigin   string
	OriginPattern string
}

func loadStudyConfig() StudyConfig {
	return StudyConfig{
		Arm:           getEnvOrDefault("STUDY_ARM", script.Arm),
		ExtraOrigin:   strings.TrimSpace(os.Getenv("ALLOWED_ORIGIN")),
		OriginPattern: getEnvOrDefault("ALLOW_ORIGIN_REGEX", `^https://([a-z0-9-]+\.)*qualtrics\.com$`),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
