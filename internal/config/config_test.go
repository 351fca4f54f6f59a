package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
	if cfg.Log.Store != "file" {
		t.Fatalf("unexpected default store: %q", cfg.Log.Store)
	}
	if cfg.AI.Temperature != 0.2 || cfg.AI.MaxTokens != 150 {
		t.Fatalf("unexpected generation defaults: %v / %d", cfg.AI.Temperature, cfg.AI.MaxTokens)
	}
	if cfg.Study.Arm != "crt-intuitive" {
		t.Fatalf("unexpected arm: %q", cfg.Study.Arm)
	}
}

func TestLoadServerAddrForms(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:9000")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Fatalf("unexpected addr: %q", cfg.Server.Addr)
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("LOG_STORE", "cassandra")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "LOG_STORE") {
		t.Fatalf("expected LOG_STORE error, got %v", err)
	}
}

func TestLoadSheetsStoreRequiresCredentials(t *testing.T) {
	t.Setenv("LOG_STORE", "sheets")
	if _, err := Load(); err == nil {
		t.Fatal("sheets store without credentials should fail")
	}

	t.Setenv("GOOGLE_CREDS_FILE", "/tmp/creds.json")
	t.Setenv("SHEET_ID", "sheet-123")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Log.SheetRange != "conversations!A:J" {
		t.Fatalf("unexpected default range: %q", cfg.Log.SheetRange)
	}
}

func TestLoadRedisStoreRequiresAddr(t *testing.T) {
	t.Setenv("LOG_STORE", "redis")
	if _, err := Load(); err == nil {
		t.Fatal("redis store without addr should fail")
	}

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Log.RedisKey != "crt:conversations" {
		t.Fatalf("unexpected default redis key: %q", cfg.Log.RedisKey)
	}
}

func TestAIConfigEnabled(t *testing.T) {
	if (AIConfig{}).Enabled() {
		t.Fatal("empty config should not be enabled")
	}
	if !(AIConfig{Model: "m", APIKey: "k"}).Enabled() {
		t.Fatal("api key + model should be enabled")
	}
	if !(AIConfig{Model: "m", AccessKey: "a", SecretKey: "s"}).Enabled() {
		t.Fatal("ak/sk + model should be enabled")
	}
	if (AIConfig{Model: "m", AccessKey: "a"}).Enabled() {
		t.Fatal("access key without secret should not be enabled")
	}
}
