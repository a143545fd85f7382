package analyzer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.Similarity != 0.55 || cfg.Thresholds.MinAnswerWords != 15 || cfg.Thresholds.MinSentenceLen != 3 {
		t.Errorf("unexpected thresholds %+v", cfg.Thresholds)
	}
	if cfg.Embedder.Provider != ProviderOrt || cfg.Server.Addr != ":8000" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestSaveAndLoadConfig(t *testing.T) {
	for _, name := range []string{"config.json", "config.yaml"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			cfg := Config{}
			cfg.Thresholds.Similarity = 0.6
			cfg.Embedder.Provider = ProviderVoyage
			cfg.Embedder.RemoteModel = "voyage-3-lite"
			cfg.Embedder.APIKey = "secret"
			cfg.Embedder.CacheDir = filepath.Join(dir, "cache")
			cfg.Redis.Addr = "localhost:6379"
			if err := SaveConfig(path, cfg); err != nil {
				t.Fatalf("SaveConfig: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if strings.Contains(string(data), "secret") {
				t.Error("API key must not be persisted")
			}
			got, err := LoadConfig(path)
			if err != nil {
				t.Fatalf("LoadConfig: %v", err)
			}
			if got.Thresholds.Similarity != 0.6 || got.Embedder.Provider != ProviderVoyage || got.Embedder.RemoteModel != "voyage-3-lite" || got.Redis.Addr != "localhost:6379" {
				t.Errorf("round trip lost fields: %+v", got)
			}
			if got.Thresholds.MinAnswerWords != 15 {
				t.Errorf("defaults not applied after load: %+v", got.Thresholds)
			}
			if _, err := os.Stat(cfg.Embedder.CacheDir); err != nil {
				t.Errorf("cache dir not created: %v", err)
			}
		})
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("ANALYZER_EMBEDDER", " OpenAI ")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_BASE_URL", "http://localhost:1234/v1")
	t.Setenv("ANALYZER_REDIS_ADDR", "redis://cache:6379")
	t.Setenv("ANALYZER_ADDR", ":9000")
	t.Setenv("ANALYZER_SIM_THRESHOLD", "0.7")

	var cfg Config
	cfg.ApplyDefaults()
	cfg.ApplyEnv()
	if cfg.Embedder.Provider != ProviderOpenAI || cfg.Embedder.APIKey != "sk-test" || cfg.Embedder.BaseURL != "http://localhost:1234/v1" {
		t.Errorf("embedder env not applied: %+v", cfg.Embedder)
	}
	if cfg.Redis.Addr != "cache:6379" {
		t.Errorf("Redis.Addr = %q", cfg.Redis.Addr)
	}
	if cfg.Server.Addr != ":9000" || cfg.Thresholds.Similarity != 0.7 {
		t.Errorf("server/threshold env not applied: %+v %+v", cfg.Server, cfg.Thresholds)
	}
}

func TestApplyEnvIgnoresInvalidThreshold(t *testing.T) {
	t.Setenv("ANALYZER_SIM_THRESHOLD", "1.5")
	var cfg Config
	cfg.ApplyDefaults()
	cfg.ApplyEnv()
	if cfg.Thresholds.Similarity != 0.55 {
		t.Errorf("Similarity = %v, want default", cfg.Thresholds.Similarity)
	}
}

func TestLoadEnvFiles(t *testing.T) {
	const key = "ANALYZER_TEST_ENV_FILE_VALUE"
	t.Cleanup(func() { os.Unsetenv(key) })
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=loaded\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := LoadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv(key); got != "loaded" {
		t.Errorf("%s = %q", key, got)
	}
}
