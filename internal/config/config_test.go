package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kailas-cloud/contentrec/internal/domain/language"
	"github.com/kailas-cloud/contentrec/internal/domain/options"
)

func validConfig() Config {
	cfg := Config{
		HTTP:        HTTPConfig{Port: 8080},
		Database:    DatabaseConfig{Addrs: []string{"localhost:6379"}},
		Recommender: options.Default(),
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Database.Driver != "valkey" {
		t.Errorf("Driver = %q", cfg.Database.Driver)
	}
	if cfg.Storage.KeyPrefix != "contentrec:" {
		t.Errorf("KeyPrefix = %q", cfg.Storage.KeyPrefix)
	}
	if cfg.Registry.MaxCachedModels != 64 {
		t.Errorf("MaxCachedModels = %d", cfg.Registry.MaxCachedModels)
	}
	if cfg.HTTP.MaxBodyBytes != 64<<20 {
		t.Errorf("MaxBodyBytes = %d", cfg.HTTP.MaxBodyBytes)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mut     func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.HTTP.Port = 0 }, "http.port"},
		{"bad driver", func(c *Config) { c.Database.Driver = "memcached" }, "database.driver"},
		{"no addrs", func(c *Config) { c.Database.Addrs = nil }, "database.addrs"},
		{"bad recommender", func(c *Config) { c.Recommender.Language = "fr" }, "recommender"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mut(&cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestParse_ExpandsEnvAndMergesRecommender(t *testing.T) {
	t.Setenv("CONTENTREC_TEST_ADDR", "db:6380")
	data := []byte(`
http:
  port: ${CONTENTREC_TEST_PORT:-9090}
database:
  addrs: [${CONTENTREC_TEST_ADDR}]
recommender:
  language: ja
  minScore: 0.2
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("Port = %d", cfg.HTTP.Port)
	}
	if cfg.Database.Addrs[0] != "db:6380" {
		t.Errorf("Addrs = %v", cfg.Database.Addrs)
	}
	if cfg.Recommender.Language != language.Japanese || cfg.Recommender.MinScore != 0.2 {
		t.Errorf("Recommender = %+v", cfg.Recommender)
	}
	if cfg.Recommender.MaxVectorSize != options.DefaultMaxVectorSize {
		t.Errorf("unset recommender fields must keep defaults, got %d", cfg.Recommender.MaxVectorSize)
	}
}

func TestParse_NoRecommenderSection(t *testing.T) {
	cfg, err := Parse([]byte("http: {port: 8080}\ndatabase: {addrs: [x:1]}\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Recommender.MaxVectorSize != options.DefaultMaxVectorSize {
		t.Errorf("Recommender = %+v", cfg.Recommender)
	}
}

func TestParse_Invalid(t *testing.T) {
	if _, err := Parse([]byte("http: {port: 0}\n")); err == nil {
		t.Fatal("expected error")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("CONTENTREC_SET", "value")
	got := string(expandEnvVars([]byte("a=${CONTENTREC_SET} b=${CONTENTREC_UNSET:-fallback} c=${CONTENTREC_UNSET}")))
	if got != "a=value b=fallback c=" {
		t.Errorf("got %q", got)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CONTENTREC_DOTENV_TEST=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTENTREC_DOTENV_TEST", "")
	os.Unsetenv("CONTENTREC_DOTENV_TEST")

	if err := LoadDotEnv(path, filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if v := os.Getenv("CONTENTREC_DOTENV_TEST"); v != "from-file" {
		t.Errorf("CONTENTREC_DOTENV_TEST = %q", v)
	}
}

func TestLoadDotEnv_DoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CONTENTREC_DOTENV_KEEP=file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONTENTREC_DOTENV_KEEP", "process")

	if err := LoadDotEnv(path); err != nil {
		t.Fatalf("LoadDotEnv: %v", err)
	}
	if v := os.Getenv("CONTENTREC_DOTENV_KEEP"); v != "process" {
		t.Errorf("CONTENTREC_DOTENV_KEEP = %q", v)
	}
}
