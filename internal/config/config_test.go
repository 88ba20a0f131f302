package config

import "testing"

func validConfig() Config {
	cfg := Config{
		HTTP:    HTTPConfig{Port: 8000},
		Catalog: CatalogConfig{Driver: "memory"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestApplyDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()

	if cfg.Catalog.Driver != "memory" {
		t.Errorf("Catalog.Driver = %q, want memory", cfg.Catalog.Driver)
	}
	if cfg.Search.DefaultPageSize != 20 || cfg.Search.MaxPageSize != 100 {
		t.Errorf("page sizes = %d/%d, want 20/100", cfg.Search.DefaultPageSize, cfg.Search.MaxPageSize)
	}
	if cfg.Dataset.Year != 2025 || cfg.Dataset.City != "Rio de Janeiro" {
		t.Errorf("dataset = %+v", cfg.Dataset)
	}
	if cfg.Cache.TTLSec != 300 {
		t.Errorf("Cache.TTLSec = %d, want 300", cfg.Cache.TTLSec)
	}
}

func TestValidate_PostgresRequiresDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog = CatalogConfig{Driver: "postgres"}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres driver without dsn")
	}

	cfg.Catalog.DSN = "postgres://localhost:5432/rioscope"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.Driver = "sqlite"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown catalog driver")
	}
}

func TestValidate_CacheNeedsAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled cache without addrs")
	}

	cfg.Cache.Addrs = []string{"localhost:6379"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PageSizeOrdering(t *testing.T) {
	cfg := validConfig()
	cfg.Search.DefaultPageSize = 200
	cfg.Search.MaxPageSize = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when default page size exceeds max")
	}
}

func TestDeselectOnBackgroundClick_DefaultsOn(t *testing.T) {
	var s SearchConfig
	if !s.DeselectOnBackgroundClickEnabled() {
		t.Error("policy should default to enabled")
	}

	off := false
	s.DeselectOnBackgroundClick = &off
	if s.DeselectOnBackgroundClickEnabled() {
		t.Error("explicit false ignored")
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("RIOSCOPE_TEST_DSN", "postgres://db:5432/rio")

	in := []byte("dsn: ${RIOSCOPE_TEST_DSN}\nlevel: ${RIOSCOPE_MISSING:-info}\n")
	out := string(expandEnvVars(in))

	if out != "dsn: postgres://db:5432/rio\nlevel: info\n" {
		t.Errorf("expandEnvVars = %q", out)
	}
}
