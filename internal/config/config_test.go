package config

import "testing"

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Partitions: []PartitionConfig{
			{Name: "brand", BaseURL: "http://brand.local"},
			{Name: "creator", BaseURL: "http://creator.local"},
		},
		Similarity: SimilarityConfig{BaseURL: "http://sim.local"},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}

	cfg.HTTP.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for out-of-range port")
	}
}

func TestValidate_NoPartitions(t *testing.T) {
	cfg := validConfig()
	cfg.Partitions = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing partitions")
	}
}

func TestValidate_DuplicatePartitionName(t *testing.T) {
	cfg := validConfig()
	cfg.Partitions = append(cfg.Partitions, PartitionConfig{Name: "brand", BaseURL: "http://other.local"})
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for duplicate partition name")
	}
}

func TestValidate_PartitionFieldsRequired(t *testing.T) {
	cfg := validConfig()
	cfg.Partitions[0].Name = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty partition name")
	}

	cfg = validConfig()
	cfg.Partitions[1].BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty partition base_url")
	}
}

func TestValidate_MissingSimilarityURL(t *testing.T) {
	cfg := validConfig()
	cfg.Similarity.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing similarity.base_url")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 30 {
		t.Errorf("expected WriteTimeoutSec=30, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Search.PageSize != 20 {
		t.Errorf("expected PageSize=20, got %d", cfg.Search.PageSize)
	}
	if cfg.Search.RequestTimeoutSec != 10 {
		t.Errorf("expected RequestTimeoutSec=10, got %d", cfg.Search.RequestTimeoutSec)
	}
	if cfg.Search.MaxCandidates != 500 {
		t.Errorf("expected MaxCandidates=500, got %d", cfg.Search.MaxCandidates)
	}
	if cfg.Search.SessionTTLSec != 1800 {
		t.Errorf("expected SessionTTLSec=1800, got %d", cfg.Search.SessionTTLSec)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected Cache.TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Search: SearchConfig{PageSize: 50, RequestTimeoutSec: 3, MaxCandidates: 100, SessionTTLSec: 600},
		Cache:  CacheConfig{TTLSec: 60},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.Search.PageSize != 50 {
		t.Errorf("expected PageSize=50, got %d", cfg.Search.PageSize)
	}
	if cfg.Search.MaxCandidates != 100 {
		t.Errorf("expected MaxCandidates=100, got %d", cfg.Search.MaxCandidates)
	}
	if cfg.Cache.TTLSec != 60 {
		t.Errorf("expected Cache.TTLSec=60, got %d", cfg.Cache.TTLSec)
	}
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FEDVID_TEST_VAR", "resolved")

	in := []byte("a: ${FEDVID_TEST_VAR}\nb: ${FEDVID_UNSET_VAR:-fallback}\nc: ${FEDVID_UNSET_VAR}")
	out := string(expandEnvVars(in))

	want := "a: resolved\nb: fallback\nc: "
	if out != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", out, want)
	}
}
