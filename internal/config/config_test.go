package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Port != defaultPort || cfg.HTTP.Host != defaultHost {
		t.Fatalf("unexpected HTTP defaults %+v", cfg.HTTP)
	}
	if cfg.CRM.PageLimit != defaultCRMPageLimit || cfg.Payments.PageLimit != defaultPaymentsLimit {
		t.Fatalf("unexpected page limits %+v", cfg)
	}
	if cfg.Matching.NameLinkThreshold != defaultNameLinkThreshold {
		t.Fatalf("unexpected matching defaults %+v", cfg.Matching)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "text" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CRM_BASE_URL", "https://api.crm.example")
	t.Setenv("CRM_TOKEN", "crm-token")
	t.Setenv("CRM_TIMEOUT", "5s")
	t.Setenv("PAYMENTS_PAGE_LIMIT", "25")
	t.Setenv("MATCH_NAME_LINK_THRESHOLD", "0.75")
	t.Setenv("SOURCES_FIXTURE_DIR", "/tmp/fixtures")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.HTTP.Port)
	}
	if cfg.CRM.BaseURL != "https://api.crm.example" || cfg.CRM.Token != "crm-token" {
		t.Fatalf("unexpected CRM config %+v", cfg.CRM)
	}
	if cfg.CRM.Timeout != 5*time.Second {
		t.Fatalf("expected CRM timeout override, got %s", cfg.CRM.Timeout)
	}
	if cfg.Payments.PageLimit != 25 {
		t.Fatalf("expected payments page limit override, got %d", cfg.Payments.PageLimit)
	}
	if cfg.Matching.NameLinkThreshold != 0.75 {
		t.Fatalf("expected threshold override, got %v", cfg.Matching.NameLinkThreshold)
	}
	if cfg.FixtureDir != "/tmp/fixtures" {
		t.Fatalf("expected fixture dir, got %q", cfg.FixtureDir)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for invalid port")
	}

	t.Setenv("SERVER_PORT", "70000")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for out-of-range port")
	}
}

func TestLoad_InvalidThresholds(t *testing.T) {
	t.Setenv("MATCH_NAME_LINK_THRESHOLD", "1.5")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for threshold above 1")
	}
}

func TestValidateMatching_Ordering(t *testing.T) {
	bad := MatchingConfig{NameLinkThreshold: 0.8, NameEqualThreshold: 0.5, NameUnrelatedThreshold: 0.9}
	if err := validateMatching(bad); err == nil {
		t.Fatalf("expected error when unrelated floor exceeds equal ceiling")
	}
}
