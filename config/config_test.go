package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_REMEMBER_TTL", "")
	t.Setenv("SEARCH_BACKEND", "")

	cfg := Load()
	if cfg.RememberTTL != 30*24*time.Hour {
		t.Fatalf("RememberTTL = %v, want 720h", cfg.RememberTTL)
	}
	if cfg.RememberTTL <= cfg.RefreshTTL {
		t.Fatalf("remember ttl %v must exceed refresh ttl %v", cfg.RememberTTL, cfg.RefreshTTL)
	}
	if cfg.SearchBackend != "postgres" {
		t.Fatalf("SearchBackend = %q, want postgres", cfg.SearchBackend)
	}
	if cfg.PasswordMinLength != 8 {
		t.Fatalf("PasswordMinLength = %d, want 8", cfg.PasswordMinLength)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_ACCESS_TTL", "90s")
	t.Setenv("SEARCH_BACKEND", "Elasticsearch")
	t.Setenv("MAX_UPLOAD_MB", "3")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()
	if cfg.AccessTTL != 90*time.Second {
		t.Errorf("AccessTTL = %v", cfg.AccessTTL)
	}
	if cfg.SearchBackend != "elasticsearch" {
		t.Errorf("SearchBackend = %q", cfg.SearchBackend)
	}
	if cfg.MaxUploadBytes() != 3<<20 {
		t.Errorf("MaxUploadBytes = %d", cfg.MaxUploadBytes())
	}
	if !cfg.CookieSecure {
		t.Errorf("CookieSecure should be true")
	}
}

func TestInvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_REFRESH_TTL", "forever")
	t.Setenv("REDIS_DB", "zero")
	t.Setenv("MAIL_SEND_ENABLED", "maybe")

	cfg := Load()
	if cfg.RefreshTTL != 24*time.Hour {
		t.Errorf("RefreshTTL = %v, want default", cfg.RefreshTTL)
	}
	if cfg.RedisDB != 0 {
		t.Errorf("RedisDB = %d, want 0", cfg.RedisDB)
	}
	if !cfg.MailSendEnabled {
		t.Errorf("MailSendEnabled should keep default true")
	}
}

func TestCSVLists(t *testing.T) {
	cfg := &Config{SupportedLanguages: " UZ, ru ,,en", CORSAllowedOrigins: "http://a.test, http://b.test"}
	langs := cfg.Languages()
	if len(langs) != 3 || langs[0] != "uz" || langs[1] != "ru" || langs[2] != "en" {
		t.Fatalf("Languages = %v", langs)
	}
	if got := cfg.CORSOrigins(); len(got) != 2 || got[1] != "http://b.test" {
		t.Fatalf("CORSOrigins = %v", got)
	}
}
