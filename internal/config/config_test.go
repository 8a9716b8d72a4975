package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	for _, k := range []string{"PORT", "DB_DRIVER", "TRUSTED_PROXIES", "TOKEN_TTL", "BCRYPT_COST", "CORS_ALLOWED_ORIGINS", "PUBLIC_DIR", "MY_SECRET"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "4000" || cfg.Server.PublicDir != "public" {
		t.Fatalf("server defaults: %+v", cfg.Server)
	}
	if cfg.Database.Driver != DriverMongo {
		t.Fatalf("driver: %q", cfg.Database.Driver)
	}
	if cfg.Auth.TokenTTL != 72*time.Hour || cfg.Auth.BcryptCost != 10 {
		t.Fatalf("auth defaults: %+v", cfg.Auth)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"*"}) {
		t.Fatalf("origins: %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Server.TrustedProxies != nil {
		t.Fatalf("no proxy should be trusted by default, got %v", cfg.Server.TrustedProxies)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("MY_SECRET", "legacy")
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "Memory")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test ,")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.1")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.Secret != "legacy" {
		t.Fatalf("MY_SECRET fallback not used: %q", cfg.Auth.Secret)
	}
	if cfg.Server.Port != "8080" || cfg.Database.Driver != DriverMemory || cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Auth.BcryptCost != 10 {
		t.Fatalf("bad int should fall back, got %d", cfg.Auth.BcryptCost)
	}
	want := []string{"http://a.test", "http://b.test"}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, want) {
		t.Fatalf("origins: %v", cfg.CORS.AllowedOrigins)
	}
	if !reflect.DeepEqual(cfg.Server.TrustedProxies, []string{"10.0.0.0/8", "192.168.1.1"}) {
		t.Fatalf("proxies: %v", cfg.Server.TrustedProxies)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"missing secret", map[string]string{"JWT_SECRET": "", "MY_SECRET": ""}, "JWT_SECRET"},
		{"unknown driver", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "sqlite"}, "DB_DRIVER"},
		{"bad proxy", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "memory", "TRUSTED_PROXIES": "10.0.0.0/8,not-an-ip"}, "TRUSTED_PROXIES"},
		{"zero burst", map[string]string{"JWT_SECRET": "s", "DB_DRIVER": "memory", "AUTH_RATE_BURST": "-1"}, "AUTH_RATE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("want error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}
