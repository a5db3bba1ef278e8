package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_WRITE_TIMEOUT", "DB_NAME", "CORS_ALLOWED_ORIGINS", "RABBITMQ_ENABLED", "JWT_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("expected write timeout 30s, got: %v", cfg.Server.WriteTimeout)
	}
	if cfg.Database.DBName != "tourbook" {
		t.Errorf("expected db name tourbook, got: %s", cfg.Database.DBName)
	}
	if cfg.Server.AllowedOrigins != nil {
		t.Errorf("expected no origins, got: %v", cfg.Server.AllowedOrigins)
	}
	if cfg.RabbitMQ.Enabled {
		t.Error("expected rabbitmq disabled by default")
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Errorf("expected token ttl 24h, got: %v", cfg.Auth.TokenTTL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MAPS_SEGMENT_TIMEOUT", "2s")
	t.Setenv("RABBITMQ_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.lk, ,https://b.lk ")

	cfg := Load()

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got: %s", cfg.Server.Port)
	}
	if cfg.Redis.DB != 3 {
		t.Errorf("expected redis db 3, got: %d", cfg.Redis.DB)
	}
	if cfg.Maps.SegmentTimeout != 2*time.Second {
		t.Errorf("expected segment timeout 2s, got: %v", cfg.Maps.SegmentTimeout)
	}
	if !cfg.RabbitMQ.Enabled {
		t.Error("expected rabbitmq enabled")
	}
	want := []string{"https://a.lk", "https://b.lk"}
	if !reflect.DeepEqual(cfg.Server.AllowedOrigins, want) {
		t.Errorf("expected origins %v, got: %v", want, cfg.Server.AllowedOrigins)
	}
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")
	t.Setenv("MAPS_TIMEOUT", "soon")
	t.Setenv("NEW_RELIC_ENABLED", "maybe")

	cfg := Load()

	if cfg.Redis.DB != 0 {
		t.Errorf("expected default redis db, got: %d", cfg.Redis.DB)
	}
	if cfg.Maps.Timeout != 10*time.Second {
		t.Errorf("expected default maps timeout, got: %v", cfg.Maps.Timeout)
	}
	if cfg.NewRelic.Enabled {
		t.Error("expected new relic disabled")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Parallel()

	cfg := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "tourbook", SSLMode: "disable"}
	want := "host=db port=5432 user=u password=p dbname=tourbook sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Fatalf("expected %q, got: %q", want, got)
	}
}
