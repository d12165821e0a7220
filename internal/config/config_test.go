package config

import (
	"strings"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"TELEGRAM_TOKEN":   "123:abc",
		"MERCHANT_CHAT_ID": "-1002591533364",
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(baseEnv())
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	if cfg.MerchantChatID != -1002591533364 {
		t.Errorf("MerchantChatID = %d", cfg.MerchantChatID)
	}
	if cfg.SessionBackend != BackendMemory {
		t.Errorf("SessionBackend = %q", cfg.SessionBackend)
	}
	if cfg.DeliveryTimeout != 5*time.Second || cfg.SessionTTL != 24*time.Hour {
		t.Errorf("unexpected durations %s, %s", cfg.DeliveryTimeout, cfg.SessionTTL)
	}
	if cfg.Workers != 8 || cfg.HTTPAddr != ":8080" {
		t.Errorf("unexpected workers/addr %d, %q", cfg.Workers, cfg.HTTPAddr)
	}
	if cfg.Location == nil || cfg.Location.String() != "Asia/Tehran" {
		t.Errorf("Location = %v", cfg.Location)
	}
	if cfg.Database.Port != 5432 || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected nested defaults %+v %+v", cfg.Database, cfg.Redis)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]string
		drop    string
		wantErr string
	}{
		{name: "missing token", drop: "TELEGRAM_TOKEN", wantErr: "TELEGRAM_TOKEN"},
		{name: "zero merchant", set: map[string]string{"MERCHANT_CHAT_ID": "0"}, wantErr: "MERCHANT_CHAT_ID"},
		{name: "unknown backend", set: map[string]string{"SESSION_BACKEND": "etcd"}, wantErr: "SESSION_BACKEND"},
		{name: "postgres without host", set: map[string]string{"SESSION_BACKEND": "postgres"}, wantErr: "DB_HOST"},
		{name: "bad timezone", set: map[string]string{"TIMEZONE": "Mars/Olympus"}, wantErr: "TIMEZONE"},
		{name: "no workers", set: map[string]string{"WORKERS": "0"}, wantErr: "WORKERS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			environ := baseEnv()
			delete(environ, tt.drop)
			for k, v := range tt.set {
				environ[k] = v
			}

			_, err := Parse(environ)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %s", err, tt.wantErr)
			}
		})
	}
}

func TestParsePostgres(t *testing.T) {
	environ := baseEnv()
	environ["SESSION_BACKEND"] = "postgres"
	environ["DB_HOST"] = "db"
	environ["DB_USER"] = "volta"
	environ["DB_PASSWORD"] = "secret"
	environ["DB_NAME"] = "voltabot"
	environ["DB_CONN_MAX_LIFETIME"] = "10m"

	cfg, err := Parse(environ)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	want := "host=db port=5432 user=volta password=secret dbname=voltabot sslmode=disable"
	if got := cfg.Database.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
	if cfg.Database.ConnMaxLifetime != 10*time.Minute {
		t.Errorf("ConnMaxLifetime = %s", cfg.Database.ConnMaxLifetime)
	}
}
