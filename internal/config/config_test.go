package config

import (
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateNotifier(); err != nil {
		t.Fatalf("ValidateNotifier: %v", err)
	}
	if cfg.TokenEnv != "ESKOMSEPUSH_API_KEY" {
		t.Fatalf("token_env = %q", cfg.TokenEnv)
	}
	if cfg.PollInterval != 30*time.Minute {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("http timeout = %v", cfg.HTTPTimeout)
	}
	if !reflect.DeepEqual(cfg.WatchRegions, []string{"eskom", "capetown"}) {
		t.Fatalf("watch regions = %v", cfg.WatchRegions)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("POLL_INTERVAL", "1d2h")
	t.Setenv("WATCH_REGIONS", " Eskom , ,Durban")
	t.Setenv("TRANSPORT", "http")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.ValidateNotifier(); err != nil {
		t.Fatalf("ValidateNotifier: %v", err)
	}
	if cfg.PollInterval != 26*time.Hour {
		t.Fatalf("poll interval = %v", cfg.PollInterval)
	}
	if !reflect.DeepEqual(cfg.WatchRegions, []string{"eskom", "durban"}) {
		t.Fatalf("watch regions = %v", cfg.WatchRegions)
	}
	if cfg.Transport != "http" || cfg.HTTPTimeout != 3*time.Second {
		t.Fatalf("unexpected transport config %q %v", cfg.Transport, cfg.HTTPTimeout)
	}
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for HTTP_TIMEOUT_SECONDS=0")
	}
}

func TestNotifierSettingsDoNotBreakLoad(t *testing.T) {
	cases := map[string]string{
		"POLL_INTERVAL":   "soon",
		"PUBLISHERS_FILE": " ",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load must ignore notifier settings, got %v", err)
			}
			if err := cfg.ValidateNotifier(); err == nil {
				t.Fatalf("expected ValidateNotifier error for %s=%q", key, val)
			}
		})
	}
}
