package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestParseYAML(t *testing.T) {
	t.Parallel()

	p := writeTemp(t, "config.yaml", `
logging:
  level: debug
  console: true
watch:
  enabled: true
  tick: 500ms
  timezone: Europe/Berlin
  rules:
    - name: nightly
      expression: "0 0 2 * * *"
    - name: ny-open
      expression: "0 30 9 * * 1-5"
      timezone: America/New_York
`)

	cfg, err := NewManager(p).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.Console {
		t.Fatalf("logging = %+v", cfg.Logging)
	}
	if !cfg.Watch.Enabled || cfg.Watch.Timezone != "Europe/Berlin" {
		t.Fatalf("watch = %+v", cfg.Watch)
	}
	tick, err := cfg.Watch.TickOrDefault()
	if err != nil {
		t.Fatal(err)
	}
	if tick != 500*time.Millisecond {
		t.Fatalf("tick = %v, want 500ms", tick)
	}
	if len(cfg.Watch.Rules) != 2 || cfg.Watch.Rules[1].Timezone != "America/New_York" {
		t.Fatalf("rules = %+v", cfg.Watch.Rules)
	}
}

func TestParseJSONStrict(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", `{"logging":{"console":true},"watch":{"enabled":false},"extra":1}`, "unknown field"},
		{"trailing data", `{"watch":{"enabled":false}} {}`, "trailing"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := writeTemp(t, "config.json", tt.body)
			_, err := NewManager(p).Parse()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestTickDefault(t *testing.T) {
	t.Parallel()

	var w WatchConfig
	tick, err := w.TickOrDefault()
	if err != nil {
		t.Fatal(err)
	}
	if tick != time.Second {
		t.Fatalf("tick = %v, want 1s", tick)
	}

	w.Tick = "bogus"
	if _, err := w.TickOrDefault(); err == nil {
		t.Fatal("expected error for bad duration")
	}
}
