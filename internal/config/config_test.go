package config

import (
	"testing"
	"time"
)

func TestEnvOr(t *testing.T) {
	tests := []struct {
		name     string
		envKey   string
		envValue string
		defValue string
		want     string
	}{
		{
			name:     "env set",
			envKey:   "TEST_ENV_VAR",
			envValue: "custom_value",
			defValue: "default",
			want:     "custom_value",
		},
		{
			name:     "env not set",
			envKey:   "TEST_ENV_VAR_NOTSET",
			envValue: "",
			defValue: "default",
			want:     "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				t.Setenv(tt.envKey, tt.envValue)
			}
			got := envOr(tt.envKey, tt.defValue)
			if got != tt.want {
				t.Errorf("envOr(%q, %q) = %q, want %q", tt.envKey, tt.defValue, got, tt.want)
			}
		})
	}
}

func TestEnvDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	if got := envDuration("TEST_DURATION", time.Second); got != 45*time.Second {
		t.Errorf("envDuration = %v, want 45s", got)
	}
	t.Setenv("TEST_DURATION_BAD", "not-a-duration")
	if got := envDuration("TEST_DURATION_BAD", time.Second); got != time.Second {
		t.Errorf("envDuration with invalid value = %v, want default 1s", got)
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	if cfg.ConsumerTopic != "chat" {
		t.Errorf("ConsumerTopic = %q, want chat", cfg.ConsumerTopic)
	}
	if cfg.ProducerTopic != "answer" {
		t.Errorf("ProducerTopic = %q, want answer", cfg.ProducerTopic)
	}
	if cfg.ConsumerGroup != "chat-group" {
		t.Errorf("ConsumerGroup = %q, want chat-group", cfg.ConsumerGroup)
	}
	if cfg.RetrievalTopK != 2 {
		t.Errorf("RetrievalTopK = %d, want 2", cfg.RetrievalTopK)
	}
}
