package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNormalizeEnvValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "abc123", "abc123"},
		{"unset", "", ""},
		{"surrounding whitespace", "  abc\n", "abc"},
		{"byte order mark", "\uFEFFabc", "abc"},
		{"double quotes", `"abc"`, "abc"},
		{"single quotes", `'abc'`, "abc"},
		{"quotes inside whitespace", `  "abc"  `, "abc"},
		{"unbalanced quote kept", `"abc`, `"abc`},
		{"inner space dropped", "ab c", "abc"},
		{"control and non-ascii dropped", "a\tb\x00cé", "abc"},
		{"only one pair removed", `""abc""`, `"abc"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEnvValue(tt.in); got != tt.want {
				t.Errorf("NormalizeEnvValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCredentials(t *testing.T) {
	valid := Credentials{APIToken: "tok", AccountID: "0123456789ABCDEF0123456789abcdef"}
	if !valid.Configured() || !valid.AccountIDValid() {
		t.Errorf("valid credentials rejected: %+v", valid)
	}
	if got := valid.AccountIDPreview(); got != "012345...cdef" {
		t.Errorf("AccountIDPreview() = %q", got)
	}

	tests := []struct {
		name       string
		creds      Credentials
		configured bool
		validID    bool
	}{
		{"missing token", Credentials{AccountID: valid.AccountID}, false, true},
		{"missing account", Credentials{APIToken: "tok"}, false, false},
		{"short account", Credentials{APIToken: "tok", AccountID: "abc"}, true, false},
		{"non-hex account", Credentials{APIToken: "tok", AccountID: "g123456789abcdef0123456789abcdef"}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.creds.Configured(); got != tt.configured {
				t.Errorf("Configured() = %v, want %v", got, tt.configured)
			}
			if got := tt.creds.AccountIDValid(); got != tt.validID {
				t.Errorf("AccountIDValid() = %v, want %v", got, tt.validID)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("CLOUDFLARE_API_TOKEN", ` "tok-123" `)
	t.Setenv("CLOUDFLARE_ACCOUNT_ID", "\uFEFF0123456789abcdef0123456789abcdef\n")
	t.Setenv("CLOUDFLARE_DEBUG_SECRET", "")
	t.Setenv("FOCUS_DURATION", "90m")
	t.Setenv("CLOUDFLARE_TIMEOUT", "bogus")
	t.Setenv("APP_ENV", "")

	cfg := Load()

	want := Credentials{APIToken: "tok-123", AccountID: "0123456789abcdef0123456789abcdef"}
	if diff := cmp.Diff(want, cfg.Cloudflare); diff != "" {
		t.Errorf("credentials mismatch (-want +got):\n%s", diff)
	}
	if cfg.FocusDuration != 90*time.Minute {
		t.Errorf("FocusDuration = %v, want 90m", cfg.FocusDuration)
	}
	if cfg.CloudflareTimeout != 15*time.Second {
		t.Errorf("CloudflareTimeout = %v, want fallback 15s", cfg.CloudflareTimeout)
	}
	if cfg.AppEnv != "production" || cfg.IsDevelopment() {
		t.Errorf("AppEnv = %q, want production default", cfg.AppEnv)
	}
}
