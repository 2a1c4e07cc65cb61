package config

import (
	"os"
	"regexp"
	"strings"
)

var accountIDPattern = regexp.MustCompile(`(?i)^[a-f0-9]{32}$`)

// Credentials holds the Cloudflare secrets after normalization.
type Credentials struct {
	APIToken    string
	AccountID   string
	DebugSecret string
}

// LoadCredentials reads the Cloudflare secrets from the environment.
// Unset variables yield empty strings.
func LoadCredentials() Credentials {
	return Credentials{
		APIToken:    NormalizeEnvValue(os.Getenv("CLOUDFLARE_API_TOKEN")),
		AccountID:   NormalizeEnvValue(os.Getenv("CLOUDFLARE_ACCOUNT_ID")),
		DebugSecret: NormalizeEnvValue(os.Getenv("CLOUDFLARE_DEBUG_SECRET")),
	}
}

// Configured reports whether both the API token and the account id are present.
func (c Credentials) Configured() bool {
	return c.APIToken != "" && c.AccountID != ""
}

// AccountIDValid reports whether the account id is a 32 character hex string.
func (c Credentials) AccountIDValid() bool {
	return accountIDPattern.MatchString(c.AccountID)
}

// AccountIDPreview masks the account id down to its first 6 and last 4 characters.
func (c Credentials) AccountIDPreview() string {
	id := c.AccountID
	head, tail := id, id
	if len(head) > 6 {
		head = head[:6]
	}
	if len(tail) > 4 {
		tail = tail[len(tail)-4:]
	}
	return head + "..." + tail
}

// NormalizeEnvValue strips a leading BOM, surrounding whitespace and one pair of
// surrounding quotes, then drops every byte outside printable ASCII (0x21-0x7E).
// Values pasted into dashboards often carry any of these.
func NormalizeEnvValue(value string) string {
	v := strings.TrimPrefix(value, "\uFEFF")
	v = strings.TrimSpace(v)
	v = unquote(v, '"')
	v = unquote(v, '\'')

	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		if c := v[i]; c >= 0x21 && c <= 0x7E {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func unquote(s string, quote byte) string {
	if len(s) >= 2 && s[0] == quote && s[len(s)-1] == quote {
		return s[1 : len(s)-1]
	}
	return s
}
