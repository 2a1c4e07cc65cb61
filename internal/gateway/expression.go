// Package gateway builds Cloudflare Gateway HTTP rule expressions.
package gateway

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	RuleName        = "Focus Block - HTTP URL & VPN/Proxy"
	RuleDescription = "Block rule created by Focus Block for a 4-hour focus session."
)

var stringLiteralEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Rule is the payload sent to the Gateway rule creation endpoint.
type Rule struct {
	Action      string   `json:"action"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Enabled     bool     `json:"enabled"`
	Filters     []string `json:"filters"`
	Traffic     string   `json:"traffic"`
}

// NewBlockRule wraps a traffic expression in an enabled HTTP block rule.
func NewBlockRule(traffic string) Rule {
	return Rule{
		Action:      "block",
		Name:        RuleName,
		Description: RuleDescription,
		Enabled:     true,
		Filters:     []string{"http"},
		Traffic:     traffic,
	}
}

// BuildTrafficExpression turns raw URLs into one OR-combined Gateway expression.
// Each entry matches its host exactly; a path other than "/" adds a substring
// regex on the request URI. Gateway has no "contains" operator, hence "matches".
// Returns "" when no entry survives trimming.
func BuildTrafficExpression(urls []string) string {
	parts := make([]string, 0, len(urls))
	for _, raw := range urls {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parts = append(parts, buildClause(raw))
	}
	return strings.Join(parts, " or ")
}

func buildClause(raw string) string {
	host, pathAndQuery := splitTarget(raw)
	hostClause := `http.request.host in {"` + EscapeStringLiteral(host) + `"}`

	if pathAndQuery != "" && pathAndQuery != "/" {
		pattern := EscapeStringLiteral(".*" + regexp.QuoteMeta(pathAndQuery) + ".*")
		return "(" + hostClause + ` and http.request.uri matches "` + pattern + `")`
	}
	return "(" + hostClause + ")"
}

// splitTarget extracts hostname and path+query from an absolute URL. Anything
// that is not an absolute URL is used verbatim as the host.
func splitTarget(raw string) (string, string) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw, ""
	}

	pathAndQuery := u.EscapedPath()
	if pathAndQuery == "" {
		pathAndQuery = "/"
	}
	if u.RawQuery != "" {
		pathAndQuery += "?" + u.RawQuery
	}
	return strings.ToLower(u.Hostname()), pathAndQuery
}

// EscapeStringLiteral escapes backslashes and double quotes for a Gateway string literal.
func EscapeStringLiteral(s string) string {
	return stringLiteralEscaper.Replace(s)
}
