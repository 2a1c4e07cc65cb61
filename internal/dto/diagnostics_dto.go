package dto

import "encoding/json"

type DiagnosticsEnv struct {
	HasAPIToken              bool `json:"hasApiToken"`
	HasAccountID             bool `json:"hasAccountId"`
	AccountIDLooksValidHex32 bool `json:"accountIdLooksValidHex32"`
}

// ProbeResult is the outcome of one read-only Cloudflare call.
type ProbeResult struct {
	URL        string          `json:"url"`
	Status     int             `json:"status"`
	StatusText string          `json:"statusText"`
	Success    *bool           `json:"success"`
	Errors     json.RawMessage `json:"errors"`
	Messages   json.RawMessage `json:"messages"`
	Result     json.RawMessage `json:"result,omitempty"`
	Error      string          `json:"error,omitempty"`
}

type DiagnosticsResults struct {
	TokenVerify      ProbeResult `json:"tokenVerify"`
	AccountCheck     ProbeResult `json:"accountCheck"`
	GatewayRulesList ProbeResult `json:"gatewayRulesList"`
}

type DiagnosticsReport struct {
	OK      bool                `json:"ok"`
	Error   string              `json:"error,omitempty"`
	Env     DiagnosticsEnv      `json:"env"`
	Results *DiagnosticsResults `json:"results,omitempty"`
	Next    string              `json:"next,omitempty"`
}
