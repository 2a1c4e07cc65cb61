package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/cloudflare"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/dto"
)

var nullJSON = json.RawMessage("null")

const diagnosticsNext = "Send this JSON as-is to diagnose token scope (verify), account access and Gateway rule access in one go."

// ReadOnlyAPI is the subset of the Cloudflare client used by diagnostics.
type ReadOnlyAPI interface {
	VerifyToken(ctx context.Context) (*cloudflare.Response, error)
	GetAccount(ctx context.Context) (*cloudflare.Response, error)
	ListGatewayRules(ctx context.Context) (*cloudflare.Response, error)
	TokenVerifyURL() string
	AccountURL() string
	GatewayRulesURL() string
}

type DiagnosticsService struct {
	creds  config.Credentials
	client ReadOnlyAPI
}

func NewDiagnosticsService(cfg *config.Config) *DiagnosticsService {
	creds := cfg.Cloudflare
	return NewDiagnosticsServiceWithClient(creds, cloudflare.NewClient(cfg.CloudflareAPIBase, creds.APIToken, creds.AccountID, cfg.CloudflareTimeout))
}

func NewDiagnosticsServiceWithClient(creds config.Credentials, client ReadOnlyAPI) *DiagnosticsService {
	return &DiagnosticsService{creds: creds, client: client}
}

// Run probes token verification, account lookup and rule listing in that order
// and returns the report with the HTTP status to answer with. It never mutates
// vendor state.
func (s *DiagnosticsService) Run(ctx context.Context) (*dto.DiagnosticsReport, int) {
	env := dto.DiagnosticsEnv{
		HasAPIToken:              s.creds.APIToken != "",
		HasAccountID:             s.creds.AccountID != "",
		AccountIDLooksValidHex32: s.creds.AccountIDValid(),
	}

	if !env.HasAPIToken || !env.HasAccountID {
		return &dto.DiagnosticsReport{OK: false, Error: msgMissingCredentials, Env: env}, http.StatusInternalServerError
	}

	results := &dto.DiagnosticsResults{
		TokenVerify:      probe(ctx, s.client.TokenVerifyURL(), s.client.VerifyToken, true),
		AccountCheck:     probe(ctx, s.client.AccountURL(), s.client.GetAccount, false),
		GatewayRulesList: probe(ctx, s.client.GatewayRulesURL(), s.client.ListGatewayRules, false),
	}

	return &dto.DiagnosticsReport{
		OK:      true,
		Env:     env,
		Results: results,
		Next:    diagnosticsNext,
	}, http.StatusOK
}

func probe(ctx context.Context, url string, call func(context.Context) (*cloudflare.Response, error), withResult bool) dto.ProbeResult {
	resp, err := call(ctx)
	if err != nil {
		slog.Warn("cloudflare probe failed", "url", url, "error", err)
		return dto.ProbeResult{URL: url, Error: err.Error()}
	}

	out := dto.ProbeResult{
		URL:        resp.URL,
		Status:     resp.Status,
		StatusText: resp.StatusText,
	}
	if env := resp.Envelope; env != nil {
		out.Success = env.Success
		out.Messages = env.Messages
		out.Errors = env.Errors
		if withResult {
			out.Result = env.Result
			if out.Result == nil {
				out.Result = nullJSON
			}
		}
	} else if withResult {
		out.Result = nullJSON
	}
	return out
}
