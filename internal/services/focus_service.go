package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/cloudflare"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/dto"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/gateway"
)

// Failure kinds reported on BlockError.
const (
	KindConfig             = "config"
	KindValidation         = "validation"
	KindUpstreamAuth       = "upstream_auth"
	KindUpstreamPermission = "upstream_permission"
	KindUpstream           = "upstream"
	KindNetwork            = "network"
)

const (
	msgMissingCredentials = "Cloudflare credentials are not configured. Set CLOUDFLARE_API_TOKEN and CLOUDFLARE_ACCOUNT_ID."
	msgBadAccountID       = "CLOUDFLARE_ACCOUNT_ID is malformed (expected a 32 character hex string)."
	msgTokenVerifyFailed  = "Cloudflare API token verification failed. The token is probably wrong, expired or revoked."
	msgInvalidBody        = "A valid JSON body is required."
	msgMissingURLs        = "A list of URLs to block (urls) is required."
	msgNoUsableURLs       = "No usable URLs were provided, so no Gateway rule can be created."
	msgTokenUnauthorized  = "Cloudflare API token is invalid or expired. (401 Unauthorized)"
	msgTokenForbidden     = "Cloudflare API token lacks permission. Gateway rule EDIT permission is required. (403 Forbidden)"
	msgRuleCreateFailed   = "Failed to create the Cloudflare Gateway rule."
	msgUnreachable        = "Could not reach the Cloudflare API."
)

// BlockError is a focus-mode failure carrying the HTTP status to answer with.
type BlockError struct {
	Kind    string
	Status  int
	Message string
	Details json.RawMessage
	Debug   map[string]any
	Err     error
}

func (e *BlockError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *BlockError) Unwrap() error { return e.Err }

// Response converts the error into its JSON body.
func (e *BlockError) Response() dto.BlockErrorResponse {
	return dto.BlockErrorResponse{Error: e.Message, Details: e.Details, Debug: e.Debug}
}

// GatewayAPI is the subset of the Cloudflare client used for focus mode.
type GatewayAPI interface {
	VerifyToken(ctx context.Context) (*cloudflare.Response, error)
	CreateGatewayRule(ctx context.Context, rule any) (*cloudflare.Response, error)
}

type FocusService struct {
	creds  config.Credentials
	client GatewayAPI
}

func NewFocusService(cfg *config.Config) *FocusService {
	creds := cfg.Cloudflare
	return NewFocusServiceWithClient(creds, cloudflare.NewClient(cfg.CloudflareAPIBase, creds.APIToken, creds.AccountID, cfg.CloudflareTimeout))
}

func NewFocusServiceWithClient(creds config.Credentials, client GatewayAPI) *FocusService {
	return &FocusService{creds: creds, client: client}
}

// Activate validates the credentials and request body, verifies the token and
// creates one Gateway block rule covering every URL. The token check always
// runs before the body is inspected; a failed check never reaches rule creation.
func (s *FocusService) Activate(ctx context.Context, body []byte) (*dto.BlockResponse, error) {
	if !s.creds.Configured() {
		return nil, &BlockError{Kind: KindConfig, Status: http.StatusInternalServerError, Message: msgMissingCredentials}
	}

	if !s.creds.AccountIDValid() {
		return nil, &BlockError{
			Kind:    KindConfig,
			Status:  http.StatusInternalServerError,
			Message: msgBadAccountID,
			Debug: map[string]any{
				"accountIdLength":  len(s.creds.AccountID),
				"accountIdPreview": s.creds.AccountIDPreview(),
			},
		}
	}

	verify, err := s.client.VerifyToken(ctx)
	if err != nil {
		return nil, &BlockError{Kind: KindNetwork, Status: http.StatusInternalServerError, Message: msgUnreachable, Err: err}
	}
	if !verify.OK() {
		slog.Warn("cloudflare token verification failed", "status", verify.Status)
		return nil, &BlockError{
			Kind:    KindUpstreamAuth,
			Status:  http.StatusInternalServerError,
			Message: msgTokenVerifyFailed,
			Details: vendorDetails(verify),
			Debug:   responseDebug(verify),
		}
	}

	urls, berr := parseBlockRequest(body)
	if berr != nil {
		return nil, berr
	}

	traffic := gateway.BuildTrafficExpression(urls)
	if traffic == "" {
		return nil, &BlockError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msgNoUsableURLs}
	}

	created, err := s.client.CreateGatewayRule(ctx, gateway.NewBlockRule(traffic))
	if err != nil {
		return nil, &BlockError{Kind: KindNetwork, Status: http.StatusInternalServerError, Message: msgUnreachable, Err: err}
	}
	if !created.OK() {
		return nil, s.classifyCreateFailure(created)
	}

	slog.Info("gateway block rule created", "urls", len(urls))

	var result json.RawMessage
	if created.Envelope != nil {
		result = created.Envelope.Result
	}
	return &dto.BlockResponse{Success: true, Result: result}, nil
}

func (s *FocusService) classifyCreateFailure(resp *cloudflare.Response) *BlockError {
	berr := &BlockError{
		Status:  http.StatusInternalServerError,
		Details: vendorDetails(resp),
		Debug:   responseDebug(resp),
	}

	switch resp.Status {
	case http.StatusUnauthorized:
		berr.Kind = KindUpstreamAuth
		berr.Message = msgTokenUnauthorized
	case http.StatusForbidden:
		berr.Kind = KindUpstreamPermission
		berr.Message = msgTokenForbidden
	default:
		berr.Kind = KindUpstream
		berr.Message = resp.FirstErrorMessage()
		if berr.Message == "" {
			berr.Message = msgRuleCreateFailed
		}
		berr.Debug["accountIdPreview"] = s.creds.AccountIDPreview()
	}

	slog.Warn("cloudflare gateway rule creation failed", "status", resp.Status, "kind", berr.Kind)
	return berr
}

func parseBlockRequest(body []byte) ([]string, *BlockError) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, &BlockError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msgInvalidBody, Err: err}
	}

	raw, ok := fields["urls"]
	if !ok {
		return nil, &BlockError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msgMissingURLs}
	}

	var req dto.BlockRequest
	if err := json.Unmarshal(raw, &req.URLs); err != nil || len(req.URLs) == 0 {
		return nil, &BlockError{Kind: KindValidation, Status: http.StatusBadRequest, Message: msgMissingURLs, Err: err}
	}
	return req.URLs, nil
}

func responseDebug(resp *cloudflare.Response) map[string]any {
	return map[string]any{
		"endpoint":   resp.URL,
		"status":     resp.Status,
		"statusText": resp.StatusText,
	}
}

// vendorDetails is the vendor body, or JSON null when it was not JSON.
func vendorDetails(resp *cloudflare.Response) json.RawMessage {
	if resp.Raw == nil {
		return nullJSON
	}
	return resp.Raw
}
