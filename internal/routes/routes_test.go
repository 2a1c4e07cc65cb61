package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/focus-block/internal/config"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/services"
	"github.com/ahmetcoskunkizilkaya/focus-block/internal/testutil"
	"github.com/gofiber/fiber/v2"
	"github.com/google/go-cmp/cmp"
)

const (
	accountID = "0123456789abcdef0123456789abcdef"
	verifyKey = "GET /user/tokens/verify"
	createKey = "POST /accounts/" + accountID + "/gateway/rules"
	verifyOK  = `{"success":true,"errors":[],"messages":[],"result":{"status":"active"}}`
)

func newTestApp(t *testing.T, env string, creds config.Credentials, replies map[string]testutil.Reply) (*fiber.App, *testutil.CloudflareStub) {
	t.Helper()

	stub := testutil.StartCloudflareStub(t, replies)
	cfg := &config.Config{
		AppEnv:            env,
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  time.Hour,
		Cloudflare:        creds,
		CloudflareAPIBase: stub.URL,
		CloudflareTimeout: 5 * time.Second,
		FocusDuration:     4 * time.Hour,
		CORSOrigins:       "*",
	}
	db := testutil.NewDB(t)

	app := fiber.New()
	Setup(app, cfg,
		handlers.NewAuthHandler(services.NewAuthService(db, cfg)),
		handlers.NewURLHandler(services.NewURLService(db)),
		handlers.NewBlockHandler(services.NewFocusService(cfg)),
		handlers.NewDebugHandler(services.NewDiagnosticsService(cfg)),
		handlers.NewHealthHandler(db, cfg),
		handlers.NewPageHandler(cfg),
	)
	return app, stub
}

func call(t *testing.T, app *fiber.App, method, path, token, body string, header ...string) (int, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(out)
}

func register(t *testing.T, app *fiber.App, email string) string {
	t.Helper()
	status, body := call(t, app, "POST", "/api/auth/register", "", `{"email":"`+email+`","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", status, body)
	}
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatal(err)
	}
	return resp.AccessToken
}

func TestURLRoutes(t *testing.T) {
	app, _ := newTestApp(t, "production", config.Credentials{}, nil)
	alice := register(t, app, "alice@example.com")
	bob := register(t, app, "bob@example.com")

	if status, _ := call(t, app, "GET", "/api/urls", "", ""); status != http.StatusUnauthorized {
		t.Errorf("GET /api/urls without token = %d, want 401", status)
	}

	status, body := call(t, app, "GET", "/api/urls", alice, "")
	if status != http.StatusOK || body != `{"urls":[]}` {
		t.Errorf("empty list = %d %s", status, body)
	}

	status, body = call(t, app, "POST", "/api/urls", alice, `{"url":"  https://www.youtube.com  "}`)
	if status != http.StatusCreated {
		t.Fatalf("add status = %d, body = %s", status, body)
	}
	var added struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal([]byte(body), &added); err != nil {
		t.Fatal(err)
	}
	if added.URL != "https://www.youtube.com" {
		t.Errorf("added url = %q, want trimmed", added.URL)
	}

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   string
		want   int
	}{
		{"blank url", "POST", "/api/urls", alice, `{"url":"   "}`, http.StatusBadRequest},
		{"malformed id", "DELETE", "/api/urls/not-a-uuid", alice, "", http.StatusBadRequest},
		{"other user's row", "DELETE", "/api/urls/" + added.ID, bob, "", http.StatusNotFound},
		{"own row", "DELETE", "/api/urls/" + added.ID, alice, "", http.StatusOK},
		{"already deleted", "DELETE", "/api/urls/" + added.ID, alice, "", http.StatusNotFound},
	}
	for _, tt := range tests {
		if status, body := call(t, app, tt.method, tt.path, tt.token, tt.body); status != tt.want {
			t.Errorf("%s: status = %d, want %d (%s)", tt.name, status, tt.want, body)
		}
	}
}

func TestMeAndAccountDeletion(t *testing.T) {
	app, _ := newTestApp(t, "production", config.Credentials{}, nil)
	token := register(t, app, "me@example.com")

	status, body := call(t, app, "GET", "/api/auth/me", token, "")
	if status != http.StatusOK || !strings.Contains(body, `"email":"me@example.com"`) {
		t.Errorf("me = %d %s", status, body)
	}

	if status, _ := call(t, app, "DELETE", "/api/auth/account", token, `{"password":"nope"}`); status != http.StatusUnauthorized {
		t.Errorf("delete with wrong password = %d, want 401", status)
	}
	if status, _ := call(t, app, "DELETE", "/api/auth/account", token, `{}`); status != http.StatusBadRequest {
		t.Errorf("delete without password = %d, want 400", status)
	}
	if status, _ := call(t, app, "DELETE", "/api/auth/account", token, `{"password":"secret1"}`); status != http.StatusOK {
		t.Errorf("delete = %d, want 200", status)
	}
	if status, _ := call(t, app, "GET", "/api/auth/me", token, ""); status != http.StatusNotFound {
		t.Errorf("me after delete = %d, want 404", status)
	}
}

func TestRefreshRouteRejectsReuse(t *testing.T) {
	app, _ := newTestApp(t, "production", config.Credentials{}, nil)

	status, body := call(t, app, "POST", "/api/auth/register", "", `{"email":"reuse@example.com","password":"secret1"}`)
	if status != http.StatusCreated {
		t.Fatalf("register status = %d, body = %s", status, body)
	}
	var tokens struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := json.Unmarshal([]byte(body), &tokens); err != nil {
		t.Fatal(err)
	}

	refresh := `{"refresh_token":"` + tokens.RefreshToken + `"}`
	if status, body := call(t, app, "POST", "/api/auth/refresh", "", refresh); status != http.StatusOK {
		t.Fatalf("first refresh = %d %s", status, body)
	}
	if status, _ := call(t, app, "POST", "/api/auth/refresh", "", refresh); status != http.StatusUnauthorized {
		t.Errorf("second refresh = %d, want 401", status)
	}
}

func TestBlockRoute(t *testing.T) {
	creds := config.Credentials{APIToken: "tok", AccountID: accountID}

	t.Run("success", func(t *testing.T) {
		app, stub := newTestApp(t, "production", creds, map[string]testutil.Reply{
			verifyKey: {Status: 200, Body: verifyOK},
			createKey: {Status: 200, Body: `{"success":true,"errors":[],"messages":[],"result":{"id":"rule-1"}}`},
		})
		status, body := call(t, app, "POST", "/api/block", "", `{"urls":["https://www.youtube.com"]}`)
		if status != http.StatusOK {
			t.Fatalf("status = %d, body = %s", status, body)
		}
		if diff := cmp.Diff(`{"success":true,"result":{"id":"rule-1"}}`, body); diff != "" {
			t.Errorf("body mismatch (-want +got):\n%s", diff)
		}
		if stub.Count(createKey) != 1 {
			t.Errorf("create calls = %d, want 1", stub.Count(createKey))
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		app, stub := newTestApp(t, "production", creds, map[string]testutil.Reply{
			verifyKey: {Status: 200, Body: verifyOK},
		})
		status, body := call(t, app, "POST", "/api/block", "", `not json`)
		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", status)
		}
		if !strings.HasPrefix(body, `{"error":`) || strings.Contains(body, "details") {
			t.Errorf("body = %s", body)
		}
		if stub.Count(createKey) != 0 {
			t.Error("rule created for invalid body")
		}
	})

	t.Run("missing credentials", func(t *testing.T) {
		app, stub := newTestApp(t, "production", config.Credentials{}, nil)
		status, _ := call(t, app, "POST", "/api/block", "", `{"urls":["a.com"]}`)
		if status != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", status)
		}
		if len(stub.Calls()) != 0 {
			t.Errorf("calls = %v, want none", stub.Calls())
		}
	})

	t.Run("forbidden", func(t *testing.T) {
		app, _ := newTestApp(t, "production", creds, map[string]testutil.Reply{
			verifyKey: {Status: 200, Body: verifyOK},
			createKey: {Status: 403, Body: `{"success":false,"errors":[{"code":10000,"message":"Authentication error"}],"messages":[]}`},
		})
		status, body := call(t, app, "POST", "/api/block", "", `{"urls":["a.com"]}`)
		if status != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", status)
		}
		var resp struct {
			Error   string          `json:"error"`
			Details json.RawMessage `json:"details"`
			Debug   map[string]any  `json:"debug"`
		}
		if err := json.Unmarshal([]byte(body), &resp); err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(resp.Error, "403") || resp.Details == nil || resp.Debug["status"] != float64(403) {
			t.Errorf("response = %s", body)
		}
	})
}

func TestDebugRouteGate(t *testing.T) {
	creds := config.Credentials{APIToken: "tok", AccountID: accountID, DebugSecret: "s3cret"}
	accountKey := "GET /accounts/" + accountID
	rulesKey := accountKey + "/gateway/rules"
	replies := map[string]testutil.Reply{
		verifyKey:  {Status: 200, Body: verifyOK},
		accountKey: {Status: 200, Body: `{"success":true,"errors":[],"messages":[],"result":{"id":"x"}}`},
		rulesKey:   {Status: 200, Body: `{"success":true,"errors":[],"messages":[],"result":[]}`},
	}

	prod, prodStub := newTestApp(t, "production", creds, replies)
	status, body := call(t, prod, "GET", "/api/cloudflare/debug", "", "", "X-Debug-Secret", "s3cret")
	if status != http.StatusNotFound || body != "" {
		t.Errorf("production = %d %q, want empty 404", status, body)
	}
	if len(prodStub.Calls()) != 0 {
		t.Errorf("production made calls: %v", prodStub.Calls())
	}

	dev, devStub := newTestApp(t, "development", creds, replies)
	if status, body := call(t, dev, "GET", "/api/cloudflare/debug", "", ""); status != http.StatusNotFound || body != "" {
		t.Errorf("no secret = %d %q, want empty 404", status, body)
	}

	status, body = call(t, dev, "GET", "/api/cloudflare/debug", "", "", "X-Debug-Secret", "s3cret")
	if status != http.StatusOK {
		t.Fatalf("authorized = %d %s", status, body)
	}
	var report struct {
		OK  bool            `json:"ok"`
		Env map[string]bool `json:"env"`
	}
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		t.Fatal(err)
	}
	wantEnv := map[string]bool{"hasApiToken": true, "hasAccountId": true, "accountIdLooksValidHex32": true}
	if !report.OK || !cmp.Equal(wantEnv, report.Env) {
		t.Errorf("report = %s", body)
	}
	if len(devStub.Calls()) != 3 {
		t.Errorf("calls = %v, want 3 probes", devStub.Calls())
	}
}

func TestHealthAndPages(t *testing.T) {
	app, _ := newTestApp(t, "production", config.Credentials{APIToken: "tok", AccountID: accountID}, nil)

	status, body := call(t, app, "GET", "/api/health", "", "")
	if status != http.StatusOK || !strings.Contains(body, `"db":"ok"`) || !strings.Contains(body, `"cloudflare_configured":true`) {
		t.Errorf("health = %d %s", status, body)
	}

	for _, path := range []string{"/", "/login", "/dashboard"} {
		if status, _ := call(t, app, "GET", path, "", ""); status != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, status)
		}
	}

	_, page := call(t, app, "GET", "/dashboard", "", "")
	if !strings.Contains(page, "FOCUS_SECONDS") || !strings.Contains(page, "14400") {
		t.Error("dashboard does not carry the focus duration")
	}
}
