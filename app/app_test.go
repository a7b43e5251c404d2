package app

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/biosecret/go-todo/cognito"
	"github.com/biosecret/go-todo/cognito/cognitotest"
	"github.com/biosecret/go-todo/config"
	"github.com/biosecret/go-todo/database"
	"github.com/biosecret/go-todo/events"
	"github.com/gofiber/fiber/v2"
)

const (
	testIssuer   = "https://cognito-idp.eu-west-1.amazonaws.com/eu-west-1_pool"
	testClientID = "client-123"
	frontendURL  = "http://localhost:5173"
)

var fixedNow = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

type testServer struct {
	app      *fiber.App
	issuer   *cognitotest.Issuer
	provider *httptest.Server
	broker   *events.Broker
}

// fakeProvider giả lập hosted UI (token, userInfo) và API SignUp của Cognito.
func fakeProvider(t *testing.T, issuer *cognitotest.Issuer) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth2/token", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil || r.PostForm.Get("code") != "good-code" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id_token":     issuer.IDToken(t, "sub-web", "webuser", "web@example.com"),
			"access_token": issuer.AccessToken(t, "sub-web", "webuser"),
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/oauth2/userInfo", func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"sub":"sub-access","username":"bob","email":"bob@example.com"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"Username"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if req.Username == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"__type":"UsernameExistsException","message":"User already exists"}`))
			return
		}
		w.Write([]byte(`{"UserConfirmed":false,"UserSub":"new-sub"}`))
	})
	return mux
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	issuer := cognitotest.NewIssuer(t, testIssuer, testClientID)
	provider := httptest.NewServer(fakeProvider(t, issuer))
	t.Cleanup(provider.Close)

	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	cfg := &config.Config{FrontendURL: frontendURL, CookieSecure: false}
	client := cognito.NewClient(cognito.Config{
		Region:       "eu-west-1",
		UserPoolID:   "eu-west-1_pool",
		ClientID:     testClientID,
		ClientSecret: "s3cret",
		Domain:       "todo",
		RedirectURI:  "http://localhost:3000/auth/callback",
		LogoutURI:    "http://localhost:3000/login",
		DomainURL:    provider.URL,
		IdentityURL:  provider.URL + "/",
	}, cognito.NewHTTPClient(2*time.Second))

	broker := events.NewBroker(8)
	app := NewApp(cfg, Deps{
		DB:       db,
		Cognito:  client,
		Verifier: issuer.Verifier(),
		Broker:   broker,
		Now:      func() time.Time { return fixedNow },
	})
	return &testServer{app: app, issuer: issuer, provider: provider, broker: broker}
}

type reqOpts struct {
	token         string
	authorization string // giá trị header thô, dùng khi token rỗng
	cookie        *http.Cookie
	body          any
}

func (s *testServer) do(t *testing.T, method, path string, opts reqOpts) (*http.Response, []byte) {
	t.Helper()
	var body io.Reader
	if opts.body != nil {
		data, err := json.Marshal(opts.body)
		if err != nil {
			t.Fatal(err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	if opts.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if opts.token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.token)
	} else if opts.authorization != "" {
		req.Header.Set("Authorization", opts.authorization)
	}
	if opts.cookie != nil {
		req.AddCookie(opts.cookie)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, data
}

// login đăng nhập bằng ID token và trả về token để gọi các route cần xác thực.
func (s *testServer) login(t *testing.T, sub string) string {
	t.Helper()
	token := s.issuer.IDToken(t, sub, sub, sub+"@example.com")
	resp, body := s.do(t, http.MethodPost, "/login", reqOpts{token: token})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", sub, resp.StatusCode, body)
	}
	return token
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %s: %v", data, err)
	}
	return v
}

func expectDetail(t *testing.T, resp *http.Response, body []byte, status int, detail string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d (body %s)", resp.StatusCode, status, body)
	}
	got := decode[map[string]string](t, body)
	if got["detail"] != detail {
		t.Fatalf("detail = %q, want %q", got["detail"], detail)
	}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
