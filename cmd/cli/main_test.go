package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iho/goremit/internal/infrastructure/auth"
)

type recordedRequest struct {
	method, path, query, auth, idempotencyKey string
	body                                      map[string]any
}

func newAPIStub(t *testing.T, status int, response string) (*httptest.Server, *recordedRequest) {
	t.Helper()

	rec := &recordedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method = r.Method
		rec.path = r.URL.Path
		rec.query = r.URL.RawQuery
		rec.auth = r.Header.Get("Authorization")
		rec.idempotencyKey = r.Header.Get("Idempotency-Key")
		if raw, _ := io.ReadAll(r.Body); len(raw) > 0 {
			_ = json.Unmarshal(raw, &rec.body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)

	return srv, rec
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAccountsOpen(t *testing.T) {
	srv, rec := newAPIStub(t, http.StatusCreated, `{"accountNumber":"100000000000","accountStatus":"IN_USE"}`)

	out, err := execute(t, "--url", srv.URL, "--token", "tok", "accounts", "open", "--idempotency-key", "k1")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.method != http.MethodPost || rec.path != "/accounts" {
		t.Fatalf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.auth != "Bearer tok" || rec.idempotencyKey != "k1" {
		t.Fatalf("unexpected headers auth=%q key=%q", rec.auth, rec.idempotencyKey)
	}

	expected := "{\n  \"accountNumber\": \"100000000000\",\n  \"accountStatus\": \"IN_USE\"\n}\n"
	if out != expected {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestAccountsDeposit(t *testing.T) {
	srv, rec := newAPIStub(t, http.StatusOK, `{"balance":10000}`)

	if _, err := execute(t, "--url", srv.URL, "accounts", "deposit", "100000000000", "10000"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.path != "/accounts/points" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if rec.body["accountNumber"] != "100000000000" || rec.body["amount"] != float64(10000) {
		t.Fatalf("unexpected body %v", rec.body)
	}
}

func TestAccountsDeposit_InvalidAmount(t *testing.T) {
	if _, err := execute(t, "accounts", "deposit", "100000000000", "lots"); err == nil {
		t.Fatal("expected an error for a non-numeric amount")
	}
}

func TestAccountsHistory(t *testing.T) {
	srv, rec := newAPIStub(t, http.StatusOK, `[]`)

	if _, err := execute(t, "--url", srv.URL, "accounts", "history", "100000000000", "--page", "2", "--size", "5"); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.path != "/accounts/100000000000/transactions" || rec.query != "page=2&size=5" {
		t.Fatalf("unexpected request %s?%s", rec.path, rec.query)
	}
}

func TestRemit(t *testing.T) {
	srv, rec := newAPIStub(t, http.StatusOK, `{"amount":500}`)

	_, err := execute(t, "--url", srv.URL, "remit", "--from", "100000000000", "--to", "100000000001", "--amount", "500")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if rec.path != "/accounts/remit" {
		t.Fatalf("unexpected path %s", rec.path)
	}
	if rec.body["remitterAccountNumber"] != "100000000000" ||
		rec.body["recipientsAccountNumber"] != "100000000001" ||
		rec.body["amount"] != float64(500) {
		t.Fatalf("unexpected body %v", rec.body)
	}
}

func TestRemit_APIErrorIsReported(t *testing.T) {
	srv, _ := newAPIStub(t, http.StatusBadRequest, `{"errorCode":"NOT_FRIENDS","message":"remittance is only allowed between friends"}`)

	out, err := execute(t, "--url", srv.URL, "remit", "--from", "100000000000", "--to", "100000000001", "--amount", "500")
	if err == nil || !strings.Contains(err.Error(), "NOT_FRIENDS") {
		t.Fatalf("expected NOT_FRIENDS error, got %v", err)
	}
	if !strings.Contains(out, "NOT_FRIENDS") {
		t.Fatalf("expected the error body to be printed, got %q", out)
	}
}

func TestToken(t *testing.T) {
	out, err := execute(t, "token", "alice@example.com", "--secret", "cli-secret", "--ttl", "1h")
	if err != nil {
		t.Fatalf("command failed: %v", err)
	}

	claims, err := auth.NewJWTManager("cli-secret", time.Hour).Verify(strings.TrimSpace(out))
	if err != nil {
		t.Fatalf("minted token does not verify: %v", err)
	}
	if claims.Email != "alice@example.com" {
		t.Fatalf("unexpected email %s", claims.Email)
	}
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	if _, err := execute(t, "token", "alice@example.com"); err == nil {
		t.Fatal("expected an error without a secret")
	}
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, []byte(`{"a":1}`))

	if buf.String() != "{\n  \"a\": 1\n}\n" {
		t.Fatalf("unexpected json output:\n%s", buf.String())
	}

	buf.Reset()
	printJSON(&buf, []byte("not json"))
	if buf.String() != "not json" {
		t.Fatalf("expected raw passthrough, got %q", buf.String())
	}
}
