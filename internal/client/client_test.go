package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestGenerateCredentials(t *testing.T) {
	creds, err := GenerateCredentials()
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}
	if creds.PublicKey == "" {
		t.Error("expected non-empty public key")
	}
	if len(creds.PrivateKey) == 0 {
		t.Error("expected non-empty private key")
	}
}

func TestCredentialsSign(t *testing.T) {
	creds, err := GenerateCredentials()
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}

	sig := creds.Sign("test message")
	if sig == "" {
		t.Error("expected non-empty signature")
	}
	if sig2 := creds.Sign("test message"); sig != sig2 {
		t.Error("expected deterministic signature for ed25519")
	}
}

func TestCredentialsFromKeys(t *testing.T) {
	orig, err := GenerateCredentials()
	if err != nil {
		t.Fatalf("generate credentials: %v", err)
	}

	loaded, err := CredentialsFromKeys(orig.PublicKey, orig.PrivateKeyBase64())
	if err != nil {
		t.Fatalf("load credentials: %v", err)
	}
	if loaded.Sign("hello") != orig.Sign("hello") {
		t.Fatal("expected loaded key to produce the same signature")
	}

	if _, err := CredentialsFromKeys(orig.PublicKey, "c2hvcnQ="); err == nil {
		t.Fatal("expected error for short private key")
	}
}

func TestClientNew(t *testing.T) {
	c := New("https://example.com")

	if c.BaseURL != "https://example.com" {
		t.Errorf("expected base URL 'https://example.com', got '%s'", c.BaseURL)
	}
	if c.HTTPClient == nil {
		t.Error("expected non-nil HTTP client")
	}
	if c.IsAuthenticated() {
		t.Error("expected new client to not be authenticated")
	}
}

func TestLoginStoresToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["email"] != "ann@example.com" || body["password"] != "pw" {
			t.Errorf("unexpected body %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"token": "tok", "expiresAt": exp})
	}))
	defer srv.Close()

	c := New(srv.URL)
	if err := c.Login("ann@example.com", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if c.Token != "tok" || !c.TokenExp.Equal(exp) {
		t.Fatalf("unexpected token state %q %v", c.Token, c.TokenExp)
	}
	if !c.IsAuthenticated() {
		t.Fatal("expected client to be authenticated")
	}
}

func TestAPIErrorCarriesStatusAndMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("expected bearer header, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"only admins can delete posts"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Token = "tok"
	err := c.DeletePost(1)
	if StatusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403, got %v", err)
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Message != "only admins can delete posts" {
		t.Fatalf("unexpected error %#v", err)
	}
}

func TestSignupConflictIsAlreadyRegistered(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":"user already exists"}`))
	}))
	defer srv.Close()

	_, err := New(srv.URL).Signup(SignupRequest{Email: "a@example.com", Password: "pw"})
	if err != ErrAlreadyRegistered {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}
}

func TestAddCommentSendsParent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/posts/7/comments" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["parentCommentId"] != float64(2) {
			t.Errorf("expected parentCommentId 2, got %v", body["parentCommentId"])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":1,"content":"hi","author":"a@example.com","replies":[]}`))
	}))
	defer srv.Close()

	parent := int64(2)
	comment, err := New(srv.URL).AddComment(7, "hi", &parent)
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if comment.ID != 1 || comment.Content != "hi" {
		t.Fatalf("unexpected comment %+v", comment)
	}
}
