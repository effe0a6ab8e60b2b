// Package client provides a Go client for the Murmur API.
package client

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/alphabot-ai/murmur/internal/model"
)

// Client is a Murmur API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
	TokenExp   time.Time
}

// New creates a new Murmur client.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-success response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("murmur: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

var ErrAlreadyRegistered = errors.New("already registered")

// Credentials holds an ed25519 keypair used for key login.
type Credentials struct {
	PublicKey  string
	PrivateKey ed25519.PrivateKey
}

// GenerateCredentials creates a new ed25519 keypair.
func GenerateCredentials() (*Credentials, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &Credentials{
		PublicKey:  base64.StdEncoding.EncodeToString(pub),
		PrivateKey: priv,
	}, nil
}

// CredentialsFromKeys creates credentials from existing base64 keys.
func CredentialsFromKeys(pubKeyB64, privKeyB64 string) (*Credentials, error) {
	privBytes, err := base64.StdEncoding.DecodeString(privKeyB64)
	if err != nil {
		return nil, fmt.Errorf("decode private key: %w", err)
	}
	if len(privBytes) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return &Credentials{
		PublicKey:  pubKeyB64,
		PrivateKey: ed25519.PrivateKey(privBytes),
	}, nil
}

// Sign signs a message with the credentials.
func (creds *Credentials) Sign(message string) string {
	sig := ed25519.Sign(creds.PrivateKey, []byte(message))
	return base64.StdEncoding.EncodeToString(sig)
}

// PrivateKeyBase64 exports the private key for storage.
func (creds *Credentials) PrivateKeyBase64() string {
	return base64.StdEncoding.EncodeToString(creds.PrivateKey)
}

// SignupRequest is the body of POST /api/signup.
type SignupRequest struct {
	Email         string            `json:"email"`
	Password      string            `json:"password"`
	AccountType   model.AccountType `json:"accountType,omitempty"`
	AdminEmail    string            `json:"adminEmail,omitempty"`
	AdminPassword string            `json:"adminPassword,omitempty"`
}

// LikeResult is the response of a like toggle.
type LikeResult struct {
	Message string   `json:"message"`
	Liked   bool     `json:"liked"`
	Likes   int      `json:"likes"`
	LikedBy []string `json:"likedBy"`
}

// GraphResult is the response of a follow-graph action.
type GraphResult struct {
	Message string `json:"message"`
	State   string `json:"state,omitempty"`
}

// Signup registers an account. It does not log in.
func (c *Client) Signup(req SignupRequest) (*model.Profile, error) {
	var profile model.Profile
	err := c.call(http.MethodPost, "/api/signup", req, http.StatusCreated, &profile)
	if StatusOf(err) == http.StatusConflict {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Login exchanges email and password for a token and keeps it on the client.
func (c *Client) Login(email, password string) error {
	var tok struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.call(http.MethodPost, "/api/login", body, http.StatusOK, &tok); err != nil {
		return err
	}
	c.Token = tok.Token
	c.TokenExp = tok.ExpiresAt
	return nil
}

// GetChallenge requests an authentication challenge from the server.
func (c *Client) GetChallenge(alg string) (string, error) {
	var result struct {
		Challenge string `json:"challenge"`
	}
	if err := c.call(http.MethodPost, "/api/auth/challenge", map[string]string{"alg": alg}, http.StatusOK, &result); err != nil {
		return "", err
	}
	return result.Challenge, nil
}

func (c *Client) signedChallenge(creds *Credentials) (map[string]string, error) {
	challenge, err := c.GetChallenge("ed25519")
	if err != nil {
		return nil, fmt.Errorf("get challenge: %w", err)
	}
	return map[string]string{
		"alg":       "ed25519",
		"publicKey": creds.PublicKey,
		"challenge": challenge,
		"signature": creds.Sign(challenge),
	}, nil
}

// AddKey registers the credentials' public key on the logged-in account.
func (c *Client) AddKey(creds *Credentials) (*model.AccountKey, error) {
	body, err := c.signedChallenge(creds)
	if err != nil {
		return nil, err
	}
	var key model.AccountKey
	if err := c.call(http.MethodPost, "/api/users/me/keys", body, http.StatusCreated, &key); err != nil {
		return nil, err
	}
	return &key, nil
}

// RevokeKey revokes one of the logged-in account's keys.
func (c *Client) RevokeKey(id int64) error {
	return c.call(http.MethodDelete, fmt.Sprintf("/api/users/me/keys/%d", id), nil, http.StatusOK, nil)
}

// Authenticate gets a bearer token by signing a challenge with creds.
func (c *Client) Authenticate(creds *Credentials) error {
	body, err := c.signedChallenge(creds)
	if err != nil {
		return err
	}
	var result struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	if err := c.call(http.MethodPost, "/api/auth/verify", body, http.StatusOK, &result); err != nil {
		return err
	}
	c.Token = result.Token
	c.TokenExp = result.ExpiresAt
	return nil
}

// IsAuthenticated returns true if the client has a valid token.
func (c *Client) IsAuthenticated() bool {
	return c.Token != "" && time.Now().Before(c.TokenExp)
}

func (c *Client) Me() (*model.Profile, error) {
	var profile model.Profile
	if err := c.call(http.MethodGet, "/api/users/me", nil, http.StatusOK, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetRole changes a user's role. Requires an ADMIN token.
func (c *Client) SetRole(email string, role model.Role) (*model.Profile, error) {
	var profile model.Profile
	path := "/api/admin/users/" + url.PathEscape(email) + "/role"
	if err := c.call(http.MethodPost, path, map[string]model.Role{"role": role}, http.StatusOK, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (c *Client) graphAction(action, email string) (*GraphResult, error) {
	var result GraphResult
	path := "/api/users/" + action + "/" + url.PathEscape(email)
	if err := c.call(http.MethodPost, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Follow follows a public account or requests to follow a private one.
func (c *Client) Follow(email string) (*GraphResult, error) {
	return c.graphAction("follow", email)
}

func (c *Client) ApproveFollow(email string) (*GraphResult, error) {
	return c.graphAction("approve-follow", email)
}

func (c *Client) RejectFollow(email string) (*GraphResult, error) {
	return c.graphAction("reject-follow", email)
}

// Unfollow stops following email, or withdraws a pending request.
func (c *Client) Unfollow(email string) (*GraphResult, error) {
	return c.graphAction("unfollow", email)
}

func (c *Client) FollowRequests() ([]string, error) {
	var result struct {
		FollowRequests []string `json:"followRequests"`
	}
	if err := c.call(http.MethodGet, "/api/users/me/follow-requests", nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.FollowRequests, nil
}

func (c *Client) Followers(email string) ([]string, error) {
	var result struct {
		Followers []string `json:"followers"`
	}
	path := "/api/users/" + url.PathEscape(email) + "/followers"
	if err := c.call(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return result.Followers, nil
}

// Relationship reports NONE, PENDING or FOLLOWING towards email.
func (c *Client) Relationship(email string) (string, error) {
	var result struct {
		State string `json:"state"`
	}
	path := "/api/users/" + url.PathEscape(email) + "/relationship"
	if err := c.call(http.MethodGet, path, nil, http.StatusOK, &result); err != nil {
		return "", err
	}
	return result.State, nil
}

func (c *Client) ListPosts() ([]model.Post, error) {
	var posts []model.Post
	if err := c.call(http.MethodGet, "/api/posts", nil, http.StatusOK, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) GetPost(id int64) (*model.Post, error) {
	var post model.Post
	if err := c.call(http.MethodGet, fmt.Sprintf("/api/posts/%d", id), nil, http.StatusOK, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) CreatePost(title, description string) (*model.Post, error) {
	var post model.Post
	body := map[string]string{"title": title, "description": description}
	if err := c.call(http.MethodPost, "/api/posts", body, http.StatusCreated, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// EditPost changes a post's title and/or description. Empty values are
// left unchanged by the server.
func (c *Client) EditPost(id int64, title, description string) (*model.Post, error) {
	var post model.Post
	body := map[string]string{"title": title, "description": description}
	if err := c.call(http.MethodPut, fmt.Sprintf("/api/posts/%d", id), body, http.StatusOK, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

func (c *Client) DeletePost(id int64) error {
	return c.call(http.MethodDelete, fmt.Sprintf("/api/posts/%d", id), nil, http.StatusNoContent, nil)
}

func (c *Client) ToggleLike(id int64) (*LikeResult, error) {
	var result LikeResult
	if err := c.call(http.MethodPost, fmt.Sprintf("/api/posts/%d/like", id), nil, http.StatusOK, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddComment comments on a post. A non-nil parentID makes it a reply to
// that top-level comment.
func (c *Client) AddComment(postID int64, text string, parentID *int64) (*model.Comment, error) {
	body := map[string]any{"content": text}
	if parentID != nil {
		body["parentCommentId"] = *parentID
	}
	var comment model.Comment
	if err := c.call(http.MethodPost, fmt.Sprintf("/api/posts/%d/comments", postID), body, http.StatusCreated, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) Reply(postID, commentID int64, text string) (*model.Comment, error) {
	var comment model.Comment
	path := fmt.Sprintf("/api/posts/%d/comments/%d/reply", postID, commentID)
	if err := c.call(http.MethodPost, path, map[string]string{"content": text}, http.StatusCreated, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(postID, commentID int64) error {
	path := fmt.Sprintf("/api/posts/%d/comments/%d", postID, commentID)
	return c.call(http.MethodDelete, path, nil, http.StatusNoContent, nil)
}

// call performs a request and decodes the response into out when the
// status matches want. Other statuses become an *APIError.
func (c *Client) call(method, path string, body any, want int, out any) error {
	resp, err := c.doRequest(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		respBody, _ := io.ReadAll(resp.Body)
		var e struct {
			Error string `json:"error"`
		}
		msg := string(bytes.TrimSpace(respBody))
		if json.Unmarshal(respBody, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// doRequest performs an authenticated HTTP request.
func (c *Client) doRequest(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return c.HTTPClient.Do(req)
}

// TestHelper provides utilities for creating logged-in clients in tests.
type TestHelper struct {
	BaseURL string
}

// NewTestHelper creates a new test helper for the given base URL.
func NewTestHelper(baseURL string) *TestHelper {
	return &TestHelper{BaseURL: baseURL}
}

// Password is the password TestHelper gives every account it creates.
func (h *TestHelper) Password(email string) string {
	return "pw-" + email
}

// CreateAuthenticatedClient signs up email (if needed) with the given
// account type and returns a logged-in client.
func (h *TestHelper) CreateAuthenticatedClient(email string, accountType model.AccountType) (*Client, error) {
	c := New(h.BaseURL)
	_, err := c.Signup(SignupRequest{Email: email, Password: h.Password(email), AccountType: accountType})
	if err != nil && !errors.Is(err, ErrAlreadyRegistered) {
		return nil, fmt.Errorf("signup: %w", err)
	}
	if err := c.Login(email, h.Password(email)); err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	return c, nil
}

// GetToken creates an account (if needed) and returns an access token.
func (h *TestHelper) GetToken(email string) (string, error) {
	c, err := h.CreateAuthenticatedClient(email, model.AccountPublic)
	if err != nil {
		return "", err
	}
	return c.Token, nil
}
