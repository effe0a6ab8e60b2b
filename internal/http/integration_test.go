package httpapp

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alphabot-ai/murmur/internal/accounts"
	"github.com/alphabot-ai/murmur/internal/auth"
	"github.com/alphabot-ai/murmur/internal/config"
	"github.com/alphabot-ai/murmur/internal/content"
	"github.com/alphabot-ai/murmur/internal/graph"
	"github.com/alphabot-ai/murmur/internal/logging"
	"github.com/alphabot-ai/murmur/internal/model"
	"github.com/alphabot-ai/murmur/internal/rate"
	"github.com/alphabot-ai/murmur/internal/store"
	"github.com/alphabot-ai/murmur/internal/store/sqlite"
)

type testClient struct {
	server *httptest.Server
	client *http.Client
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	cfg := config.Config{
		RateLimits: config.RateLimits{
			PostPerMinute:    1000,
			CommentPerMinute: 1000,
			LikePerMinute:    1000,
			FollowPerMinute:  1000,
			AuthPerMinute:    1000,
		},
		TokenTTL:     time.Hour,
		ChallengeTTL: time.Minute,
	}
	return newTestClientWithConfig(t, cfg)
}

func newTestClientWithConfig(t *testing.T, cfg config.Config) *testClient {
	t.Helper()
	if cfg.TokenTTL == 0 {
		cfg.TokenTTL = time.Hour
	}
	if cfg.ChallengeTTL == 0 {
		cfg.ChallengeTTL = time.Minute
	}
	dsnName := strings.NewReplacer("/", "_").Replace(t.Name())
	backend, err := sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", dsnName))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	st := store.New(backend)
	authSvc := auth.NewService([]byte("test-secret"), cfg.TokenTTL, cfg.ChallengeTTL)
	svc := Services{
		Auth:     authSvc,
		Accounts: accounts.NewService(st, authSvc),
		Graph:    graph.NewService(st),
		Content:  content.NewService(st),
	}
	server := NewServer(svc, rate.NewMemory(), cfg, logging.Discard())
	ts := httptest.NewServer(server.Handler())
	t.Cleanup(func() {
		ts.Close()
		_ = st.Close()
	})
	return &testClient{server: ts, client: ts.Client()}
}

func (c *testClient) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, c.server.URL+path, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	return resp
}

// expect checks the status and decodes the body into out when out is non-nil.
func (c *testClient) expect(t *testing.T, method, path, token string, body any, status int, out any) {
	t.Helper()
	resp := c.do(t, method, path, token, body)
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != status {
		t.Fatalf("%s %s: expected %d, got %d: %s", method, path, status, resp.StatusCode, string(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			t.Fatalf("json decode: %v (body %s)", err, string(raw))
		}
	}
}

func (c *testClient) signup(t *testing.T, email string, accountType model.AccountType) model.Profile {
	t.Helper()
	var profile model.Profile
	body := map[string]any{"email": email, "password": "pw-" + email, "accountType": accountType}
	c.expect(t, http.MethodPost, "/api/signup", "", body, http.StatusCreated, &profile)
	return profile
}

func (c *testClient) login(t *testing.T, email string) string {
	t.Helper()
	var tok auth.Token
	body := map[string]string{"email": email, "password": "pw-" + email}
	c.expect(t, http.MethodPost, "/api/login", "", body, http.StatusOK, &tok)
	if tok.Token == "" {
		t.Fatalf("expected token for %s", email)
	}
	return tok.Token
}

func (c *testClient) account(t *testing.T, email string, accountType model.AccountType) string {
	t.Helper()
	c.signup(t, email, accountType)
	return c.login(t, email)
}

func TestSignupRoles(t *testing.T) {
	tc := newTestClient(t)

	first := tc.signup(t, "root@example.com", "")
	if first.Role != model.RoleAdmin {
		t.Fatalf("expected first user to be ADMIN, got %s", first.Role)
	}
	if first.AccountType != model.AccountPublic {
		t.Fatalf("expected default public account, got %s", first.AccountType)
	}
	second := tc.signup(t, "user@example.com", model.AccountPrivate)
	if second.Role != model.RoleUser {
		t.Fatalf("expected USER, got %s", second.Role)
	}

	var third model.Profile
	tc.expect(t, http.MethodPost, "/api/signup", "", map[string]string{
		"email":         "ops@example.com",
		"password":      "pw",
		"adminEmail":    "root@example.com",
		"adminPassword": "pw-root@example.com",
	}, http.StatusCreated, &third)
	if third.Role != model.RoleAdmin {
		t.Fatalf("expected ADMIN via admin credentials, got %s", third.Role)
	}

	tc.expect(t, http.MethodPost, "/api/signup", "", map[string]string{
		"email":         "sneaky@example.com",
		"password":      "pw",
		"adminEmail":    "user@example.com",
		"adminPassword": "pw-user@example.com",
	}, http.StatusForbidden, nil)

	tc.expect(t, http.MethodPost, "/api/signup", "", map[string]string{"email": "user@example.com", "password": "x"}, http.StatusConflict, nil)
	tc.expect(t, http.MethodPost, "/api/signup", "", map[string]string{"email": "x@example.com", "password": "x", "accountType": "secret"}, http.StatusBadRequest, nil)
	tc.expect(t, http.MethodPost, "/api/signup", "", map[string]string{"email": "", "password": "x"}, http.StatusBadRequest, nil)
}

func TestLoginAndProfile(t *testing.T) {
	tc := newTestClient(t)
	token := tc.account(t, "ann@example.com", model.AccountPrivate)

	var me model.Profile
	tc.expect(t, http.MethodGet, "/api/users/me", token, nil, http.StatusOK, &me)
	if me.Email != "ann@example.com" || me.AccountType != model.AccountPrivate {
		t.Fatalf("unexpected profile %+v", me)
	}

	resp := tc.do(t, http.MethodGet, "/api/users/me", token, nil)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(string(raw), "password") {
		t.Fatalf("profile leaked password field: %s", raw)
	}

	tc.expect(t, http.MethodPost, "/api/login", "", map[string]string{"email": "ann@example.com", "password": "wrong"}, http.StatusUnauthorized, nil)
	tc.expect(t, http.MethodPost, "/api/login", "", map[string]string{"email": "nobody@example.com", "password": "x"}, http.StatusUnauthorized, nil)
}

func TestFollowPrivateAccount(t *testing.T) {
	tc := newTestClient(t)
	alice := tc.account(t, "alice@example.com", model.AccountPublic)
	bob := tc.account(t, "bob@example.com", model.AccountPrivate)

	var res map[string]string
	tc.expect(t, http.MethodPost, "/api/users/follow/bob@example.com", alice, nil, http.StatusOK, &res)
	if res["state"] != string(graph.StatePending) {
		t.Fatalf("expected PENDING, got %v", res)
	}
	tc.expect(t, http.MethodPost, "/api/users/follow/bob@example.com", alice, nil, http.StatusConflict, nil)
	expectRelationship(t, tc, alice, "bob@example.com", graph.StatePending)

	var pending struct {
		FollowRequests []string `json:"followRequests"`
	}
	tc.expect(t, http.MethodGet, "/api/users/me/follow-requests", bob, nil, http.StatusOK, &pending)
	if len(pending.FollowRequests) != 1 || pending.FollowRequests[0] != "alice@example.com" {
		t.Fatalf("unexpected requests %v", pending.FollowRequests)
	}

	tc.expect(t, http.MethodPost, "/api/users/approve-follow/alice@example.com", bob, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/users/approve-follow/alice@example.com", bob, nil, http.StatusNotFound, nil)
	expectRelationship(t, tc, alice, "bob@example.com", graph.StateFollowing)
	expectRelationship(t, tc, bob, "alice@example.com", graph.StateNone)

	var me model.Profile
	tc.expect(t, http.MethodGet, "/api/users/me", alice, nil, http.StatusOK, &me)
	if len(me.Following) != 1 || me.Following[0] != "bob@example.com" {
		t.Fatalf("expected alice to follow bob, got %v", me.Following)
	}

	var followers struct {
		Followers []string `json:"followers"`
	}
	tc.expect(t, http.MethodGet, "/api/users/bob@example.com/followers", "", nil, http.StatusOK, &followers)
	if len(followers.Followers) != 1 || followers.Followers[0] != "alice@example.com" {
		t.Fatalf("unexpected followers %v", followers.Followers)
	}

	tc.expect(t, http.MethodPost, "/api/users/follow/bob@example.com", alice, nil, http.StatusConflict, nil)
	tc.expect(t, http.MethodPost, "/api/users/unfollow/bob@example.com", alice, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/users/unfollow/bob@example.com", alice, nil, http.StatusConflict, nil)
	expectRelationship(t, tc, alice, "bob@example.com", graph.StateNone)
	tc.expect(t, http.MethodGet, "/api/users/bob@example.com/relationship", "", nil, http.StatusUnauthorized, nil)
}

func expectRelationship(t *testing.T, tc *testClient, token, other string, want graph.State) {
	t.Helper()
	var res map[string]string
	tc.expect(t, http.MethodGet, "/api/users/"+other+"/relationship", token, nil, http.StatusOK, &res)
	if res["state"] != string(want) {
		t.Fatalf("expected relationship %s with %s, got %v", want, other, res)
	}
}

func TestRejectAndCancelRequests(t *testing.T) {
	tc := newTestClient(t)
	alice := tc.account(t, "alice@example.com", model.AccountPublic)
	bob := tc.account(t, "bob@example.com", model.AccountPrivate)

	tc.expect(t, http.MethodPost, "/api/users/follow/bob@example.com", alice, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/users/reject-follow/alice@example.com", bob, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/users/reject-follow/alice@example.com", bob, nil, http.StatusOK, nil)

	var pending struct {
		FollowRequests []string `json:"followRequests"`
	}
	tc.expect(t, http.MethodGet, "/api/users/me/follow-requests", bob, nil, http.StatusOK, &pending)
	if len(pending.FollowRequests) != 0 {
		t.Fatalf("expected no requests, got %v", pending.FollowRequests)
	}

	tc.expect(t, http.MethodPost, "/api/users/follow/bob@example.com", alice, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/users/unfollow/bob@example.com", alice, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodGet, "/api/users/me/follow-requests", bob, nil, http.StatusOK, &pending)
	if len(pending.FollowRequests) != 0 {
		t.Fatalf("expected cancelled request, got %v", pending.FollowRequests)
	}
}

func TestFollowPublicAccount(t *testing.T) {
	tc := newTestClient(t)
	alice := tc.account(t, "alice@example.com", model.AccountPublic)
	carol := tc.account(t, "carol@example.com", model.AccountPublic)

	var res map[string]string
	tc.expect(t, http.MethodPost, "/api/users/follow/carol@example.com", alice, nil, http.StatusOK, &res)
	if res["state"] != string(graph.StateFollowing) {
		t.Fatalf("expected FOLLOWING, got %v", res)
	}
	tc.expect(t, http.MethodPost, "/api/users/follow/carol@example.com", alice, nil, http.StatusConflict, nil)
	tc.expect(t, http.MethodPost, "/api/users/approve-follow/alice@example.com", carol, nil, http.StatusForbidden, nil)
	tc.expect(t, http.MethodPost, "/api/users/reject-follow/alice@example.com", carol, nil, http.StatusForbidden, nil)
	tc.expect(t, http.MethodPost, "/api/users/follow/alice@example.com", alice, nil, http.StatusBadRequest, nil)
	tc.expect(t, http.MethodPost, "/api/users/follow/ghost@example.com", alice, nil, http.StatusNotFound, nil)
	tc.expect(t, http.MethodGet, "/api/users/ghost@example.com/followers", "", nil, http.StatusNotFound, nil)
	tc.expect(t, http.MethodPost, "/api/users/follow/carol@example.com", "", nil, http.StatusUnauthorized, nil)
}

func TestPostLifecycle(t *testing.T) {
	tc := newTestClient(t)
	admin := tc.account(t, "admin@example.com", model.AccountPublic)
	ann := tc.account(t, "ann@example.com", model.AccountPublic)
	ben := tc.account(t, "ben@example.com", model.AccountPublic)

	var post model.Post
	tc.expect(t, http.MethodPost, "/api/posts", ann, map[string]string{"title": "Hello", "description": "first"}, http.StatusCreated, &post)
	if post.ID != 1 || post.Author != "ann@example.com" || post.Likes != 0 {
		t.Fatalf("unexpected post %+v", post)
	}
	tc.expect(t, http.MethodPost, "/api/posts", ann, map[string]string{"title": "  "}, http.StatusBadRequest, nil)

	tc.expect(t, http.MethodPut, "/api/posts/1", ben, map[string]string{"title": "Hijack"}, http.StatusForbidden, nil)

	var edited model.Post
	tc.expect(t, http.MethodPut, "/api/posts/1", ann, map[string]string{"title": "Hello again"}, http.StatusOK, &edited)
	if edited.Title != "Hello again" || edited.Description != "first" {
		t.Fatalf("expected only title to change, got %+v", edited)
	}
	tc.expect(t, http.MethodPut, "/api/posts/1", admin, map[string]string{"description": "moderated"}, http.StatusOK, &edited)
	if edited.Description != "moderated" {
		t.Fatalf("expected admin edit, got %+v", edited)
	}

	var got model.Post
	tc.expect(t, http.MethodGet, "/api/posts/1", "", nil, http.StatusOK, &got)
	if got.Title != "Hello again" {
		t.Fatalf("unexpected post %+v", got)
	}
	var list []model.Post
	tc.expect(t, http.MethodGet, "/api/posts", "", nil, http.StatusOK, &list)
	if len(list) != 1 {
		t.Fatalf("expected one post, got %d", len(list))
	}

	tc.expect(t, http.MethodDelete, "/api/posts/1", ann, nil, http.StatusForbidden, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/99", ann, nil, http.StatusForbidden, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/99", admin, nil, http.StatusNotFound, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/1", admin, nil, http.StatusNoContent, nil)
	tc.expect(t, http.MethodGet, "/api/posts/1", "", nil, http.StatusNotFound, nil)
	tc.expect(t, http.MethodGet, "/api/posts/abc", "", nil, http.StatusBadRequest, nil)

	tc.expect(t, http.MethodPost, "/api/posts", ann, map[string]string{"title": "Again"}, http.StatusCreated, &post)
	if post.ID != 1 {
		t.Fatalf("expected id 1 after deleting the only post, got %d", post.ID)
	}
}

func TestToggleLike(t *testing.T) {
	tc := newTestClient(t)
	ann := tc.account(t, "ann@example.com", model.AccountPublic)
	ben := tc.account(t, "ben@example.com", model.AccountPublic)
	tc.expect(t, http.MethodPost, "/api/posts", ann, map[string]string{"title": "Like me"}, http.StatusCreated, nil)

	var res struct {
		Message string   `json:"message"`
		Liked   bool     `json:"liked"`
		Likes   int      `json:"likes"`
		LikedBy []string `json:"likedBy"`
	}
	tc.expect(t, http.MethodPost, "/api/posts/1/like", ann, nil, http.StatusOK, &res)
	if !res.Liked || res.Likes != 1 {
		t.Fatalf("unexpected like %+v", res)
	}
	tc.expect(t, http.MethodPost, "/api/posts/1/like", ben, nil, http.StatusOK, &res)
	if res.Likes != 2 || len(res.LikedBy) != 2 {
		t.Fatalf("unexpected like %+v", res)
	}
	tc.expect(t, http.MethodPost, "/api/posts/1/like", ann, nil, http.StatusOK, &res)
	if res.Liked || res.Likes != 1 || res.LikedBy[0] != "ben@example.com" {
		t.Fatalf("unexpected unlike %+v", res)
	}
	if res.Message != "Post unliked" {
		t.Fatalf("unexpected message %q", res.Message)
	}
	tc.expect(t, http.MethodPost, "/api/posts/2/like", ann, nil, http.StatusNotFound, nil)
}

func TestCommentsAndReplies(t *testing.T) {
	tc := newTestClient(t)
	admin := tc.account(t, "admin@example.com", model.AccountPublic)
	ann := tc.account(t, "ann@example.com", model.AccountPublic)
	ben := tc.account(t, "ben@example.com", model.AccountPublic)
	cat := tc.account(t, "cat@example.com", model.AccountPublic)
	tc.expect(t, http.MethodPost, "/api/posts", ann, map[string]string{"title": "Talk"}, http.StatusCreated, nil)

	var c model.Comment
	tc.expect(t, http.MethodPost, "/api/posts/1/comments", ben, map[string]any{"content": "first!"}, http.StatusCreated, &c)
	if c.ID != 1 || c.Author != "ben@example.com" || c.Replies == nil {
		t.Fatalf("unexpected comment %+v", c)
	}
	tc.expect(t, http.MethodPost, "/api/posts/1/comments/1/reply", cat, map[string]any{"content": "hi ben"}, http.StatusCreated, &c)
	if c.ID != 1 {
		t.Fatalf("expected reply id 1, got %d", c.ID)
	}
	tc.expect(t, http.MethodPost, "/api/posts/1/comments", cat, map[string]any{"content": "me too", "parentCommentId": 1}, http.StatusCreated, &c)
	if c.ID != 2 {
		t.Fatalf("expected reply id 2, got %d", c.ID)
	}

	tc.expect(t, http.MethodPost, "/api/posts/1/comments", cat, map[string]any{"content": "x", "parentCommentId": 9}, http.StatusNotFound, nil)
	tc.expect(t, http.MethodPost, "/api/posts/1/comments/9/reply", cat, map[string]any{"content": "x"}, http.StatusNotFound, nil)
	tc.expect(t, http.MethodPost, "/api/posts/1/comments", cat, map[string]any{"content": ""}, http.StatusBadRequest, nil)
	tc.expect(t, http.MethodPost, "/api/posts/7/comments", cat, map[string]any{"content": "x"}, http.StatusNotFound, nil)

	var post model.Post
	tc.expect(t, http.MethodGet, "/api/posts/1", "", nil, http.StatusOK, &post)
	if len(post.Comments) != 1 || len(post.Comments[0].Replies) != 2 {
		t.Fatalf("unexpected tree %+v", post.Comments)
	}

	tc.expect(t, http.MethodPost, "/api/posts/1/comments", cat, map[string]any{"content": "second"}, http.StatusCreated, &c)
	tc.expect(t, http.MethodPost, "/api/posts/1/comments", cat, map[string]any{"content": "third"}, http.StatusCreated, &c)

	tc.expect(t, http.MethodDelete, "/api/posts/1/comments/1", cat, nil, http.StatusForbidden, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/1/comments/1", ben, nil, http.StatusNoContent, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/1/comments/2", ann, nil, http.StatusNoContent, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/1/comments/3", admin, nil, http.StatusNoContent, nil)
	tc.expect(t, http.MethodDelete, "/api/posts/1/comments/3", admin, nil, http.StatusNotFound, nil)

	tc.expect(t, http.MethodGet, "/api/posts/1", "", nil, http.StatusOK, &post)
	if len(post.Comments) != 0 {
		t.Fatalf("expected all comments deleted, got %+v", post.Comments)
	}
}

func TestRoleChangeNeedsFreshLogin(t *testing.T) {
	tc := newTestClient(t)
	admin := tc.account(t, "admin@example.com", model.AccountPublic)
	bob := tc.account(t, "bob@example.com", model.AccountPublic)
	tc.expect(t, http.MethodPost, "/api/posts", admin, map[string]string{"title": "Post"}, http.StatusCreated, nil)

	tc.expect(t, http.MethodPost, "/api/admin/users/admin@example.com/role", bob, map[string]string{"role": "USER"}, http.StatusForbidden, nil)

	var promoted model.Profile
	tc.expect(t, http.MethodPost, "/api/admin/users/bob@example.com/role", admin, map[string]string{"role": "admin"}, http.StatusOK, &promoted)
	if promoted.Role != model.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", promoted.Role)
	}
	tc.expect(t, http.MethodPost, "/api/admin/users/ghost@example.com/role", admin, map[string]string{"role": "USER"}, http.StatusNotFound, nil)

	tc.expect(t, http.MethodDelete, "/api/posts/1", bob, nil, http.StatusForbidden, nil)

	fresh := tc.login(t, "bob@example.com")
	tc.expect(t, http.MethodDelete, "/api/posts/1", fresh, nil, http.StatusNoContent, nil)
}

func TestKeyLogin(t *testing.T) {
	tc := newTestClient(t)
	ann := tc.account(t, "ann@example.com", model.AccountPublic)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	pubB64 := base64.StdEncoding.EncodeToString(pub)
	signed := func() map[string]string {
		var ch struct {
			Challenge string `json:"challenge"`
		}
		tc.expect(t, http.MethodPost, "/api/auth/challenge", "", map[string]string{"alg": "ed25519"}, http.StatusOK, &ch)
		return map[string]string{
			"alg":       "ed25519",
			"publicKey": pubB64,
			"challenge": ch.Challenge,
			"signature": base64.StdEncoding.EncodeToString(ed25519.Sign(priv, []byte(ch.Challenge))),
		}
	}

	tc.expect(t, http.MethodPost, "/api/auth/verify", "", signed(), http.StatusUnauthorized, nil)

	var key model.AccountKey
	tc.expect(t, http.MethodPost, "/api/users/me/keys", ann, signed(), http.StatusCreated, &key)
	if key.ID != 1 || key.Alg != "ed25519" {
		t.Fatalf("unexpected key %+v", key)
	}
	tc.expect(t, http.MethodPost, "/api/users/me/keys", ann, signed(), http.StatusConflict, nil)

	var verified struct {
		Token string        `json:"token"`
		User  model.Profile `json:"user"`
	}
	tc.expect(t, http.MethodPost, "/api/auth/verify", "", signed(), http.StatusOK, &verified)
	if verified.User.Email != "ann@example.com" || verified.Token == "" {
		t.Fatalf("unexpected verify result %+v", verified)
	}
	tc.expect(t, http.MethodGet, "/api/users/me", verified.Token, nil, http.StatusOK, nil)

	reused := signed()
	tc.expect(t, http.MethodPost, "/api/auth/verify", "", reused, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/auth/verify", "", reused, http.StatusUnauthorized, nil)

	bad := signed()
	bad["signature"] = base64.StdEncoding.EncodeToString(ed25519.Sign(priv, []byte("something else")))
	tc.expect(t, http.MethodPost, "/api/auth/verify", "", bad, http.StatusUnauthorized, nil)

	tc.expect(t, http.MethodDelete, fmt.Sprintf("/api/users/me/keys/%d", key.ID), ann, nil, http.StatusOK, nil)
	tc.expect(t, http.MethodPost, "/api/auth/verify", "", signed(), http.StatusUnauthorized, nil)
	tc.expect(t, http.MethodDelete, "/api/users/me/keys/42", ann, nil, http.StatusNotFound, nil)

	tc.expect(t, http.MethodPost, "/api/auth/challenge", "", map[string]string{"alg": "dsa"}, http.StatusBadRequest, nil)
	tc.expect(t, http.MethodPost, "/api/auth/verify", "", map[string]string{"alg": "ed25519"}, http.StatusBadRequest, nil)
}

func TestAuthRateLimit(t *testing.T) {
	tc := newTestClientWithConfig(t, config.Config{RateLimits: config.RateLimits{AuthPerMinute: 1}})
	tc.expect(t, http.MethodPost, "/api/login", "", map[string]string{"email": "a@example.com", "password": "x"}, http.StatusUnauthorized, nil)
	tc.expect(t, http.MethodPost, "/api/login", "", map[string]string{"email": "a@example.com", "password": "x"}, http.StatusTooManyRequests, nil)
}
