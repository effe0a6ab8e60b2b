package httpapp

import (
	"net/http"
	"strings"

	"github.com/alphabot-ai/murmur/internal/accounts"
	"github.com/alphabot-ai/murmur/internal/apperr"
	"github.com/alphabot-ai/murmur/internal/model"
)

// handleSignup godoc
//
//	@Summary		Register an account
//	@Description	The first account ever registered becomes ADMIN. Passing the credentials of an existing admin in adminEmail/adminPassword registers another ADMIN.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			account	body		object{email=string,password=string,accountType=string,adminEmail=string,adminPassword=string}	true	"Account data"
//	@Success		201		{object}	model.Profile
//	@Failure		400		{object}	map[string]string	"Validation error"
//	@Failure		403		{object}	map[string]string	"Admin credentials rejected"
//	@Failure		409		{object}	map[string]string	"User already exists"
//	@Failure		429		{object}	map[string]string	"Rate limited"
//	@Router			/api/signup [post]
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute, "") {
		return
	}
	var req accounts.RegisterInput
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	profile, err := s.accounts.Register(r.Context(), req)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.log.Info(r.Context(), "account registered", "email", profile.Email, "role", profile.Role)
	writeJSON(w, http.StatusCreated, profile)
}

// handleLogin godoc
//
//	@Summary		Log in
//	@Description	Exchange email and password for a bearer token. The token carries the account's role at issue time.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			credentials	body		object{email=string,password=string}	true	"Credentials"
//	@Success		200			{object}	auth.Token
//	@Failure		401			{object}	map[string]string	"Invalid email or password"
//	@Failure		429			{object}	map[string]string	"Rate limited"
//	@Router			/api/login [post]
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute, "") {
		return
	}
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}

// handleAuthChallenge godoc
//
//	@Summary		Request a challenge
//	@Description	Get a single-use string to sign with a registered key.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{alg=string}	true	"Key algorithm (ed25519, secp256k1, rsa-sha256, rsa-pss)"
//	@Success		200		{object}	map[string]interface{}	"Challenge with expiry"
//	@Failure		400		{object}	map[string]string		"Unsupported alg"
//	@Router			/api/auth/challenge [post]
func (s *Server) handleAuthChallenge(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute, "") {
		return
	}
	var req struct {
		Alg string `json:"alg"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Alg) == "" {
		s.writeAppError(w, r, apperr.Invalid("alg required"))
		return
	}
	challenge, err := s.auth.CreateChallenge(req.Alg)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"challenge": challenge.Challenge,
		"alg":       challenge.Alg,
		"expiresAt": challenge.ExpiresAt,
	})
}

type signedChallenge struct {
	Alg       string `json:"alg"`
	PublicKey string `json:"publicKey"`
	Challenge string `json:"challenge"`
	Signature string `json:"signature"`
}

func (c signedChallenge) complete() bool {
	return c.Alg != "" && c.PublicKey != "" && c.Challenge != "" && c.Signature != ""
}

// handleAuthVerify godoc
//
//	@Summary		Log in with a key
//	@Description	Exchange a challenge signed by a registered key for a bearer token.
//	@Tags			Authentication
//	@Accept			json
//	@Produce		json
//	@Param			request	body		object{alg=string,publicKey=string,challenge=string,signature=string}	true	"Signed challenge"
//	@Success		200		{object}	map[string]interface{}	"Token and profile"
//	@Failure		400		{object}	map[string]string		"Missing fields"
//	@Failure		401		{object}	map[string]string		"Invalid signature or unknown key"
//	@Router			/api/auth/verify [post]
func (s *Server) handleAuthVerify(w http.ResponseWriter, r *http.Request) {
	if !s.allowRateLimit(w, r, "auth", s.cfg.RateLimits.AuthPerMinute, "") {
		return
	}
	var req signedChallenge
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if !req.complete() {
		s.writeAppError(w, r, apperr.Invalid("missing fields"))
		return
	}
	token, profile, err := s.accounts.LoginWithKey(r.Context(), req.Alg, req.PublicKey, strings.TrimSpace(req.Challenge), strings.TrimSpace(req.Signature))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"token":     token.Token,
		"expiresAt": token.ExpiresAt,
		"user":      profile,
	})
}

// handleMe godoc
//
//	@Summary		Current profile
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	model.Profile
//	@Failure		401	{object}	map[string]string	"Authentication required"
//	@Router			/api/users/me [get]
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	profile, err := s.accounts.Profile(r.Context(), id.Email)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

// handleAddKey godoc
//
//	@Summary		Register a signing key
//	@Description	Attach a public key to the current account. The key must sign a fresh challenge.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			key	body		object{alg=string,publicKey=string,challenge=string,signature=string}	true	"Signed challenge"
//	@Success		201	{object}	model.AccountKey
//	@Failure		401	{object}	map[string]string	"Invalid signature"
//	@Failure		409	{object}	map[string]string	"Key already registered"
//	@Router			/api/users/me/keys [post]
func (s *Server) handleAddKey(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	var req signedChallenge
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if !req.complete() {
		s.writeAppError(w, r, apperr.Invalid("missing fields"))
		return
	}
	key, err := s.accounts.AddKey(r.Context(), id, req.Alg, req.PublicKey, strings.TrimSpace(req.Challenge), strings.TrimSpace(req.Signature))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, key)
}

// handleRevokeKey godoc
//
//	@Summary		Revoke a signing key
//	@Tags			Accounts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Key ID"
//	@Success		200	{object}	map[string]bool		"Key revoked"
//	@Failure		404	{object}	map[string]string	"Key not found"
//	@Router			/api/users/me/keys/{id} [delete]
func (s *Server) handleRevokeKey(w http.ResponseWriter, r *http.Request, idStr string) {
	keyID, err := parseID(idStr, "key")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if err := s.accounts.RevokeKey(r.Context(), id, keyID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// handleSetRole godoc
//
//	@Summary		Change a user's role
//	@Description	ADMIN only. The user's existing tokens keep their old role until they log in again.
//	@Tags			Admin
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			email	path		string					true	"User email"
//	@Param			role	body		object{role=string}		true	"ADMIN or USER"
//	@Success		200		{object}	model.Profile
//	@Failure		403		{object}	map[string]string	"Admin only"
//	@Failure		404		{object}	map[string]string	"User not found"
//	@Router			/api/admin/users/{email}/role [post]
func (s *Server) handleSetRole(w http.ResponseWriter, r *http.Request, email string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	var req struct {
		Role model.Role `json:"role"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	profile, err := s.accounts.SetRole(r.Context(), id, email, model.Role(strings.ToUpper(string(req.Role))))
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.log.Info(r.Context(), "role changed", "by", id.Email, "email", email, "role", profile.Role)
	writeJSON(w, http.StatusOK, profile)
}
