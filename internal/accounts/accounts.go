// Package accounts registers users, logs them in and manages their roles
// and signing keys.
package accounts

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alphabot-ai/murmur/internal/apperr"
	"github.com/alphabot-ai/murmur/internal/auth"
	"github.com/alphabot-ai/murmur/internal/model"
	"github.com/alphabot-ai/murmur/internal/policy"
	"github.com/alphabot-ai/murmur/internal/store"
)

var (
	ErrAlreadyExists      = apperr.New(apperr.ErrConflict, "user already exists")
	ErrInvalidCredentials = apperr.New(apperr.ErrUnauthenticated, "invalid email or password")
	ErrAdminDenied        = apperr.New(apperr.ErrForbidden, "access denied")
	ErrUserNotFound       = apperr.New(apperr.ErrNotFound, "user not found")
	ErrKeyExists          = apperr.New(apperr.ErrConflict, "key already registered")
	ErrKeyNotFound        = apperr.New(apperr.ErrNotFound, "key not found")
	ErrUnknownKey         = apperr.New(apperr.ErrUnauthenticated, "unknown or revoked key")
)

type Service struct {
	users *store.Collection[model.User]
	auth  *auth.Service
	now   func() time.Time
}

func NewService(st *store.Store, authSvc *auth.Service) *Service {
	return &Service{
		users: store.NewCollection[model.User](st, store.UsersCollection),
		auth:  authSvc,
		now:   time.Now,
	}
}

type RegisterInput struct {
	Email         string            `json:"email"`
	Password      string            `json:"password"`
	AccountType   model.AccountType `json:"accountType,omitempty"`
	AdminEmail    string            `json:"adminEmail,omitempty"`
	AdminPassword string            `json:"adminPassword,omitempty"`
}

// Register creates a user. The first user ever registered becomes ADMIN.
// Later users become ADMIN only when the request carries the credentials
// of an existing admin; otherwise they are USER.
func (s *Service) Register(ctx context.Context, in RegisterInput) (model.Profile, error) {
	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.Password == "" {
		return model.Profile{}, apperr.Invalid("email and password are required")
	}
	if in.AccountType == "" {
		in.AccountType = model.AccountPublic
	}
	if !in.AccountType.Valid() {
		return model.Profile{}, apperr.Invalid("accountType must be public or private")
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return model.Profile{}, err
	}

	var created model.User
	err = s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		if model.UserIndex(users, in.Email) >= 0 {
			return nil, ErrAlreadyExists
		}
		role := model.RoleUser
		switch {
		case !hasAdmin(users):
			role = model.RoleAdmin
		case in.AdminEmail != "" && in.AdminPassword != "":
			i := model.UserIndex(users, strings.TrimSpace(in.AdminEmail))
			if i < 0 || users[i].Role != model.RoleAdmin || !auth.CheckPassword(users[i].Password, in.AdminPassword) {
				return nil, ErrAdminDenied
			}
			role = model.RoleAdmin
		}
		created = model.User{
			Email:          in.Email,
			Password:       hash,
			Role:           role,
			AccountType:    in.AccountType,
			Following:      []string{},
			FollowRequests: []string{},
			CreatedAt:      s.now().UTC(),
		}
		return append(users, created), nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return created.Profile(), nil
}

func hasAdmin(users []model.User) bool {
	return slices.ContainsFunc(users, func(u model.User) bool { return u.Role == model.RoleAdmin })
}

// Login checks a password and issues a claim carrying the user's current
// role.
func (s *Service) Login(ctx context.Context, email, password string) (auth.Token, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return auth.Token{}, err
	}
	i := model.UserIndex(users, strings.TrimSpace(email))
	if i < 0 || !auth.CheckPassword(users[i].Password, password) {
		return auth.Token{}, ErrInvalidCredentials
	}
	return s.auth.IssueToken(auth.Identity{Email: users[i].Email, Role: users[i].Role})
}

func (s *Service) Profile(ctx context.Context, email string) (model.Profile, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return model.Profile{}, err
	}
	i := model.UserIndex(users, email)
	if i < 0 {
		return model.Profile{}, ErrUserNotFound
	}
	return users[i].Profile(), nil
}

// SetRole changes a user's stored role. Claims already issued to that user
// keep the role they were signed with until the user logs in again.
func (s *Service) SetRole(ctx context.Context, actor auth.Identity, email string, role model.Role) (model.Profile, error) {
	if !policy.CanChangeRoles(actor) {
		return model.Profile{}, ErrAdminDenied
	}
	if role != model.RoleAdmin && role != model.RoleUser {
		return model.Profile{}, apperr.Invalid("role must be ADMIN or USER")
	}
	var updated model.User
	err := s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		i := model.UserIndex(users, email)
		if i < 0 {
			return nil, ErrUserNotFound
		}
		users[i].Role = role
		updated = users[i]
		return users, nil
	})
	if err != nil {
		return model.Profile{}, err
	}
	return updated.Profile(), nil
}

// AddKey registers a public key for the actor after checking it signed a
// challenge issued by the auth service.
func (s *Service) AddKey(ctx context.Context, actor auth.Identity, alg, publicKey, challenge, signature string) (model.AccountKey, error) {
	alg = strings.ToLower(strings.TrimSpace(alg))
	publicKey = strings.TrimSpace(publicKey)
	if alg == "" || publicKey == "" || challenge == "" || signature == "" {
		return model.AccountKey{}, apperr.Invalid("alg, publicKey, challenge and signature are required")
	}
	if err := s.auth.ConsumeChallenge(challenge, alg); err != nil {
		return model.AccountKey{}, err
	}
	if err := auth.VerifySignature(alg, publicKey, challenge, signature); err != nil {
		return model.AccountKey{}, err
	}

	var key model.AccountKey
	err := s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		i := model.UserIndex(users, actor.Email)
		if i < 0 {
			return nil, ErrUserNotFound
		}
		var maxID int64
		for _, u := range users {
			for _, k := range u.Keys {
				if k.Alg == alg && k.PublicKey == publicKey {
					return nil, ErrKeyExists
				}
				maxID = max(maxID, k.ID)
			}
		}
		key = model.AccountKey{ID: maxID + 1, Alg: alg, PublicKey: publicKey, CreatedAt: s.now().UTC()}
		users[i].Keys = append(users[i].Keys, key)
		return users, nil
	})
	if err != nil {
		return model.AccountKey{}, err
	}
	return key, nil
}

func (s *Service) RevokeKey(ctx context.Context, actor auth.Identity, keyID int64) error {
	return s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		i := model.UserIndex(users, actor.Email)
		if i < 0 {
			return nil, ErrUserNotFound
		}
		k := slices.IndexFunc(users[i].Keys, func(k model.AccountKey) bool { return k.ID == keyID })
		if k < 0 {
			return nil, ErrKeyNotFound
		}
		if users[i].Keys[k].RevokedAt == nil {
			now := s.now().UTC()
			users[i].Keys[k].RevokedAt = &now
		}
		return users, nil
	})
}

// LoginWithKey issues a claim to the owner of publicKey once it has signed
// the given challenge.
func (s *Service) LoginWithKey(ctx context.Context, alg, publicKey, challenge, signature string) (auth.Token, model.Profile, error) {
	alg = strings.ToLower(strings.TrimSpace(alg))
	publicKey = strings.TrimSpace(publicKey)
	if err := s.auth.ConsumeChallenge(challenge, alg); err != nil {
		return auth.Token{}, model.Profile{}, err
	}
	if err := auth.VerifySignature(alg, publicKey, challenge, signature); err != nil {
		return auth.Token{}, model.Profile{}, err
	}

	users, err := s.users.All(ctx)
	if err != nil {
		return auth.Token{}, model.Profile{}, err
	}
	for _, u := range users {
		for _, k := range u.Keys {
			if k.Alg != alg || k.PublicKey != publicKey {
				continue
			}
			if k.RevokedAt != nil {
				return auth.Token{}, model.Profile{}, ErrUnknownKey
			}
			tok, err := s.auth.IssueToken(auth.Identity{Email: u.Email, Role: u.Role})
			if err != nil {
				return auth.Token{}, model.Profile{}, fmt.Errorf("issue token: %w", err)
			}
			return tok, u.Profile(), nil
		}
	}
	return auth.Token{}, model.Profile{}, ErrUnknownKey
}
