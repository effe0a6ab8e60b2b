// Package graph implements the follow relation between accounts. Following
// a public account takes effect at once; following a private account files
// a request the owner approves or rejects.
//
// Per (follower, target) pair the relation moves through
//
//	NONE -> FOLLOWING             (public target)
//	NONE -> PENDING -> FOLLOWING  (private target, approved)
//	PENDING -> NONE               (rejected or cancelled)
//	FOLLOWING -> NONE             (unfollow)
//
// A follower is never both pending and following for the same target.
package graph

import (
	"context"
	"slices"

	"github.com/alphabot-ai/murmur/internal/apperr"
	"github.com/alphabot-ai/murmur/internal/model"
	"github.com/alphabot-ai/murmur/internal/policy"
	"github.com/alphabot-ai/murmur/internal/store"
)

type State string

const (
	StateNone      State = "NONE"
	StatePending   State = "PENDING"
	StateFollowing State = "FOLLOWING"
)

var (
	ErrTargetNotFound   = apperr.NotFound("user not found")
	ErrUnknownAccount   = apperr.New(apperr.ErrUnauthenticated, "account not found")
	ErrSelfFollow       = apperr.Invalid("cannot follow yourself")
	ErrAlreadyFollowing = apperr.New(apperr.ErrConflict, "already following this user")
	ErrAlreadyRequested = apperr.New(apperr.ErrConflict, "follow request already sent")
	ErrNotFollowing     = apperr.New(apperr.ErrConflict, "not following this user")
	ErrNoSuchRequest    = apperr.NotFound("no follow request from this user")
	ErrNotPrivate       = apperr.Forbidden("only private accounts manage follow requests")
)

type Service struct {
	users *store.Collection[model.User]
}

func NewService(st *store.Store) *Service {
	return &Service{users: store.NewCollection[model.User](st, store.UsersCollection)}
}

// Follow makes requester follow target, or files a request when target is
// private. It returns the resulting state of the pair.
func (s *Service) Follow(ctx context.Context, requester, target string) (State, error) {
	if requester == target {
		return StateNone, ErrSelfFollow
	}
	var state State
	err := s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		ri, ti, err := pair(users, requester, target)
		if err != nil {
			return nil, err
		}
		if users[ri].IsFollowing(target) {
			return nil, ErrAlreadyFollowing
		}
		if users[ti].AccountType == model.AccountPrivate {
			if users[ti].HasRequestFrom(requester) {
				return nil, ErrAlreadyRequested
			}
			users[ti].FollowRequests = append(users[ti].FollowRequests, requester)
			state = StatePending
			return users, nil
		}
		users[ri].Following = append(users[ri].Following, target)
		state = StateFollowing
		return users, nil
	})
	if err != nil {
		return StateNone, err
	}
	return state, nil
}

// ApproveFollow moves requester from owner's pending requests into the
// followers of owner. Both records are written in one collection update.
func (s *Service) ApproveFollow(ctx context.Context, owner, requester string) error {
	return s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		oi := model.UserIndex(users, owner)
		if oi < 0 {
			return nil, ErrUnknownAccount
		}
		if !policy.CanManageFollowRequests(users[oi]) {
			return nil, ErrNotPrivate
		}
		if !users[oi].HasRequestFrom(requester) {
			return nil, ErrNoSuchRequest
		}
		ri := model.UserIndex(users, requester)
		if ri < 0 {
			return nil, ErrTargetNotFound
		}
		users[oi].FollowRequests = remove(users[oi].FollowRequests, requester)
		if !users[ri].IsFollowing(owner) {
			users[ri].Following = append(users[ri].Following, owner)
		}
		return users, nil
	})
}

// RejectFollow drops requester's pending request, if any.
func (s *Service) RejectFollow(ctx context.Context, owner, requester string) error {
	return s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		oi := model.UserIndex(users, owner)
		if oi < 0 {
			return nil, ErrUnknownAccount
		}
		if !policy.CanManageFollowRequests(users[oi]) {
			return nil, ErrNotPrivate
		}
		users[oi].FollowRequests = remove(users[oi].FollowRequests, requester)
		return users, nil
	})
}

// Unfollow ends a follow, or withdraws a pending request to a private
// target.
func (s *Service) Unfollow(ctx context.Context, follower, target string) error {
	return s.users.Update(ctx, func(users []model.User) ([]model.User, error) {
		fi, ti, err := pair(users, follower, target)
		if err != nil {
			return nil, err
		}
		switch {
		case users[fi].IsFollowing(target):
			users[fi].Following = remove(users[fi].Following, target)
		case users[ti].HasRequestFrom(follower):
			users[ti].FollowRequests = remove(users[ti].FollowRequests, follower)
		default:
			return nil, ErrNotFollowing
		}
		return users, nil
	})
}

func (s *Service) Relationship(ctx context.Context, follower, target string) (State, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return StateNone, err
	}
	fi, ti, err := pair(users, follower, target)
	if err != nil {
		return StateNone, err
	}
	switch {
	case users[fi].IsFollowing(target):
		return StateFollowing, nil
	case users[ti].HasRequestFrom(follower):
		return StatePending, nil
	}
	return StateNone, nil
}

// Followers lists the accounts following email, in collection order.
func (s *Service) Followers(ctx context.Context, email string) ([]string, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	if model.UserIndex(users, email) < 0 {
		return nil, ErrTargetNotFound
	}
	followers := []string{}
	for _, u := range users {
		if u.IsFollowing(email) {
			followers = append(followers, u.Email)
		}
	}
	return followers, nil
}

func (s *Service) PendingRequests(ctx context.Context, owner string) ([]string, error) {
	users, err := s.users.All(ctx)
	if err != nil {
		return nil, err
	}
	oi := model.UserIndex(users, owner)
	if oi < 0 {
		return nil, ErrUnknownAccount
	}
	return append([]string{}, users[oi].FollowRequests...), nil
}

// pair resolves the acting account and the account it acts on.
func pair(users []model.User, actor, target string) (int, int, error) {
	ai := model.UserIndex(users, actor)
	if ai < 0 {
		return -1, -1, ErrUnknownAccount
	}
	ti := model.UserIndex(users, target)
	if ti < 0 {
		return -1, -1, ErrTargetNotFound
	}
	return ai, ti, nil
}

func remove(list []string, email string) []string {
	out := slices.DeleteFunc(list, func(e string) bool { return e == email })
	if out == nil {
		return []string{}
	}
	return out
}
