package httpapp

import (
	"fmt"
	"net/http"

	"github.com/alphabot-ai/murmur/internal/graph"
)

var graphActions = map[string]bool{
	"follow":         true,
	"approve-follow": true,
	"reject-follow":  true,
	"unfollow":       true,
}

func isGraphAction(segment string) bool {
	return graphActions[segment]
}

// handleGraphAction godoc
//
//	@Summary		Follow, unfollow, approve or reject
//	@Description	follow: follow a public account or request to follow a private one.
//	@Description	approve-follow / reject-follow: answer a pending request (private accounts only).
//	@Description	unfollow: stop following, or withdraw a pending request.
//	@Tags			Social
//	@Produce		json
//	@Security		BearerAuth
//	@Param			action	path		string	true	"follow | approve-follow | reject-follow | unfollow"
//	@Param			email	path		string	true	"Other account"
//	@Success		200		{object}	map[string]string	"Result message and relationship state"
//	@Failure		403		{object}	map[string]string	"Not a private account"
//	@Failure		404		{object}	map[string]string	"User or request not found"
//	@Failure		409		{object}	map[string]string	"Already following / requested, or not following"
//	@Router			/api/users/{action}/{email} [post]
func (s *Server) handleGraphAction(w http.ResponseWriter, r *http.Request, action, other string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "follow", s.cfg.RateLimits.FollowPerMinute, id.Email) {
		return
	}

	ctx := r.Context()
	var (
		msg   string
		state graph.State
		err   error
	)
	switch action {
	case "follow":
		state, err = s.graph.Follow(ctx, id.Email, other)
		if state == graph.StatePending {
			msg = fmt.Sprintf("Follow request sent to %s", other)
		} else {
			msg = fmt.Sprintf("You are now following %s", other)
		}
	case "approve-follow":
		err = s.graph.ApproveFollow(ctx, id.Email, other)
		msg = fmt.Sprintf("Follow request from %s approved", other)
	case "reject-follow":
		err = s.graph.RejectFollow(ctx, id.Email, other)
		msg = fmt.Sprintf("Follow request from %s rejected", other)
	case "unfollow":
		err = s.graph.Unfollow(ctx, id.Email, other)
		msg = fmt.Sprintf("You have unfollowed %s", other)
	}
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	resp := map[string]any{"message": msg}
	if state != "" {
		resp["state"] = state
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleFollowRequests godoc
//
//	@Summary		Pending follow requests
//	@Tags			Social
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	map[string][]string
//	@Router			/api/users/me/follow-requests [get]
func (s *Server) handleFollowRequests(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	pending, err := s.graph.PendingRequests(r.Context(), id.Email)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"followRequests": pending})
}

// handleFollowers godoc
//
//	@Summary		Followers of an account
//	@Tags			Social
//	@Produce		json
//	@Param			email	path		string	true	"Account"
//	@Success		200		{object}	map[string][]string
//	@Failure		404		{object}	map[string]string	"User not found"
//	@Router			/api/users/{email}/followers [get]
func (s *Server) handleFollowers(w http.ResponseWriter, r *http.Request, email string) {
	followers, err := s.graph.Followers(r.Context(), email)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"followers": followers})
}

// handleRelationship godoc
//
//	@Summary		Relationship with another account
//	@Description	NONE, PENDING or FOLLOWING, as seen from the caller.
//	@Tags			Social
//	@Produce		json
//	@Security		BearerAuth
//	@Param			email	path		string	true	"Other account"
//	@Success		200		{object}	map[string]string
//	@Failure		404		{object}	map[string]string	"User not found"
//	@Router			/api/users/{email}/relationship [get]
func (s *Server) handleRelationship(w http.ResponseWriter, r *http.Request, other string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	state, err := s.graph.Relationship(r.Context(), id.Email, other)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"email": other, "state": state})
}
