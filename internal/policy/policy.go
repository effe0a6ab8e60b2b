// Package policy holds the authorization predicates consulted by the
// account, graph and content services before they mutate anything.
package policy

import (
	"github.com/alphabot-ai/murmur/internal/auth"
	"github.com/alphabot-ai/murmur/internal/model"
)

// CanEditPost: the post's author or an admin.
func CanEditPost(actor auth.Identity, post model.Post) bool {
	return actor.Email == post.Author || actor.IsAdmin()
}

// CanDeletePost: admins only, authors included.
func CanDeletePost(actor auth.Identity) bool {
	return actor.IsAdmin()
}

// CanDeleteComment: the comment's author, the author of the post it
// belongs to, or an admin.
func CanDeleteComment(actor auth.Identity, post model.Post, comment model.Comment) bool {
	return actor.Email == comment.Author || actor.Email == post.Author || actor.IsAdmin()
}

// CanManageFollowRequests: only private accounts have requests to approve
// or reject.
func CanManageFollowRequests(owner model.User) bool {
	return owner.AccountType == model.AccountPrivate
}

func CanChangeRoles(actor auth.Identity) bool {
	return actor.IsAdmin()
}
