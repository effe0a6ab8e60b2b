// Package content manages posts, their likes and their comment trees.
//
// Comment ids are scoped to the list holding them: a reply's id is unique
// among its siblings only. Replies and deletions address top-level
// comments; deeper replies are not addressable.
package content

import (
	"context"
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
	ErrPostNotFound    = apperr.NotFound("post not found")
	ErrCommentNotFound = apperr.NotFound("comment not found")
	ErrParentNotFound  = apperr.NotFound("parent comment not found")
	ErrNotAuthor       = apperr.Forbidden("you can only edit your own posts")
	ErrAdminOnly       = apperr.Forbidden("only admins can delete posts")
	ErrCannotDelete    = apperr.Forbidden("you can only delete your own comments")
	ErrTitleRequired   = apperr.Invalid("title is required")
	ErrContentRequired = apperr.Invalid("content is required")
)

type Service struct {
	posts *store.Collection[model.Post]
	now   func() time.Time
}

func NewService(st *store.Store) *Service {
	return &Service{
		posts: store.NewCollection[model.Post](st, store.PostsCollection),
		now:   time.Now,
	}
}

// PostEdit carries the fields of an edit. Empty fields are left unchanged.
type PostEdit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LikeResult is the state of a post's likes after a toggle.
type LikeResult struct {
	Liked   bool     `json:"liked"`
	Likes   int      `json:"likes"`
	LikedBy []string `json:"likedBy"`
}

func (s *Service) ListPosts(ctx context.Context) ([]model.Post, error) {
	return s.posts.All(ctx)
}

func (s *Service) GetPost(ctx context.Context, id int64) (model.Post, error) {
	posts, err := s.posts.All(ctx)
	if err != nil {
		return model.Post{}, err
	}
	i := model.PostIndex(posts, id)
	if i < 0 {
		return model.Post{}, ErrPostNotFound
	}
	return posts[i], nil
}

func (s *Service) CreatePost(ctx context.Context, actor auth.Identity, title, description string) (model.Post, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Post{}, ErrTitleRequired
	}
	var created model.Post
	err := s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		var maxID int64
		for _, p := range posts {
			maxID = max(maxID, p.ID)
		}
		now := s.now().UTC()
		created = model.Post{
			ID:          maxID + 1,
			Title:       title,
			Description: description,
			Author:      actor.Email,
			LikedBy:     []string{},
			Comments:    []model.Comment{},
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return append(posts, created), nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return created, nil
}

func (s *Service) EditPost(ctx context.Context, actor auth.Identity, id int64, edit PostEdit) (model.Post, error) {
	var updated model.Post
	err := s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		i := model.PostIndex(posts, id)
		if i < 0 {
			return nil, ErrPostNotFound
		}
		if !policy.CanEditPost(actor, posts[i]) {
			return nil, ErrNotAuthor
		}
		if t := strings.TrimSpace(edit.Title); t != "" {
			posts[i].Title = t
		}
		if edit.Description != "" {
			posts[i].Description = edit.Description
		}
		posts[i].UpdatedAt = s.now().UTC()
		updated = posts[i]
		return posts, nil
	})
	if err != nil {
		return model.Post{}, err
	}
	return updated, nil
}

// DeletePost removes a post. Only admins may delete, so the role is checked
// before the post is looked up.
func (s *Service) DeletePost(ctx context.Context, actor auth.Identity, id int64) error {
	if !policy.CanDeletePost(actor) {
		return ErrAdminOnly
	}
	return s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		i := model.PostIndex(posts, id)
		if i < 0 {
			return nil, ErrPostNotFound
		}
		return slices.Delete(posts, i, i+1), nil
	})
}

// ToggleLike adds the actor to the post's likes, or removes them if they
// already like it. The count is always the size of the liker set.
func (s *Service) ToggleLike(ctx context.Context, actor auth.Identity, id int64) (LikeResult, error) {
	var res LikeResult
	err := s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		i := model.PostIndex(posts, id)
		if i < 0 {
			return nil, ErrPostNotFound
		}
		p := &posts[i]
		likedBy := dedupe(p.LikedBy)
		if slices.Contains(likedBy, actor.Email) {
			likedBy = slices.DeleteFunc(likedBy, func(e string) bool { return e == actor.Email })
			res.Liked = false
		} else {
			likedBy = append(likedBy, actor.Email)
			res.Liked = true
		}
		p.LikedBy = likedBy
		p.Likes = len(likedBy)
		res.Likes = p.Likes
		res.LikedBy = append([]string{}, likedBy...)
		return posts, nil
	})
	if err != nil {
		return LikeResult{}, err
	}
	return res, nil
}

// AddComment attaches a comment to a post, or, when parentID is set, to the
// replies of that top-level comment. It returns the new comment.
func (s *Service) AddComment(ctx context.Context, actor auth.Identity, postID int64, text string, parentID *int64) (model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return model.Comment{}, ErrContentRequired
	}
	var created model.Comment
	err := s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		i := model.PostIndex(posts, postID)
		if i < 0 {
			return nil, ErrPostNotFound
		}
		p := &posts[i]
		if parentID == nil {
			created = s.newComment(p.Comments, actor, text)
			p.Comments = append(p.Comments, created)
			return posts, nil
		}
		ci := model.CommentIndex(p.Comments, *parentID)
		if ci < 0 {
			return nil, ErrParentNotFound
		}
		parent := &p.Comments[ci]
		created = s.newComment(parent.Replies, actor, text)
		parent.Replies = append(parent.Replies, created)
		return posts, nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return created, nil
}

// ReplyToComment appends a reply to a top-level comment and returns it.
func (s *Service) ReplyToComment(ctx context.Context, actor auth.Identity, postID, commentID int64, text string) (model.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return model.Comment{}, ErrContentRequired
	}
	var created model.Comment
	err := s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		i := model.PostIndex(posts, postID)
		if i < 0 {
			return nil, ErrPostNotFound
		}
		ci := model.CommentIndex(posts[i].Comments, commentID)
		if ci < 0 {
			return nil, ErrCommentNotFound
		}
		c := &posts[i].Comments[ci]
		created = s.newComment(c.Replies, actor, text)
		c.Replies = append(c.Replies, created)
		return posts, nil
	})
	if err != nil {
		return model.Comment{}, err
	}
	return created, nil
}

// DeleteComment removes a top-level comment along with its replies.
func (s *Service) DeleteComment(ctx context.Context, actor auth.Identity, postID, commentID int64) error {
	return s.posts.Update(ctx, func(posts []model.Post) ([]model.Post, error) {
		i := model.PostIndex(posts, postID)
		if i < 0 {
			return nil, ErrPostNotFound
		}
		ci := model.CommentIndex(posts[i].Comments, commentID)
		if ci < 0 {
			return nil, ErrCommentNotFound
		}
		if !policy.CanDeleteComment(actor, posts[i], posts[i].Comments[ci]) {
			return nil, ErrCannotDelete
		}
		posts[i].Comments = slices.Delete(posts[i].Comments, ci, ci+1)
		return posts, nil
	})
}

// newComment builds a comment whose id follows the highest id in siblings.
func (s *Service) newComment(siblings []model.Comment, actor auth.Identity, text string) model.Comment {
	var maxID int64
	for _, c := range siblings {
		maxID = max(maxID, c.ID)
	}
	return model.Comment{
		ID:        maxID + 1,
		Content:   text,
		Author:    actor.Email,
		Replies:   []model.Comment{},
		CreatedAt: s.now().UTC(),
	}
}

func dedupe(list []string) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}
