package httpapp

import (
	"net/http"

	"github.com/alphabot-ai/murmur/internal/content"
)

// handleListPosts godoc
//
//	@Summary	List posts
//	@Tags		Posts
//	@Produce	json
//	@Success	200	{array}	model.Post
//	@Router		/api/posts [get]
func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.content.ListPosts(r.Context())
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// handleCreatePost godoc
//
//	@Summary	Create a post
//	@Tags		Posts
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		post	body		object{title=string,description=string}	true	"Post data"
//	@Success	201		{object}	model.Post
//	@Failure	400		{object}	map[string]string	"Title required"
//	@Failure	401		{object}	map[string]string	"Authentication required"
//	@Failure	429		{object}	map[string]string	"Rate limited"
//	@Router		/api/posts [post]
func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	if !s.allowRateLimit(w, r, "post", s.cfg.RateLimits.PostPerMinute, id.Email) {
		return
	}
	var req content.PostEdit
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	post, err := s.content.CreatePost(r.Context(), id, req.Title, req.Description)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

// handleGetPost godoc
//
//	@Summary	Get a post
//	@Tags		Posts
//	@Produce	json
//	@Param		id	path		int	true	"Post ID"
//	@Success	200	{object}	model.Post
//	@Failure	404	{object}	map[string]string	"Post not found"
//	@Router		/api/posts/{id} [get]
func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request, idStr string) {
	postID, err := parseID(idStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	post, err := s.content.GetPost(r.Context(), postID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handleEditPost godoc
//
//	@Summary		Edit a post
//	@Description	Author or ADMIN. Empty fields are left unchanged.
//	@Tags			Posts
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int										true	"Post ID"
//	@Param			post	body		object{title=string,description=string}	true	"Fields to change"
//	@Success		200		{object}	model.Post
//	@Failure		403		{object}	map[string]string	"Not the author"
//	@Failure		404		{object}	map[string]string	"Post not found"
//	@Router			/api/posts/{id} [put]
func (s *Server) handleEditPost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	postID, err := parseID(idStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	var req content.PostEdit
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	post, err := s.content.EditPost(r.Context(), id, postID, req)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// handleDeletePost godoc
//
//	@Summary	Delete a post
//	@Tags		Posts
//	@Security	BearerAuth
//	@Param		id	path	int	true	"Post ID"
//	@Success	204	"Deleted"
//	@Failure	403	{object}	map[string]string	"Admin only"
//	@Failure	404	{object}	map[string]string	"Post not found"
//	@Router		/api/posts/{id} [delete]
func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	postID, err := parseID(idStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := s.content.DeletePost(r.Context(), id, postID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	s.log.Info(r.Context(), "post deleted", "by", id.Email, "post_id", postID)
	w.WriteHeader(http.StatusNoContent)
}

// handleToggleLike godoc
//
//	@Summary		Like or unlike a post
//	@Description	Liking a post you already like removes the like.
//	@Tags			Posts
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id	path		int	true	"Post ID"
//	@Success		200	{object}	content.LikeResult
//	@Failure		404	{object}	map[string]string	"Post not found"
//	@Failure		429	{object}	map[string]string	"Rate limited"
//	@Router			/api/posts/{id}/like [post]
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request, idStr string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	postID, err := parseID(idStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if !s.allowRateLimit(w, r, "like", s.cfg.RateLimits.LikePerMinute, id.Email) {
		return
	}
	res, err := s.content.ToggleLike(r.Context(), id, postID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	msg := "Post unliked"
	if res.Liked {
		msg = "Post liked"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": msg,
		"liked":   res.Liked,
		"likes":   res.Likes,
		"likedBy": res.LikedBy,
	})
}

// handleAddComment godoc
//
//	@Summary		Comment on a post
//	@Description	With parentCommentId the comment becomes a reply to that top-level comment.
//	@Tags			Comments
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		int												true	"Post ID"
//	@Param			comment	body		object{content=string,parentCommentId=int}		true	"Comment"
//	@Success		201		{object}	model.Comment
//	@Failure		400		{object}	map[string]string	"Content required"
//	@Failure		404		{object}	map[string]string	"Post or parent not found"
//	@Router			/api/posts/{id}/comments [post]
func (s *Server) handleAddComment(w http.ResponseWriter, r *http.Request, postIDStr string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	postID, err := parseID(postIDStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if !s.allowRateLimit(w, r, "comment", s.cfg.RateLimits.CommentPerMinute, id.Email) {
		return
	}
	var req struct {
		Content         string `json:"content"`
		ParentCommentID *int64 `json:"parentCommentId"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	comment, err := s.content.AddComment(r.Context(), id, postID, req.Content, req.ParentCommentID)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// handleReply godoc
//
//	@Summary	Reply to a comment
//	@Tags		Comments
//	@Accept		json
//	@Produce	json
//	@Security	BearerAuth
//	@Param		id		path		int						true	"Post ID"
//	@Param		cid		path		int						true	"Top-level comment ID"
//	@Param		reply	body		object{content=string}	true	"Reply"
//	@Success	201		{object}	model.Comment
//	@Failure	404		{object}	map[string]string	"Post or comment not found"
//	@Router		/api/posts/{id}/comments/{cid}/reply [post]
func (s *Server) handleReply(w http.ResponseWriter, r *http.Request, postIDStr, commentIDStr string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	postID, err := parseID(postIDStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	commentID, err := parseID(commentIDStr, "comment")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if !s.allowRateLimit(w, r, "comment", s.cfg.RateLimits.CommentPerMinute, id.Email) {
		return
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := readJSON(r.Body, &req); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	reply, err := s.content.ReplyToComment(r.Context(), id, postID, commentID, req.Content)
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reply)
}

// handleDeleteComment godoc
//
//	@Summary		Delete a comment
//	@Description	Comment author, post author or ADMIN. Replies go with it.
//	@Tags			Comments
//	@Security		BearerAuth
//	@Param			id	path	int	true	"Post ID"
//	@Param			cid	path	int	true	"Top-level comment ID"
//	@Success		204	"Deleted"
//	@Failure		403	{object}	map[string]string	"Not allowed"
//	@Failure		404	{object}	map[string]string	"Post or comment not found"
//	@Router			/api/posts/{id}/comments/{cid} [delete]
func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request, postIDStr, commentIDStr string) {
	id, ok := s.requireAuth(w, r)
	if !ok {
		return
	}
	postID, err := parseID(postIDStr, "post")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	commentID, err := parseID(commentIDStr, "comment")
	if err != nil {
		s.writeAppError(w, r, err)
		return
	}
	if err := s.content.DeleteComment(r.Context(), id, postID, commentID); err != nil {
		s.writeAppError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
