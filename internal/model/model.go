package model

import (
	"slices"
	"time"
)

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type AccountType string

const (
	AccountPublic  AccountType = "public"
	AccountPrivate AccountType = "private"
)

// Valid reports whether t is one of the known account types.
func (t AccountType) Valid() bool {
	return t == AccountPublic || t == AccountPrivate
}

// User is one record of the users collection. Field names match the
// on-disk layout of users.json.
type User struct {
	Email          string       `json:"email"`
	Password       string       `json:"password"`
	Role           Role         `json:"role"`
	AccountType    AccountType  `json:"accountType"`
	Following      []string     `json:"following"`
	FollowRequests []string     `json:"followRequests"`
	Keys           []AccountKey `json:"keys,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

// Profile is a User without its password hash.
type Profile struct {
	Email          string       `json:"email"`
	Role           Role         `json:"role"`
	AccountType    AccountType  `json:"accountType"`
	Following      []string     `json:"following"`
	FollowRequests []string     `json:"followRequests"`
	Keys           []AccountKey `json:"keys,omitempty"`
	CreatedAt      time.Time    `json:"createdAt"`
}

func (u User) Profile() Profile {
	return Profile{
		Email:          u.Email,
		Role:           u.Role,
		AccountType:    u.AccountType,
		Following:      nonNil(u.Following),
		FollowRequests: nonNil(u.FollowRequests),
		Keys:           u.Keys,
		CreatedAt:      u.CreatedAt,
	}
}

func (u User) IsFollowing(email string) bool {
	return slices.Contains(u.Following, email)
}

func (u User) HasRequestFrom(email string) bool {
	return slices.Contains(u.FollowRequests, email)
}

type AccountKey struct {
	ID        int64      `json:"id"`
	Alg       string     `json:"alg"`
	PublicKey string     `json:"publicKey"`
	CreatedAt time.Time  `json:"createdAt"`
	RevokedAt *time.Time `json:"revokedAt,omitempty"`
}

type Challenge struct {
	Challenge string
	Alg       string
	ExpiresAt time.Time
}

// Post is one record of the posts collection.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	Likes       int       `json:"likes"`
	LikedBy     []string  `json:"likedBy"`
	Comments    []Comment `json:"comments"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Comment is a node of a post's comment tree. Its ID is unique only among
// its siblings.
type Comment struct {
	ID        int64     `json:"id"`
	Content   string    `json:"content"`
	Author    string    `json:"author"`
	Replies   []Comment `json:"replies"`
	CreatedAt time.Time `json:"createdAt"`
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// UserIndex returns the position of email in users, or -1.
func UserIndex(users []User, email string) int {
	return slices.IndexFunc(users, func(u User) bool { return u.Email == email })
}

// PostIndex returns the position of the post with id, or -1.
func PostIndex(posts []Post, id int64) int {
	return slices.IndexFunc(posts, func(p Post) bool { return p.ID == id })
}

// CommentIndex returns the position of the comment with id in list, or -1.
func CommentIndex(list []Comment, id int64) int {
	return slices.IndexFunc(list, func(c Comment) bool { return c.ID == id })
}
