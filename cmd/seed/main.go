package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/alphabot-ai/murmur/internal/client"
	"github.com/alphabot-ai/murmur/internal/model"
)

var users = []struct {
	email       string
	accountType model.AccountType
}{
	{"ada@example.com", model.AccountPublic},
	{"brook@example.com", model.AccountPublic},
	{"cyril@example.com", model.AccountPrivate},
	{"dana@example.com", model.AccountPublic},
	{"emil@example.com", model.AccountPrivate},
}

var posts = []struct {
	title       string
	description string
}{
	{"Hello, Murmur", "First post on the new instance."},
	{"Weekend hiking photos", "Three days on the ridge, no signal, perfect weather."},
	{"What are you reading?", "Looking for recommendations. Fiction or otherwise."},
	{"Sourdough attempt #4", "Finally got an open crumb."},
	{"Moving to a new city", "Tips for meeting people welcome."},
	{"Desk setup 2026", "Standing desk, one monitor, too many cables."},
	{"Morning run streak: day 30", ""},
	{"Favourite podcast episodes", "Share the one you keep re-listening to."},
}

var comments = []string{
	"Love this!",
	"Great post, thanks for sharing.",
	"I had the same experience.",
	"Not sure I agree, but interesting take.",
	"Can you share more details?",
	"This made my day.",
	"Bookmarking this for later.",
	"Congrats!",
	"Where was this taken?",
	"Following for updates.",
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Murmur server URL")
	password := flag.String("password", "seed-password", "Password for every seeded account")
	flag.Parse()

	log.Printf("Seeding Murmur at %s...\n", *baseURL)

	// The first account to sign up becomes the admin.
	var clients []*client.Client
	for _, u := range users {
		c := client.New(*baseURL)
		_, err := c.Signup(client.SignupRequest{Email: u.email, Password: *password, AccountType: u.accountType})
		if err != nil && !errors.Is(err, client.ErrAlreadyRegistered) {
			log.Fatalf("signup %s: %v", u.email, err)
		}
		if err := c.Login(u.email, *password); err != nil {
			log.Fatalf("login %s: %v", u.email, err)
		}
		log.Printf("✓ Signed up %s (%s)", u.email, u.accountType)
		clients = append(clients, c)
	}

	var postIDs []int64
	for _, p := range posts {
		idx := rand.Intn(len(clients))
		post, err := clients[idx].CreatePost(p.title, p.description)
		if err != nil {
			log.Printf("✗ Failed to post: %v", err)
			continue
		}
		postIDs = append(postIDs, post.ID)
		log.Printf("✓ Post #%d: %s (by %s)", post.ID, p.title, users[idx].email)

		time.Sleep(50 * time.Millisecond)
	}

	for _, postID := range postIDs {
		numComments := rand.Intn(4) + 1
		for i := 0; i < numComments; i++ {
			idx := rand.Intn(len(clients))
			comment, err := clients[idx].AddComment(postID, comments[rand.Intn(len(comments))], nil)
			if err != nil {
				log.Printf("✗ Failed to comment: %v", err)
				continue
			}
			log.Printf("✓ Comment #%d on post #%d (by %s)", comment.ID, postID, users[idx].email)

			if rand.Float32() < 0.3 {
				replyIdx := rand.Intn(len(clients))
				reply, err := clients[replyIdx].Reply(postID, comment.ID, comments[rand.Intn(len(comments))])
				if err != nil {
					log.Printf("✗ Failed to reply: %v", err)
					continue
				}
				log.Printf("  ↳ Reply #%d (by %s)", reply.ID, users[replyIdx].email)
			}
		}
	}

	likes := 0
	for _, c := range clients {
		liked := make(map[int64]bool)
		for i := 0; i < len(postIDs)/2+1; i++ {
			postID := postIDs[rand.Intn(len(postIDs))]
			if liked[postID] {
				continue
			}
			liked[postID] = true
			if _, err := c.ToggleLike(postID); err == nil {
				likes++
			}
		}
	}
	log.Printf("✓ Added %d likes", likes)

	// Everyone follows everyone; private accounts approve half of their requests.
	for i, c := range clients {
		for j, u := range users {
			if i == j {
				continue
			}
			_, _ = c.Follow(u.email)
		}
	}
	approved, pending := 0, 0
	for i, u := range users {
		if u.accountType != model.AccountPrivate {
			continue
		}
		requests, err := clients[i].FollowRequests()
		if err != nil {
			log.Printf("✗ Failed to list requests for %s: %v", u.email, err)
			continue
		}
		for k, from := range requests {
			if k%2 == 0 {
				if _, err := clients[i].ApproveFollow(from); err == nil {
					approved++
				}
				continue
			}
			pending++
		}
	}
	log.Printf("✓ Approved %d follow requests, left %d pending", approved, pending)

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Users:    %d\n", len(users))
	fmt.Printf("Posts:    %d\n", len(postIDs))
	fmt.Printf("Password: %s\n", *password)
	fmt.Println("\nAPI at:", *baseURL)
}
