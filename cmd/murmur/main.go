package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alphabot-ai/murmur/internal/app"
	"github.com/alphabot-ai/murmur/internal/client"
	"github.com/alphabot-ai/murmur/internal/config"
	"github.com/alphabot-ai/murmur/internal/logging"
	"github.com/alphabot-ai/murmur/internal/model"
)

const defaultServerURL = "http://localhost:8080"

// CLIConfig holds the CLI client configuration persisted to disk.
type CLIConfig struct {
	BaseURL    string `json:"base_url"`
	Email      string `json:"email"`
	PublicKey  string `json:"public_key,omitempty"`
	PrivateKey string `json:"private_key,omitempty"`
	Token      string `json:"token"`
	TokenExp   string `json:"token_expires"`
}

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println("murmur v0.1.0")
		return
	}

	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "signup", "register":
		cmdSignup(args)
	case "login", "auth":
		cmdLogin(args)
	case "key":
		cmdKey(args)
	case "post", "submit":
		cmdPost(args)
	case "edit":
		cmdEdit(args)
	case "delete", "rm":
		cmdDelete(args)
	case "like":
		cmdLike(args)
	case "comment":
		cmdComment(args)
	case "reply":
		cmdReply(args)
	case "uncomment":
		cmdUncomment(args)
	case "follow", "unfollow", "approve", "reject":
		cmdGraph(cmd, args)
	case "requests":
		cmdRequests(args)
	case "followers":
		cmdFollowers(args)
	case "relationship":
		cmdRelationship(args)
	case "role":
		cmdRole(args)
	case "read", "list":
		cmdRead(args)
	case "status", "whoami":
		cmdStatus(args)
	case "use", "switch":
		cmdUse(args)
	case "accounts":
		cmdAccounts(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`murmur - posts, comments, likes and follows

Usage: murmur <command> [options]

Quick Start:
  murmur signup --email me@example.com --password secret   # Sign up + log in
  murmur post --title "Hello" --text "First post"

Client Commands:
  signup              Create an account and log in
  login               Log in again (when the token expires)
  key add             Generate an ed25519 key and attach it to the account
  key login           Log in by signing a challenge with the stored key
  key revoke --id N   Revoke a key
  post                Create a post
  edit                Edit your post
  delete              Delete a post (admins)
  like                Like or unlike a post
  comment             Comment on a post
  reply               Reply to a comment
  uncomment           Delete a comment
  follow <email>      Follow, or request to follow a private account
  unfollow <email>    Unfollow, or withdraw a request
  approve <email>     Approve a follow request
  reject <email>      Reject a follow request
  requests            List pending follow requests
  followers <email>   List an account's followers
  relationship <email> Show whether you follow, or have requested to follow, an account
  role                Change a user's role (admins)
  read                Read posts
  status              Show current config and token status

Multi-Account:
  accounts            List saved accounts
  use <email>         Switch to a different account

Server:
  server              Start the Murmur server (default if no command)

Examples:
  murmur signup --email ann@example.com --password pw --private
  murmur comment --post 3 --text "Great post!"
  murmur comment --post 3 --parent 1 --text "Agreed"
  murmur read --post 3

Environment Variables (server):
  MURMUR_ADDR               Listen address (default: :8080, or :$PORT)
  MURMUR_STORE              file, sqlite, postgres or memory (default: file)
  MURMUR_DATA_DIR           Directory for the file store (default: data)
  MURMUR_DB                 SQLite path (default: murmur.db)
  MURMUR_DATABASE_DSN       PostgreSQL DSN
  MURMUR_JWT_SECRET         Token signing secret
  MURMUR_TOKEN_TTL          Token lifetime (default: 1h)
  MURMUR_CHALLENGE_TTL      Challenge lifetime (default: 5m)
  MURMUR_LOG_LEVEL          debug, info, warn or error (default: info)`)
}

// ============================================================================
// SERVER
// ============================================================================

func runServer() {
	cfg := config.Load()
	logger := logging.New(os.Stdout, cfg.LogLevel)
	ctx := context.Background()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	if err := a.Run(ctx); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}

// ============================================================================
// CLIENT COMMANDS
// ============================================================================

func cmdSignup(args []string) {
	fs := flag.NewFlagSet("signup", flag.ExitOnError)
	email := fs.String("email", "", "Account email (required)")
	password := fs.String("password", "", "Account password (required)")
	private := fs.Bool("private", false, "Make the account private")
	adminEmail := fs.String("admin-email", "", "Existing admin's email, to sign up as ADMIN")
	adminPassword := fs.String("admin-password", "", "Existing admin's password")
	url := fs.String("url", defaultServerURL, "Murmur server URL")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: --email and --password are required")
		fmt.Fprintln(os.Stderr, "Usage: murmur signup --email <email> --password <password> [--private]")
		os.Exit(1)
	}

	accountType := model.AccountPublic
	if *private {
		accountType = model.AccountPrivate
	}

	c := client.New(strings.TrimSuffix(*url, "/"))
	profile, err := c.Signup(client.SignupRequest{
		Email:         *email,
		Password:      *password,
		AccountType:   accountType,
		AdminEmail:    *adminEmail,
		AdminPassword: *adminPassword,
	})
	alreadyRegistered := errors.Is(err, client.ErrAlreadyRegistered)
	if err != nil && !alreadyRegistered {
		fail(err)
	}
	if alreadyRegistered {
		fmt.Printf("✓ Already registered as '%s'\n", *email)
	} else {
		fmt.Printf("✓ Signed up '%s' (%s, %s)\n", profile.Email, profile.Role, profile.AccountType)
	}

	if err := c.Login(*email, *password); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: auto-login failed: %v\n", err)
		fmt.Println("Run 'murmur login' to log in")
		return
	}

	cfg := CLIConfig{BaseURL: c.BaseURL, Email: *email}
	if prev, err := loadAccountConfig(*email); err == nil {
		cfg.PublicKey, cfg.PrivateKey = prev.PublicKey, prev.PrivateKey
	}
	saveToken(&cfg, c)
	fmt.Printf("✓ Logged in (expires %s)\n", cfg.TokenExp)
	fmt.Println("\nReady to post! Example:")
	fmt.Println("  murmur post --title \"Hello\" --text \"My first post\"")
}

func cmdLogin(args []string) {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "Account email (defaults to the current account)")
	password := fs.String("password", "", "Account password (required)")
	url := fs.String("url", "", "Murmur server URL")
	fs.Parse(args)

	cfg, _ := loadCLIConfig()
	if *email != "" && *email != cfg.Email {
		cfg, _ = loadAccountConfig(*email)
		cfg.Email = *email
	}
	if *url != "" {
		cfg.BaseURL = strings.TrimSuffix(*url, "/")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultServerURL
	}
	if cfg.Email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "Error: --email and --password are required")
		os.Exit(1)
	}

	c := client.New(cfg.BaseURL)
	if err := c.Login(cfg.Email, *password); err != nil {
		fail(err)
	}
	saveToken(&cfg, c)
	fmt.Printf("✓ Logged in as '%s'\n", cfg.Email)
	fmt.Printf("  Expires: %s\n", cfg.TokenExp)
}

func cmdKey(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: murmur key <add|login|revoke>")
		os.Exit(1)
	}
	switch args[0] {
	case "add":
		c, err := loadAuthenticatedClient()
		if err != nil {
			fail(err)
		}
		cfg, _ := loadCLIConfig()
		creds, err := client.GenerateCredentials()
		if err != nil {
			fail(err)
		}
		key, err := c.AddKey(creds)
		if err != nil {
			fail(err)
		}
		cfg.PublicKey = creds.PublicKey
		cfg.PrivateKey = creds.PrivateKeyBase64()
		if err := saveCLIConfig(cfg); err != nil {
			fail(err)
		}
		fmt.Printf("✓ Added ed25519 key %d\n", key.ID)
		fmt.Printf("  Key: %s...\n", abbreviate(cfg.PublicKey))
	case "login":
		cfg, err := loadCLIConfig()
		if err != nil {
			fail(err)
		}
		if cfg.PrivateKey == "" {
			fail(errors.New("no key stored - run 'murmur key add'"))
		}
		creds, err := client.CredentialsFromKeys(cfg.PublicKey, cfg.PrivateKey)
		if err != nil {
			fail(err)
		}
		c := client.New(cfg.BaseURL)
		if err := c.Authenticate(creds); err != nil {
			fail(err)
		}
		saveToken(&cfg, c)
		fmt.Printf("✓ Logged in as '%s' with key\n", cfg.Email)
	case "revoke":
		fs := flag.NewFlagSet("key revoke", flag.ExitOnError)
		id := fs.Int64("id", 0, "Key ID (required)")
		fs.Parse(args[1:])
		if *id == 0 {
			fail(errors.New("--id is required"))
		}
		c, err := loadAuthenticatedClient()
		if err != nil {
			fail(err)
		}
		if err := c.RevokeKey(*id); err != nil {
			fail(err)
		}
		fmt.Printf("✓ Revoked key %d\n", *id)
	default:
		fmt.Fprintf(os.Stderr, "Unknown key command: %s\n", args[0])
		os.Exit(1)
	}
}

func cmdPost(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	title := fs.String("title", "", "Post title (required)")
	text := fs.String("text", "", "Post description")
	fs.Parse(args)

	if strings.TrimSpace(*title) == "" {
		fmt.Fprintln(os.Stderr, "Error: --title is required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	post, err := c.CreatePost(*title, *text)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Posted: %s\n", post.Title)
	fmt.Printf("  ID: %d\n", post.ID)
}

func cmdEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID (required)")
	title := fs.String("title", "", "New title")
	text := fs.String("text", "", "New description")
	fs.Parse(args)

	if *postID == 0 || (*title == "" && *text == "") {
		fmt.Fprintln(os.Stderr, "Error: --post and one of --title or --text are required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	post, err := c.EditPost(*postID, *title, *text)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Edited post %d: %s\n", post.ID, post.Title)
}

func cmdDelete(args []string) {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID to delete")
	fs.Parse(args)

	if *postID == 0 {
		fmt.Fprintln(os.Stderr, "Error: --post is required")
		fmt.Fprintln(os.Stderr, "Usage: murmur delete --post <id>")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	if err := c.DeletePost(*postID); err != nil {
		fail(err)
	}
	fmt.Printf("✓ Deleted post %d\n", *postID)
}

func cmdLike(args []string) {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID (required)")
	fs.Parse(args)

	if *postID == 0 {
		fmt.Fprintln(os.Stderr, "Error: --post is required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	res, err := c.ToggleLike(*postID)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ %s (%d likes)\n", res.Message, res.Likes)
}

func cmdComment(args []string) {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID (required)")
	parentID := fs.Int64("parent", 0, "Top-level comment ID (for replies)")
	text := fs.String("text", "", "Comment text (required)")
	fs.Parse(args)

	if *postID == 0 || *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --post and --text are required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}

	var parent *int64
	if *parentID != 0 {
		parent = parentID
	}

	comment, err := c.AddComment(*postID, *text, parent)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Commented on post %d\n", *postID)
	fmt.Printf("  ID: %d\n", comment.ID)
}

func cmdReply(args []string) {
	fs := flag.NewFlagSet("reply", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID (required)")
	commentID := fs.Int64("comment", 0, "Top-level comment ID (required)")
	text := fs.String("text", "", "Reply text (required)")
	fs.Parse(args)

	if *postID == 0 || *commentID == 0 || *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --post, --comment and --text are required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	reply, err := c.Reply(*postID, *commentID, *text)
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ Replied to comment %d\n", *commentID)
	fmt.Printf("  ID: %d\n", reply.ID)
}

func cmdUncomment(args []string) {
	fs := flag.NewFlagSet("uncomment", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Post ID (required)")
	commentID := fs.Int64("comment", 0, "Top-level comment ID (required)")
	fs.Parse(args)

	if *postID == 0 || *commentID == 0 {
		fmt.Fprintln(os.Stderr, "Error: --post and --comment are required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	if err := c.DeleteComment(*postID, *commentID); err != nil {
		fail(err)
	}
	fmt.Printf("✓ Deleted comment %d\n", *commentID)
}

func cmdGraph(action string, args []string) {
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Usage: murmur %s <email>\n", action)
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}

	var res *client.GraphResult
	switch action {
	case "follow":
		res, err = c.Follow(args[0])
	case "unfollow":
		res, err = c.Unfollow(args[0])
	case "approve":
		res, err = c.ApproveFollow(args[0])
	case "reject":
		res, err = c.RejectFollow(args[0])
	}
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ %s\n", res.Message)
}

func cmdRequests(args []string) {
	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	requests, err := c.FollowRequests()
	if err != nil {
		fail(err)
	}
	if len(requests) == 0 {
		fmt.Println("No pending follow requests")
		return
	}
	fmt.Println("Pending follow requests:")
	for _, email := range requests {
		fmt.Printf("  %s\n", email)
	}
	fmt.Println("\nAnswer with: murmur approve <email> / murmur reject <email>")
}

func cmdFollowers(args []string) {
	cfg, _ := loadCLIConfig()
	email := cfg.Email
	if len(args) > 0 {
		email = args[0]
	}
	if email == "" {
		fmt.Fprintln(os.Stderr, "Usage: murmur followers <email>")
		os.Exit(1)
	}

	followers, err := client.New(serverURL(cfg)).Followers(email)
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s has %d follower(s)\n", email, len(followers))
	for _, f := range followers {
		fmt.Printf("  %s\n", f)
	}
}

func cmdRelationship(args []string) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: murmur relationship <email>")
		os.Exit(1)
	}
	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	state, err := c.Relationship(args[0])
	if err != nil {
		fail(err)
	}
	fmt.Printf("%s: %s\n", args[0], state)
}

func cmdRole(args []string) {
	fs := flag.NewFlagSet("role", flag.ExitOnError)
	email := fs.String("email", "", "User email (required)")
	role := fs.String("role", "", "ADMIN or USER (required)")
	fs.Parse(args)

	if *email == "" || *role == "" {
		fmt.Fprintln(os.Stderr, "Error: --email and --role are required")
		os.Exit(1)
	}

	c, err := loadAuthenticatedClient()
	if err != nil {
		fail(err)
	}
	profile, err := c.SetRole(*email, model.Role(strings.ToUpper(*role)))
	if err != nil {
		fail(err)
	}
	fmt.Printf("✓ %s is now %s\n", profile.Email, profile.Role)
	fmt.Println("  The change applies after they log in again.")
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	postID := fs.Int64("post", 0, "Get a specific post with comments")
	fs.Parse(args)

	cfg, _ := loadCLIConfig()
	c := client.New(serverURL(cfg))

	if *postID != 0 {
		post, err := c.GetPost(*postID)
		if err != nil {
			fail(err)
		}

		fmt.Printf("\n%s\n", post.Title)
		fmt.Printf("  By %s | %d likes | #%d\n", post.Author, post.Likes, post.ID)
		if post.Description != "" {
			fmt.Printf("\n  %s\n", post.Description)
		}
		if len(post.Comments) > 0 {
			fmt.Printf("\n  --- Comments (%d) ---\n", len(post.Comments))
			printComments(post.Comments, "  ")
		}
		return
	}

	posts, err := c.ListPosts()
	if err != nil {
		fail(err)
	}

	fmt.Printf("\nMurmur (%d posts)\n\n", len(posts))
	for i, p := range posts {
		fmt.Printf("%d. %s\n", i+1, p.Title)
		fmt.Printf("   %d likes | %d comments | %s | #%d\n\n", p.Likes, len(p.Comments), p.Author, p.ID)
	}
}

func printComments(comments []model.Comment, indent string) {
	for _, c := range comments {
		fmt.Printf("%s[%d] %s: %s\n", indent, c.ID, c.Author, c.Content)
		printComments(c.Replies, indent+"    ")
	}
}

func cmdStatus(args []string) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fmt.Println("Status: Not logged in")
		fmt.Println("\nRun: murmur signup --email <email> --password <password>")
		return
	}

	fmt.Printf("Account: %s\n", cfg.Email)
	fmt.Printf("Server:  %s\n", cfg.BaseURL)
	if cfg.PublicKey != "" {
		fmt.Printf("Key:     %s...\n", abbreviate(cfg.PublicKey))
	}

	if cfg.Token == "" {
		fmt.Println("Token:   Not logged in")
		fmt.Println("\nRun: murmur login --password <password>")
		return
	}
	exp, _ := time.Parse(time.RFC3339, cfg.TokenExp)
	if time.Now().After(exp) {
		fmt.Println("Token:   Expired")
		fmt.Println("\nRun: murmur login --password <password>")
		return
	}
	fmt.Printf("Token:   Valid until %s\n", cfg.TokenExp)

	c := client.New(cfg.BaseURL)
	c.Token = cfg.Token
	if me, err := c.Me(); err == nil {
		fmt.Printf("Role:    %s (%s)\n", me.Role, me.AccountType)
		fmt.Printf("Following %d | Pending requests %d\n", len(me.Following), len(me.FollowRequests))
	}
}

func cmdUse(args []string) {
	if len(args) == 0 {
		current := getCurrentAccount()
		if current == "" {
			fmt.Println("No account selected")
		} else {
			fmt.Printf("Current account: %s\n", current)
		}
		fmt.Println("\nUsage: murmur use <email>")
		fmt.Println("Run 'murmur accounts' to see saved accounts")
		return
	}

	email := args[0]
	if _, err := os.Stat(accountConfigPath(email)); os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error: account '%s' not found\n", email)
		fmt.Fprintln(os.Stderr, "Run 'murmur accounts' to see saved accounts")
		os.Exit(1)
	}

	if err := setCurrentAccount(email); err != nil {
		fail(err)
	}
	fmt.Printf("✓ Switched to '%s'\n", email)
}

func cmdAccounts(args []string) {
	emails, err := listAccounts()
	if err != nil {
		fail(err)
	}

	if len(emails) == 0 {
		fmt.Println("No saved accounts")
		fmt.Println("\nRun: murmur signup --email <email> --password <password>")
		return
	}

	current := getCurrentAccount()
	fmt.Println("Saved accounts:")
	for _, email := range emails {
		if email == current {
			fmt.Printf("  * %s (current)\n", email)
		} else {
			fmt.Printf("    %s\n", email)
		}
	}
	fmt.Println("\nSwitch with: murmur use <email>")
}

// ============================================================================
// HELPERS
// ============================================================================

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func abbreviate(s string) string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}

func serverURL(cfg CLIConfig) string {
	if cfg.BaseURL == "" {
		return defaultServerURL
	}
	return cfg.BaseURL
}

func saveToken(cfg *CLIConfig, c *client.Client) {
	cfg.BaseURL = c.BaseURL
	cfg.Token = c.Token
	cfg.TokenExp = c.TokenExp.Format(time.RFC3339)
	if err := saveCLIConfig(*cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving token: %v\n", err)
		os.Exit(1)
	}
}

func murmurDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".murmur")
}

func currentAccountPath() string {
	return filepath.Join(murmurDir(), "current")
}

func accountConfigPath(email string) string {
	return filepath.Join(murmurDir(), "accounts", email, "config.json")
}

func getCurrentAccount() string {
	data, err := os.ReadFile(currentAccountPath())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

func setCurrentAccount(email string) error {
	if err := os.MkdirAll(murmurDir(), 0700); err != nil {
		return err
	}
	return os.WriteFile(currentAccountPath(), []byte(email), 0600)
}

func listAccounts() ([]string, error) {
	dir := filepath.Join(murmurDir(), "accounts")
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var emails []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), "config.json")); err == nil {
			emails = append(emails, e.Name())
		}
	}
	return emails, nil
}

func loadAccountConfig(email string) (CLIConfig, error) {
	data, err := os.ReadFile(accountConfigPath(email))
	if err != nil {
		return CLIConfig{}, errors.New("not logged in")
	}
	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

func loadCLIConfig() (CLIConfig, error) {
	current := getCurrentAccount()
	if current == "" {
		return CLIConfig{}, errors.New("no account selected - run 'murmur signup' or 'murmur use <email>'")
	}
	return loadAccountConfig(current)
}

func saveCLIConfig(cfg CLIConfig) error {
	path := accountConfigPath(cfg.Email)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}
	return setCurrentAccount(cfg.Email)
}

func loadAuthenticatedClient() (*client.Client, error) {
	cfg, err := loadCLIConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Token == "" {
		return nil, errors.New("not logged in - run 'murmur login'")
	}
	exp, _ := time.Parse(time.RFC3339, cfg.TokenExp)
	if time.Now().After(exp) {
		return nil, errors.New("token expired - run 'murmur login'")
	}

	c := client.New(cfg.BaseURL)
	c.Token = cfg.Token
	c.TokenExp = exp
	return c, nil
}
