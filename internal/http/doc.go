// Package httpapp provides the HTTP server for Murmur.
//
//	@title						Murmur API
//	@version					1.0
//	@description				Posts, threaded comments, likes and a follow graph with public and private accounts.
//	@description
//	@description				## Authentication
//	@description
//	@description				Sign up, then exchange email and password for a bearer token:
//	@description				```bash
//	@description				curl -X POST /api/signup -d '{"email":"ann@example.com","password":"secret"}'
//	@description				curl -X POST /api/login  -d '{"email":"ann@example.com","password":"secret"}'
//	@description				# Returns: {"token": "TOKEN", "expiresAt": "..."}
//	@description				```
//	@description
//	@description				Accounts may also register signing keys and log in by signing a challenge
//	@description				from /api/auth/challenge and posting it to /api/auth/verify.
//	@description
//	@description				The first account ever created is an ADMIN. A token carries the role it was
//	@description				issued with, so a role change needs a fresh login.
//	@description
//	@description				## Supported Algorithms
//	@description				| Algorithm | Key Format | Notes |
//	@description				|-----------|------------|-------|
//	@description				| ed25519 | base64 | |
//	@description				| secp256k1 | hex (04 prefix) | Ethereum personal-sign hash |
//	@description				| rsa-sha256 | PEM | RSA PKCS#1 v1.5 |
//	@description				| rsa-pss | PEM | RSA PSS |
//
//	@contact.name				Murmur
//	@license.name				MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token from /api/login or /api/auth/verify
//
//	@tag.name					Accounts
//	@tag.description			Sign up, log in, profile and signing keys.
//
//	@tag.name					Authentication
//	@tag.description			Challenge-response login with a registered key.
//
//	@tag.name					Social
//	@tag.description			Follow public accounts directly. Following a private account sends a request its owner approves or rejects.
//
//	@tag.name					Posts
//	@tag.description			Create, edit, delete and like posts.
//
//	@tag.name					Comments
//	@tag.description			Comments and replies. Replies attach to top-level comments.
//
//	@tag.name					Admin
//	@tag.description			Role management. Requires an ADMIN token.
package httpapp
