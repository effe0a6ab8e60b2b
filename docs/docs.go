// Package docs holds the Swagger document served at /swagger/ and
// /api/openapi.json. Regenerate with `swag init -g internal/http/doc.go`
// after changing handler annotations.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "Murmur"
        },
        "license": {
            "name": "MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/signup": {
            "post": {
                "description": "The first account ever registered becomes ADMIN. Passing the credentials of an existing admin in adminEmail/adminPassword registers another ADMIN.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Register an account",
                "parameters": [
                    {
                        "description": "Account data",
                        "name": "account",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "accountType": {"type": "string"},
                                "adminEmail": {"type": "string"},
                                "adminPassword": {"type": "string"},
                                "email": {"type": "string"},
                                "password": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Profile"}},
                    "400": {"description": "Validation error", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "403": {"description": "Admin credentials rejected", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "409": {"description": "User already exists", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/login": {
            "post": {
                "description": "Exchange email and password for a bearer token. The token carries the account's role at issue time.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Log in",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "credentials",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "email": {"type": "string"},
                                "password": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/auth.Token"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/auth/challenge": {
            "post": {
                "description": "Get a single-use string to sign with a registered key.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Request a challenge",
                "parameters": [
                    {
                        "description": "Key algorithm (ed25519, secp256k1, rsa-sha256, rsa-pss)",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "alg": {"type": "string"}
                            }
                        }
                    }
                ],
                "responses": {
                    "200": {"description": "Challenge with expiry", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Unsupported alg", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/auth/verify": {
            "post": {
                "description": "Exchange a challenge signed by a registered key for a bearer token.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Authentication"],
                "summary": "Log in with a key",
                "parameters": [
                    {
                        "description": "Signed challenge",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/httpapp.signedChallenge"}
                    }
                ],
                "responses": {
                    "200": {"description": "Token and profile", "schema": {"type": "object", "additionalProperties": true}},
                    "400": {"description": "Missing fields", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "401": {"description": "Invalid signature or unknown key", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/users/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Current profile",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Profile"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/users/me/keys": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Attach a public key to the current account. The key must sign a fresh challenge.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Register a signing key",
                "parameters": [
                    {
                        "description": "Signed challenge",
                        "name": "key",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/httpapp.signedChallenge"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.AccountKey"}},
                    "401": {"description": "Invalid signature", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "409": {"description": "Key already registered", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/users/me/keys/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Accounts"],
                "summary": "Revoke a signing key",
                "parameters": [
                    {"type": "integer", "description": "Key ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Key revoked", "schema": {"type": "object", "additionalProperties": {"type": "boolean"}}},
                    "404": {"description": "Key not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/users/me/follow-requests": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Social"],
                "summary": "Pending follow requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}}
                }
            }
        },
        "/api/users/{email}/followers": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Social"],
                "summary": "Followers of an account",
                "parameters": [
                    {"type": "string", "description": "Account", "name": "email", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"type": "string"}}}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/users/{email}/relationship": {
            "get": {
                "security": [{"BearerAuth": []}],
                "description": "NONE, PENDING or FOLLOWING, as seen from the caller.",
                "produces": ["application/json"],
                "tags": ["Social"],
                "summary": "Relationship with another account",
                "parameters": [
                    {"type": "string", "description": "Other account", "name": "email", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/users/{action}/{email}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "follow: follow a public account or request to follow a private one.\napprove-follow / reject-follow: answer a pending request (private accounts only).\nunfollow: stop following, or withdraw a pending request.",
                "produces": ["application/json"],
                "tags": ["Social"],
                "summary": "Follow, unfollow, approve or reject",
                "parameters": [
                    {"type": "string", "description": "follow | approve-follow | reject-follow | unfollow", "name": "action", "in": "path", "required": true},
                    {"type": "string", "description": "Other account", "name": "email", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "Result message and relationship state", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "403": {"description": "Not a private account", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "404": {"description": "User or request not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "409": {"description": "Already following / requested, or not following", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/admin/users/{email}/role": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "ADMIN only. The user's existing tokens keep their old role until they log in again.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Admin"],
                "summary": "Change a user's role",
                "parameters": [
                    {"type": "string", "description": "User email", "name": "email", "in": "path", "required": true},
                    {
                        "description": "ADMIN or USER",
                        "name": "role",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"role": {"type": "string"}}}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Profile"}},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "404": {"description": "User not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/posts": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "List posts",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/model.Post"}}}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "Create a post",
                "parameters": [
                    {
                        "description": "Post data",
                        "name": "post",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/content.PostEdit"}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Post"}},
                    "400": {"description": "Title required", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "401": {"description": "Authentication required", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/posts/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "Get a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Post"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            },
            "put": {
                "security": [{"BearerAuth": []}],
                "description": "Author or ADMIN. Empty fields are left unchanged.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "Edit a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Fields to change",
                        "name": "post",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/content.PostEdit"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.Post"}},
                    "403": {"description": "Not the author", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Posts"],
                "summary": "Delete a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Admin only", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/posts/{id}/like": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Liking a post you already like removes the like.",
                "produces": ["application/json"],
                "tags": ["Posts"],
                "summary": "Like or unlike a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/content.LikeResult"}},
                    "404": {"description": "Post not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "429": {"description": "Rate limited", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/posts/{id}/comments": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "With parentCommentId the comment becomes a reply to that top-level comment.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "Comment on a post",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Comment",
                        "name": "comment",
                        "in": "body",
                        "required": true,
                        "schema": {
                            "type": "object",
                            "properties": {
                                "content": {"type": "string"},
                                "parentCommentId": {"type": "integer"}
                            }
                        }
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Comment"}},
                    "400": {"description": "Content required", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "404": {"description": "Post or parent not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/posts/{id}/comments/{cid}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "description": "Comment author, post author or ADMIN. Replies go with it.",
                "tags": ["Comments"],
                "summary": "Delete a comment",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Top-level comment ID", "name": "cid", "in": "path", "required": true}
                ],
                "responses": {
                    "204": {"description": "Deleted"},
                    "403": {"description": "Not allowed", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}},
                    "404": {"description": "Post or comment not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        },
        "/api/posts/{id}/comments/{cid}/reply": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Comments"],
                "summary": "Reply to a comment",
                "parameters": [
                    {"type": "integer", "description": "Post ID", "name": "id", "in": "path", "required": true},
                    {"type": "integer", "description": "Top-level comment ID", "name": "cid", "in": "path", "required": true},
                    {
                        "description": "Reply",
                        "name": "reply",
                        "in": "body",
                        "required": true,
                        "schema": {"type": "object", "properties": {"content": {"type": "string"}}}
                    }
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/model.Comment"}},
                    "404": {"description": "Post or comment not found", "schema": {"$ref": "#/definitions/httpapp.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "auth.Token": {
            "type": "object",
            "properties": {
                "expiresAt": {"type": "string"},
                "token": {"type": "string"}
            }
        },
        "content.LikeResult": {
            "type": "object",
            "properties": {
                "liked": {"type": "boolean"},
                "likedBy": {"type": "array", "items": {"type": "string"}},
                "likes": {"type": "integer"}
            }
        },
        "content.PostEdit": {
            "type": "object",
            "properties": {
                "description": {"type": "string"},
                "title": {"type": "string"}
            }
        },
        "httpapp.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "httpapp.signedChallenge": {
            "type": "object",
            "properties": {
                "alg": {"type": "string"},
                "challenge": {"type": "string"},
                "publicKey": {"type": "string"},
                "signature": {"type": "string"}
            }
        },
        "model.AccountKey": {
            "type": "object",
            "properties": {
                "alg": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "integer"},
                "publicKey": {"type": "string"},
                "revokedAt": {"type": "string"}
            }
        },
        "model.Comment": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "content": {"type": "string"},
                "createdAt": {"type": "string"},
                "id": {"type": "integer"},
                "replies": {"type": "array", "items": {"$ref": "#/definitions/model.Comment"}}
            }
        },
        "model.Post": {
            "type": "object",
            "properties": {
                "author": {"type": "string"},
                "comments": {"type": "array", "items": {"$ref": "#/definitions/model.Comment"}},
                "createdAt": {"type": "string"},
                "description": {"type": "string"},
                "id": {"type": "integer"},
                "likedBy": {"type": "array", "items": {"type": "string"}},
                "likes": {"type": "integer"},
                "title": {"type": "string"},
                "updatedAt": {"type": "string"}
            }
        },
        "model.Profile": {
            "type": "object",
            "properties": {
                "accountType": {"type": "string", "enum": ["public", "private"]},
                "createdAt": {"type": "string"},
                "email": {"type": "string"},
                "followRequests": {"type": "array", "items": {"type": "string"}},
                "following": {"type": "array", "items": {"type": "string"}},
                "keys": {"type": "array", "items": {"$ref": "#/definitions/model.AccountKey"}},
                "role": {"type": "string", "enum": ["ADMIN", "USER"]}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Bearer token from /api/login or /api/auth/verify",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Murmur API",
	Description:      "Posts, threaded comments, likes and a follow graph with public and private accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
