// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements user accounts and session token issuance.

# Architecture

  - Handler: signup, signin and the current-user endpoint.
  - Service: credential checks, password hashing and token issuance.
  - Repository: Postgres and SQLite user stores, plus the Redis signin throttle.

Tokens are stateless: nothing about a session is stored server-side.
*/
package auth

import "time"

// # Domain Entities

// User represents a registered author.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         *string   `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session is the payload returned by signup and signin.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// # Field Identifiers

const (
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldName     = "name"
)

// # Input Bounds

const (
	PasswordMinLength = 6
	PasswordMaxLength = 100
	NameMaxLength     = 100

	// PasswordMaxBytes is the most bcrypt will hash.
	PasswordMaxBytes = 72
)
