// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"
)

// # User Data Access

// UserRepository defines the data access contract for user accounts.
//
// Lookups of absent rows return an [apperr.AppError] with code NOT_FOUND.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given normalized email.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: NOT_FOUND or database failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: CONFLICT on duplicate email, or persistence failures
	*/
	Create(context context.Context, user *User) error
}

// # Signin Throttling

// SigninThrottle counts failed signins per email within a sliding window.
type SigninThrottle interface {

	// Failures returns the current failure count and the time until it resets.
	Failures(context context.Context, email string) (int, time.Duration, error)

	// RecordFailure increments the counter, starting the window on first failure.
	RecordFailure(context context.Context, email string, window time.Duration) error

	// Reset clears the counter after a successful signin.
	Reset(context context.Context, email string) error
}

// NoopThrottle disables throttling. It is used when Redis is not configured.
type NoopThrottle struct{}

func (NoopThrottle) Failures(context.Context, string) (int, time.Duration, error) { return 0, 0, nil }

func (NoopThrottle) RecordFailure(context.Context, string, time.Duration) error { return nil }

func (NoopThrottle) Reset(context.Context, string) error { return nil }
