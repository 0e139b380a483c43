// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/taibuivan/inkpost/internal/platform/apperr"
	"github.com/taibuivan/inkpost/internal/platform/ctxutil"
	"github.com/taibuivan/inkpost/internal/platform/sec"
	"github.com/taibuivan/inkpost/internal/platform/validate"
	"github.com/taibuivan/inkpost/pkg/normalize"
	"github.com/taibuivan/inkpost/pkg/uuid"
)

// # Contracts & Types

// TokenProvider issues session tokens for a user id.
type TokenProvider interface {
	Issue(userID string) (string, error)
}

// ThrottlePolicy bounds failed signins per email.
type ThrottlePolicy struct {
	MaxAttempts int
	Window      time.Duration
}

// errInvalidCredentials is shared by the unknown-email and wrong-password paths.
func errInvalidCredentials() *apperr.AppError {
	return apperr.Unauthorized("Invalid credentials")
}

// Service implements account use cases.
type Service struct {
	userRepository UserRepository
	throttle       SigninThrottle
	policy         ThrottlePolicy
	tokenProvider  TokenProvider
}

// NewService constructs a new [Service].
//
// A nil throttle disables signin throttling.
func NewService(userRepo UserRepository, throttle SigninThrottle, policy ThrottlePolicy, tokenProv TokenProvider) *Service {
	if throttle == nil {
		throttle = NoopThrottle{}
	}
	return &Service{
		userRepository: userRepo,
		throttle:       throttle,
		policy:         policy,
		tokenProvider:  tokenProv,
	}
}

// # Registration

// SignupInput holds the data required to create an account.
type SignupInput struct {
	Email    string
	Password string
	Name     *string
}

/*
Signup creates an account and returns a session for it.

Parameters:
  - context: context.Context
  - input: SignupInput (already validated)

Returns:
  - *Session: Token plus the created user
  - error: Conflict if the email is taken, or storage errors
*/
func (service *Service) Signup(context context.Context, input SignupInput) (*Session, error) {
	email := normalize.Email(input.Email)

	_, err := service.userRepository.FindByEmail(context, email)
	if err == nil {
		return nil, apperr.Conflict("Email is already registered")
	}
	if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         input.Name,
		PasswordHash: hashedPassword,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// A concurrent signup with the same email surfaces here as a Conflict.
	if err := service.userRepository.Create(context, user); err != nil {
		if apperr.HasCode(err, apperr.CodeConflict) {
			return nil, apperr.Conflict("Email is already registered")
		}
		return nil, err
	}

	ctxutil.GetLogger(context).InfoContext(context, "user_signed_up", slog.String("user_id", user.ID))

	return service.session(user)
}

// # Authentication

// SigninInput holds the credentials presented at signin.
type SigninInput struct {
	Email    string
	Password string
}

/*
Signin verifies credentials and returns a fresh session.

Description: Unknown emails and wrong passwords fail identically. When a
throttle is configured, repeated failures for one email are rejected with 429
until the window expires.

Parameters:
  - context: context.Context
  - input: SigninInput

Returns:
  - *Session: Token plus the user
  - error: Unauthorized, RateLimited, or storage errors
*/
func (service *Service) Signin(context context.Context, input SigninInput) (*Session, error) {
	logger := ctxutil.GetLogger(context)
	email := normalize.Email(input.Email)

	if err := service.checkThrottle(context, email); err != nil {
		return nil, err
	}

	user, err := service.userRepository.FindByEmail(context, email)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, err
		}
		sec.BurnPasswordCheck(input.Password)
		service.recordFailure(context, email)
		return nil, errInvalidCredentials()
	}

	if !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure(context, email)
		logger.InfoContext(context, "user_signin_failed", slog.String("user_id", user.ID))
		return nil, errInvalidCredentials()
	}

	if err := service.throttle.Reset(context, email); err != nil {
		logger.WarnContext(context, "signin_throttle_reset_failed", slog.Any("error", err))
	}

	return service.session(user)
}

// checkThrottle fails open: a throttle outage never blocks signin.
func (service *Service) checkThrottle(context context.Context, email string) error {
	if service.policy.MaxAttempts <= 0 {
		return nil
	}

	failures, remaining, err := service.throttle.Failures(context, email)
	if err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "signin_throttle_unavailable", slog.Any("error", err))
		return nil
	}

	if failures >= service.policy.MaxAttempts {
		retryAfter := int(math.Ceil(remaining.Seconds()))
		if retryAfter <= 0 {
			retryAfter = int(service.policy.Window.Seconds())
		}
		return apperr.RateLimited(retryAfter)
	}

	return nil
}

func (service *Service) recordFailure(context context.Context, email string) {
	if service.policy.MaxAttempts <= 0 {
		return
	}
	if err := service.throttle.RecordFailure(context, email, service.policy.Window); err != nil {
		ctxutil.GetLogger(context).WarnContext(context, "signin_throttle_record_failed", slog.Any("error", err))
	}
}

// # Identity

/*
Me returns the account behind an authenticated request.

Description: A token whose user no longer exists is reported as an invalid
token rather than a missing resource.

Parameters:
  - context: context.Context
  - userID: string (from the verified token)

Returns:
  - *User: The account
  - error: InvalidToken, or storage errors
*/
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	user, err := service.Lookup(context, userID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.InvalidToken()
		}
		return nil, err
	}
	return user, nil
}

// Lookup returns the user with userID, or NOT_FOUND. Ids that are not UUIDs
// cannot exist and are reported as NOT_FOUND without a query.
func (service *Service) Lookup(context context.Context, userID string) (*User, error) {
	if !validate.IsUUID(userID) {
		return nil, apperr.NotFound("User")
	}
	return service.userRepository.FindByID(context, userID)
}

func (service *Service) session(user *User) (*Session, error) {
	token, err := service.tokenProvider.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
	}
	return &Session{Token: token, User: user}, nil
}
