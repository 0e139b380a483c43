// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/inkpost/internal/platform/constants"
)

// RedisSigninThrottle implements [SigninThrottle] with expiring counters.
type RedisSigninThrottle struct {
	client *redis.Client
}

// NewRedisSigninThrottle creates a Redis-backed [SigninThrottle].
func NewRedisSigninThrottle(client *redis.Client) *RedisSigninThrottle {
	return &RedisSigninThrottle{client: client}
}

func signinAttemptsKey(email string) string {
	return constants.RedisPrefixSigninAttempts + email
}

/*
Failures returns the failure count for email and the remaining window.

Parameters:
  - context: context.Context
  - email: string (normalized)

Returns:
  - int: Failures recorded in the current window
  - time.Duration: Time until the counter expires
  - error: Connectivity errors
*/
func (throttle *RedisSigninThrottle) Failures(context context.Context, email string) (int, time.Duration, error) {
	key := signinAttemptsKey(email)

	count, err := throttle.client.Get(context, key).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, 0, nil
		}
		return 0, 0, fmt.Errorf("redis_signin_throttle_get_failed: %w", err)
	}

	ttl, err := throttle.client.TTL(context, key).Result()
	if err != nil {
		return 0, 0, fmt.Errorf("redis_signin_throttle_ttl_failed: %w", err)
	}

	return count, ttl, nil
}

/*
RecordFailure increments the failure counter, arming its expiry on first use.

Parameters:
  - context: context.Context
  - email: string (normalized)
  - window: time.Duration

Returns:
  - error: Connectivity errors
*/
func (throttle *RedisSigninThrottle) RecordFailure(context context.Context, email string, window time.Duration) error {
	key := signinAttemptsKey(email)

	count, err := throttle.client.Incr(context, key).Result()
	if err != nil {
		return fmt.Errorf("redis_signin_throttle_incr_failed: %w", err)
	}

	if count == 1 {
		if err := throttle.client.Expire(context, key, window).Err(); err != nil {
			return fmt.Errorf("redis_signin_throttle_expire_failed: %w", err)
		}
	}

	return nil
}

// Reset removes the failure counter for email.
func (throttle *RedisSigninThrottle) Reset(context context.Context, email string) error {
	if err := throttle.client.Del(context, signinAttemptsKey(email)).Err(); err != nil {
		return fmt.Errorf("redis_signin_throttle_reset_failed: %w", err)
	}
	return nil
}
