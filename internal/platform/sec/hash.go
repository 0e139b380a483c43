// Copyright (c) 2026 Inkpost. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes a plain-text password using the bcrypt algorithm.
//
// bcrypt salts every hash, so two calls with the same input never return the
// same string.
func HashPassword(plainTextPassword string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plainTextPassword), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("sec: failed to hash password: %w", err)
	}
	return string(hashedBytes), nil
}

// CheckPasswordHash compares a plain-text password with its hashed version.
func CheckPasswordHash(plainTextPassword, existingHash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(existingHash), []byte(plainTextPassword))
	return err == nil
}

// dummyHash is compared against when the account does not exist so that
// unknown emails and wrong passwords take comparable time.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("inkpost-timing-equalizer"), bcrypt.DefaultCost)

// BurnPasswordCheck performs a throwaway bcrypt comparison.
func BurnPasswordCheck(plainTextPassword string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plainTextPassword))
}
