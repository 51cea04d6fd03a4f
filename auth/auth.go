// Copyright (c) 2025 Validtot.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidAdminKey  = errors.New("invalid admin key")
	ErrInvalidSignature = errors.New("invalid upload signature")
)

const totIDLen = 10

// GenerateTotID creates a short random base62 identifier for a tot.
// Ten characters over a 62-symbol alphabet makes collisions negligible.
func GenerateTotID() (string, error) {
	const base62Chars = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

	b := make([]byte, totIDLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate tot ID: %w", err)
	}
	for i := range b {
		b[i] = base62Chars[int(b[i])%len(base62Chars)]
	}
	return string(b), nil
}

// GenerateAdminKey creates an HMAC-based admin key for a tot
// This is deterministic and verifiable
func GenerateAdminKey(totID, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(totID))
	sum := h.Sum(nil)
	// Use URL-safe base64 and trim padding for cleaner keys
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateAdminKey checks if the provided admin key is valid for the tot
func ValidateAdminKey(totID, adminKey, salt string) error {
	expected := GenerateAdminKey(totID, salt)
	if !hmac.Equal([]byte(adminKey), []byte(expected)) {
		return ErrInvalidAdminKey
	}
	return nil
}

// SignUpload produces the signature for a signed upload URL covering the
// object name and the unix expiry second.
func SignUpload(objectName string, expires int64, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(objectName))
	h.Write([]byte{'|'})
	h.Write([]byte(strconv.FormatInt(expires, 10)))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyUpload checks an upload signature in constant time.
func VerifyUpload(objectName string, expires int64, sig, salt string) error {
	expected := SignUpload(objectName, expires, salt)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return ErrInvalidSignature
	}
	return nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword compares a plaintext password against a stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
