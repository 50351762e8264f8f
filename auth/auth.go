// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid token format")
	ErrExpiredToken       = errors.New("session token expired")
	ErrInvalidUsername    = errors.New("invalid username")
)

// Users holds password hashes keyed by username.
// A hash is either SHA-256 hex or a bcrypt hash ("$2a$", "$2b$", "$2y$").
type Users struct {
	hashes map[string]string
}

type usersFile struct {
	Users map[string]string `yaml:"users"`
}

// NewUsers validates usernames and copies the hash map
func NewUsers(hashes map[string]string) (*Users, error) {
	u := &Users{hashes: make(map[string]string, len(hashes))}
	for name, hash := range hashes {
		if name == "" || strings.ContainsAny(name, "|\n") {
			return nil, fmt.Errorf("%w: %q", ErrInvalidUsername, name)
		}
		u.hashes[name] = strings.TrimSpace(hash)
	}
	return u, nil
}

// ParseUsers reads the YAML users document
func ParseUsers(data []byte) (*Users, error) {
	var f usersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse users: %w", err)
	}
	return NewUsers(f.Users)
}

// LoadUsers reads the users file from disk
func LoadUsers(path string) (*Users, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read users file: %w", err)
	}
	return ParseUsers(data)
}

func (u *Users) Len() int { return len(u.hashes) }

// Authenticate checks a username and password against the stored hash
func (u *Users) Authenticate(username, password string) error {
	hash, ok := u.hashes[username]
	if !ok {
		// Burn comparable time so unknown users are not distinguishable
		hmac.Equal([]byte(HashPassword(password)), []byte(HashPassword("")))
		return ErrInvalidCredentials
	}

	if strings.HasPrefix(hash, "$2") {
		if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
			return ErrInvalidCredentials
		}
		return nil
	}

	if !hmac.Equal([]byte(strings.ToLower(hash)), []byte(HashPassword(password))) {
		return ErrInvalidCredentials
	}
	return nil
}

// HashPassword returns the SHA-256 hex digest used in users files
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// IssueSessionToken creates a signed token for username valid until now+ttl.
// Format: base64(expiry|nonce|username) "." base64(hmac-sha256)
func IssueSessionToken(username, salt string, ttl time.Duration, now time.Time) (string, time.Time) {
	expires := now.Add(ttl).UTC().Truncate(time.Second)
	payload := strconv.FormatInt(expires.Unix(), 10) + "|" + uuid.NewString() + "|" + username
	enc := base64.RawURLEncoding.EncodeToString([]byte(payload))
	return enc + "." + sign(enc, salt), expires
}

// ValidateSessionToken verifies the signature and expiry and returns the
// username
func ValidateSessionToken(token, salt string, now time.Time) (string, error) {
	enc, sig, ok := strings.Cut(token, ".")
	if !ok || enc == "" || sig == "" {
		return "", ErrInvalidToken
	}
	if !hmac.Equal([]byte(sig), []byte(sign(enc, salt))) {
		return "", ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(enc)
	if err != nil {
		return "", ErrInvalidToken
	}
	parts := strings.SplitN(string(raw), "|", 3)
	if len(parts) != 3 || parts[2] == "" {
		return "", ErrInvalidToken
	}
	exp, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}
	if !now.Before(time.Unix(exp, 0)) {
		return "", ErrExpiredToken
	}
	return parts[2], nil
}

func sign(payload, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(h.Sum(nil))
}

// HashIP creates a one-way hash of an IP address for privacy
// Includes salt to prevent rainbow table attacks
func HashIP(ip, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(ip))
	sum := h.Sum(nil)
	// Return first 16 hex chars (64 bits) - enough for log correlation
	return hex.EncodeToString(sum[:8])
}
