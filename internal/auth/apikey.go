package auth

import (
	"crypto/subtle"
	"errors"
)

var ErrInvalidAPIKey = errors.New("invalid API key")

// APIKeyChecker compares a presented key against the configured shared
// secret in constant time. A missing key is not this layer's concern;
// the gatekeeper decides whether the matched tier tolerates it.
type APIKeyChecker struct {
	key []byte
}

func NewAPIKeyChecker(key string) *APIKeyChecker {
	return &APIKeyChecker{key: []byte(key)}
}

func (c *APIKeyChecker) Check(presented string) error {
	if len(c.key) == 0 {
		return ErrInvalidAPIKey
	}
	if subtle.ConstantTimeCompare(c.key, []byte(presented)) != 1 {
		return ErrInvalidAPIKey
	}
	return nil
}
