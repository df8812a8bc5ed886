package api

import (
	"crypto/sha256"
	"crypto/subtle"

	"github.com/labstack/echo/v4"
)

// appKeyQueryParam carries the caller's application key. A query parameter
// keeps the trigger curl-able from cron jobs and uptime monitors.
const appKeyQueryParam = "app_key"

// authenticator validates app keys against the configured set. Keys are
// compared as SHA-256 digests in constant time so a partial match leaks
// nothing about the configured keys.
type authenticator struct {
	keyHashes [][sha256.Size]byte
}

func newAuthenticator(appKeys []string) *authenticator {
	a := &authenticator{}
	for _, key := range appKeys {
		a.keyHashes = append(a.keyHashes, sha256.Sum256([]byte(key)))
	}
	return a
}

func (a *authenticator) authenticate(appKey string) bool {
	if appKey == "" {
		return false
	}
	sum := sha256.Sum256([]byte(appKey))
	for _, stored := range a.keyHashes {
		if subtle.ConstantTimeCompare(sum[:], stored[:]) == 1 {
			return true
		}
	}
	return false
}

// requireAppKey is the authentication middleware for the trigger endpoints.
func (a *authenticator) requireAppKey(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.authenticate(c.QueryParam(appKeyQueryParam)) {
			return newUnauthorizedError("a valid app_key is required")
		}
		return next(c)
	}
}
