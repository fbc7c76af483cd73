package service

import (
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Clock returns the current time. Services take one so tests can pin it.
type Clock func() time.Time

func systemClock() time.Time { return time.Now().UTC() }

func orSystemClock(c Clock) Clock {
	if c == nil {
		return systemClock
	}
	return c
}

const tokenBytes = 18

// newToken returns an unguessable hex token for confirm/unsubscribe links.
func newToken() (string, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
