// Package oauthstate keeps the share context of a login between the redirect to the
// identity provider and the callback.
package oauthstate

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"vidnotes-be/internal/entity"
)

const DefaultTTL = 10 * time.Minute

// Login is what a pending login remembers. Share is nil for a plain sign in.
type Login struct {
	Provider string               `json:"provider"`
	Share    *entity.ShareContext `json:"share,omitempty"`
}

type Store interface {
	Save(ctx context.Context, state string, login Login) error
	// Take returns and forgets the entry. found is false for unknown or expired states.
	Take(ctx context.Context, state string) (login Login, found bool, err error)
}

// NewState returns a random opaque state value.
func NewState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
