package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ShareKind is the closed set of shareable subjects.
type ShareKind string

const (
	ShareKindPage ShareKind = "page"
	ShareKindNote ShareKind = "note"
)

func ParseShareKind(s string) (ShareKind, error) {
	switch ShareKind(s) {
	case ShareKindPage:
		return ShareKindPage, nil
	case ShareKindNote:
		return ShareKindNote, nil
	}
	return "", fmt.Errorf("invalid share type %q", s)
}

func (k ShareKind) String() string {
	return string(k)
}

// ShareToken is the domain view of a page_shares or note_shares row.
type ShareToken struct {
	Id        uuid.UUID
	Kind      ShareKind
	SubjectId uuid.UUID
	Token     string
	CreatedBy uuid.UUID
	CreatedAt time.Time
	ExpiresAt *time.Time
}

func (t *ShareToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && !t.ExpiresAt.After(now)
}

// ShareContext travels with a login so the callback can fork after authentication.
type ShareContext struct {
	Token string    `json:"share_token"`
	Kind  ShareKind `json:"share_type"`
}

// NewShareContext returns nil when either part is missing or the kind is unknown.
func NewShareContext(token, kind string) *ShareContext {
	if token == "" || kind == "" {
		return nil
	}
	k, err := ParseShareKind(kind)
	if err != nil {
		return nil
	}
	return &ShareContext{Token: token, Kind: k}
}
