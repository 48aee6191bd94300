package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID
	Email     string
	FullName  string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type UserProvider struct {
	Id             uuid.UUID
	UserId         uuid.UUID
	ProviderName   string
	ProviderUserId string
	AvatarURL      string
	CreatedAt      time.Time
}

type Profile struct {
	UserId      uuid.UUID
	DisplayName string
	OnboardedAt time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// ExternalIdentity is what an identity provider hands back after a code exchange.
type ExternalIdentity struct {
	Provider       string
	ProviderUserId string
	Email          string
	FullName       string
	AvatarURL      string
}
