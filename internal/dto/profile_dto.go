package dto

import (
	"time"

	"github.com/google/uuid"
)

type SetupProfileRequest struct {
	DisplayName string `json:"display_name" validate:"required,min=2,max=100"`
	ShareToken  string `json:"share_token"`
	ShareType   string `json:"share_type" validate:"omitempty,oneof=page note"`
}

type ProfileResponse struct {
	UserId      uuid.UUID  `json:"user_id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	AvatarURL   *string    `json:"avatar_url,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Onboarded   bool       `json:"onboarded"`
	OnboardedAt *time.Time `json:"onboarded_at,omitempty"`
}

// PendingFork echoes the share context so the client can call the fork endpoint next.
type PendingFork struct {
	ShareToken string `json:"share_token"`
	ShareType  string `json:"share_type"`
}

type SetupProfileResponse struct {
	Profile     *ProfileResponse `json:"profile"`
	PendingFork *PendingFork     `json:"pending_fork,omitempty"`
}
