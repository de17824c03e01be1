package utils

import (
	"github.com/google/uuid"
)

// NewInvitationToken returns the token a user hands to their future duo
// partner. Stored once at registration, never rotated.
func NewInvitationToken() string {
	return uuid.NewString()
}
